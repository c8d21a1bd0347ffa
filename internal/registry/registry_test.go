package registry

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/specialistvlad/tickgrid/internal/ctxlog"
	"github.com/specialistvlad/tickgrid/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type anonPlugin struct{}

type namedPlugin struct{ name string }

func (p *namedPlugin) Name() string { return p.name }

type sharedPlugin struct{ id int }

func (p *sharedPlugin) IsUnique() bool { return false }

func TestNameOf(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "*registry.anonPlugin", NameOf(&anonPlugin{}))
	assert.Equal(t, "render", NameOf(&namedPlugin{name: "render"}))
}

func TestRegistry_Add(t *testing.T) {
	t.Parallel()

	t.Run("unique plugins are rejected the second time", func(t *testing.T) {
		r := New()
		_, err := r.Add(&namedPlugin{name: "render"})
		require.NoError(t, err)

		_, err = r.Add(&namedPlugin{name: "render"})
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrDuplicatePlugin)
		var dup *errors.DuplicatePluginError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "render", dup.Name)
		assert.Equal(t, 1, r.Len())
	})

	t.Run("non-unique plugins may repeat", func(t *testing.T) {
		r := New()
		_, err := r.Add(&sharedPlugin{id: 1})
		require.NoError(t, err)
		_, err = r.Add(&sharedPlugin{id: 2})
		require.NoError(t, err)

		got := r.Get("*registry.sharedPlugin")
		require.Len(t, got, 2)
		assert.Equal(t, 1, got[0].(*sharedPlugin).id)
		assert.Equal(t, 2, got[1].(*sharedPlugin).id)
	})

	t.Run("check does not modify", func(t *testing.T) {
		r := New()
		require.NoError(t, r.CheckAdd(&anonPlugin{}))
		assert.False(t, r.IsAdded("*registry.anonPlugin"))
	})
}

func TestRegistry_OrderAndNames(t *testing.T) {
	t.Parallel()

	r := New()
	for _, p := range []any{&namedPlugin{name: "b"}, &sharedPlugin{}, &namedPlugin{name: "a"}, &sharedPlugin{}} {
		_, err := r.Add(p)
		require.NoError(t, err)
	}

	names := make([]string, 0)
	for _, e := range r.All() {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"b", "*registry.sharedPlugin", "a", "*registry.sharedPlugin"}, names)
	assert.Equal(t, []string{"b", "*registry.sharedPlugin", "a"}, r.Names())
	assert.Empty(t, r.Get("missing"))
}

func TestRegistry_Unconfigured(t *testing.T) {
	t.Parallel()

	ctx := ctxlog.WithLogger(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := New()
	_, err := r.Add(&namedPlugin{name: "diagnostics"})
	require.NoError(t, err)

	missing := r.Unconfigured(ctx, []string{"remote", "diagnostics", "remote", "bogus"})
	assert.Equal(t, []string{"bogus", "remote"}, missing)
}
