package errors

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindUnknown},
		{"plain error", New("boom"), KindUnknown},
		{"cycle", &CycleError{Phase: "Update", Tasks: []string{"a", "b"}}, KindCycle},
		{"duplicate plugin", &DuplicatePluginError{Name: "p"}, KindDuplicatePlugin},
		{"lifecycle", &LifecycleError{Op: "add plugin", State: "finished"}, KindLifecycle},
		{"reentrancy", &ReentrancyError{Op: "update", Reason: "inside build"}, KindReentrancy},
		{"ambiguity", &AmbiguityError{Phase: "Update"}, KindAmbiguity},
		{"task", &TaskError{Phase: "Update", Task: "t", Err: io.EOF}, KindTask},
		{"wrapped cycle", fmt.Errorf("startup: %w", &CycleError{Phase: "Startup"}), KindCycle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestSentinelsMatchTypedErrors(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, &CycleError{}, ErrCycle)
	assert.ErrorIs(t, &DuplicatePluginError{}, ErrDuplicatePlugin)
	assert.ErrorIs(t, &LifecycleError{}, ErrLifecycleClosed)
	assert.ErrorIs(t, &ReentrancyError{}, ErrReentrantAdvance)
	assert.ErrorIs(t, &AmbiguityError{}, ErrAmbiguity)

	// Kinds stay distinguishable from each other.
	assert.NotErrorIs(t, &CycleError{}, ErrDuplicatePlugin)
	assert.NotErrorIs(t, &DuplicatePluginError{}, ErrLifecycleClosed)
}

func TestTaskError_UnwrapsCauseAndSentinel(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("tick 3: %w", &TaskError{Phase: "Update", Task: "physics", Err: io.ErrUnexpectedEOF})

	assert.ErrorIs(t, err, ErrTaskFailed)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	var taskErr *TaskError
	require.True(t, As(err, &taskErr))
	assert.Equal(t, "physics", taskErr.Task)
	assert.Contains(t, err.Error(), `task "physics" failed`)
}

func TestErrorMessages(t *testing.T) {
	t.Parallel()

	cycle := &CycleError{Phase: "Update", Tasks: []string{"a", "b"}}
	assert.Equal(t, `phase "Update": dependency cycle involving tasks: a, b`, cycle.Error())

	dup := &DuplicatePluginError{Name: "framecount"}
	assert.Contains(t, dup.Error(), `"framecount"`)

	amb := &AmbiguityError{Phase: "Update", Pairs: [][2]string{{"a", "b"}}}
	assert.Contains(t, amb.Error(), "a <-> b")
}

func TestKind_Fatal(t *testing.T) {
	t.Parallel()

	assert.True(t, KindCycle.Fatal())
	assert.True(t, KindDuplicatePlugin.Fatal())
	assert.True(t, KindLifecycle.Fatal())
	assert.True(t, KindReentrancy.Fatal())
	assert.False(t, KindTask.Fatal())
	assert.False(t, KindUnknown.Fatal())
}
