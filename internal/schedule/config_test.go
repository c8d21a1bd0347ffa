package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func noop(*Context) error { return nil }

func TestTaskConfig_IsImmutable(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	base := Func("a", noop).Before("x")

	// --- Act ---
	left := base.Before("left")
	right := base.Before("right")

	// --- Assert ---
	assert.Equal(t, []string{"x"}, base.before, "receiver must not change")
	assert.Equal(t, []string{"x", "left"}, left.before)
	assert.Equal(t, []string{"x", "right"}, right.before, "siblings must not share a backing array")
}

func TestTaskConfig_Builders(t *testing.T) {
	t.Parallel()

	always := func(*Context) bool { return true }
	cfg := Func("move", noop).
		After("input").
		InSet("physics").
		RunIf(always).
		AmbiguousWith("audio").
		AmbiguousWithAll()

	assert.Equal(t, "move", cfg.Name())
	assert.Equal(t, []string{"input"}, cfg.after)
	assert.Equal(t, []SetLabel{"physics"}, cfg.sets)
	assert.Len(t, cfg.conditions, 1)
	assert.Equal(t, []string{"audio"}, cfg.ambiguousWith)
	assert.True(t, cfg.ambiguousWithAll)
}

func TestSetConfig_IsImmutable(t *testing.T) {
	t.Parallel()

	base := ConfigureSet("input").After("first")
	nested := base.InSet("frame")
	ordered := base.Before("physics")

	assert.Equal(t, SetLabel("input"), base.Label())
	assert.Empty(t, base.parents)
	assert.Empty(t, base.before)
	assert.Equal(t, []SetLabel{"frame"}, nested.parents)
	assert.Equal(t, []string{"physics"}, ordered.before)
	assert.Empty(t, ordered.parents)
}

func TestParseAmbiguityReport(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    AmbiguityReport
		wantErr bool
	}{
		{"", ReportWarn, false},
		{"warn", ReportWarn, false},
		{"ignore", ReportIgnore, false},
		{"error", ReportError, false},
		{"loud", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmbiguityReport(tt.in)
			if tt.wantErr {
				assert.ErrorContains(t, err, "invalid ambiguity report")
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
