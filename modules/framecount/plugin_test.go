package framecount

import (
	"math"
	"testing"

	"github.com/specialistvlad/tickgrid/internal/app"
	"github.com/specialistvlad/tickgrid/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlugin_CountsLoopFrames(t *testing.T) {
	t.Parallel()

	a, _ := app.SetupAppTest(t, nil, nil, &Plugin{})

	for i := 0; i < 4; i++ {
		require.NoError(t, a.Update())
	}

	fc, ok := world.Get[FrameCount](a.World())
	require.True(t, ok)
	assert.Equal(t, uint32(3), fc.Value, "the startup pass has no Last phase")
}

func TestPlugin_Wraps(t *testing.T) {
	t.Parallel()

	a, _ := app.SetupAppTest(t, nil, nil, &Plugin{})
	world.Insert(a.World(), FrameCount{Value: math.MaxUint32})

	require.NoError(t, a.Update())
	require.NoError(t, a.Update())

	assert.Equal(t, uint32(0), world.MustGet[FrameCount](a.World()).Value)
}
