package frameloop_test

import (
	"testing"

	"github.com/fosdem/trimix/lib/config"
	"github.com/fosdem/trimix/lib/frameloop"
	"github.com/fosdem/trimix/lib/gpu/softgpu"
	"github.com/fosdem/trimix/lib/rendering"
	"github.com/fosdem/trimix/lib/stats"
	"github.com/fosdem/trimix/lib/theatre"
	"github.com/fosdem/trimix/lib/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSurface struct {
	swaps      int
	polls      int
	closeAfter int
	onPoll     func()
}

func (s *fakeSurface) ShouldClose() bool {
	return s.swaps >= s.closeAfter
}

func (s *fakeSurface) SwapBuffers() {
	s.swaps++
}

func (s *fakeSurface) PollEvents() {
	s.polls++
	if s.onPoll != nil {
		s.onPoll()
	}
}

func setup(t *testing.T) (*softgpu.Device, *rendering.Renderer, *theatre.Theatre) {
	t.Helper()
	cfg := config.Default()
	th, err := theatre.Load(cfg)
	require.NoError(t, err)

	d := softgpu.New(80, 60)
	require.NoError(t, th.Build(d))
	t.Cleanup(th.Release)

	r := rendering.NewRenderer(d, utils.ColourParse(cfg.BackgroundColour))
	r.Resize(80, 60)
	return d, r, th
}

func TestRunUntilClose(t *testing.T) {
	d, r, th := setup(t)
	surface := &fakeSurface{closeAfter: 3}
	st := stats.New()

	frameloop.Run(surface, r, th, st)

	assert.Equal(t, 3, surface.swaps)
	assert.Equal(t, 3, surface.polls)
	assert.Equal(t, 6, d.DrawCalls())
	assert.Equal(t, uint64(3), st.Frames)
	assert.Equal(t, 2, st.Units)
	assert.NoError(t, d.Err())
}

func TestRunStopsOnShutdownRequest(t *testing.T) {
	_, r, th := setup(t)
	surface := &fakeSurface{closeAfter: 100, onPoll: th.RequestShutdown}

	frameloop.Run(surface, r, th, nil)

	assert.Equal(t, 1, surface.swaps)
}

func TestRunAppliesQueuedReloads(t *testing.T) {
	_, r, th := setup(t)
	require.NoError(t, th.RequestReload(""))

	frameloop.Run(&fakeSurface{closeAfter: 1}, r, th, nil)

	for _, report := range th.Reports() {
		assert.Equal(t, 2, report.Builds, report.Unit)
		assert.True(t, report.Linked)
	}
}
