package stats_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/fosdem/trimix/lib/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdate(t *testing.T) {
	s := stats.New()
	for i := 0; i < 9; i++ {
		s.Update(100*time.Millisecond, 2)
	}
	assert.Equal(t, uint64(0), s.FPS, "fps is computed once a second has passed")

	s.Update(100*time.Millisecond, 2)
	assert.Equal(t, uint64(10), s.Frames)
	assert.Equal(t, uint64(10), s.FPS)
	assert.Equal(t, 100.0, s.FrameTime)
	assert.Equal(t, 2, s.Units)
}

func TestMarshalJSON(t *testing.T) {
	s := stats.New()
	s.Update(20*time.Millisecond, 1)
	s.SetWsClients(3)

	b, err := json.Marshal(s)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.EqualValues(t, 1, got["frames"])
	assert.EqualValues(t, 3, got["ws_clients"])
	assert.EqualValues(t, 20, got["frame_time_ms"])
	assert.Contains(t, got, "uptime")
}
