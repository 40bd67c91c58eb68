package stats

import (
	"encoding/json"
	"sync"
	"time"
)

type Stats struct {
	Frames    uint64  `json:"frames"`
	FPS       uint64  `json:"fps"`
	FrameTime float64 `json:"frame_time_ms"`
	Uptime    float64 `json:"uptime"`
	Units     int     `json:"units"`
	WsClients int     `json:"ws_clients"`

	mu           sync.Mutex
	frameCounter uint64
	frameTimer   time.Duration
	start        time.Time
}

func New() *Stats {
	s := &Stats{}
	s.start = time.Now()
	return s
}

// Update records one rendered frame that took dt.
func (s *Stats) Update(dt time.Duration, units int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Frames++
	s.frameCounter++
	s.frameTimer += dt
	if s.frameTimer >= 1*time.Second {
		s.FPS = uint64(float64(s.frameCounter) / s.frameTimer.Seconds())
		s.frameCounter = 0
		s.frameTimer = 0
	}

	s.FrameTime = float64(dt.Microseconds()) / 1000
	s.Units = units
	s.Uptime = time.Since(s.start).Seconds()
}

func (s *Stats) SetWsClients(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.WsClients = n
}

func (s *Stats) MarshalJSON() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	type plain struct {
		Frames    uint64  `json:"frames"`
		FPS       uint64  `json:"fps"`
		FrameTime float64 `json:"frame_time_ms"`
		Uptime    float64 `json:"uptime"`
		Units     int     `json:"units"`
		WsClients int     `json:"ws_clients"`
	}
	return json.Marshal(plain{
		Frames:    s.Frames,
		FPS:       s.FPS,
		FrameTime: s.FrameTime,
		Uptime:    s.Uptime,
		Units:     s.Units,
		WsClients: s.WsClients,
	})
}
