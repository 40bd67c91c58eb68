package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ShaderCompiles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trimix_shader_compiles_total",
		Help: "Total number of shader compilations by stage and result",
	}, []string{"stage", "result"})
	ProgramLinks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trimix_program_links_total",
		Help: "Total number of program links by result",
	}, []string{"result"})
	Frames = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trimix_frames_total",
		Help: "Total number of frames rendered",
	})
	DrawCalls = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trimix_draw_calls_total",
		Help: "Total number of draw calls issued",
	})
	GPUObjects = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "trimix_gpu_objects",
		Help: "Number of live GPU objects by kind",
	}, []string{"kind"})
)

// Handler should usually be mounted at /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
