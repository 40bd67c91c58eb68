package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/pprof"
	"sync"
	"time"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/fosdem/trimix/lib/api/docs"
	"github.com/fosdem/trimix/lib/config"
	"github.com/fosdem/trimix/lib/metrics"
	"github.com/fosdem/trimix/lib/stats"
	"github.com/fosdem/trimix/lib/theatre"
)

type Api struct {
	srv     http.Server
	mux     *http.ServeMux
	cfg     *config.ApiCfg
	theatre *theatre.Theatre

	Stats *stats.Stats

	wsMu      sync.Mutex
	wsClients map[*wsClient]struct{}
}

func New(cfg *config.ApiCfg, t *theatre.Theatre, st *stats.Stats) *Api {
	a := &Api{}
	a.cfg = cfg
	a.mux = http.NewServeMux()
	a.theatre = t
	a.srv.Addr = cfg.Bind
	a.srv.Handler = a.mux
	a.wsClients = make(map[*wsClient]struct{})
	a.Stats = st

	t.AddEventListener("build", func(t *theatre.Theatre, data interface{}) {
		event := data.(theatre.EventDataBuild)
		packet, err := json.Marshal(event)
		if err != nil {
			return
		}
		a.broadcast(packet)
	})

	a.routes()
	return a
}

func (a *Api) routes() {
	if a.cfg.EnableProfiler {
		a.mux.HandleFunc("/prof", a.profileCPU)
	}
	a.mux.HandleFunc("/api/kill", a.suicide)
	a.mux.HandleFunc("/api/stats", a.getStats)
	a.mux.HandleFunc("/api/programs", a.getPrograms)
	a.mux.HandleFunc("/api/reload", a.handleReload)
	a.mux.HandleFunc("/api/reload/{unit}", a.handleReload)
	a.mux.HandleFunc("/api/ws", a.handleWebsocket)
	a.mux.Handle("/metrics", metrics.Handler())
	a.mux.Handle("/swagger/", httpSwagger.WrapHandler)
}

func (a *Api) Handler() http.Handler {
	return a.mux
}

func (a *Api) Serve() error {
	return a.srv.ListenAndServe()
}

// @Summary	Rebuild the program of one unit, or of all units
// @Router		/api/reload [post]
// @Router		/api/reload/{unit} [post]
// @Tags		programs
// @Param		unit	path	string	false	"Name of the unit to rebuild"
// @Success	202	{string}	string	"ok"
// @Failure	404	{string}	string	"The unit does not exist"
// @Failure	405	{string}	string	"Only POST is supported"
func (a *Api) handleReload(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		http.Error(w, "Invalid method, only POST supported", http.StatusMethodNotAllowed)
		return
	}

	err := a.theatre.RequestReload(req.PathValue("unit"))
	if err != nil {
		http.Error(w, fmt.Sprintf("could not reload: %s", err), http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusAccepted)
	_, err = fmt.Fprintf(w, "\"ok\"\n")
	if err != nil {
		slog.Error(fmt.Sprintf("could not write response: %s", err), slog.String("module", "api"))
	}
}

// @Summary	Latest build status and diagnostics of every program
// @Router		/api/programs [get]
// @Tags		programs
// @Produce	json
// @Success	200	{array}	theatre.BuildReport
func (a *Api) getPrograms(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	encoder := json.NewEncoder(w)
	err := encoder.Encode(a.theatre.Reports())
	if err != nil {
		http.Error(w, fmt.Sprintf("couldn't encode build reports: %s", err), http.StatusInternalServerError)
		return
	}
}

func (a *Api) profileCPU(w http.ResponseWriter, _ *http.Request) {
	err := pprof.StartCPUProfile(w)
	if err != nil {
		http.Error(w, fmt.Sprintf("Could not start CPU profile: %s", err), http.StatusInternalServerError)
		return
	}
	time.Sleep(10 * time.Second)
	pprof.StopCPUProfile()
}

// @Summary	Stop rendering and exit
// @Router		/api/kill [post]
// @Tags		base
// @Success	200	{string}	string	"ok"
func (a *Api) suicide(w http.ResponseWriter, _ *http.Request) {
	slog.Info("shutting down as per api request", slog.String("module", "api"))
	a.theatre.RequestShutdown()
	_, err := fmt.Fprintf(w, "\"ok\"\n")
	if err != nil {
		slog.Error(fmt.Sprintf("could not write response: %s", err), slog.String("module", "api"))
	}
}

// @Summary	Renderer statistics
// @Router		/api/stats [get]
// @Tags		base
// @Produce	json
// @Success	200	{object}	stats.Stats
func (a *Api) getStats(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	encoder := json.NewEncoder(w)
	err := encoder.Encode(a.Stats)
	if err != nil {
		http.Error(w, fmt.Sprintf("could encode stats: %s", err), http.StatusInternalServerError)
		return
	}
}

// ServeInBackground starts the api when cfg is set and returns it, or nil.
func ServeInBackground(t *theatre.Theatre, cfg *config.ApiCfg, st *stats.Stats) *Api {
	var theApi *Api
	if cfg != nil {
		theApi = New(cfg, t, st)

		slog.Info(fmt.Sprintf("starting web server on %s", cfg.Bind), slog.String("module", "api"))
		go func() {
			err := theApi.Serve()
			if err != nil {
				slog.Error(fmt.Sprintf("could not start web server: %s", err), slog.String("module", "api"))
				t.RequestShutdown()
			}
		}()
	}
	return theApi
}
