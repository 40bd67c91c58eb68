package theatre

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fosdem/trimix/lib/config"
	"github.com/fosdem/trimix/lib/gpu"
	"github.com/fosdem/trimix/lib/rendering"
	"github.com/fosdem/trimix/lib/shaders"
	"github.com/fosdem/trimix/lib/utils"
)

const reloadQueue = 16

// BuildReport is the outcome of the latest program build of a unit.
type BuildReport struct {
	Unit           string    `json:"unit"`
	VertexShader   string    `json:"vertex_shader"`
	FragmentShader string    `json:"fragment_shader"`
	Linked         bool      `json:"linked"`
	Log            string    `json:"log,omitempty"`
	// Builds counts the builds of the unit and orders its build events.
	Builds         int       `json:"builds"`
	BuiltAt        time.Time `json:"built_at"`
}

type unitSources struct {
	vertex   *shaders.Source
	fragment *shaders.Source
}

// Theatre owns the units described by the config. Units, Build, Reload,
// ApplyReloads and Release must only be used from the render thread; the
// request, report and shutdown methods are safe from any goroutine.
type Theatre struct {
	Units []*rendering.Unit

	cfg      *config.Config
	shaderer *shaders.Shaderer
	sources  map[string]*unitSources
	driver   gpu.Driver
	builder  *shaders.Builder

	shutdownRequested atomic.Bool
	reloads           chan string

	reportMu sync.Mutex
	reports  map[string]*BuildReport

	listenerMu  sync.Mutex
	listener    map[string][]EventListener
	pending     []func()
	dispatching bool

	watchers []closer
	watching sync.WaitGroup
}

type closer interface {
	Close() error
}

// Load reads every shader source named by the config. Nothing is created
// on the GPU, so a missing file aborts before any GPU work is done.
func Load(cfg *config.Config) (*Theatre, error) {
	shaderer, err := shaders.NewShaderer()
	if err != nil {
		return nil, fmt.Errorf("could not parse builtin shaders: %w", err)
	}

	t := &Theatre{
		cfg:      cfg,
		shaderer: shaderer,
		sources:  make(map[string]*unitSources),
		reloads:  make(chan string, reloadQueue),
		reports:  make(map[string]*BuildReport),
		listener: make(map[string][]EventListener),
	}

	for _, u := range cfg.Units {
		src, err := t.loadSources(u)
		if err != nil {
			return nil, fmt.Errorf("unit %s: %w", u.Name, err)
		}
		t.sources[u.Name] = src
	}
	return t, nil
}

func (t *Theatre) loadSources(u *config.UnitCfg) (*unitSources, error) {
	var err error
	src := &unitSources{}

	if u.VertexShader != "" {
		src.vertex, err = shaders.LoadSource(string(u.VertexShader), gpu.VertexShader)
	} else {
		src.vertex, err = t.shaderer.Builtin(shaders.BuiltinVertex, gpu.VertexShader, &shaders.ShaderData{})
	}
	if err != nil {
		return nil, err
	}

	if u.FragmentShader != "" {
		src.fragment, err = shaders.LoadSource(string(u.FragmentShader), gpu.FragmentShader)
	} else {
		src.fragment, err = t.shaderer.Builtin(shaders.BuiltinFragment, gpu.FragmentShader, &shaders.ShaderData{
			Colour: utils.ColourParse(u.Colour),
		})
	}
	if err != nil {
		return nil, err
	}
	return src, nil
}

// Build compiles and links every program and creates the resource sets,
// in config order. On error everything created so far is released.
func (t *Theatre) Build(d gpu.Driver) error {
	policy := shaders.BestEffort
	if t.cfg.StrictBuild {
		policy = shaders.Strict
	}
	t.driver = d
	t.builder = &shaders.Builder{Driver: d, Policy: policy}

	for _, u := range t.cfg.Units {
		src := t.sources[u.Name]
		program, err := t.builder.Build(u.Name, src.vertex, src.fragment)
		if err != nil {
			t.Release()
			return fmt.Errorf("unit %s: %w", u.Name, err)
		}
		t.report(u.Name, src, program)

		resources := rendering.NewResourceSet(d, u.Vertices, rendering.PackedLayout(t.cfg.Components), u.First, u.Count)
		t.Units = append(t.Units, &rendering.Unit{
			Name:      u.Name,
			Program:   program,
			Resources: resources,
		})
	}

	if t.cfg.WatchShaders {
		t.watchShaders()
	}
	return nil
}

func (t *Theatre) report(name string, src *unitSources, program *shaders.LinkedProgram) {
	t.reportMu.Lock()
	r, ok := t.reports[name]
	if !ok {
		r = &BuildReport{Unit: name}
		t.reports[name] = r
	}
	r.VertexShader = src.vertex.Name
	r.FragmentShader = src.fragment.Name
	r.Linked = program.OK
	r.Log = program.Log
	r.Builds++
	r.BuiltAt = time.Now()
	event := EventDataBuild{Event: "build", BuildReport: *r}
	t.reportMu.Unlock()

	t.invoke("build", event)
}

// Reports returns the latest build report of every unit, in config order.
func (t *Theatre) Reports() []BuildReport {
	t.reportMu.Lock()
	defer t.reportMu.Unlock()

	var reports []BuildReport
	for _, u := range t.cfg.Units {
		if r, ok := t.reports[u.Name]; ok {
			reports = append(reports, *r)
		}
	}
	return reports
}

func (t *Theatre) UnitNames() []string {
	var names []string
	for _, u := range t.cfg.Units {
		names = append(names, u.Name)
	}
	return names
}

// RequestReload queues a rebuild of the named unit, or of every unit when
// name is empty. The rebuild happens in ApplyReloads.
func (t *Theatre) RequestReload(name string) error {
	if name != "" && !slices.Contains(t.UnitNames(), name) {
		return fmt.Errorf("no unit named %s", name)
	}
	select {
	case t.reloads <- name:
	default:
		slog.Warn("reload queue is full, dropping request", slog.String("module", "theatre"))
	}
	return nil
}

// ApplyReloads runs the queued rebuilds.
func (t *Theatre) ApplyReloads() {
	for {
		select {
		case name := <-t.reloads:
			names := []string{name}
			if name == "" {
				names = t.UnitNames()
			}
			for _, n := range names {
				if err := t.Reload(n); err != nil {
					slog.Error(fmt.Sprintf("could not reload %s: %s", n, err), slog.String("module", "theatre"))
				}
			}
		default:
			return
		}
	}
}

// Reload rereads the sources of a unit and rebuilds its program. The old
// program is replaced only when the new one links; otherwise the new one is
// discarded and the unit keeps drawing with the old one.
func (t *Theatre) Reload(name string) error {
	var unit *rendering.Unit
	for _, u := range t.Units {
		if u.Name == name {
			unit = u
		}
	}
	var unitCfg *config.UnitCfg
	for _, u := range t.cfg.Units {
		if u.Name == name {
			unitCfg = u
		}
	}
	if unit == nil || unitCfg == nil {
		return fmt.Errorf("no unit named %s", name)
	}

	src, err := t.loadSources(unitCfg)
	if err != nil {
		return err
	}

	program, err := t.builder.Build(name, src.vertex, src.fragment)
	if err != nil {
		return err
	}
	t.report(name, src, program)
	if !program.OK {
		program.Delete(t.driver)
		return program.Err()
	}

	t.sources[name] = src
	unit.Program.Delete(t.driver)
	unit.Program = program
	slog.Info(fmt.Sprintf("reloaded %s", name), slog.String("module", "theatre"))
	return nil
}

func (t *Theatre) RequestShutdown() {
	t.shutdownRequested.Store(true)
}

func (t *Theatre) ShutdownRequested() bool {
	return t.shutdownRequested.Load()
}

// Release deletes every GPU object owned by the units and stops the shader
// watchers, waiting for them to exit. It is safe to call more than once.
func (t *Theatre) Release() {
	for _, w := range t.watchers {
		_ = w.Close()
	}
	t.watchers = nil
	t.watching.Wait()

	if t.driver == nil {
		return
	}
	for _, u := range t.Units {
		u.Release(t.driver)
	}
	t.Units = nil
}
