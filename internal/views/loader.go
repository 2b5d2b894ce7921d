// internal/views/loader.go
package views

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mwiater/greenview/internal/logging"
	"github.com/mwiater/greenview/internal/reshape"
	"github.com/mwiater/greenview/internal/source"
	"github.com/mwiater/greenview/internal/telemetry"
)

// State is a view's load state.
type State int

const (
	Idle State = iota
	Loading
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// MarshalText lets states travel through JSON as their names.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Diagnostic records a source that was treated as absent.
type Diagnostic struct {
	Source string `json:"source"`
	Error  string `json:"error"`
}

// Model is one view's display model.
type Model struct {
	View        string              `json:"view"`
	Title       string              `json:"title"`
	Policy      reshape.MatchPolicy `json:"policy"`
	Chart       Chart               `json:"chart"`
	Datasets    []reshape.Dataset   `json:"datasets"`
	Rankings    []reshape.Ranking   `json:"rankings,omitempty"`
	Diagnostics []Diagnostic        `json:"diagnostics,omitempty"`
	LoadedAt    time.Time           `json:"loadedAt"`
}

// Dropped totals the skipped rows across datasets.
func (m *Model) Dropped() int {
	n := 0
	for _, ds := range m.Datasets {
		n += ds.Dropped
	}
	return n
}

// Snapshot is a consistent read of a loader.
type Snapshot struct {
	State State
	Model *Model
	Err   error
}

// Loader owns one view's transient state. Every Load fetches and reshapes
// from scratch and replaces the previous model. Concurrent loads are not
// ordered, so a slow load can publish after a faster, newer one.
type Loader struct {
	def          Definition
	fetcher      source.Fetcher
	manifestName string
	recorder     *telemetry.Recorder
	now          func() time.Time

	mu    sync.Mutex
	state State
	model *Model
	err   error
}

// NewLoader returns an Idle loader for def reading through f.
func NewLoader(def Definition, f source.Fetcher, manifestName string, rec *telemetry.Recorder) *Loader {
	return &Loader{
		def:          def,
		fetcher:      f,
		manifestName: manifestName,
		recorder:     rec,
		now:          time.Now,
	}
}

// Definition returns the view this loader serves.
func (l *Loader) Definition() Definition {
	return l.def
}

// Snapshot returns the current state, model and error.
func (l *Loader) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Snapshot{State: l.state, Model: l.model, Err: l.err}
}

// State returns the current state.
func (l *Loader) State() State {
	return l.Snapshot().State
}

// Load runs one fetch-and-reshape. On success the loader is Ready with the
// new model; on failure it is Failed and holds no model.
func (l *Loader) Load(ctx context.Context) (*Model, error) {
	start := l.now()
	l.set(Loading, nil, nil, false)
	logging.LogDebug("[VIEW] view=%s loading", l.def.Name)

	model, err := l.build(ctx)
	elapsed := l.now().Sub(start)
	if err != nil {
		l.set(Failed, nil, err, true)
		l.recorder.ObserveLoad(l.def.Name, Failed.String(), elapsed)
		logging.LogLoad(l.def.Name, "", Failed.String(), err)
		return nil, err
	}

	l.set(Ready, model, nil, true)
	l.recorder.ObserveLoad(l.def.Name, Ready.String(), elapsed)
	l.recorder.AddDropped(l.def.Name, model.Dropped())
	logging.LogLoad(l.def.Name, "", Ready.String(), fmt.Sprintf("datasets=%d dropped=%d absent=%d", len(model.Datasets), model.Dropped(), len(model.Diagnostics)))
	return model, nil
}

func (l *Loader) set(state State, model *Model, err error, replace bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = state
	if replace {
		l.model = model
		l.err = err
	}
}

func (l *Loader) build(ctx context.Context) (*Model, error) {
	files, err := l.def.Discover(ctx, l.fetcher, l.manifestName)
	if err != nil {
		return nil, err
	}

	model := &Model{
		View:   l.def.Name,
		Title:  l.def.Title,
		Policy: l.def.Policy,
		Chart:  l.def.Chart,
	}

	var sources []reshape.Source
	for _, rel := range files {
		res, err := l.loadSource(ctx, rel)
		if err != nil {
			if !l.def.Multi {
				return nil, fmt.Errorf("%s: %w", rel, err)
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			model.Diagnostics = append(model.Diagnostics, Diagnostic{Source: rel, Error: err.Error()})
			l.recorder.SourceFailed(l.def.Name)
			logging.LogLoad(l.def.Name, rel, "absent", err)
			continue
		}
		sources = append(sources, reshape.Source{Path: rel, Result: res})
	}

	model.Datasets = l.def.Reshaper().BuildAll(sources)
	if len(model.Datasets) > 1 {
		model.Rankings = reshape.RankByCO2(model.Datasets)
	}
	model.LoadedAt = l.now()
	return model, nil
}

func (l *Loader) loadSource(ctx context.Context, rel string) (reshape.ParseResult, error) {
	raw, err := l.fetcher.Fetch(ctx, rel)
	if err != nil {
		return reshape.ParseResult{}, err
	}
	return l.def.parse(raw)
}

// Set is one Loader per registered view, sharing a fetcher.
type Set struct {
	registry *Registry
	loaders  map[string]*Loader
}

// NewSet builds an Idle loader for every view in r.
func NewSet(r *Registry, f source.Fetcher, manifestName string, rec *telemetry.Recorder) *Set {
	s := &Set{registry: r, loaders: make(map[string]*Loader)}
	for _, def := range r.All() {
		s.loaders[def.Name] = NewLoader(def, f, manifestName, rec)
	}
	return s
}

// Loader returns the loader for a view.
func (s *Set) Loader(name string) (*Loader, bool) {
	l, ok := s.loaders[name]
	return l, ok
}

// Registry returns the views behind the set.
func (s *Set) Registry() *Registry {
	return s.registry
}
