package gen

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/springforge"
	cm "github.com/syssam/springforge/codemodel"
	"github.com/syssam/springforge/compiler/load"
	"github.com/syssam/springforge/compiler/merge"
	"github.com/syssam/springforge/schema"
)

// Generator runs the generation pipeline: it discovers and parses the
// domain documents, merges the fragments of each named group, emits and
// renders the merged definitions, writes the output tree and deletes
// obsolete files. A Generator may run many times, one run at a time.
type Generator struct {
	cfg      *Config
	log      *zap.Logger
	emitter  *Emitter
	renderer cm.Renderer
	format   cm.FormatFunc

	running sync.Mutex
	mu      sync.Mutex
	state   State
}

// Result describes a run. Paths are relative to the output root.
type Result struct {
	RunID string
	// Written lists the files created or changed by the run, sorted.
	Written []string
	// Unchanged lists the generated files whose content was already current.
	Unchanged []string
	// Deleted lists the obsolete files removed by cleanup.
	Deleted []string
	// Skipped lists the groups dropped after a merge conflict.
	Skipped []string
	// Aborted reports that the caller cancelled the run.
	Aborted bool
}

// New creates a Generator from options.
func New(opts ...Option) (*Generator, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return NewGenerator(cfg)
}

// NewGenerator creates a Generator for a validated configuration.
func NewGenerator(cfg *Config) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p, err := cfg.profile()
	if err != nil {
		return nil, springforge.NewConfigError("Target", cfg.Target, err.Error())
	}
	em, err := NewEmitter(p, cfg.Repositories, cfg.Services)
	if err != nil {
		return nil, err
	}
	return &Generator{
		cfg:      cfg,
		log:      cfg.logger(),
		emitter:  em,
		renderer: cfg.renderer(),
		format:   cfg.formatter(),
	}, nil
}

// Generate runs a single generation with the given options.
func Generate(ctx context.Context, opts ...Option) (*Result, error) {
	g, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return g.Run(ctx)
}

// State returns the state of the current or last run.
func (g *Generator) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// ParseContext returns the parse context the generator reads documents with.
func (g *Generator) ParseContext() *load.Context {
	return g.cfg.parseContext()
}

func (g *Generator) transition(log *zap.Logger, to State) {
	g.mu.Lock()
	from := g.state
	if !canTransition(from, to) {
		g.mu.Unlock()
		panic(fmt.Sprintf("gen: invalid state transition %s -> %s", from, to))
	}
	g.state = to
	g.mu.Unlock()
	log.Debug("state transition", zap.Stringer("from", from), zap.Stringer("to", to))
}

// group is the set of fragments sharing one declared name.
type group struct {
	name      string
	defs      []schema.Definition
	merged    schema.Definition
	planned   []string
	artifacts []artifact
	skipped   bool
}

// run holds the state of one pipeline run.
type run struct {
	*Generator
	log     *zap.Logger
	docs    []*load.Document
	primary int // docs[:primary] come from the input directory
	groups  []*group
	aborted bool
	res     *Result
}

// Run executes the pipeline. Cancelling ctx stops scheduling further
// groups and writes; cleanup then runs unless CleanupOnAbort is disabled.
// The returned Result is never nil and describes the work done, also when
// the run fails.
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	g.running.Lock()
	defer g.running.Unlock()

	id := uuid.NewString()
	r := &run{
		Generator: g,
		log:       g.log.With(zap.String("run", id)),
		res:       &Result{RunID: id},
	}
	if g.State().Terminal() {
		g.transition(r.log, StateIdle)
	}
	start := time.Now()
	r.log.Info("generation started",
		zap.String("input", g.cfg.Input),
		zap.String("output", g.cfg.Output),
		zap.String("target", g.cfg.Target),
		zap.Bool("repositories", g.cfg.Repositories),
		zap.Bool("services", g.cfg.Services),
	)
	if err := r.execute(ctx); err != nil {
		g.transition(r.log, StateFailed)
		r.log.Error("generation failed", zap.Error(err))
		return r.res, err
	}
	g.transition(r.log, StateDone)
	r.log.Info("generation finished",
		zap.Int("written", len(r.res.Written)),
		zap.Int("unchanged", len(r.res.Unchanged)),
		zap.Int("deleted", len(r.res.Deleted)),
		zap.Strings("skipped", r.res.Skipped),
		zap.Duration("elapsed", time.Since(start)),
	)
	return r.res, nil
}

func (r *run) execute(ctx context.Context) error {
	r.transition(r.log, StateDiscovering)
	paths, err := r.discover()
	if err != nil {
		return err
	}
	r.transition(r.log, StateParsing)
	if err := r.parse(ctx, paths); err != nil {
		return err
	}
	r.transition(r.log, StateMerging)
	if err := r.merge(); err != nil {
		return err
	}
	r.transition(r.log, StateEmitting)
	if err := r.emit(ctx); err != nil {
		return err
	}
	r.transition(r.log, StateWriting)
	w := newWriter(r.cfg.Output, r.cfg.Workers, r.log)
	var arts []artifact
	for _, gr := range r.groups {
		arts = append(arts, gr.artifacts...)
	}
	err = w.writeAll(ctx, arts)
	r.res.Written, r.res.Unchanged = w.results()
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		r.aborted = true
	}
	r.res.Aborted = r.aborted
	if r.aborted && !r.cfg.CleanupOnAbort {
		r.log.Warn("run aborted, cleanup skipped")
		return ctx.Err()
	}
	r.transition(r.log, StateCleaningUp)
	deleted, err := cleanup(r.cfg.Output, r.renderer.Extensions(), r.protected(w.generated), r.log)
	r.res.Deleted = deleted
	if err != nil {
		return err
	}
	if r.aborted {
		return ctx.Err()
	}
	return nil
}

// discover lists the input documents followed by the lookup documents not
// already found in the input.
func (r *run) discover() ([]string, error) {
	pctx := r.cfg.parseContext()
	paths, err := pctx.Discover(r.cfg.Input, r.cfg.Recursive)
	if err != nil {
		return nil, err
	}
	r.primary = len(paths)
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		seen[p] = true
	}
	for _, dir := range r.cfg.Lookup {
		more, err := pctx.Discover(dir, r.cfg.Recursive)
		if err != nil {
			return nil, err
		}
		for _, p := range more {
			if !seen[p] {
				seen[p] = true
				paths = append(paths, p)
			}
		}
	}
	r.log.Info("discovered documents", zap.Int("input", r.primary), zap.Int("lookup", len(paths)-r.primary))
	return paths, nil
}

// parse parses the documents in parallel, keeping discovery order.
func (r *run) parse(ctx context.Context, paths []string) error {
	pctx := r.cfg.parseContext()
	var opts []load.Option
	if r.cfg.BaseNamespace != "" {
		opts = append(opts, load.WithBaseNamespace(r.cfg.BaseNamespace))
	}
	r.docs = make([]*load.Document, len(paths))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(r.cfg.Workers)
	for i, path := range paths {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, err := pctx.ParseFile(path, opts...)
			if err != nil {
				return err
			}
			r.docs[i] = doc
			return nil
		})
	}
	return eg.Wait()
}

// merge orders the fragments of every group by module dependency and merges
// them. Only names declared by input documents form groups.
func (r *run) merge() error {
	graph := merge.NewGraph()
	for _, doc := range r.docs {
		graph.AddModule(doc.Module.Name, doc.Module.Depends...)
	}
	rank, err := graph.Rank()
	if err != nil {
		return err
	}
	type fragment struct {
		def  schema.Definition
		rank int
	}
	var (
		names     []string
		fragments = make(map[string][]fragment)
	)
	for i, doc := range r.docs {
		for _, def := range doc.Definitions {
			name := def.DefName()
			if _, ok := fragments[name]; !ok && i < r.primary {
				names = append(names, name)
			}
			fragments[name] = append(fragments[name], fragment{def: def, rank: rank[doc.Module.Name]})
		}
	}
	var opts []merge.Option
	if r.cfg.OverrideCheck != nil {
		opts = append(opts, merge.WithOverrideCheck(r.cfg.OverrideCheck))
	}
	for _, name := range names {
		frags := fragments[name]
		slices.SortStableFunc(frags, func(a, b fragment) int { return cmp.Compare(a.rank, b.rank) })
		gr := &group{name: name}
		for _, f := range frags {
			gr.defs = append(gr.defs, f.def)
		}
		merged, err := merge.Merge(gr.defs, opts...)
		switch {
		case err == nil:
			gr.merged = merged
			gr.planned = r.plan(merged)
		case springforge.IsMergeConflict(err) && r.cfg.Conflict == ConflictSkip:
			gr.skipped = true
			gr.planned = r.plan(gr.defs[0])
			r.res.Skipped = append(r.res.Skipped, name)
			r.log.Warn("group skipped", zap.String("group", name), zap.Error(err))
		default:
			return err
		}
		r.groups = append(r.groups, gr)
	}
	r.log.Info("merged groups", zap.Int("groups", len(r.groups)), zap.Int("skipped", len(r.res.Skipped)))
	return nil
}

func (r *run) plan(def schema.Definition) []string {
	files := r.emitter.Outline(def)
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = r.renderer.Path(f)
	}
	return paths
}

// emit emits and renders the merged groups in parallel.
func (r *run) emit(ctx context.Context) error {
	eg, ectx := errgroup.WithContext(ctx)
	eg.SetLimit(r.cfg.Workers)
	for _, gr := range r.groups {
		if gr.skipped {
			continue
		}
		if ectx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if ectx.Err() != nil {
				return nil
			}
			return r.emitGroup(gr)
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	if ctx.Err() != nil {
		r.aborted = true
	}
	return nil
}

func (r *run) emitGroup(gr *group) error {
	var (
		files []*cm.File
		err   error
	)
	switch def := gr.merged.(type) {
	case *schema.Entity:
		files, err = r.emitter.EmitEntity(def)
	case *schema.Enum:
		var f *cm.File
		f, err = r.emitter.EmitEnum(def)
		files = []*cm.File{f}
	}
	if err != nil {
		return err
	}
	for _, f := range files {
		path := r.renderer.Path(f)
		src, err := r.renderer.Render(f)
		if err != nil {
			return err
		}
		if r.format != nil {
			if src, err = r.format(path, src); err != nil {
				return springforge.NewRenderError(r.renderer.Name(), f.Unit.Name, "format "+path, err)
			}
		}
		gr.artifacts = append(gr.artifacts, artifact{path: path, unit: f.Unit.Name, src: src})
	}
	r.log.Debug("emitted group", zap.String("group", gr.name), zap.Int("files", len(files)))
	return nil
}

// protected returns the paths cleanup must keep: the generated set, the
// planned paths of skipped groups and, when the run was aborted, every
// planned path.
func (r *run) protected(generated map[string]struct{}) map[string]struct{} {
	keep := make(map[string]struct{}, len(generated))
	for p := range generated {
		keep[p] = struct{}{}
	}
	for _, gr := range r.groups {
		if gr.skipped || r.aborted {
			for _, p := range gr.planned {
				keep[p] = struct{}{}
			}
		}
	}
	return keep
}
