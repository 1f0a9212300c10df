package pipeline

import (
	"context"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/layerstack/pkg/assembly"
	"github.com/matzehuels/layerstack/pkg/cache"
	"github.com/matzehuels/layerstack/pkg/compile"
	"github.com/matzehuels/layerstack/pkg/drawing"
	"github.com/matzehuels/layerstack/pkg/errors"
	"github.com/matzehuels/layerstack/pkg/instructions"
	"github.com/matzehuels/layerstack/pkg/observability"
	"github.com/matzehuels/layerstack/pkg/wireindex"
)

// Runner executes builds and exports with caching.
//
// The Runner keeps no per-build state. Multiple goroutines can safely use
// the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Build compiles the requested stacks of file from sources.
//
// The returned error is fatal to the whole build: invalid options, an
// unknown requested stack, a normalization error, an ambiguous or
// unreadable drawing layer, or cancellation. Per-stack failures are
// reported in the Result instead.
func (r *Runner) Build(ctx context.Context, file *instructions.File, sources []drawing.Source, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	res := &Result{BuildID: newBuildID()}
	base := r.Logger
	if opts.Logger != nil {
		base = opts.Logger
	}
	logger := base.With("build", res.BuildID[:8])

	start := time.Now()
	stacks, warnings, err := Prepare(file, opts.Stacks)
	if err != nil {
		return nil, err
	}
	res.Warnings = warnings
	res.Stats.Requested = len(stacks)
	res.Stats.PrepareTime = time.Since(start)
	for _, w := range warnings {
		logger.Warn(w.Message, "stack", w.Stack, "layer", w.Layer)
	}

	start = time.Now()
	ix, err := r.resolve(ctx, stacks, sources, opts)
	if err != nil {
		return nil, err
	}
	res.Stats.ResolveTime = time.Since(start)
	res.Stats.Resolved = len(ix.Names())
	res.Stats.Missing = len(ix.Missing())
	logger.Info("resolved drawing layers",
		"sources", len(sources),
		"layers", res.Stats.Resolved,
		"missing", res.Stats.Missing,
		"duration", res.Stats.ResolveTime)

	start = time.Now()
	asms, errs := r.compileAll(ctx, logger, stacks, ix, opts.Workers)
	res.Stats.CompileTime = time.Since(start)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for i, s := range stacks {
		if errs[i] != nil {
			res.Failures = append(res.Failures, &StackError{Stack: s.Name, Err: errs[i]})
			continue
		}
		res.Assemblies = append(res.Assemblies, asms[i])
	}
	res.Stats.Built = len(res.Assemblies)
	res.Stats.Failed = len(res.Failures)
	logger.Info("compiled stacks",
		"built", res.Stats.Built,
		"failed", res.Stats.Failed,
		"workers", opts.Workers,
		"duration", res.Stats.CompileTime)
	return res, nil
}

// Prepare selects the named stacks of file, or all of them when names is
// empty, and normalizes each. Stacks keep file order.
func Prepare(file *instructions.File, names []string) ([]instructions.Stack, []instructions.Warning, error) {
	for _, n := range names {
		if _, ok := file.Stack(n); !ok {
			return nil, nil, errors.New(errors.ErrCodeUnknownStack, "stack %q is not defined (have: %v)", n, file.Names())
		}
	}
	var (
		out   []instructions.Stack
		warns []instructions.Warning
	)
	for _, s := range file.Stacks {
		if len(names) > 0 && !slices.Contains(names, s.Name) {
			continue
		}
		ns, w, err := instructions.Normalize(s)
		if err != nil {
			return nil, nil, err
		}
		out = append(out, ns)
		warns = append(warns, w...)
	}
	return out, warns, nil
}

// DrawingLayers returns every drawing layer the stacks reference, in
// first-use order.
func DrawingLayers(stacks []instructions.Stack) []string {
	var out []string
	seen := make(map[string]bool)
	for _, s := range stacks {
		for _, n := range s.DrawingLayers() {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	return out
}

func (r *Runner) resolve(ctx context.Context, stacks []instructions.Stack, sources []drawing.Source, opts Options) (*wireindex.Index, error) {
	names := DrawingLayers(stacks)
	var ropts []wireindex.Option
	if opts.Strict {
		ropts = append(ropts, wireindex.Strict())
	}
	if opts.RequireAll {
		ropts = append(ropts, wireindex.RequireAll())
	}

	hooks := observability.Build()
	hooks.OnResolveStart(ctx, len(sources), len(names))
	start := time.Now()
	ix, err := wireindex.Resolve(sources, names, ropts...)
	if err != nil {
		hooks.OnResolveComplete(ctx, 0, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnResolveComplete(ctx, len(ix.Names()), len(ix.Missing()), time.Since(start), nil)
	return ix, nil
}

// compileAll builds every stack on at most workers goroutines. Slot i of
// each returned slice belongs to stacks[i] and is written only by its task.
func (r *Runner) compileAll(ctx context.Context, logger *log.Logger, stacks []instructions.Stack, ix *wireindex.Index, workers int) ([]*assembly.Assembly, []error) {
	asms := make([]*assembly.Assembly, len(stacks))
	errs := make([]error, len(stacks))
	missing := make(map[string]bool)
	for _, n := range ix.Missing() {
		missing[n] = true
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i, s := range stacks {
		if err := unresolved(s, ix, missing); err != nil {
			errs[i] = err
			logger.Error("stack skipped", "stack", s.Name, "err", err)
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			hooks := observability.Build()
			hooks.OnStackStart(ctx, s.Name, len(s.Layers))
			start := time.Now()
			asms[i], errs[i] = compile.Stack(s, ix)
			hooks.OnStackComplete(ctx, s.Name, time.Since(start), errs[i])

			if errs[i] != nil {
				logger.Error("stack failed", "stack", s.Name, "err", errs[i])
			} else {
				logger.Debug("stack built", "stack", compile.Summary(asms[i]), "duration", time.Since(start))
			}
			return nil
		})
	}
	_ = g.Wait()
	return asms, errs
}

// unresolved returns the error of the first drawing layer s references
// that no source defines.
func unresolved(s instructions.Stack, ix *wireindex.Index, missing map[string]bool) error {
	for _, n := range s.DrawingLayers() {
		if missing[n] {
			_, err := ix.Wires(n)
			return err
		}
	}
	return nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
