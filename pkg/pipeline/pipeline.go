// Package pipeline builds layer stacks end to end.
//
// A build runs in three stages:
//
//  1. Prepare: select the requested stacks (all when none are named) and
//     normalize them. Normalization errors abort the build.
//  2. Resolve: look up every drawing layer the selected stacks reference,
//     once, across all sources. Ambiguous names abort the build.
//  3. Compile: build each stack into an assembly on a bounded worker pool.
//     A stack that fails, including one that references a layer no source
//     defines, is reported in [Result.Failures] without affecting the
//     others.
//
// [Runner.Export] then renders assemblies to artifacts through the cache.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Build(ctx, file, sources, pipeline.Options{
//	    Stacks:  []string{"metal_mask_stack"},
//	    Workers: 4,
//	})
//	if err != nil {
//	    return err // broken specification or sources
//	}
//	for _, f := range result.Failures {
//	    logger.Error("stack failed", "stack", f.Stack, "err", f.Err)
//	}
package pipeline

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/layerstack/pkg/assembly"
	"github.com/matzehuels/layerstack/pkg/errors"
	"github.com/matzehuels/layerstack/pkg/export"
	"github.com/matzehuels/layerstack/pkg/instructions"
)

// DefaultFormats is used when no export format is requested.
var DefaultFormats = []string{export.FormatJSON}

// Options configures a build.
type Options struct {
	// Stacks names the stacks to build. Empty builds every stack.
	Stacks []string `json:"stacks,omitempty"`

	// Workers bounds concurrent stack compilation. Zero means one per CPU.
	Workers int `json:"workers,omitempty"`

	// Strict rejects any layer name defined by two sources, requested or
	// not. RequireAll fails the whole build on an unknown layer instead
	// of failing only the stacks that use it.
	Strict     bool `json:"strict,omitempty"`
	RequireAll bool `json:"require_all,omitempty"`

	// Logger receives the build's log records. Nil uses the runner's
	// logger.
	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults checks the options and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "workers must not be negative, got %d", o.Workers)
	}
	if o.Workers == 0 {
		o.Workers = runtime.NumCPU()
	}
	for _, s := range o.Stacks {
		if err := errors.ValidateName("stack", s); err != nil {
			return err
		}
	}
	o.validated = true
	return nil
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !export.ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: %s)",
			format, strings.Join(export.FormatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// StackError is the failure of one stack.
type StackError struct {
	Stack string
	Err   error
}

func (e *StackError) Error() string { return fmt.Sprintf("stack %s: %v", e.Stack, e.Err) }
func (e *StackError) Unwrap() error { return e.Err }

// Result is the outcome of a build.
type Result struct {
	BuildID string

	// Assemblies holds the built stacks in specification order.
	Assemblies []*assembly.Assembly

	// Failures holds the failed stacks in specification order.
	Failures []*StackError

	Warnings []instructions.Warning
	Stats    Stats
}

// Stats contains build statistics.
type Stats struct {
	Requested   int
	Built       int
	Failed      int
	Resolved    int
	Missing     int
	PrepareTime time.Duration
	ResolveTime time.Duration
	CompileTime time.Duration
}

// Assembly looks up a built assembly by stack name.
func (r *Result) Assembly(name string) (*assembly.Assembly, bool) {
	for _, a := range r.Assemblies {
		if a.Name == name {
			return a, true
		}
	}
	return nil, false
}

// OK reports whether every requested stack was built.
func (r *Result) OK() bool { return len(r.Failures) == 0 }

func newBuildID() string { return uuid.NewString() }
