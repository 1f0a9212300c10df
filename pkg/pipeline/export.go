package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/matzehuels/layerstack/pkg/assembly"
	"github.com/matzehuels/layerstack/pkg/cache"
	"github.com/matzehuels/layerstack/pkg/drawing"
	"github.com/matzehuels/layerstack/pkg/errors"
	"github.com/matzehuels/layerstack/pkg/export"
	"github.com/matzehuels/layerstack/pkg/instructions"
	"github.com/matzehuels/layerstack/pkg/observability"
	"github.com/matzehuels/layerstack/pkg/wireindex"
)

// ExportInfo reports how an export used the cache.
type ExportInfo struct {
	Hits   int
	Misses int
}

// Export renders asm in every format. Section drawings are cached by the
// assembly's content digest, per part and format and render settings;
// manifests carry the build ID and are always rendered fresh.
func (r *Runner) Export(ctx context.Context, asm *assembly.Assembly, formats []string, refresh bool, opts ...export.Option) ([]export.Artifact, ExportInfo, error) {
	var info ExportInfo
	if err := ValidateFormats(formats); err != nil {
		return nil, info, err
	}
	hooks := observability.Export()
	hooks.OnExportStart(ctx, asm.Name, formats)
	start := time.Now()

	digest := cache.HashFunc(asm.Digest)
	var out []export.Artifact
	for _, format := range formats {
		if format == export.FormatJSON {
			arts, err := export.Render(asm, format, opts...)
			if err != nil {
				hooks.OnExportComplete(ctx, asm.Name, len(out), time.Since(start), err)
				return nil, info, err
			}
			out = append(out, arts...)
			continue
		}

		keyOpts := cache.ArtifactKeyOpts{Format: format}
		keyOpts.Scale, keyOpts.Margin = export.Settings(format, opts...)
		if !refresh {
			if arts, ok := r.cached(ctx, asm, digest, keyOpts); ok {
				info.Hits++
				out = append(out, arts...)
				continue
			}
		}
		info.Misses++
		observability.Cache().OnCacheMiss(ctx, "artifact")

		arts, err := export.Render(asm, format, opts...)
		if err != nil {
			hooks.OnExportComplete(ctx, asm.Name, len(out), time.Since(start), err)
			return nil, info, err
		}
		for _, a := range arts {
			keyOpts.Part = a.Part
			key := r.Keyer.ArtifactKey(digest, keyOpts)
			if err := r.Cache.Set(ctx, key, a.Data, cache.TTLArtifact); err != nil {
				r.Logger.Warn("cache write failed", "stack", asm.Name, "part", a.Part, "err", err)
				continue
			}
			observability.Cache().OnCacheSet(ctx, "artifact", len(a.Data))
		}
		out = append(out, arts...)
	}
	hooks.OnExportComplete(ctx, asm.Name, len(out), time.Since(start), nil)
	return out, info, nil
}

// cached returns the artifacts of one rendering if every part is cached.
func (r *Runner) cached(ctx context.Context, asm *assembly.Assembly, digest string, keyOpts cache.ArtifactKeyOpts) ([]export.Artifact, bool) {
	arts := make([]export.Artifact, 0, len(asm.Parts))
	for _, p := range asm.Parts {
		keyOpts.Part = p.Name
		data, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(digest, keyOpts))
		if err != nil || !hit {
			return nil, false
		}
		arts = append(arts, export.Artifact{Part: p.Name, Format: keyOpts.Format, Data: data})
	}
	observability.Cache().OnCacheHit(ctx, "artifact")
	return arts, true
}

// WriteArtifacts writes arts for stack into dir and returns the paths.
func WriteArtifacts(dir, stack string, arts []export.Artifact) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create output directory")
	}
	paths := make([]string, 0, len(arts))
	for _, a := range arts {
		name := a.FileName(stack)
		if err := errors.ValidateFileComponent(name); err != nil {
			return paths, err
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, a.Data, 0o644); err != nil {
			return paths, errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Plan formats.
const (
	PlanDOT = "dot"
	PlanSVG = "svg"
)

// Plan renders the build plan of the requested stacks as DOT or SVG.
// Unknown drawing layers are shown rather than reported; ambiguity is
// still an error. Rendered SVG is cached by the DOT text.
func (r *Runner) Plan(ctx context.Context, file *instructions.File, sources []drawing.Source, names []string, format string) ([]byte, error) {
	stacks, _, err := Prepare(file, names)
	if err != nil {
		return nil, err
	}
	ix, err := wireindex.Resolve(sources, DrawingLayers(stacks))
	if err != nil {
		return nil, err
	}
	dot := export.PlanDOT(stacks, ix.Source)

	switch format {
	case PlanDOT:
		return []byte(dot), nil
	case PlanSVG:
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid plan format %q (must be dot or svg)", format)
	}

	key := r.Keyer.PlanKey(cache.Hash([]byte(dot)), format)
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "plan")
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, "plan")
	svg, err := export.PlanSVG(ctx, dot)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render plan")
	}
	if err := r.Cache.Set(ctx, key, svg, cache.TTLPlan); err == nil {
		observability.Cache().OnCacheSet(ctx, "plan", len(svg))
	}
	return svg, nil
}
