package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/layerstack/pkg/export"
	"github.com/matzehuels/layerstack/pkg/instructions"
	"github.com/matzehuels/layerstack/pkg/pipeline"
)

// buildOpts holds options for the build command.
type buildOpts struct {
	pick       bool
	requireAll bool
	refresh    bool
	dryRun     bool
	scale      float64
}

// buildCommand creates the build command for compiling stacks and writing
// their artifacts.
func (c *CLI) buildCommand() *cobra.Command {
	opts := buildOpts{scale: 10}

	cmd := &cobra.Command{
		Use:   "build <instructions> [stack...]",
		Short: "Compile layer stacks and export their layers",
		Long: `Compile the named stacks of an instruction file, or every stack when none
are named, against the DXF drawing sources. Each built stack is exported to the
output directory: a JSON manifest plus one drawing per layer and format.

A stack that references a layer no source defines fails on its own; the other
stacks are still built.`,
		Example: `  # Build every stack in masks.toml
  layerstack build masks.toml -s drawings/masks.dxf

  # Build one stack as SVG and DXF
  layerstack build masks.toml glass_stack -s masks.dxf -f svg,dxf

  # Choose stacks interactively
  layerstack build masks.toml --pick`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBuild(cmd.Context(), args[0], args[1:], &opts)
		},
	}

	cmd.Flags().StringP(keyOutput, "o", "out", "output directory")
	cmd.Flags().StringSliceP(keyFormat, "f", []string{"json"}, "export format(s): "+strings.Join(export.FormatNames(), ", "))
	cmd.Flags().IntP(keyWorkers, "w", 0, "stacks compiled in parallel (default: one per CPU)")
	cmd.Flags().BoolVar(&opts.pick, "pick", false, "choose stacks interactively")
	cmd.Flags().BoolVar(&opts.requireAll, "require-all", false, "fail the build when any referenced layer is missing")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached drawings")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "compile without writing artifacts")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "raster pixels per drawing unit")
	if err := c.config.bind(cmd.Flags()); err != nil {
		panic(err)
	}

	return cmd
}

func (c *CLI) runBuild(ctx context.Context, path string, stacks []string, opts *buildOpts) error {
	logger := loggerFromContext(ctx)

	file, err := instructions.Load(path)
	if err != nil {
		return err
	}
	if opts.pick {
		if len(stacks) > 0 {
			return fmt.Errorf("--pick cannot be combined with stack names")
		}
		stacks, err = pickStacks(ctx, file.Stacks)
		if err != nil {
			return err
		}
		if len(stacks) == 0 {
			printInfo("Nothing selected")
			return nil
		}
	}

	formats := c.config.Formats()
	if err := pipeline.ValidateFormats(formats); err != nil {
		return err
	}
	sources, err := c.openSources(c.config.Sources())
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	spinner := newSpinner(ctx, "Compiling stacks...")
	spinner.Start()
	res, err := runner.Build(ctx, file, sources, pipeline.Options{
		Stacks:     stacks,
		Workers:    c.config.Workers(),
		Strict:     c.config.Strict(),
		RequireAll: opts.requireAll,
		Logger:     logger,
	})
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Built %d of %d stacks", res.Stats.Built, res.Stats.Requested))

	for _, w := range res.Warnings {
		printWarning("%s", w)
	}

	if !opts.dryRun {
		out := c.config.Output()
		for _, asm := range res.Assemblies {
			arts, info, err := runner.Export(ctx, asm, formats, opts.refresh,
				export.WithBuildID(res.BuildID), export.WithScale(opts.scale))
			if err != nil {
				return fmt.Errorf("export %s: %w", asm.Name, err)
			}
			paths, err := pipeline.WriteArtifacts(out, asm.Name, arts)
			if err != nil {
				return err
			}
			printSuccess("%s", asm.Name)
			for _, p := range paths {
				printFile(p)
			}
			fmt.Println(statsLine(len(asm.Parts), len(paths), info.Hits, info.Misses))
		}
	}

	order := make([]string, 0, res.Stats.Requested)
	for _, s := range file.Stacks {
		if len(stacks) == 0 || slices.Contains(stacks, s.Name) {
			order = append(order, s.Name)
		}
	}
	fmt.Println(summaryTable(res, order))

	if !res.OK() {
		for _, f := range res.Failures {
			printError("%s: %v", f.Stack, f.Err)
		}
		printNextStep("Inspect layer resolution", fmt.Sprintf("%s plan %s", appName, path))
		return fmt.Errorf("%d of %d stacks failed", res.Stats.Failed, res.Stats.Requested)
	}
	return nil
}
