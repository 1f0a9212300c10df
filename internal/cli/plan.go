package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/layerstack/pkg/instructions"
	"github.com/matzehuels/layerstack/pkg/pipeline"
)

// planCommand renders how stacks, layers, drawing layers and sources
// connect, without compiling any geometry.
func (c *CLI) planCommand() *cobra.Command {
	var (
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "plan <instructions> [stack...]",
		Short: "Show which drawing layers and sources each stack uses",
		Long: `Render the build plan as a Graphviz graph: each stack points to its layers,
each layer to the drawing layers it references, and each drawing layer to the
source that defines it. Drawing layers no source defines are drawn in red.`,
		Example: `  # Print DOT to stdout
  layerstack plan masks.toml -s masks.dxf

  # Render SVG
  layerstack plan masks.toml -s masks.dxf --as svg -o plan.svg`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlan(cmd.Context(), args[0], args[1:], format, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&format, "as", pipeline.PlanDOT, "plan format: dot, svg")

	return cmd
}

func (c *CLI) runPlan(ctx context.Context, path string, stacks []string, format, output string) error {
	file, err := instructions.Load(path)
	if err != nil {
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

	data, err := runner.Plan(ctx, file, sources, stacks, format)
	if err != nil {
		return err
	}
	if output == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printSuccess("Plan written")
	printFile(output)
	return nil
}
