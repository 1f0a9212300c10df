package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

// layersCommand lists the named layers of each drawing source.
func (c *CLI) layersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "layers [source.dxf...]",
		Short: "List the named layers of drawing sources",
		Long: `List every named layer in each DXF source with its outline count. Layers
defined by more than one source are flagged; a build that references such a
layer fails as ambiguous.

Sources default to the configured --source list.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if len(paths) == 0 {
				paths = c.config.Sources()
			}
			return c.runLayers(cmd.Context(), paths)
		},
	}
}

type layerRow struct {
	source string
	layer  string
	wires  int
}

func (c *CLI) runLayers(ctx context.Context, paths []string) error {
	sources, err := c.openSources(paths)
	if err != nil {
		return err
	}

	var rows []layerRow
	owners := make(map[string]int)
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return err
		}
		names, err := src.Layers()
		if err != nil {
			return err
		}
		for _, n := range names {
			wires, err := src.Wires(n)
			if err != nil {
				return err
			}
			rows = append(rows, layerRow{source: src.Name(), layer: n, wires: len(wires)})
			owners[n]++
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].layer < rows[j].layer })

	fmt.Println(layerTable(rows, owners))

	var dups int
	for _, n := range owners {
		if n > 1 {
			dups++
		}
	}
	printInfo("%d layers in %d sources", len(owners), len(sources))
	if dups > 0 {
		printWarning("%d layer names are defined by more than one source", dups)
	}
	return nil
}

func layerTable(rows []layerRow, owners map[string]int) string {
	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = []string{r.layer, r.source, fmt.Sprintf("%d", r.wires)}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Layer", "Source", "Outlines").
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleHeader
			case row < 0 || row >= len(rows):
				return lipgloss.NewStyle()
			case owners[rows[row].layer] > 1:
				return StyleWarning
			case rows[row].wires == 0:
				return StyleDim
			}
			return lipgloss.NewStyle()
		}).
		Render()
}
