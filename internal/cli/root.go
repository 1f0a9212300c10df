package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/layerstack/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Settings shared by several commands are persistent flags on the root and
// are bound to the configuration, so layerstack.toml and LAYERSTACK_*
// variables can supply them too.
func (c *CLI) RootCommand() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:   appName,
		Short: "Layerstack compiles layer stacks from vector drawings",
		Long: `Layerstack turns 2D vector drawings and a declarative instruction file into
stacked 3D layer assemblies, and exports each layer as a flattened drawing.`,
		Version:      buildinfo.Resolved(),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.config.load(configFile); err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if f := c.config.File(); f != "" {
				c.Logger.Debug("loaded config", "file", f)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file (default: ./layerstack.toml or ~/.config/layerstack/layerstack.toml)")
	pf.StringSliceP(keySource, "s", nil, "DXF drawing source (repeatable)")
	pf.String(keyCache, "", "cache location: a directory, redis://, mongodb://, or none (default: ~/.cache/layerstack)")
	pf.Bool(keyStrict, false, "reject layer names defined by more than one source")
	if err := c.config.bind(pf); err != nil {
		panic(err)
	}

	root.AddCommand(c.buildCommand())
	root.AddCommand(c.layersCommand())
	root.AddCommand(c.planCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())
	root.AddCommand(c.versionCommand())

	return root
}

// versionCommand prints build information.
func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), buildinfo.String())
		},
	}
}
