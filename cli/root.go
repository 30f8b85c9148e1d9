// Package cli defines the matrix-rain command line
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/matrix-rain/charset"
	"github.com/lixenwraith/matrix-rain/config"
	"github.com/lixenwraith/matrix-rain/terminal"
)

// Runner starts the animation with a resolved configuration
type Runner func(ctx context.Context, cfg *config.Config) error

// Deps are the collaborators the command hands work to
type Deps struct {
	Table  *charset.Table
	Detect config.BackgroundDetector
	Run    Runner

	// Logging is called with the --debug value before anything is resolved
	// The returned cleanup runs after Run returns
	Logging func(debug bool) (func(), error)
}

// flagValues mirrors the command line; only flags the user set override file values
type flagValues struct {
	config.Options
	configPath string
	list       bool
	debug      bool
}

// NewRootCommand creates the matrix-rain command
func NewRootCommand(deps Deps) *cobra.Command {
	defaults := config.Defaults()
	fv := &flagValues{Options: defaults}

	cmd := &cobra.Command{
		Use:   "matrix-rain",
		Short: "Digital rain in the terminal",
		Long: `Fill the terminal with falling streams of glyphs that fade into the background.

Press Ctrl+C to exit.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if fv.list {
				return printList(cmd.OutOrStdout(), deps.Table)
			}
			return run(cmd, fv, deps)
		},
	}

	f := cmd.Flags()
	f.StringVar(&fv.Color, "color", defaults.Color, "theme name ("+joinNames(config.Themes())+"), R,G,B, #hex or color name")
	f.Float64Var(&fv.Speed, "speed", defaults.Speed, fmt.Sprintf("fall speed in rows per second (%v-%v)", config.MinSpeed, config.MaxSpeed))
	f.Float64Var(&fv.Density, "density", defaults.Density, fmt.Sprintf("drops per column (%v-%v)", config.MinDensity, config.MaxDensity))
	f.StringVar(&fv.Chars, "chars", defaults.Chars, "character set ("+joinNames(deps.Table.Names())+")")
	f.StringVar(&fv.Background, "background-color", "", "terminal background as R,G,B, #hex or color name (default auto-detect)")
	f.StringVar(&fv.ColorMode, "color-mode", defaults.ColorMode, "color output: auto, truecolor, 256")
	f.StringVar(&fv.configPath, "config", "", "YAML file with default options")
	f.BoolVar(&fv.list, "list", false, "list themes, character sets and ranges, then exit")
	f.BoolVar(&fv.debug, "debug", false, "write a debug log")

	return cmd
}

func run(cmd *cobra.Command, fv *flagValues, deps Deps) error {
	opts, err := mergeOptions(cmd, fv)
	if err != nil {
		return err
	}

	if deps.Logging != nil {
		cleanup, err := deps.Logging(fv.debug)
		if err != nil {
			return fmt.Errorf("failed to set up logging: %w", err)
		}
		defer cleanup()
	}

	cfg, err := opts.Resolve(deps.Table, reportingDetector(cmd.ErrOrStderr(), deps.Detect))
	if err != nil {
		return err
	}

	return deps.Run(cmd.Context(), cfg)
}

// mergeOptions starts from defaults, applies the config file, then flags the user set
func mergeOptions(cmd *cobra.Command, fv *flagValues) (config.Options, error) {
	opts := config.Defaults()
	if fv.configPath != "" {
		if err := config.LoadFile(fv.configPath, &opts); err != nil {
			return opts, err
		}
	}

	f := cmd.Flags()
	if f.Changed("color") {
		opts.Color = fv.Color
	}
	if f.Changed("speed") {
		opts.Speed = fv.Speed
	}
	if f.Changed("density") {
		opts.Density = fv.Density
	}
	if f.Changed("chars") {
		opts.Chars = fv.Chars
	}
	if f.Changed("background-color") {
		opts.Background = fv.Background
	}
	if f.Changed("color-mode") {
		opts.ColorMode = fv.ColorMode
	}
	return opts, nil
}

// reportingDetector tells the user what background detection found
func reportingDetector(w io.Writer, detect config.BackgroundDetector) config.BackgroundDetector {
	if detect == nil {
		return nil
	}
	return func() (terminal.RGB, error) {
		c, err := detect()
		if err != nil {
			fmt.Fprintf(w, "Failed to detect terminal background color: %v. Falling back to default black.\n", err)
			return c, err
		}
		fmt.Fprintf(w, "Detected terminal background color: RGB(%d, %d, %d)\n", c.R, c.G, c.B)
		return c, nil
	}
}
