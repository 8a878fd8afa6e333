// Mandala renders layered radial compositions from the command line.
// Inputs are saved JSON documents or .mandala scripts.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Crazzygamerr/zen-mandala/pkg/config"
	"github.com/Crazzygamerr/zen-mandala/pkg/mandala"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

// errCheckFailed signals that check found errors; main exits 1 without
// printing it again.
var errCheckFailed = errors.New("check failed")

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		if !errors.Is(err, errCheckFailed) {
			fmt.Fprintln(os.Stderr, errorStyle.Render("error:"), err)
		}
		os.Exit(1)
	}
}

// cli carries the state shared by every subcommand.
type cli struct {
	out, errOut io.Writer

	verbose    bool
	configPath string
	width      int
	height     int
	background string

	cfg *config.Config
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	c := &cli{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "mandala",
		Short: "Render layered radial mandala compositions",
		Long: `mandala renders compositions built from concentric rings of shapes.

Inputs are either saved JSON documents (.json) or scripts (.mandala).

Configuration is read from ~/.config/mandala/config.yaml, ./.mandala.yaml
and MANDALA_* environment variables; flags override all of them.`,
		Version:           fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "Additional config file (highest file priority)")
	root.PersistentFlags().IntVar(&c.width, "width", 0, "Surface width for scripts (overrides config)")
	root.PersistentFlags().IntVar(&c.height, "height", 0, "Surface height for scripts (overrides config)")
	root.PersistentFlags().StringVar(&c.background, "background", "", "Background color for scripts (overrides config)")

	root.AddCommand(
		c.renderCmd(),
		c.framesCmd(),
		c.watchCmd(),
		c.checkCmd(),
	)
	return root
}

// setup loads the layered configuration, applies flag overrides and
// installs the logger.
func (c *cli) setup(cmd *cobra.Command, args []string) error {
	paths := config.DefaultPaths()
	if c.configPath != "" {
		if _, err := os.Stat(c.configPath); err != nil {
			return fmt.Errorf("config: %w", err)
		}
		paths = append(paths, c.configPath)
	}
	m := config.NewManager()
	if err := m.LoadFrom(paths...); err != nil {
		return err
	}
	cfg := m.Get()

	if c.width > 0 {
		cfg.Render.Width = c.width
	}
	if c.height > 0 {
		cfg.Render.Height = c.height
	}
	if c.background != "" {
		cfg.Render.Background = c.background
	}
	if c.verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	c.cfg = cfg

	if lvl, on := cfg.LogLevel(); on {
		mandala.SetLogger(slog.New(slog.NewTextHandler(c.errOut, &slog.HandlerOptions{Level: lvl})))
	}
	mandala.Logger().Debug("config loaded", "files", m.Paths())
	return nil
}
