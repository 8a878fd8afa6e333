package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Crazzygamerr/zen-mandala/pkg/watch"
)

func (c *cli) watchCmd() *cobra.Command {
	var (
		output   string
		debounce time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch <input>",
		Short: "Re-render whenever the input file is saved",
		Long: `Render the input once, then again every time it changes on disk.
Errors are printed and watching continues. Stop with Ctrl-C.

Example:
  mandala watch examples/lotus.mandala -o lotus.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			if output == "" {
				output = defaultOutput(input, c.cfg.Render.Backend)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return c.watch(ctx, input, output, debounce)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (.png or .svg)")
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Quiet period after the last change")
	return cmd
}

// watch renders input to output now and on every change until ctx ends.
func (c *cli) watch(ctx context.Context, input, output string, debounce time.Duration) error {
	w, err := watch.NewWatcher(debounce)
	if err != nil {
		return err
	}
	defer w.Close()

	rebuild := func(string) error {
		comp, err := loadForOutput(ctx, input, c.cfg)
		if err != nil {
			return err
		}
		if err := writeFrame(output, backendFor(output, c.cfg), comp); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "%s %s %s\n", successStyle.Render("wrote"), output,
			mutedStyle.Render(time.Now().Format("15:04:05")))
		return nil
	}
	w.OnChange = rebuild
	w.OnError = func(path string, err error) {
		fmt.Fprintln(c.errOut, errorStyle.Render("error:"), err)
	}

	if err := w.Watch(input); err != nil {
		return err
	}
	if err := rebuild(input); err != nil {
		w.OnError(input, err)
	}
	fmt.Fprintln(c.out, mutedStyle.Render("watching "+input))

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
