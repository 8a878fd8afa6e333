package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Crazzygamerr/zen-mandala/pkg/kernel/raster"
	"github.com/Crazzygamerr/zen-mandala/pkg/mandala"
	"github.com/Crazzygamerr/zen-mandala/pkg/render"
)

func (c *cli) framesCmd() *cobra.Command {
	var (
		count int
		dir   string
		jobs  int
	)
	cmd := &cobra.Command{
		Use:   "frames <input>",
		Short: "Render an animation as numbered PNG frames",
		Long: `Start the animation, tick the clock once per frame and write each
frame as frame_NNNN.png into --dir. Drawing is sequential; PNG encoding
runs in parallel.

Examples:
  mandala frames examples/lotus.mandala --count 120 --dir out/
  ffmpeg -i out/frame_%04d.png lotus.mp4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if count <= 0 {
				return fmt.Errorf("--count must be positive, got %d", count)
			}
			comp, err := loadForOutput(cmd.Context(), args[0], c.cfg)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			start := time.Now()
			if err := c.writeFrames(cmd, comp, count, dir, jobs); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "%s %d frames to %s %s\n",
				successStyle.Render("wrote"), count, dir,
				mutedStyle.Render(fmt.Sprintf("(%s)", time.Since(start).Round(time.Millisecond))))
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 60, "Number of frames")
	cmd.Flags().StringVarP(&dir, "dir", "d", "frames", "Output directory")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.GOMAXPROCS(0), "Parallel PNG encoders")
	return cmd
}

// writeFrames draws count frames of comp, ticking once before each, and
// encodes them concurrently. The first encoding error cancels the rest.
func (c *cli) writeFrames(cmd *cobra.Command, comp *mandala.Composition, count int, dir string, jobs int) error {
	if !comp.Animating() {
		comp.ToggleAnimation()
	}
	opts := comp.Options()

	bar := progressbar.NewOptions(count,
		progressbar.OptionSetWriter(c.errOut),
		progressbar.OptionSetDescription("frames"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "",
			BarEnd:        "",
		}),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
	defer bar.Finish()

	g, ctx := errgroup.WithContext(cmd.Context())
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i := range count {
		if ctx.Err() != nil {
			break
		}
		comp.Tick()
		canvas := raster.New(opts.Width, opts.Height)
		if err := drawErr(render.Frame(canvas, comp)); err != nil {
			canvas.Close()
			_ = g.Wait()
			return fmt.Errorf("frame %d: %w", i, err)
		}

		path := filepath.Join(dir, fmt.Sprintf("frame_%04d.png", i))
		g.Go(func() error {
			defer canvas.Close()
			if err := canvas.SavePNG(path); err != nil {
				return err
			}
			return bar.Add(1)
		})
	}
	return g.Wait()
}
