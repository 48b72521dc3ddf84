package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lixenwraith/petal-bloom/bloom"
	"github.com/lixenwraith/petal-bloom/clock"
	"github.com/lixenwraith/petal-bloom/config"
	"github.com/lixenwraith/petal-bloom/document"
	"github.com/lixenwraith/petal-bloom/glyph"
	"github.com/lixenwraith/petal-bloom/layout"
	"github.com/lixenwraith/petal-bloom/parameter"
	"github.com/lixenwraith/petal-bloom/playback"
	"github.com/lixenwraith/petal-bloom/surface"
)

// settleTimeout bounds the real time given to teardown after each simulated step
const settleTimeout = 20 * time.Millisecond

func newRenderCmd(a *app) *cobra.Command {
	var (
		output string
		width  int
	)

	cmd := &cobra.Command{
		Use:   "render <note>",
		Short: "Record a bloom of a note to an animated GIF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			note, err := a.loadNote(args[0])
			if err != nil {
				return err
			}

			path := outputPath(output, note.Title)
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", path, err)
			}

			frames, err := renderGIF(cmd.Context(), f, note, a.settings, width, a.rng(), a.log)
			if cerr := f.Close(); err == nil && cerr != nil {
				err = fmt.Errorf("failed to close %s: %w", path, cerr)
			}
			if err != nil {
				os.Remove(path)
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d frames)\n", mutedStyle.Render("wrote"), accentStyle.Render(path), frames)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file or directory (default <slugified title>.gif)")
	cmd.Flags().IntVar(&width, "width", parameter.DefaultRenderWidth, "canvas width in px")
	return cmd
}

// outputPath names the GIF after the note title unless output is a .gif file
func outputPath(output, title string) string {
	if strings.EqualFold(filepath.Ext(output), ".gif") {
		return output
	}
	name := slug.Make(title)
	if name == "" {
		name = "bloom"
	}
	return filepath.Join(output, name+".gif")
}

// scaleRuns applies the configured body size, keeping heading proportions
func scaleRuns(runs []glyph.Text, fontSize float64) []glyph.Text {
	if fontSize <= 0 || fontSize == parameter.DefaultFontSizePx {
		return runs
	}
	k := fontSize / parameter.DefaultFontSizePx
	out := make([]glyph.Text, len(runs))
	for i, r := range runs {
		r.Style.FontSizePx *= k
		out[i] = r
	}
	return out
}

// renderGIF lays the note out in px, plays one bloom on a simulated clock and
// encodes one frame per RecordFrameInterval, framed by still source frames
func renderGIF(ctx context.Context, w io.Writer, note *document.Note, s config.Settings, width int, rng *rand.Rand, log *zap.Logger) (int, error) {
	if width <= 0 {
		width = parameter.DefaultRenderWidth
	}

	faces, err := layout.NewFaceSet()
	if err != nil {
		return 0, err
	}
	defer faces.Close()

	probe, err := layout.NewFaceProbe(scaleRuns(note.Runs, s.FontSize), faces, float64(width))
	if err != nil {
		return 0, fmt.Errorf("failed to lay out note: %w", err)
	}
	height := max(int(math.Ceil(probe.ContentHeight())), parameter.DefaultRenderHeight)
	region := glyph.Rect{Width: float64(width), Height: float64(height)}

	rec := surface.NewRecorder(width, height, faces, probe.Placed(), parameter.RecordFrameInterval)
	mock := clock.NewMockTimeProvider(time.Unix(0, 0))
	driver := playback.NewDriver(rec, playback.WithClock(mock), playback.WithLogger(log))
	engine := bloom.New(probe, driver, bloom.WithLogger(log))
	defer driver.Shutdown()

	if err := rec.Capture(); err != nil {
		return 0, err
	}

	run, err := engine.Bloom(ctx, region, resolveParams(s, note.Overrides), rng)
	if err != nil {
		return 0, err
	}
	if run != nil {
		if err := record(ctx, run, mock); err != nil {
			return 0, err
		}
	}

	if err := rec.Capture(); err != nil {
		return 0, err
	}
	if err := rec.Encode(w); err != nil {
		return 0, err
	}
	log.Info("GIF recorded", zap.String("title", note.Title), zap.Int("frames", rec.Frames()))
	return rec.Frames(), nil
}

// record steps the simulated clock frame by frame until the run tears down
func record(ctx context.Context, run *playback.Run, mock *clock.MockTimeProvider) error {
	for {
		if err := run.Render(mock.Now()); err != nil && !errors.Is(err, surface.ErrClosed) {
			return err
		}
		mock.Advance(parameter.RecordFrameInterval)

		if mock.Now().Before(run.Deadline()) {
			continue
		}
		waitCtx, cancel := context.WithTimeout(ctx, settleTimeout)
		err := run.Wait(waitCtx)
		cancel()
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			run.Cancel()
			<-run.Done()
			return ctx.Err()
		}
	}
}
