package surface

import (
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"io"
	"math"
	"sync"
	"time"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"

	"github.com/lixenwraith/petal-bloom/glyph"
	"github.com/lixenwraith/petal-bloom/layout"
	"github.com/lixenwraith/petal-bloom/parameter"
	"github.com/lixenwraith/petal-bloom/parameter/visual"
	"github.com/lixenwraith/petal-bloom/playback"
	"github.com/lixenwraith/petal-bloom/render"
)

// minAxisScale keeps edge-on petals from collapsing to a degenerate transform
const minAxisScale = 0.05

// Recorder is a raster surface that captures every drawn frame for GIF encoding
type Recorder struct {
	mu     sync.Mutex
	bounds image.Rectangle
	faces  *layout.FaceSet
	source []layout.Placed
	delay  int // 1/100 s

	sourceVisible bool
	open          bool
	region        glyph.Rect

	canvas *image.RGBA
	frames []*image.Paletted
	delays []int
	masks  map[maskKey]*image.Alpha
}

type maskKey struct {
	char  string
	style glyph.Style
	w, h  int
}

// NewRecorder creates a width x height recorder drawing source with faces
func NewRecorder(width, height int, faces *layout.FaceSet, source []layout.Placed, frameInterval time.Duration) *Recorder {
	b := image.Rect(0, 0, width, height)
	return &Recorder{
		bounds:        b,
		faces:         faces,
		source:        source,
		delay:         max(1, int(frameInterval/(10*time.Millisecond))),
		sourceVisible: true,
		canvas:        image.NewRGBA(b),
		masks:         make(map[maskKey]*image.Alpha),
	}
}

// Open implements playback.Surface
func (r *Recorder) Open(region glyph.Rect) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.region = region
	r.open = true
	return nil
}

// SetSourceVisible implements playback.Surface
func (r *Recorder) SetSourceVisible(visible bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sourceVisible = visible
}

// Close implements playback.Surface
func (r *Recorder) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.open = false
}

// Draw implements playback.Surface, appending one frame
func (r *Recorder) Draw(poses []playback.Pose) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.open {
		return ErrClosed
	}
	return r.captureLocked(poses)
}

// Capture appends a frame of the current state without overlay elements
func (r *Recorder) Capture() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.captureLocked(nil)
}

// Frames returns the number of captured frames
func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

// Encode writes the captured frames as a looping GIF
func (r *Recorder) Encode(w io.Writer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.frames) == 0 {
		return fmt.Errorf("encode gif: no frames")
	}
	if err := gif.EncodeAll(w, &gif.GIF{Image: r.frames, Delay: r.delays}); err != nil {
		return fmt.Errorf("encode gif: %w", err)
	}
	return nil
}

func (r *Recorder) captureLocked(poses []playback.Pose) error {
	bg := visual.RgbBackground
	xdraw.Draw(r.canvas, r.bounds, image.NewUniform(color.RGBA{bg.R, bg.G, bg.B, 255}), image.Point{}, xdraw.Src)

	if r.sourceVisible {
		if err := r.drawSource(); err != nil {
			return err
		}
	}
	for _, p := range poses {
		if err := r.drawPose(p); err != nil {
			return err
		}
	}

	frame := image.NewPaletted(r.bounds, palette.Plan9)
	xdraw.FloydSteinberg.Draw(frame, r.bounds, r.canvas, image.Point{})
	r.frames = append(r.frames, frame)
	r.delays = append(r.delays, r.delay)
	return nil
}

func toColor(c render.RGB, alpha float64) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(255 * clampAlpha(alpha)))}
}

func clampAlpha(a float64) float64 {
	return math.Max(0, math.Min(1, a))
}

func (r *Recorder) drawSource() error {
	for _, p := range r.source {
		face, err := r.faces.Face(p.Style)
		if err != nil {
			return err
		}
		d := font.Drawer{
			Dst:  r.canvas,
			Src:  image.NewUniform(toColor(p.Style.Color, 1)),
			Face: face,
			Dot:  fixed.P(int(math.Round(p.Box.Left)), int(math.Round(p.Box.Top))+face.Metrics().Ascent.Ceil()),
		}
		d.DrawString(p.Text)
	}
	return nil
}

// glyphMask renders char into an alpha mask the size of its box
func (r *Recorder) glyphMask(char string, style glyph.Style, box glyph.Rect) (*image.Alpha, error) {
	key := maskKey{char: char, style: style, w: int(math.Ceil(box.Width)), h: int(math.Ceil(box.Height))}
	if m, ok := r.masks[key]; ok {
		return m, nil
	}
	face, err := r.faces.Face(style)
	if err != nil {
		return nil, err
	}
	m := image.NewAlpha(image.Rect(0, 0, max(1, key.w), max(1, key.h)))
	d := font.Drawer{
		Dst:  m,
		Src:  image.Opaque,
		Face: face,
		Dot:  fixed.P(0, face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(char)
	r.masks[key] = m
	return m, nil
}

// halfTile colors one clipped half of the glyph mask with the petal gradient
func halfTile(mask *image.Alpha, el *playback.Element, opacity float64) *image.NRGBA {
	b := mask.Bounds()
	tile := image.NewNRGBA(b)
	mid := b.Dx() / 2

	theta := el.GradientAngle * math.Pi / 180
	dx, dy := math.Sin(theta), -math.Cos(theta)
	cx, cy := float64(b.Dx())/2, float64(b.Dy())/2
	extent := math.Abs(dx)*cx + math.Abs(dy)*cy
	if extent == 0 {
		extent = 1
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if (el.Side == playback.SideLeft && x >= mid) || (el.Side == playback.SideRight && x < mid) {
				continue
			}
			a := mask.AlphaAt(x, y).A
			if a == 0 {
				continue
			}
			t := ((float64(x)+0.5-cx)*dx + (float64(y)+0.5-cy)*dy) / extent
			c := render.Blend(el.Color, el.Accent, (t+1)/2)
			tile.SetNRGBA(x, y, toColor(c, opacity*float64(a)/255))
		}
	}
	return tile
}

// placement maps tile space onto the canvas: translate, rotateZ, then rotateX/rotateY
// foreshortening and perspective scaling around the element center
func placement(tileW, tileH, destX, destY float64, p playback.Pose) f64.Aff3 {
	t := p.Transform
	persp := parameter.PerspectivePx / math.Max(parameter.PerspectivePx-t.TranslateZ, 1)
	scale := t.Scale
	if scale == 0 {
		scale = 1
	}
	sx := math.Max(math.Abs(math.Cos(t.RotateY*math.Pi/180)), minAxisScale) * persp * scale
	sy := math.Max(math.Abs(math.Cos(t.RotateX*math.Pi/180)), minAxisScale) * persp * scale

	sin, cos := math.Sincos(t.RotateZ * math.Pi / 180)
	a00, a01 := cos*sx, -sin*sy
	a10, a11 := sin*sx, cos*sy
	cx, cy := tileW/2, tileH/2
	return f64.Aff3{
		a00, a01, destX - (a00*cx + a01*cy),
		a10, a11, destY - (a10*cx + a11*cy),
	}
}

func (r *Recorder) drawPose(p playback.Pose) error {
	el := p.Element
	if el == nil || p.Opacity <= 0.005 {
		return nil
	}
	tr := p.Transform
	cx, cy := el.Origin.Center()
	destX := r.region.Left + cx + tr.TranslateX
	destY := r.region.Top + cy + tr.TranslateY

	switch el.Kind {
	case playback.KindDust:
		radius := el.Size * math.Max(tr.Scale, 0) / 2
		r.drawDust(destX, destY, radius, el.Color, p.Opacity)
	case playback.KindHalf:
		mask, err := r.glyphMask(el.Char, el.Style, el.Origin)
		if err != nil {
			return err
		}
		tile := halfTile(mask, el, p.Opacity)
		w, h := float64(tile.Bounds().Dx()), float64(tile.Bounds().Dy())
		xdraw.BiLinear.Transform(r.canvas, placement(w, h, destX, destY, p), tile, tile.Bounds(), xdraw.Over, nil)
	}
	return nil
}

// drawDust paints a soft radial particle
func (r *Recorder) drawDust(cx, cy, radius float64, c render.RGB, opacity float64) {
	if radius <= 0 {
		return
	}
	x0, y0 := int(math.Floor(cx-radius)), int(math.Floor(cy-radius))
	x1, y1 := int(math.Ceil(cx+radius)), int(math.Ceil(cy+radius))
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if !(image.Point{X: x, Y: y}).In(r.bounds) {
				continue
			}
			d := math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy) / radius
			if d >= 1 {
				continue
			}
			a := opacity * (1 - d*d)
			dst := r.canvas.RGBAAt(x, y)
			base := render.RGB{R: dst.R, G: dst.G, B: dst.B}
			out := render.Screen(base, c, a)
			r.canvas.SetRGBA(x, y, color.RGBA{out.R, out.G, out.B, 255})
		}
	}
}
