package printing

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"sync"

	"github.com/erp/printagent/internal/domain/printing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	defaultPreviewWidth = 576 // 80mm roll at 203 dpi
	defaultPreviewScale = 0.25
	previewBottomMargin = 16
)

var (
	monoOnce sync.Once
	monoFont *opentype.Font
	monoErr  error
)

// parsedMono returns the Go Mono face used as the preview stand-in for Consolas
func parsedMono() (*opentype.Font, error) {
	monoOnce.Do(func() {
		monoFont, monoErr = opentype.Parse(gomono.TTF)
	})
	return monoFont, monoErr
}

// ImageDeviceConfig contains configuration for the image device
type ImageDeviceConfig struct {
	// Width of each page in pixels (default: 576)
	Width int
	// Scale converts device logical units to pixels (default: 0.25)
	Scale float64
}

type textOp struct {
	x, y int
	text string
	face font.Face
}

// ImageDevice is a Device that rasterizes pages into RGBA images.
// It backs the ticket preview and behaves like a printer DC: text is drawn
// in logical units with its top-left corner at the given point.
type ImageDevice struct {
	width int
	scale float64

	fonts   map[FontHandle]font.Face
	next    FontHandle
	current FontHandle

	docName  string
	docOpen  bool
	pageOpen bool
	ops      []textOp
	pages    []*image.RGBA
	closed   bool
}

// NewImageDevice creates a new image device
func NewImageDevice(config *ImageDeviceConfig) *ImageDevice {
	if config == nil {
		config = &ImageDeviceConfig{}
	}
	d := &ImageDevice{
		width: config.Width,
		scale: config.Scale,
		fonts: map[FontHandle]font.Face{0: basicfont.Face7x13},
	}
	if d.width <= 0 {
		d.width = defaultPreviewWidth
	}
	if d.scale <= 0 {
		d.scale = defaultPreviewScale
	}
	return d
}

var errDeviceState = errors.New("image device: invalid state")

func (d *ImageDevice) StartDoc(name string) error {
	if d.closed || d.docOpen {
		return errDeviceState
	}
	d.docName = name
	d.docOpen = true
	return nil
}

func (d *ImageDevice) StartPage() error {
	if !d.docOpen || d.pageOpen {
		return errDeviceState
	}
	d.pageOpen = true
	d.ops = d.ops[:0]
	return nil
}

func (d *ImageDevice) CreateFont(spec printing.FontSpec) (FontHandle, error) {
	if spec.Height <= 0 {
		return 0, errors.New("image device: font height must be positive")
	}
	f, err := parsedMono()
	if err != nil {
		return 0, err
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(spec.Height) * d.scale,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return 0, err
	}
	d.next++
	d.fonts[d.next] = face
	return d.next, nil
}

func (d *ImageDevice) SelectFont(h FontHandle) (FontHandle, error) {
	if _, ok := d.fonts[h]; !ok {
		return 0, errors.New("image device: unknown font")
	}
	prev := d.current
	d.current = h
	return prev, nil
}

func (d *ImageDevice) DeleteFont(h FontHandle) error {
	face, ok := d.fonts[h]
	if !ok || h == 0 {
		return errors.New("image device: unknown font")
	}
	if h == d.current {
		return errors.New("image device: font is selected")
	}
	delete(d.fonts, h)
	return face.Close()
}

func (d *ImageDevice) TextMetrics() (printing.TextMetrics, error) {
	m := d.fonts[d.current].Metrics()
	glyph := m.Ascent + m.Descent
	leading := m.Height - glyph
	if leading < 0 {
		leading = 0
	}
	return printing.TextMetrics{
		Height:          d.toLogical(glyph),
		ExternalLeading: d.toLogical(leading),
	}, nil
}

func (d *ImageDevice) TextOut(x, y int, text string) error {
	if !d.pageOpen {
		return errDeviceState
	}
	d.ops = append(d.ops, textOp{x: x, y: y, text: text, face: d.fonts[d.current]})
	return nil
}

func (d *ImageDevice) EndPage() error {
	if !d.pageOpen {
		return errDeviceState
	}
	d.pageOpen = false
	d.pages = append(d.pages, d.paint())
	return nil
}

func (d *ImageDevice) EndDoc() error {
	if !d.docOpen || d.pageOpen {
		return errDeviceState
	}
	d.docOpen = false
	return nil
}

func (d *ImageDevice) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	for h, face := range d.fonts {
		if h != 0 {
			_ = face.Close()
		}
	}
	return nil
}

// Pages returns the images of the completed pages
func (d *ImageDevice) Pages() []*image.RGBA {
	return d.pages
}

// EncodePNG writes page i as PNG
func (d *ImageDevice) EncodePNG(w io.Writer, i int) error {
	if i < 0 || i >= len(d.pages) {
		return errors.New("image device: no such page")
	}
	return png.Encode(w, d.pages[i])
}

func (d *ImageDevice) toLogical(v fixed.Int26_6) int {
	return int(float64(v.Ceil()) / d.scale)
}

func (d *ImageDevice) toPixels(v int) int {
	return int(float64(v) * d.scale)
}

// paint draws the recorded operations onto a white page tall enough for them
func (d *ImageDevice) paint() *image.RGBA {
	height := previewBottomMargin
	for _, op := range d.ops {
		m := op.face.Metrics()
		bottom := d.toPixels(op.y) + (m.Ascent + m.Descent).Ceil() + previewBottomMargin
		height = max(height, bottom)
	}

	img := image.NewRGBA(image.Rect(0, 0, d.width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	for _, op := range d.ops {
		drawer := &font.Drawer{
			Dst:  img,
			Src:  image.Black,
			Face: op.face,
			Dot: fixed.Point26_6{
				X: fixed.I(d.toPixels(op.x)),
				Y: fixed.I(d.toPixels(op.y)) + op.face.Metrics().Ascent,
			},
		}
		drawer.DrawString(op.text)
	}
	return img
}

var _ Device = (*ImageDevice)(nil)
