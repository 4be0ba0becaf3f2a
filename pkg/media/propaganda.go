package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	templateWidth  = 480
	templateHeight = 400
	templateHeader = "YOU ARE NOT IMMUNE TO"
)

var ErrEmptyPhrase = errors.New("phrase is empty")

// PropagandaRenderer captions a fixed template image.
type PropagandaRenderer struct {
	template image.Image
}

// NewPropagandaRenderer loads the template at path. With an empty path a
// plain template carrying only the header line is generated.
func NewPropagandaRenderer(path string) (*PropagandaRenderer, error) {
	if path == "" {
		return &PropagandaRenderer{template: defaultTemplate()}, nil
	}
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("open propaganda template: %w", err)
	}
	return &PropagandaRenderer{template: img}, nil
}

// Render writes phrase across the bottom of the template and returns a JPEG.
func (r *PropagandaRenderer) Render(phrase string) ([]byte, error) {
	phrase = strings.ToUpper(strings.TrimSpace(phrase))
	if phrase == "" {
		return nil, ErrEmptyPhrase
	}

	canvas := imaging.Clone(r.template)
	b := canvas.Bounds()
	band := image.Rect(b.Min.X, b.Min.Y+b.Dy()*4/5, b.Max.X, b.Max.Y)
	canvas = drawCaption(canvas, phrase, band)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, canvas, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

func defaultTemplate() image.Image {
	canvas := imaging.New(templateWidth, templateHeight, color.White)
	band := image.Rect(0, 0, templateWidth, templateHeight/5)
	return drawCaption(canvas, templateHeader, band)
}

// drawCaption renders text in white with a black outline, scaled to fill as
// much of band as the aspect ratio allows, centered within it.
func drawCaption(dst *image.NRGBA, text string, band image.Rectangle) *image.NRGBA {
	face := basicfont.Face7x13
	metrics := face.Metrics()
	textW := font.MeasureString(face, text).Ceil()
	textH := metrics.Height.Ceil()

	// One pixel of padding on each side for the outline.
	small := imaging.New(textW+2, textH+2, color.Transparent)
	baseline := 1 + metrics.Ascent.Ceil()

	outline := &font.Drawer{Dst: small, Src: image.NewUniform(color.Black), Face: face}
	for _, d := range []image.Point{{0, 0}, {1, 0}, {2, 0}, {0, 1}, {2, 1}, {0, 2}, {1, 2}, {2, 2}} {
		outline.Dot = fixed.P(d.X, baseline-1+d.Y)
		outline.DrawString(text)
	}
	fill := &font.Drawer{Dst: small, Src: image.NewUniform(color.White), Face: face, Dot: fixed.P(1, baseline)}
	fill.DrawString(text)

	margin := band.Dy() / 10
	maxW := band.Dx() - 2*margin
	maxH := band.Dy() - 2*margin
	scale := min(float64(maxW)/float64(small.Bounds().Dx()), float64(maxH)/float64(small.Bounds().Dy()))
	if scale <= 0 {
		return dst
	}

	w := int(float64(small.Bounds().Dx()) * scale)
	h := int(float64(small.Bounds().Dy()) * scale)
	scaled := imaging.Resize(small, w, h, imaging.NearestNeighbor)

	at := image.Pt(band.Min.X+(band.Dx()-w)/2, band.Min.Y+(band.Dy()-h)/2)
	return imaging.Overlay(dst, scaled, at, 1.0)
}
