package media

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"

	"github.com/disintegration/imaging"
)

const (
	petpetFrames = 10
	petpetSize   = 128
	// GIF delays are in hundredths of a second.
	petpetDelay = 2
)

var petpetPalette = append(color.Palette{color.Transparent}, palette.Plan9[:255]...)

// RenderPetpet turns an image into a looping GIF of it being squished.
func RenderPetpet(data []byte) ([]byte, error) {
	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	base := imaging.Fill(src, petpetSize, petpetSize, imaging.Center, imaging.Lanczos)

	anim := &gif.GIF{LoopCount: 0}
	bounds := image.Rect(0, 0, petpetSize, petpetSize)

	for i := 0; i < petpetFrames; i++ {
		squeeze := i
		if i >= petpetFrames/2 {
			squeeze = petpetFrames - i
		}
		frame := petpetFrame(base, float64(squeeze))

		paletted := image.NewPaletted(bounds, petpetPalette)
		draw.Draw(paletted, bounds, frame, image.Point{}, draw.Src)

		anim.Image = append(anim.Image, paletted)
		anim.Delay = append(anim.Delay, petpetDelay)
		anim.Disposal = append(anim.Disposal, gif.DisposalBackground)
	}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, anim); err != nil {
		return nil, fmt.Errorf("encode gif: %w", err)
	}
	return buf.Bytes(), nil
}

// petpetFrame scales base down, wider and flatter as squeeze grows, and
// anchors it near the bottom of a transparent canvas.
func petpetFrame(base image.Image, squeeze float64) *image.NRGBA {
	width := 0.8 + squeeze*0.02
	height := 0.8 - squeeze*0.05
	offsetX := (1-width)*0.5 + 0.1
	offsetY := (1 - height) - 0.08

	w := int(width * petpetSize)
	h := int(height * petpetSize)
	squished := imaging.Resize(base, w, h, imaging.Lanczos)

	canvas := imaging.New(petpetSize, petpetSize, color.Transparent)
	return imaging.Paste(canvas, squished, image.Pt(int(offsetX*petpetSize), int(offsetY*petpetSize)))
}
