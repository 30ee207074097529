package hough

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

const (
	outlineThickness = 3
	centerRadius     = 2
)

var (
	outlineColor = color.RGBA{R: 255, A: 255}
	centerColor  = color.RGBA{G: 255, A: 255}
)

// Annotate returns a copy of input with every circle outlined and its center marked.
func Annotate(input image.Image, circles []Circle) *image.RGBA {
	bounds := input.Bounds()
	ret := image.NewRGBA(bounds)
	draw.Draw(ret, bounds, input, bounds.Min, draw.Src)
	for _, c := range circles {
		drawRing(ret, c.X, c.Y, float64(c.Radius), outlineThickness, outlineColor)
		drawRing(ret, c.X, c.Y, centerRadius, outlineThickness, centerColor)
	}
	return ret
}

func drawRing(img *image.RGBA, cx, cy int, radius, thickness float64, c color.RGBA) {
	half := thickness / 2
	outer := radius + half
	inner := radius - half
	if inner < 1 {
		inner = 0
	}
	r := int(math.Ceil(outer))
	rect := image.Rect(cx-r, cy-r, cx+r+1, cy+r+1).Intersect(img.Bounds())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			d := math.Hypot(float64(x-cx), float64(y-cy))
			if d >= inner && d <= outer {
				img.SetRGBA(x, y, c)
			}
		}
	}
}
