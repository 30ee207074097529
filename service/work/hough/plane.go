package hough

import (
	"image"
	"image/color"
	"math"
)

// plane is a single channel intensity image with origin at 0,0.
type plane struct {
	width  int
	height int
	pix    []int32
}

func newPlane(width, height int) *plane {
	return &plane{width: width, height: height, pix: make([]int32, width*height)}
}

// at returns the value at x,y replicating the border.
func (p *plane) at(x, y int) int32 {
	x = clamp(x, 0, p.width-1)
	y = clamp(y, 0, p.height-1)
	return p.pix[y*p.width+x]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func grayPlane(img image.Image) *plane {
	bounds := img.Bounds()
	ret := newPlane(bounds.Dx(), bounds.Dy())
	for y := 0; y < ret.height; y++ {
		for x := 0; x < ret.width; x++ {
			gray := color.GrayModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray)
			ret.pix[y*ret.width+x] = int32(gray.Y)
		}
	}
	return ret
}

func medianBlur(src *plane, size, workers int) *plane {
	if size <= 1 {
		return src
	}
	radius := size / 2
	dst := newPlane(src.width, src.height)
	parallel(src.height, workers, func(lo, hi int) {
		window := make([]int32, size*size)
		for y := lo; y < hi; y++ {
			for x := 0; x < src.width; x++ {
				k := 0
				for dy := -radius; dy <= radius; dy++ {
					for dx := -radius; dx <= radius; dx++ {
						window[k] = src.at(x+dx, y+dy)
						k++
					}
				}
				insertionSort(window)
				dst.pix[y*dst.width+x] = window[len(window)/2]
			}
		}
	})
	return dst
}

func insertionSort(values []int32) {
	for i := 1; i < len(values); i++ {
		v := values[i]
		j := i - 1
		for ; j >= 0 && values[j] > v; j-- {
			values[j+1] = values[j]
		}
		values[j+1] = v
	}
}

// smooth applies a 3x3 binomial kernel.
func smooth(src *plane, workers int) *plane {
	dst := newPlane(src.width, src.height)
	parallel(src.height, workers, func(lo, hi int) {
		for y := lo; y < hi; y++ {
			for x := 0; x < src.width; x++ {
				sum := src.at(x-1, y-1) + 2*src.at(x, y-1) + src.at(x+1, y-1) +
					2*src.at(x-1, y) + 4*src.at(x, y) + 2*src.at(x+1, y) +
					src.at(x-1, y+1) + 2*src.at(x, y+1) + src.at(x+1, y+1)
				dst.pix[y*dst.width+x] = (sum + 8) / 16
			}
		}
	})
	return dst
}

type gradient struct {
	gx  []int32
	gy  []int32
	mag []float64
}

func (g *gradient) magAt(p *plane, x, y int) float64 {
	x = clamp(x, 0, p.width-1)
	y = clamp(y, 0, p.height-1)
	return g.mag[y*p.width+x]
}

func sobel(src *plane, workers int) *gradient {
	size := src.width * src.height
	ret := &gradient{gx: make([]int32, size), gy: make([]int32, size), mag: make([]float64, size)}
	parallel(src.height, workers, func(lo, hi int) {
		for y := lo; y < hi; y++ {
			for x := 0; x < src.width; x++ {
				gx := src.at(x+1, y-1) + 2*src.at(x+1, y) + src.at(x+1, y+1) -
					src.at(x-1, y-1) - 2*src.at(x-1, y) - src.at(x-1, y+1)
				gy := src.at(x-1, y+1) + 2*src.at(x, y+1) + src.at(x+1, y+1) -
					src.at(x-1, y-1) - 2*src.at(x, y-1) - src.at(x+1, y-1)
				i := y*src.width + x
				ret.gx[i] = gx
				ret.gy[i] = gy
				ret.mag[i] = math.Hypot(float64(gx), float64(gy))
			}
		}
	})
	return ret
}

type edge struct {
	x, y   int
	dx, dy float64
}

const (
	tan22 = 0.41421356
	tan67 = 2.41421356
)

// thinEdges keeps pixels above threshold that are local maxima along their
// gradient direction.
func thinEdges(p *plane, g *gradient, threshold float64) []edge {
	var ret []edge
	for y := 0; y < p.height; y++ {
		for x := 0; x < p.width; x++ {
			i := y*p.width + x
			mag := g.mag[i]
			if mag < threshold {
				continue
			}
			gx, gy := float64(g.gx[i]), float64(g.gy[i])
			ax, ay := math.Abs(gx), math.Abs(gy)
			var before, after float64
			switch {
			case ay <= ax*tan22:
				before, after = g.magAt(p, x-1, y), g.magAt(p, x+1, y)
			case ay >= ax*tan67:
				before, after = g.magAt(p, x, y-1), g.magAt(p, x, y+1)
			case gx*gy > 0:
				before, after = g.magAt(p, x-1, y-1), g.magAt(p, x+1, y+1)
			default:
				before, after = g.magAt(p, x+1, y-1), g.magAt(p, x-1, y+1)
			}
			if mag < before || mag <= after {
				continue
			}
			ret = append(ret, edge{x: x, y: y, dx: gx / mag, dy: gy / mag})
		}
	}
	return ret
}
