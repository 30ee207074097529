// Package hough detects circles with a gradient based Hough transform and
// annotates them on a copy of the input.
package hough

import (
	"context"
	"errors"
	"image"
	"math"
	"sort"
	"sync"

	"github.com/viant/houghcircles/model/allocation"
	"github.com/viant/houghcircles/service/work"
)

// ErrEmptyImage is returned for a nil or zero sized input.
var ErrEmptyImage = errors.New("hough: empty image")

// Circle is a detected circle in input coordinates.
type Circle struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Radius int `json:"radius"`
	Votes  int `json:"votes"`
}

// Detector finds circles.  It keeps no per-image state and is safe for
// concurrent use.
type Detector struct {
	config Config
}

var _ work.Unit = (*Detector)(nil)

// Process detects circles using as many workers as the allocation grants
// processors and returns the annotated image.
func (d *Detector) Process(ctx context.Context, input image.Image, alloc allocation.Snapshot) (image.Image, error) {
	circles, err := d.Detect(ctx, input, alloc.Parallelism())
	if err != nil {
		return nil, err
	}
	return Annotate(input, circles), nil
}

// Detect returns circles ordered by accumulator votes.
func (d *Detector) Detect(ctx context.Context, input image.Image, workers int) ([]Circle, error) {
	if input == nil || input.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	bounds := input.Bounds()
	gray := medianBlur(grayPlane(input), d.config.BlurSize, workers)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	grad := sobel(smooth(gray, workers), workers)
	edges := thinEdges(gray, grad, float64(d.config.EdgeThreshold))
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	acc := boxSum(d.vote(edges, gray.width, gray.height, workers), gray.width, gray.height)
	candidates := d.centers(acc, gray.width, gray.height)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	minDist := max(1, gray.height/d.config.MinDistDivisor)
	minDist2 := minDist * minDist
	var circles []Circle
	for _, c := range candidates {
		tooClose := false
		for _, accepted := range circles {
			dx, dy := c.x+bounds.Min.X-accepted.X, c.y+bounds.Min.Y-accepted.Y
			if dx*dx+dy*dy < minDist2 {
				tooClose = true
				break
			}
		}
		if tooClose {
			continue
		}
		radius, support := d.estimateRadius(c.x, c.y, edges)
		if radius == 0 || support < d.config.AccumulatorThreshold {
			continue
		}
		if float64(support) < minCoverage*2*math.Pi*float64(radius) {
			continue
		}
		circles = append(circles, Circle{X: c.x + bounds.Min.X, Y: c.y + bounds.Min.Y, Radius: radius, Votes: int(c.votes)})
	}
	return circles, nil
}

// vote casts, for every edge pixel, one vote per radius in both gradient directions.
func (d *Detector) vote(edges []edge, width, height, workers int) []int32 {
	acc := make([]int32, width*height)
	var mux sync.Mutex
	parallel(len(edges), workers, func(lo, hi int) {
		local := make([]int32, width*height)
		for _, e := range edges[lo:hi] {
			for r := d.config.MinRadius; r <= d.config.MaxRadius; r++ {
				for _, sign := range [2]float64{1, -1} {
					cx := int(math.Round(float64(e.x) + sign*float64(r)*e.dx))
					cy := int(math.Round(float64(e.y) + sign*float64(r)*e.dy))
					if cx < 0 || cy < 0 || cx >= width || cy >= height {
						continue
					}
					local[cy*width+cx]++
				}
			}
		}
		mux.Lock()
		for i, v := range local {
			acc[i] += v
		}
		mux.Unlock()
	})
	return acc
}

// boxSum counts votes over a 3x3 neighbourhood.
func boxSum(acc []int32, width, height int) []int32 {
	ret := make([]int32, len(acc))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sum int32
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if nx < 0 || ny < 0 || nx >= width || ny >= height {
						continue
					}
					sum += acc[ny*width+nx]
				}
			}
			ret[y*width+x] = sum
		}
	}
	return ret
}

type candidate struct {
	x, y  int
	votes int32
}

func (d *Detector) centers(acc []int32, width, height int) []candidate {
	threshold := int32(d.config.AccumulatorThreshold)
	var ret []candidate
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			i := y*width + x
			v := acc[i]
			if v <= threshold {
				continue
			}
			if v > acc[i-1] && v >= acc[i+1] && v > acc[i-width] && v >= acc[i+width] {
				ret = append(ret, candidate{x: x, y: y, votes: v})
			}
		}
	}
	sort.SliceStable(ret, func(i, j int) bool { return ret[i].votes > ret[j].votes })
	return ret
}

// minCoverage is the share of a circle's circumference that must be backed by edge pixels.
const minCoverage = 0.5

// estimateRadius picks the radius most edge pixels agree on, weighting each
// bin with its direct neighbours.  support counts edge pixels within one
// pixel of the chosen radius.
func (d *Detector) estimateRadius(cx, cy int, edges []edge) (radius, support int) {
	hist := make([]int, d.config.MaxRadius+2)
	for _, e := range edges {
		r := int(math.Round(math.Hypot(float64(e.x-cx), float64(e.y-cy))))
		if r < d.config.MinRadius || r > d.config.MaxRadius {
			continue
		}
		hist[r]++
	}
	best := 0
	for r := d.config.MinRadius; r <= d.config.MaxRadius; r++ {
		score := 2*hist[r] + hist[r-1] + hist[r+1]
		if score > best {
			best, radius = score, r
		}
	}
	if radius == 0 {
		return 0, 0
	}
	return radius, hist[radius-1] + hist[radius] + hist[radius+1]
}

// New creates a detector.
func New(config Config) (*Detector, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Detector{config: config}, nil
}
