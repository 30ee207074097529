package hough

import "fmt"

// Config holds circle detection parameters.
type Config struct {
	// MinDistDivisor sets the minimum center distance to rows/MinDistDivisor.
	MinDistDivisor int `json:"minDistDivisor" yaml:"minDistDivisor"`
	// EdgeThreshold is the gradient magnitude an edge pixel must reach.
	EdgeThreshold int `json:"edgeThreshold" yaml:"edgeThreshold"`
	// AccumulatorThreshold is the number of votes a center needs.
	AccumulatorThreshold int `json:"accumulatorThreshold" yaml:"accumulatorThreshold"`
	MinRadius            int `json:"minRadius" yaml:"minRadius"`
	MaxRadius            int `json:"maxRadius" yaml:"maxRadius"`
	// BlurSize is the median filter aperture; odd, 1 disables blurring.
	BlurSize int `json:"blurSize" yaml:"blurSize"`
}

// DefaultConfig returns detection defaults (dp=1, rows/16, 100, 30, 1..30, median 5).
func DefaultConfig() Config {
	return Config{
		MinDistDivisor:       16,
		EdgeThreshold:        100,
		AccumulatorThreshold: 30,
		MinRadius:            1,
		MaxRadius:            30,
		BlurSize:             5,
	}
}

// Validate checks parameter consistency.
func (c *Config) Validate() error {
	if c.MinDistDivisor <= 0 {
		return fmt.Errorf("hough.minDistDivisor must be > 0")
	}
	if c.EdgeThreshold <= 0 {
		return fmt.Errorf("hough.edgeThreshold must be > 0")
	}
	if c.AccumulatorThreshold <= 0 {
		return fmt.Errorf("hough.accumulatorThreshold must be > 0")
	}
	if c.MinRadius < 1 || c.MaxRadius < c.MinRadius {
		return fmt.Errorf("hough radius range [%d, %d] is invalid", c.MinRadius, c.MaxRadius)
	}
	if c.BlurSize < 1 || c.BlurSize%2 == 0 {
		return fmt.Errorf("hough.blurSize must be a positive odd number")
	}
	return nil
}
