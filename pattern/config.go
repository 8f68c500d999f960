package pattern

import "fmt"

// Default tuning values for segmentation and flattening. These are the
// single source of truth; DefaultSegmentationConfig and
// DefaultFlatteningConfig build from them.
const (
	// DefaultPositionWeight scales the centroid-distance term of the
	// clustering metric.
	DefaultPositionWeight = 0.3
	// DefaultNormalWeight scales the normal-deviation term (1 - dot).
	DefaultNormalWeight = 0.4
	// DefaultCurvatureWeight scales the curvature-difference term.
	DefaultCurvatureWeight = 0.3
	// DefaultEdgeLengthWeight scales the edge-length-difference term.
	DefaultEdgeLengthWeight = 0.1

	// DefaultMaxIterations caps Lloyd's refinement loop.
	DefaultMaxIterations = 50
	// DefaultConvergenceThreshold is the max center displacement below
	// which Lloyd's loop stops early.
	DefaultConvergenceThreshold = 1e-4
	// DefaultTimeoutSeconds is the segmentation wall-clock budget.
	DefaultTimeoutSeconds = 2.0
	// DefaultSmoothingPasses is the boundary relaxation pass count.
	DefaultSmoothingPasses = 3
	// DefaultSeed seeds K-means++ center selection. A fixed seed keeps
	// segmentation reproducible run to run; set RandomSeed to opt out.
	DefaultSeed = 1

	// DefaultRelaxationIterations caps the spring relaxation loop.
	DefaultRelaxationIterations = 200
	// DefaultRelaxationThreshold is the max per-iteration point
	// displacement below which relaxation stops early.
	DefaultRelaxationThreshold = 1e-5
)

// DistanceWeights holds the per-term weights of the clustering metric:
//
//	w_pos*|Δposition| + w_normal*(1 - dot(n1,n2)) + w_curv*|Δcurvature| + w_edge*|Δedgelen|
type DistanceWeights struct {
	Position   float32
	Normal     float32
	Curvature  float32
	EdgeLength float32
}

// SegmentationConfig tunes the segmentation pipeline. The zero value is not
// usable; start from DefaultSegmentationConfig and override fields.
type SegmentationConfig struct {
	DistanceWeights      DistanceWeights
	MaxIterations        int
	ConvergenceThreshold float32
	TimeoutSeconds       float32
	SmoothingPasses      int

	// Seed drives K-means++ center selection. Ignored when RandomSeed is
	// set, in which case each call seeds from the system clock and results
	// are not reproducible.
	Seed       int64
	RandomSeed bool
}

// DefaultSegmentationConfig returns the canonical segmentation tuning.
func DefaultSegmentationConfig() SegmentationConfig {
	return SegmentationConfig{
		DistanceWeights: DistanceWeights{
			Position:   DefaultPositionWeight,
			Normal:     DefaultNormalWeight,
			Curvature:  DefaultCurvatureWeight,
			EdgeLength: DefaultEdgeLengthWeight,
		},
		MaxIterations:        DefaultMaxIterations,
		ConvergenceThreshold: DefaultConvergenceThreshold,
		TimeoutSeconds:       DefaultTimeoutSeconds,
		SmoothingPasses:      DefaultSmoothingPasses,
		Seed:                 DefaultSeed,
	}
}

// Validate checks the configuration for values the pipeline cannot run
// with. Weights may be zero individually but not all together.
func (c SegmentationConfig) Validate() error {
	w := c.DistanceWeights
	if w.Position < 0 || w.Normal < 0 || w.Curvature < 0 || w.EdgeLength < 0 {
		return fmt.Errorf("distance weights must be non-negative, got %+v", w)
	}
	if w.Position+w.Normal+w.Curvature+w.EdgeLength <= 0 {
		return fmt.Errorf("distance weights sum to zero")
	}
	if c.MaxIterations < 1 {
		return fmt.Errorf("max iterations must be >= 1, got %d", c.MaxIterations)
	}
	if c.ConvergenceThreshold <= 0 {
		return fmt.Errorf("convergence threshold must be > 0, got %g", c.ConvergenceThreshold)
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout must be > 0 seconds, got %g", c.TimeoutSeconds)
	}
	if c.SmoothingPasses < 0 {
		return fmt.Errorf("smoothing passes must be >= 0, got %d", c.SmoothingPasses)
	}
	return nil
}

// FlatteningConfig tunes the spring relaxation step of the flattening
// engine.
type FlatteningConfig struct {
	RelaxationIterations int
	ConvergenceThreshold float32
}

// DefaultFlatteningConfig returns the canonical flattening tuning.
func DefaultFlatteningConfig() FlatteningConfig {
	return FlatteningConfig{
		RelaxationIterations: DefaultRelaxationIterations,
		ConvergenceThreshold: DefaultRelaxationThreshold,
	}
}

// Validate checks the flattening configuration.
func (c FlatteningConfig) Validate() error {
	if c.RelaxationIterations < 1 {
		return fmt.Errorf("relaxation iterations must be >= 1, got %d", c.RelaxationIterations)
	}
	if c.ConvergenceThreshold <= 0 {
		return fmt.Errorf("convergence threshold must be > 0, got %g", c.ConvergenceThreshold)
	}
	return nil
}
