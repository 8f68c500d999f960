package pattern

import "errors"

// Error kinds returned by the engine. Callers match with errors.Is; every
// return site wraps one of these sentinels with fmt.Errorf("...: %w", ...)
// so the failing stage and offending indices stay visible in the message.
var (
	// ErrInvalidMesh reports a malformed or degenerate input mesh:
	// out-of-range triangle indices, fewer than 3 vertices, or an index
	// list whose length is not a multiple of 3.
	ErrInvalidMesh = errors.New("invalid mesh")

	// ErrInvalidPanelCount reports a target panel count outside
	// [1, triangle count].
	ErrInvalidPanelCount = errors.New("invalid panel count")

	// ErrSegmentationTimeout reports that the segmentation wall-clock
	// budget expired mid-algorithm.
	ErrSegmentationTimeout = errors.New("segmentation timeout")

	// ErrSegmentationFailed reports that segmentation completed but
	// produced zero usable panels.
	ErrSegmentationFailed = errors.New("segmentation produced no panels")

	// ErrEmptyPanel reports a panel with no triangles or no vertices
	// handed to the flattening engine.
	ErrEmptyPanel = errors.New("empty panel")

	// ErrInvalidGeometry reports a panel whose geometry cannot be
	// flattened (fewer than 3 vertices).
	ErrInvalidGeometry = errors.New("invalid panel geometry")

	// ErrCancelled reports cooperative cancellation observed at a yield
	// point.
	ErrCancelled = errors.New("cancelled")

	// ErrTimeout reports a caller-imposed context deadline observed at a
	// yield point.
	ErrTimeout = errors.New("timeout")
)
