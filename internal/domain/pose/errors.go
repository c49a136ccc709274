package pose

import "errors"

// Sentinel error kinds for frame processing. Both are frame-scoped.
var (
	// ErrMalformedLandmarkSet marks a set with the wrong joint count or a
	// missing anchor joint. The frame is dropped.
	ErrMalformedLandmarkSet = errors.New("malformed landmark set")

	// ErrUnsupportedBodyCount marks a frame with more than two bodies. The
	// frame is rendered untransformed.
	ErrUnsupportedBodyCount = errors.New("unsupported body count")
)
