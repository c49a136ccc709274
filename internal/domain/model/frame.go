// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/okian/dancercade/internal/domain/pose"
)

// Frame identifies one video frame handed to the detector.
type Frame struct {
	ID         string        // unique frame id
	MediaTime  time.Duration // position in the stream, the staleness key
	CapturedAt time.Time     // wall clock when the frame was produced
}

// Detection is the detector's result for one frame.
type Detection struct {
	Landmarks []pose.LandmarkSet
}

// Sample is a frame together with its already computed detection, as pushed
// by a remote pose model or read from a recording.
type Sample struct {
	Frame     Frame
	Detection Detection
}

// Body is a landmark set drawn untransformed with a uniform color. An empty
// color leaves the choice to the renderer.
type Body struct {
	Set   pose.LandmarkSet
	Color pose.Color
}

// Scene is everything a renderer needs to draw one frame. Exactly one of
// Points (mirrored path) or Bodies (untransformed path) is populated; an
// empty scene clears the canvas.
type Scene struct {
	Frame       Frame
	Mirrored    bool
	Points      []pose.ColoredPoint
	Bodies      []Body
	Skeletons   []pose.LandmarkSet
	Connections []pose.Connection
}
