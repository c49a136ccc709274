// Package types contains the wire types shared by the HTTP API and the viewers
package types

import (
	"time"

	"github.com/okian/dancercade/internal/domain/pose"
)

// ViewPoint is one drawn landmark in normalized image coordinates
type ViewPoint struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"r"`
	Color  string  `json:"color,omitempty"`
}

// ViewSegment is one drawn skeleton connector
type ViewSegment struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// FrameView is a renderer-independent drawing of one frame. An empty view
// means the canvas is cleared.
type FrameView struct {
	FrameID     string        `json:"frameId"`
	MediaTimeMs int64         `json:"mediaTimeMs"`
	Mirrored    bool          `json:"mirrored"`
	Bodies      int           `json:"bodies"`
	Points      []ViewPoint   `json:"points"`
	Segments    []ViewSegment `json:"segments"`
	RenderedAt  time.Time     `json:"renderedAt"`
}

// FrameSubmission is a detection pushed by a remote pose model
type FrameSubmission struct {
	ID          string             `json:"id,omitempty"`
	MediaTimeMs *int64             `json:"mediaTimeMs"`
	Bodies      []pose.LandmarkSet `json:"bodies"`
}
