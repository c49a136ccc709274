// Package mirror re-projects one player's limb onto the other player's frame.
//
// The offset between the two bodies is the 2D displacement of a shared
// anchor joint. Limb joints of the left body are shifted onto the right body
// and drawn in the right player's color, and vice versa. Every other joint is
// passed through and keeps its own player's color.
package mirror

import (
	"fmt"

	"github.com/okian/dancercade/internal/domain/pose"
)

// Engine binds the static mirroring configuration.
type Engine struct {
	anchor     int
	limb       pose.JointSet
	palette    pose.Palette
	jointCount int
}

// New creates an Engine that mirrors the right arm anchored on the right
// shoulder of a 33 joint skeleton unless options say otherwise.
func New(opts ...Option) *Engine {
	e := &Engine{
		anchor:     pose.DefaultMirrorAnchor,
		limb:       append(pose.JointSet(nil), pose.DefaultRightArm...),
		palette:    pose.DefaultPalette,
		jointCount: pose.JointCount,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Transform mirrors the configured limb between left and right.
func (e *Engine) Transform(left, right pose.LandmarkSet) ([]pose.ColoredPoint, error) {
	if e.jointCount > 0 {
		if err := left.Validate(e.jointCount); err != nil {
			return nil, fmt.Errorf("left body: %w", err)
		}
		if err := right.Validate(e.jointCount); err != nil {
			return nil, fmt.Errorf("right body: %w", err)
		}
	}
	return Transform(left, right, e.limb, e.palette, e.anchor)
}

// Transform computes delta = left[anchor] - right[anchor] in x and y and
// emits left's points followed by right's, each in original joint order.
// Left limb joints move by -delta and take the Right color; right limb joints
// move by +delta and take the Left color. The inputs are never modified and
// the result always holds len(left)+len(right) points.
func Transform(left, right pose.LandmarkSet, limb pose.JointSet, palette pose.Palette, anchor int) ([]pose.ColoredPoint, error) {
	if len(left) != len(right) {
		return nil, fmt.Errorf("%w: bodies differ in length (%d vs %d)", pose.ErrMalformedLandmarkSet, len(left), len(right))
	}
	if err := limb.Validate(len(left)); err != nil {
		return nil, err
	}
	la, err := left.Joint(anchor)
	if err != nil {
		return nil, fmt.Errorf("anchor: %w", err)
	}
	ra, err := right.Joint(anchor)
	if err != nil {
		return nil, fmt.Errorf("anchor: %w", err)
	}
	dx, dy := la.X-ra.X, la.Y-ra.Y

	leftColor, rightColor := palette.For(pose.Left), palette.For(pose.Right)
	out := make([]pose.ColoredPoint, 0, len(left)+len(right))
	for i, l := range left {
		if limb.Contains(i) {
			out = append(out, pose.ColoredPoint{Landmark: l.Translate(-dx, -dy), Color: rightColor})
			continue
		}
		out = append(out, pose.ColoredPoint{Landmark: l, Color: leftColor})
	}
	for i, l := range right {
		if limb.Contains(i) {
			out = append(out, pose.ColoredPoint{Landmark: l.Translate(dx, dy), Color: leftColor})
			continue
		}
		out = append(out, pose.ColoredPoint{Landmark: l, Color: rightColor})
	}
	return out, nil
}
