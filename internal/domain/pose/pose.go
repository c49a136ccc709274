// Package pose holds the per-frame skeleton data model shared by the
// identity resolver, the mirror engine and the renderers.
package pose

import (
	"fmt"
)

// Landmark is one tracked body point. X and Y are normalized to the image
// ([0,1]), Z is depth on roughly the same scale as X. Visibility and
// Presence are optional detector confidences.
type Landmark struct {
	X          float64  `json:"x" yaml:"x"`
	Y          float64  `json:"y" yaml:"y"`
	Z          float64  `json:"z" yaml:"z"`
	Visibility *float64 `json:"visibility,omitempty" yaml:"visibility,omitempty"`
	Presence   *float64 `json:"presence,omitempty" yaml:"presence,omitempty"`
}

// Translate returns a copy of l shifted by (dx, dy). Z and the confidence
// fields are carried over untouched.
func (l Landmark) Translate(dx, dy float64) Landmark {
	l.X += dx
	l.Y += dy
	return l
}

// LandmarkSet is the ordered joint list for one detected body. Index meaning
// is fixed by the pose model (see joints.go).
type LandmarkSet []Landmark

// Validate reports ErrMalformedLandmarkSet when the set does not carry
// exactly jointCount landmarks.
func (s LandmarkSet) Validate(jointCount int) error {
	if len(s) != jointCount {
		return fmt.Errorf("%w: got %d joints, want %d", ErrMalformedLandmarkSet, len(s), jointCount)
	}
	return nil
}

// Joint returns landmark i, or ErrMalformedLandmarkSet if the set is too short.
func (s LandmarkSet) Joint(i int) (Landmark, error) {
	if i < 0 || i >= len(s) {
		return Landmark{}, fmt.Errorf("%w: joint %d missing from %d-joint set", ErrMalformedLandmarkSet, i, len(s))
	}
	return s[i], nil
}

// ColoredPoint pairs a landmark with its display color.
type ColoredPoint struct {
	Landmark Landmark `json:"landmark"`
	Color    Color    `json:"color"`
}

// JointSet is a static list of joint indices, e.g. the limb that gets mirrored.
type JointSet []int

// Contains reports whether i is part of the set.
func (j JointSet) Contains(i int) bool {
	for _, v := range j {
		if v == i {
			return true
		}
	}
	return false
}

// Max returns the largest index in the set, or -1 for an empty set.
func (j JointSet) Max() int {
	m := -1
	for _, v := range j {
		if v > m {
			m = v
		}
	}
	return m
}

// Validate checks that every index addresses a joint of a jointCount-long set.
func (j JointSet) Validate(jointCount int) error {
	for _, v := range j {
		if v < 0 || v >= jointCount {
			return fmt.Errorf("%w: limb joint %d out of range for %d joints", ErrMalformedLandmarkSet, v, jointCount)
		}
	}
	return nil
}
