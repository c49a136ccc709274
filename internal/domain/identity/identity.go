// Package identity assigns per-frame player roles to detected bodies.
//
// Assignment is stateless: roles are recomputed from horizontal position on
// every frame, so two players crossing the midline swap roles.
package identity

import (
	"fmt"
	"strings"

	"github.com/okian/dancercade/internal/domain/pose"
)

// SingleBodyMode selects how a frame with one body is labelled.
type SingleBodyMode int

const (
	// SingleFirstRole always labels a lone body as role 0 (Left).
	SingleFirstRole SingleBodyMode = iota
	// SingleMidline labels a lone body with the midline test.
	SingleMidline
)

func (m SingleBodyMode) String() string {
	if m == SingleMidline {
		return "midline"
	}
	return "first"
}

// ParseSingleBodyMode maps the config names "first" and "midline".
func ParseSingleBodyMode(s string) (SingleBodyMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "first":
		return SingleFirstRole, nil
	case "midline":
		return SingleMidline, nil
	default:
		return SingleFirstRole, fmt.Errorf("unknown single body mode: %s", s)
	}
}

// Assignment binds a role to one landmark set.
type Assignment struct {
	Role pose.Role
	Set  pose.LandmarkSet
}

// Resolver labels the bodies of one frame.
type Resolver struct {
	anchor     int
	midline    float64
	jointCount int
	single     SingleBodyMode
}

// NewResolver creates a Resolver for the MediaPipe pose layout, anchored on
// the nose, unless options say otherwise.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		anchor:     pose.DefaultIdentityAnchor,
		midline:    pose.DefaultMidline,
		jointCount: pose.JointCount,
		single:     SingleFirstRole,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve labels sets. With two sets the one further right (larger anchor x)
// is Right and the result is ordered Left, Right regardless of input order.
// With one set the configured SingleBodyMode applies; with none the result
// is empty.
//
// More than two sets yields midline labels for every set together with
// ErrUnsupportedBodyCount; the assignments remain usable for untransformed
// rendering. A set of the wrong length fails with ErrMalformedLandmarkSet.
func (r *Resolver) Resolve(sets []pose.LandmarkSet) ([]Assignment, error) {
	anchors := make([]float64, len(sets))
	for i, s := range sets {
		if err := s.Validate(r.jointCount); err != nil {
			return nil, fmt.Errorf("body %d: %w", i, err)
		}
		a, err := s.Joint(r.anchor)
		if err != nil {
			return nil, fmt.Errorf("body %d: %w", i, err)
		}
		anchors[i] = a.X
	}

	switch len(sets) {
	case 0:
		return nil, nil
	case 1:
		role := pose.Left
		if r.single == SingleMidline {
			role = r.byMidline(anchors[0])
		}
		return []Assignment{{Role: role, Set: sets[0]}}, nil
	case 2:
		left, right := sets[0], sets[1]
		if anchors[0] > anchors[1] {
			left, right = right, left
		}
		return []Assignment{
			{Role: pose.Left, Set: left},
			{Role: pose.Right, Set: right},
		}, nil
	default:
		out := make([]Assignment, len(sets))
		for i, s := range sets {
			out[i] = Assignment{Role: r.byMidline(anchors[i]), Set: s}
		}
		return out, fmt.Errorf("%w: %d bodies", pose.ErrUnsupportedBodyCount, len(sets))
	}
}

func (r *Resolver) byMidline(x float64) pose.Role {
	if x > r.midline {
		return pose.Right
	}
	return pose.Left
}
