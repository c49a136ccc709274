// Package mirror re-projects one player's limb onto the other player's frame.
package mirror

import "github.com/okian/dancercade/internal/domain/pose"

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithAnchorJoint sets the joint whose displacement defines the offset.
func WithAnchorJoint(joint int) Option {
	return func(e *Engine) {
		if joint >= 0 {
			e.anchor = joint
		}
	}
}

// WithLimbJoints sets the joints that get projected onto the other body.
func WithLimbJoints(joints pose.JointSet) Option {
	return func(e *Engine) {
		// Copy so later edits by the caller cannot reach the engine.
		e.limb = append(pose.JointSet(nil), joints...)
	}
}

// WithPalette sets the Left and Right display colors.
func WithPalette(p pose.Palette) Option {
	return func(e *Engine) {
		e.palette = p
	}
}

// WithJointCount pins the joint count both bodies must carry. Zero accepts
// any count as long as both bodies agree.
func WithJointCount(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.jointCount = n
		}
	}
}
