// Package identity assigns per-frame player roles to detected bodies.
package identity

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithAnchorJoint sets the joint whose x coordinate decides the role.
func WithAnchorJoint(joint int) Option {
	return func(r *Resolver) {
		if joint >= 0 {
			r.anchor = joint
		}
	}
}

// WithMidline sets the x threshold used by the midline test.
func WithMidline(x float64) Option {
	return func(r *Resolver) {
		if x > 0 && x < 1 {
			r.midline = x
		}
	}
}

// WithJointCount sets the joint count every landmark set must carry.
func WithJointCount(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.jointCount = n
		}
	}
}

// WithSingleBodyMode selects how a lone body gets its role.
func WithSingleBodyMode(mode SingleBodyMode) Option {
	return func(r *Resolver) {
		r.single = mode
	}
}
