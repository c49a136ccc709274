package replay

import "time"

// Option applies a configuration option to the Player.
type Option func(*Player)

// WithLoop restarts the recording after the last frame instead of holding it.
func WithLoop(loop bool) Option {
	return func(p *Player) {
		p.loop = loop
	}
}

// WithClock replaces time.Now. The offline replay command steps a manual
// clock one frame at a time.
func WithClock(clock func() time.Time) Option {
	return func(p *Player) {
		if clock != nil {
			p.clock = clock
		}
	}
}
