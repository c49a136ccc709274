// Package synthetic generates deterministic dancers so the game can be run
// and demoed without a camera or a browser-side pose model.
package synthetic

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/okian/dancercade/internal/domain/model"
	"github.com/okian/dancercade/internal/domain/pose"
)

const (
	defaultFPS    = 30
	defaultBodies = 2
	hipLine       = 0.6
	waveHz        = 0.5

	upperArm = 0.12
	forearm  = 0.11
	hand     = 0.03
)

type offset struct{ dx, dy, z float64 }

// Rest pose relative to the hip center, image coordinates (y grows down).
// The right arm joints are placeholders; dancer overwrites them.
var restPose = [pose.JointCount]offset{ //nolint:gochecknoglobals // static template
	pose.Nose:           {0, -0.30, -0.05},
	pose.LeftEyeInner:   {0.01, -0.32, -0.05},
	pose.LeftEye:        {0.02, -0.32, -0.05},
	pose.LeftEyeOuter:   {0.03, -0.32, -0.05},
	pose.RightEyeInner:  {-0.01, -0.32, -0.05},
	pose.RightEye:       {-0.02, -0.32, -0.05},
	pose.RightEyeOuter:  {-0.03, -0.32, -0.05},
	pose.LeftEar:        {0.045, -0.31, 0},
	pose.RightEar:       {-0.045, -0.31, 0},
	pose.MouthLeft:      {0.015, -0.28, -0.04},
	pose.MouthRight:     {-0.015, -0.28, -0.04},
	pose.LeftShoulder:   {0.08, -0.20, 0},
	pose.RightShoulder:  {-0.08, -0.20, 0},
	pose.LeftElbow:      {0.11, -0.08, 0},
	pose.LeftWrist:      {0.12, 0.02, -0.02},
	pose.LeftPinky:      {0.125, 0.04, -0.02},
	pose.LeftIndex:      {0.12, 0.045, -0.02},
	pose.LeftThumb:      {0.11, 0.035, -0.02},
	pose.LeftHip:        {0.05, 0, 0},
	pose.RightHip:       {-0.05, 0, 0},
	pose.LeftKnee:       {0.055, 0.15, 0},
	pose.RightKnee:      {-0.055, 0.15, 0},
	pose.LeftAnkle:      {0.06, 0.30, 0.02},
	pose.RightAnkle:     {-0.06, 0.30, 0.02},
	pose.LeftHeel:       {0.055, 0.32, 0.03},
	pose.RightHeel:      {-0.055, 0.32, 0.03},
	pose.LeftFootIndex:  {0.08, 0.33, 0},
	pose.RightFootIndex: {-0.08, 0.33, 0},
}

// Generator is a video source and detector producing waving dancers spread
// evenly across the frame.
type Generator struct {
	bodies int
	fps    float64
	clock  func() time.Time

	once  sync.Once
	epoch time.Time
}

// New creates a Generator of two dancers at 30 fps.
func New(opts ...Option) *Generator {
	g := &Generator{bodies: defaultBodies, fps: defaultFPS, clock: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) step() time.Duration {
	return time.Duration(float64(time.Second) / g.fps)
}

// CurrentFrame returns the frame due now.
func (g *Generator) CurrentFrame(context.Context) (model.Frame, bool, error) {
	now := g.clock()
	g.once.Do(func() { g.epoch = now })
	n := int64(now.Sub(g.epoch) / g.step())
	return model.Frame{
		ID:         fmt.Sprintf("synthetic-%d", n),
		MediaTime:  time.Duration(n) * g.step(),
		CapturedAt: now,
	}, true, nil
}

// DetectForVideo reports the dancers of frame.
func (g *Generator) DetectForVideo(_ context.Context, frame model.Frame, _ int64, cb func(model.Detection)) error {
	cb(model.Detection{Landmarks: g.Bodies(frame.MediaTime)})
	return nil
}

// Bodies returns the dancers at media time t.
func (g *Generator) Bodies(t time.Duration) []pose.LandmarkSet {
	out := make([]pose.LandmarkSet, g.bodies)
	for i := range out {
		cx := float64(i+1) / float64(g.bodies+1)
		phase := float64(i) * math.Pi / 2
		out[i] = dancer(cx, t.Seconds(), phase)
	}
	return out
}

// dancer builds one body centered on cx whose right arm swings from the
// shoulder with a bending elbow.
func dancer(cx, t, phase float64) pose.LandmarkSet {
	set := make(pose.LandmarkSet, pose.JointCount)
	for i, o := range restPose {
		set[i] = pose.Landmark{X: cx + o.dx, Y: hipLine + o.dy, Z: o.z}
	}

	swing := math.Sin(2*math.Pi*waveHz*t + phase)
	shoulder := set[pose.RightShoulder]
	a1 := math.Pi + 0.9*swing
	a2 := a1 + 0.6 + 0.4*swing
	elbow := at(shoulder, a1, upperArm, -0.03)
	wrist := at(elbow, a2, forearm, -0.06+0.04*swing)

	set[pose.RightElbow] = elbow
	set[pose.RightWrist] = wrist
	set[pose.RightPinky] = at(wrist, a2+0.3, hand, wrist.Z)
	set[pose.RightIndex] = at(wrist, a2, hand, wrist.Z)
	set[pose.RightThumb] = at(wrist, a2-0.4, hand*0.8, wrist.Z)
	return set
}

func at(from pose.Landmark, angle, length, z float64) pose.Landmark {
	return pose.Landmark{
		X: from.X + length*math.Cos(angle),
		Y: from.Y + length*math.Sin(angle),
		Z: z,
	}
}
