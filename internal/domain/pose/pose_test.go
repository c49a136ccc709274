package pose_test

import (
	"errors"
	"testing"

	"github.com/okian/dancercade/internal/domain/pose"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLandmarkSet(t *testing.T) {
	Convey("Given a three joint landmark set", t, func() {
		set := pose.LandmarkSet{{X: 0.1}, {X: 0.2}, {X: 0.3}}

		Convey("Then it validates against a joint count of three", func() {
			So(set.Validate(3), ShouldBeNil)
		})

		Convey("Then a different joint count is malformed", func() {
			err := set.Validate(33)
			So(errors.Is(err, pose.ErrMalformedLandmarkSet), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "got 3 joints, want 33")
		})

		Convey("When reading joints", func() {
			l, err := set.Joint(2)
			So(err, ShouldBeNil)
			So(l.X, ShouldEqual, 0.3)

			_, err = set.Joint(3)
			So(errors.Is(err, pose.ErrMalformedLandmarkSet), ShouldBeTrue)

			_, err = set.Joint(-1)
			So(errors.Is(err, pose.ErrMalformedLandmarkSet), ShouldBeTrue)
		})
	})
}

func TestLandmarkTranslate(t *testing.T) {
	Convey("Given a landmark with confidences", t, func() {
		vis, pres := 0.9, 0.8
		l := pose.Landmark{X: 0.5, Y: 0.5, Z: -0.1, Visibility: &vis, Presence: &pres}

		Convey("When translating it", func() {
			moved := l.Translate(0.25, -0.25)

			Convey("Then only X and Y change", func() {
				So(moved.X, ShouldEqual, 0.75)
				So(moved.Y, ShouldEqual, 0.25)
				So(moved.Z, ShouldEqual, -0.1)
				So(*moved.Visibility, ShouldEqual, 0.9)
				So(*moved.Presence, ShouldEqual, 0.8)
			})

			Convey("And the original is untouched", func() {
				So(l.X, ShouldEqual, 0.5)
				So(l.Y, ShouldEqual, 0.5)
			})
		})
	})
}

func TestJointSet(t *testing.T) {
	Convey("Given the default right arm", t, func() {
		arm := pose.DefaultRightArm

		So(arm.Contains(pose.RightShoulder), ShouldBeTrue)
		So(arm.Contains(pose.RightIndex), ShouldBeTrue)
		So(arm.Contains(pose.LeftShoulder), ShouldBeFalse)
		So(arm.Max(), ShouldEqual, pose.RightIndex)
		So(arm.Validate(pose.JointCount), ShouldBeNil)

		Convey("Then it is out of range for a short skeleton", func() {
			So(errors.Is(arm.Validate(12), pose.ErrMalformedLandmarkSet), ShouldBeTrue)
		})

		Convey("And an empty set has no max", func() {
			So(pose.JointSet{}.Max(), ShouldEqual, -1)
		})
	})
}

func TestPalette(t *testing.T) {
	Convey("Given the default palette", t, func() {
		p := pose.DefaultPalette

		So(p.For(pose.Left), ShouldEqual, pose.Color("#ff0000"))
		So(p.For(pose.Right), ShouldEqual, pose.Color("#0000ff"))
		So(pose.Left.String(), ShouldEqual, "left")
		So(pose.Right.String(), ShouldEqual, "right")
	})

	Convey("Given palette strings", t, func() {
		Convey("When both are hex colors", func() {
			p, err := pose.ParsePalette([]string{"#00ff00", "#ABCDEF"})
			So(err, ShouldBeNil)
			So(p[1], ShouldEqual, pose.Color("#ABCDEF"))
		})

		Convey("When one is not a hex color", func() {
			_, err := pose.ParsePalette([]string{"#00ff00", "blue"})
			So(err, ShouldNotBeNil)
		})

		Convey("When the count is wrong", func() {
			_, err := pose.ParsePalette([]string{"#00ff00"})
			So(err, ShouldNotBeNil)
		})
	})
}

func TestPoseConnections(t *testing.T) {
	Convey("Every connection addresses a valid joint", t, func() {
		So(len(pose.PoseConnections), ShouldEqual, 35)
		for _, c := range pose.PoseConnections {
			So(c.Start, ShouldBeBetweenOrEqual, 0, pose.JointCount-1)
			So(c.End, ShouldBeBetweenOrEqual, 0, pose.JointCount-1)
		}
	})
}
