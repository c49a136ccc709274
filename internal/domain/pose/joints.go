package pose

// JointCount is the number of landmarks the MediaPipe pose model emits per body.
const JointCount = 33

// MediaPipe pose landmark indices.
const (
	Nose = iota
	LeftEyeInner
	LeftEye
	LeftEyeOuter
	RightEyeInner
	RightEye
	RightEyeOuter
	LeftEar
	RightEar
	MouthLeft
	MouthRight
	LeftShoulder
	RightShoulder
	LeftElbow
	RightElbow
	LeftWrist
	RightWrist
	LeftPinky
	RightPinky
	LeftIndex
	RightIndex
	LeftThumb
	RightThumb
	LeftHip
	RightHip
	LeftKnee
	RightKnee
	LeftAnkle
	RightAnkle
	LeftHeel
	RightHeel
	LeftFootIndex
	RightFootIndex
)

// Connection is a skeletal edge between two joint indices.
type Connection struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// PoseConnections is the MediaPipe skeleton connectivity table. Only
// renderers use it.
var PoseConnections = []Connection{
	{0, 1}, {1, 2}, {2, 3}, {3, 7}, {0, 4}, {4, 5}, {5, 6}, {6, 8}, {9, 10},
	{11, 12}, {11, 13}, {13, 15}, {15, 17}, {15, 19}, {15, 21}, {17, 19},
	{12, 14}, {14, 16}, {16, 18}, {16, 20}, {16, 22}, {18, 20},
	{11, 23}, {12, 24}, {23, 24}, {23, 25}, {24, 26}, {25, 27}, {26, 28},
	{27, 29}, {28, 30}, {29, 31}, {30, 32}, {27, 31}, {28, 32},
}

// Defaults for the mirrored limb.
var (
	// DefaultRightArm is shoulder, elbow, wrist, pinky and index of the right arm.
	DefaultRightArm = JointSet{RightShoulder, RightElbow, RightWrist, RightPinky, RightIndex}

	// DefaultPalette colors the left player red and the right player blue.
	DefaultPalette = Palette{"#ff0000", "#0000ff"}
)

// Mirror and identity anchors used when nothing else is configured.
const (
	DefaultMirrorAnchor   = RightShoulder
	DefaultIdentityAnchor = Nose
	DefaultMidline        = 0.5
)
