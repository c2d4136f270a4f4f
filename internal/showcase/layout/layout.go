// Package layout picks the camera and anchor pose for the current viewport.
//
// The decision is a single breakpoint on the viewport width. There is no
// hysteresis: every call classifies from scratch, so crossing the breakpoint
// snaps the pose immediately.
package layout

import (
	gomath "math"

	"github.com/Faultbox/jewelbox/internal/engine/camera"
	"github.com/Faultbox/jewelbox/internal/engine/scene"
	"github.com/Faultbox/jewelbox/pkg/math"
)

// DefaultBreakpoint is the widest viewport, in logical pixels, still treated as mobile.
const DefaultBreakpoint = 768

// ViewportClass is the coarse classification of the display area.
type ViewportClass int

const (
	Mobile ViewportClass = iota
	Desktop
)

func (c ViewportClass) String() string {
	if c == Desktop {
		return "desktop"
	}
	return "mobile"
}

// Pose is the camera placement and anchor position for one viewport class.
type Pose struct {
	CameraPosition math.Vec3
	CameraLookAt   math.Vec3
	AnchorPosition math.Vec3
}

// Policy maps viewport widths to poses.
type Policy struct {
	Breakpoint float64
	Mobile     Pose
	Desktop    Pose
}

// MobilePose is the default layout for narrow viewports: model centred, slightly raised.
var MobilePose = Pose{
	CameraPosition: math.V3(0, 2.5, 3),
	AnchorPosition: math.V3(0, 0.5, 0),
}

// DesktopPose is the default layout for wide viewports: model pushed right and up.
var DesktopPose = Pose{
	CameraPosition: math.V3(2, 2.5, 3),
	AnchorPosition: math.V3(1, 1, 0),
}

// DefaultPolicy returns the policy with the default breakpoint and poses.
func DefaultPolicy() Policy {
	return Policy{
		Breakpoint: DefaultBreakpoint,
		Mobile:     MobilePose,
		Desktop:    DesktopPose,
	}
}

// Classify returns the viewport class for width. Anything not strictly
// above the breakpoint, NaN included, is Mobile.
func (p Policy) Classify(width float64) ViewportClass {
	if gomath.IsNaN(width) || width <= p.Breakpoint {
		return Mobile
	}
	return Desktop
}

// Pose returns the fixed pose for a class.
func (p Policy) Pose(class ViewportClass) Pose {
	if class == Desktop {
		return p.Desktop
	}
	return p.Mobile
}

// Compute returns the pose for width.
func (p Policy) Compute(width float64) Pose {
	return p.Pose(p.Classify(width))
}

// Compute returns the default policy's pose for width.
func Compute(width float64) Pose {
	return DefaultPolicy().Compute(width)
}

// Apply moves the camera and the presentation anchor to pose.
// Either target may be nil.
func Apply(pose Pose, cam *camera.Perspective, anchor *scene.Node) {
	if cam != nil {
		cam.Position = pose.CameraPosition
		cam.LookAt(pose.CameraLookAt)
	}
	if anchor != nil {
		anchor.Position = pose.AnchorPosition
	}
}
