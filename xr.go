package xr

import "github.com/go-gl/mathgl/mgl64"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default node color.
var ColorWhite = Color{1, 1, 1, 1}

// Vec3 is the 3D vector type used for positions, directions and scales
// throughout the API.
type Vec3 = mgl64.Vec3

// Mat4 is a column-major 4x4 transform matrix.
type Mat4 = mgl64.Mat4

// Quat is a rotation quaternion.
type Quat = mgl64.Quat

// RayMode classifies how an input source points.
type RayMode uint8

const (
	RayModeTrackedPointer RayMode = iota // handheld controller with its own pose
	RayModeGaze                          // head-locked gaze, no grip
	RayModeScreen                        // transient screen tap
)

// String returns the platform name of the ray mode.
func (m RayMode) String() string {
	switch m {
	case RayModeTrackedPointer:
		return "tracked-pointer"
	case RayModeGaze:
		return "gaze"
	case RayModeScreen:
		return "screen"
	default:
		return "unknown"
	}
}

// ParseRayMode maps a platform ray mode name to a RayMode.
func ParseRayMode(s string) (RayMode, bool) {
	switch s {
	case "tracked-pointer":
		return RayModeTrackedPointer, true
	case "gaze":
		return RayModeGaze, true
	case "screen":
		return RayModeScreen, true
	}
	return 0, false
}

// Handedness identifies which hand holds an input source.
type Handedness uint8

const (
	HandNone  Handedness = iota // gaze, screen, or unknown
	HandLeft                    // left hand controller
	HandRight                   // right hand controller
)

// String returns "left", "right" or "none".
func (h Handedness) String() string {
	switch h {
	case HandLeft:
		return "left"
	case HandRight:
		return "right"
	default:
		return "none"
	}
}

// ParseHandedness maps "left", "right", "none" or "" to a Handedness.
func ParseHandedness(s string) (Handedness, bool) {
	switch s {
	case "", "none":
		return HandNone, true
	case "left":
		return HandLeft, true
	case "right":
		return HandRight, true
	}
	return 0, false
}

// EventType identifies a kind of interaction event.
type EventType uint8

const (
	EventHoverStart  EventType = iota // pointer started hovering a node
	EventHover                        // fires every frame while hovering
	EventHoverEnd                     // pointer stopped hovering a node
	EventSelectStart                  // select signal began over a node
	EventSelectEnd                    // select signal ended
	EventSelect                       // completed select; Hit is nil if the pointer moved off
	EventDragStart                    // drag began together with selection
	EventDrag                         // fires every frame while dragging
	EventDragEnd                      // drag ended
	eventTypeCount
)

var eventNames = [eventTypeCount]string{
	"hover_start", "hover", "hover_end",
	"select_start", "select_end", "select",
	"drag_start", "drag", "drag_end",
}

// String returns the capability name of the event, e.g. "hover_start".
func (e EventType) String() string {
	if e < eventTypeCount {
		return eventNames[e]
	}
	return "unknown"
}
