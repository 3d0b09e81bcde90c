package xr

// Space is an opaque tracking space handle owned by the host. The engine
// only passes it back to Frame.Pose.
type Space any

// InputSource is one tracked pointing device reported by the host. The
// engine keys its state by pointer identity and never owns the value.
type InputSource struct {
	Name           string
	Mode           RayMode
	Handedness     Handedness
	TargetRaySpace Space
	GripSpace      Space // nil for gaze and screen sources
}

// Frame is the tracking data for one display refresh.
type Frame interface {
	// Pose resolves space to a world-space pose for this frame. ok is false
	// when tracking is lost.
	Pose(space Space) (pose Mat4, ok bool)
}

// SessionEventType identifies a session-level signal.
type SessionEventType uint8

const (
	SessionInputSourcesChange SessionEventType = iota // sources were added or removed
	SessionSelectStart                                // primary action began on Source
	SessionSelectEnd                                  // primary action ended on Source
	SessionEnd                                        // the session is over
)

// SessionEvent is delivered to listeners registered with Session.Subscribe.
type SessionEvent struct {
	Type   SessionEventType
	Source *InputSource
	// Frame is the tracking snapshot the signal belongs to. May be nil, in
	// which case the engine uses the frame it processes the signal in.
	Frame   Frame
	Added   []*InputSource
	Removed []*InputSource
}

// Session is the host's immersive session.
type Session interface {
	// InputSources returns the currently connected sources. The engine does
	// not retain the slice.
	InputSources() []*InputSource
	// Subscribe registers fn for events of type t and returns a function
	// that removes the registration.
	Subscribe(t SessionEventType, fn func(SessionEvent)) (unsubscribe func())
}

// SceneFunc reports the scene currently presented. Interactions calls it
// every frame and rebinds controllers when the result changes.
type SceneFunc func() *Scene
