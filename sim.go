package xr

// simSpace is the Space handle SimSession hands out.
type simSpace struct {
	name string
}

// SimSession is an in-process Session whose input sources are driven by
// method calls instead of hardware. Tests, scripts and the desktop host use
// it. Signals are delivered synchronously to subscribers, each carrying a
// SimFrame snapshot of the poses at the moment it was raised.
type SimSession struct {
	sources   []*InputSource
	poses     map[Space]Mat4
	lost      map[Space]bool
	listeners [SessionEnd + 1][]simListener
	nextID    int
	ended     bool
}

type simListener struct {
	id int
	fn func(SessionEvent)
}

// NewSimSession creates a session with no input sources.
func NewSimSession() *SimSession {
	return &SimSession{
		poses: make(map[Space]Mat4),
		lost:  make(map[Space]bool),
	}
}

// InputSources returns a copy of the connected sources.
func (s *SimSession) InputSources() []*InputSource {
	out := make([]*InputSource, len(s.sources))
	copy(out, s.sources)
	return out
}

// Subscribe registers fn for events of type t.
func (s *SimSession) Subscribe(t SessionEventType, fn func(SessionEvent)) func() {
	if t > SessionEnd || fn == nil {
		return func() {}
	}
	s.nextID++
	id := s.nextID
	s.listeners[t] = append(s.listeners[t], simListener{id: id, fn: fn})
	return func() {
		ls := s.listeners[t]
		for i := range ls {
			if ls[i].id == id {
				s.listeners[t] = append(ls[:i:i], ls[i+1:]...)
				return
			}
		}
	}
}

// Listeners returns the number of registered listeners across all types.
func (s *SimSession) Listeners() int {
	n := 0
	for _, ls := range s.listeners {
		n += len(ls)
	}
	return n
}

// AddSource connects a new input source posed at the origin looking down -Z
// and raises an input-sources-change signal. Tracked-pointer sources get a
// grip space that follows the target ray.
func (s *SimSession) AddSource(name string, mode RayMode, hand Handedness) *InputSource {
	src := &InputSource{
		Name:           name,
		Mode:           mode,
		Handedness:     hand,
		TargetRaySpace: &simSpace{name: name + "/target-ray"},
	}
	if mode == RayModeTrackedPointer {
		src.GripSpace = &simSpace{name: name + "/grip"}
	}
	s.setPose(src, identityTransform)
	s.sources = append(s.sources, src)
	s.emit(SessionEvent{Type: SessionInputSourcesChange, Added: []*InputSource{src}})
	return src
}

// RemoveSource disconnects src and raises an input-sources-change signal.
func (s *SimSession) RemoveSource(src *InputSource) {
	for i, cur := range s.sources {
		if cur != src {
			continue
		}
		s.sources = append(s.sources[:i:i], s.sources[i+1:]...)
		delete(s.poses, src.TargetRaySpace)
		delete(s.lost, src.TargetRaySpace)
		if src.GripSpace != nil {
			delete(s.poses, src.GripSpace)
			delete(s.lost, src.GripSpace)
		}
		s.emit(SessionEvent{Type: SessionInputSourcesChange, Removed: []*InputSource{src}})
		return
	}
}

// Source returns the connected source named name, or nil.
func (s *SimSession) Source(name string) *InputSource {
	for _, src := range s.sources {
		if src.Name == name {
			return src
		}
	}
	return nil
}

// SetPose sets src's target-ray pose (and grip pose, if any) and restores
// tracking.
func (s *SimSession) SetPose(src *InputSource, pose Mat4) {
	s.setPose(src, pose)
}

// Aim points src from origin toward target.
func (s *SimSession) Aim(src *InputSource, origin, target Vec3) {
	s.setPose(src, PoseLookAt(origin, target))
}

// LosePose marks src as untracked until its pose is set again.
func (s *SimSession) LosePose(src *InputSource) {
	s.lost[src.TargetRaySpace] = true
	if src.GripSpace != nil {
		s.lost[src.GripSpace] = true
	}
}

func (s *SimSession) setPose(src *InputSource, pose Mat4) {
	s.poses[src.TargetRaySpace] = pose
	delete(s.lost, src.TargetRaySpace)
	if src.GripSpace != nil {
		s.poses[src.GripSpace] = pose
		delete(s.lost, src.GripSpace)
	}
}

// Press raises a select-start signal for src.
func (s *SimSession) Press(src *InputSource) {
	s.emit(SessionEvent{Type: SessionSelectStart, Source: src, Frame: s.Frame()})
}

// Release raises a select-end signal for src.
func (s *SimSession) Release(src *InputSource) {
	s.emit(SessionEvent{Type: SessionSelectEnd, Source: src, Frame: s.Frame()})
}

// End raises the session-end signal. Later calls do nothing.
func (s *SimSession) End() {
	if s.ended {
		return
	}
	s.ended = true
	s.emit(SessionEvent{Type: SessionEnd})
}

// Ended reports whether End was called.
func (s *SimSession) Ended() bool {
	return s.ended
}

// Frame returns a snapshot of the current poses.
func (s *SimSession) Frame() *SimFrame {
	f := &SimFrame{poses: make(map[Space]Mat4, len(s.poses))}
	for sp, pose := range s.poses {
		if !s.lost[sp] {
			f.poses[sp] = pose
		}
	}
	return f
}

func (s *SimSession) emit(e SessionEvent) {
	ls := s.listeners[e.Type]
	if len(ls) == 0 {
		return
	}
	// Snapshot: listeners may unsubscribe while we iterate.
	snapshot := make([]simListener, len(ls))
	copy(snapshot, ls)
	for _, l := range snapshot {
		l.fn(e)
	}
}

// SimFrame is a pose snapshot taken from a SimSession.
type SimFrame struct {
	poses map[Space]Mat4
}

// Pose returns the pose of space, or false if it is unknown or untracked.
func (f *SimFrame) Pose(space Space) (Mat4, bool) {
	if f == nil {
		return Mat4{}, false
	}
	pose, ok := f.poses[space]
	return pose, ok
}
