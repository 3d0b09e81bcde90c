package xr

import "time"

// maxFrameDelta caps the tween step after a stall.
const maxFrameDelta = 0.1

// Interactions binds one Dispatcher and one Registry to an immersive
// session. The host calls Setup when the session starts, Update once per
// frame, and Close when the session ends. Session signals are queued as they
// arrive and processed in order at the start of the next Update, before the
// per-frame pass, so signal and frame transitions never interleave.
//
// Each Interactions owns its state; several can run side by side.
type Interactions struct {
	scenes     SceneFunc
	dispatcher *Dispatcher
	registry   *Registry

	session     Session
	active      bool
	unsubscribe []func()
	queue       []SessionEvent

	scene         *Scene // scene the controllers are bound to
	lastTimestamp float64
	hasTimestamp  bool
	log           *debugLogger
}

// NewInteractions creates an engine that raycasts against the scene reported
// by scenes and builds controller visuals with opts.
func NewInteractions(scenes SceneFunc, opts ControllerOptions) *Interactions {
	in := &Interactions{
		scenes:     scenes,
		dispatcher: NewDispatcher(),
		registry:   NewRegistry(opts),
		log:        &debugLogger{},
	}
	in.dispatcher.log = in.log
	in.registry.log = in.log
	return in
}

// Dispatcher returns the interaction state machine.
func (in *Interactions) Dispatcher() *Dispatcher {
	return in.dispatcher
}

// Registry returns the input source registry.
func (in *Interactions) Registry() *Registry {
	return in.registry
}

// On registers a scene-level observer for event.
func (in *Interactions) On(event EventType, fn func(InteractionEvent)) CallbackHandle {
	return in.dispatcher.On(event, fn)
}

// SetEntityStore sets the optional ECS bridge.
func (in *Interactions) SetEntityStore(store EntityStore) {
	in.dispatcher.SetEntityStore(store)
}

// SetDebugMode enables or disables debug logging for this engine. When
// enabled, default callbacks, source changes, forced cleanups and per-frame
// stats are logged to stderr. Other engines are unaffected; node tree checks
// are switched separately with SetNodeChecks.
func (in *Interactions) SetDebugMode(enabled bool) {
	in.log.enabled = enabled
}

// Active reports whether a session is set up.
func (in *Interactions) Active() bool {
	return in.active
}

// Setup starts handling session: it takes the session's current input
// sources and subscribes to source changes, select signals and session end.
// Setting up while another session is active closes that one first.
func (in *Interactions) Setup(session Session) {
	if session == nil {
		return
	}
	if in.active {
		in.Close(in.session)
	}
	in.session = session
	in.active = true

	if scene := in.currentScene(); scene != nil {
		in.BindControllers(scene)
	}
	in.registry.Sync(session.InputSources(), in.dispatcher.Release)

	for _, t := range []SessionEventType{
		SessionInputSourcesChange, SessionSelectStart, SessionSelectEnd, SessionEnd,
	} {
		if unsub := session.Subscribe(t, in.enqueue); unsub != nil {
			in.unsubscribe = append(in.unsubscribe, unsub)
		}
	}
	in.log.printf("session set up with %d input sources", in.registry.Len())
}

// enqueue is the listener registered with the session.
func (in *Interactions) enqueue(e SessionEvent) {
	if !in.active {
		return
	}
	if e.Type == SessionEnd {
		in.Close(in.session)
		return
	}
	in.queue = append(in.queue, e)
}

// Update runs one frame: queued signals first, then the input source diff,
// then the per-source ray, state and visual update. timestamp is in
// milliseconds. No-op when frame is nil or no session is active; queued
// signals then wait for the next frame.
func (in *Interactions) Update(timestamp float64, frame Frame) {
	if !in.active || frame == nil {
		return
	}
	scene := in.currentScene()
	if scene == nil {
		return
	}

	var stats debugStats
	var t0 time.Time
	if in.log.on() {
		t0 = time.Now()
	}

	dt := in.frameDelta(timestamp)
	if scene != in.scene || in.registry.Bound() != scene.Root() {
		in.BindControllers(scene)
	}
	scene.UpdateWorld()
	root := scene.Root()

	queue := in.queue
	in.queue = nil
	stats.signals = len(queue)
	for _, e := range queue {
		if !in.active {
			return
		}
		in.handleSignal(e, frame, root)
	}
	if !in.active {
		return
	}

	in.registry.Sync(in.session.InputSources(), in.dispatcher.Release)

	for _, src := range in.registry.Sources() {
		stats.sources++
		ray, ok := DeriveRay(src, frame)
		if !ok {
			stats.skipped++
			continue
		}
		hit := in.dispatcher.UpdateSource(src, ray, root)
		if c := in.registry.Controller(src); c != nil {
			c.Update(frame, ray, hit, in.dispatcher.Hovered(src), dt)
		}
	}

	if in.log.on() {
		stats.frameTime = time.Since(t0)
		stats.hovers, stats.selections, stats.drags = in.dispatcher.Counts()
		in.log.frame(stats)
	}
}

func (in *Interactions) handleSignal(e SessionEvent, frame Frame, root *Node) {
	f := e.Frame
	if f == nil {
		f = frame
	}
	switch e.Type {
	case SessionInputSourcesChange:
		in.registry.Sync(in.session.InputSources(), in.dispatcher.Release)
	case SessionSelectStart:
		if e.Source == nil {
			return
		}
		if in.registry.Controller(e.Source) == nil {
			in.registry.Sync(in.session.InputSources(), in.dispatcher.Release)
			if in.registry.Controller(e.Source) == nil {
				return
			}
		}
		ray, ok := DeriveRay(e.Source, f)
		if !ok {
			in.log.printf("select start from %q dropped: no pose", e.Source.Name)
			return
		}
		in.dispatcher.SelectStart(e.Source, ray, root)
	case SessionSelectEnd:
		if e.Source == nil {
			return
		}
		var rp *Ray
		if ray, ok := DeriveRay(e.Source, f); ok {
			rp = &ray
		}
		in.dispatcher.SelectEnd(e.Source, rp, root)
	}
}

// Close ends the session: every source's drag, selection and hover are
// closed (in that order, each _end firing once), every controller is
// unbound and disposed, listeners are removed and queued signals dropped.
// Safe to call repeatedly or without Setup. A session other than the active
// one is ignored; nil means the active one.
func (in *Interactions) Close(session Session) {
	if !in.active {
		return
	}
	if session != nil && session != in.session {
		return
	}
	in.active = false

	for _, src := range in.registry.Sources() {
		in.dispatcher.Release(src)
	}
	for _, src := range in.dispatcher.Sources() {
		in.dispatcher.Release(src)
	}
	in.registry.Clear(nil)
	in.registry.Unbind()

	for _, unsub := range in.unsubscribe {
		unsub()
	}
	in.unsubscribe = nil
	in.queue = nil
	in.session = nil
	in.scene = nil
	in.hasTimestamp = false
	in.log.printf("session closed")
}

// BindControllers attaches every controller to scene's root, moving them off
// the previous scene. Interaction state is kept.
func (in *Interactions) BindControllers(scene *Scene) {
	if scene == nil {
		in.UnbindControllers()
		return
	}
	in.scene = scene
	in.registry.Bind(scene.Root())
}

// UnbindControllers detaches every controller from its scene. The next
// Update binds them to the current scene again.
func (in *Interactions) UnbindControllers() {
	in.registry.Unbind()
	in.scene = nil
}

func (in *Interactions) currentScene() *Scene {
	if in.scenes == nil {
		return nil
	}
	return in.scenes()
}

// frameDelta returns seconds since the previous Update, clamped.
func (in *Interactions) frameDelta(timestamp float64) float32 {
	var dt float64
	if in.hasTimestamp {
		dt = (timestamp - in.lastTimestamp) / 1000
	}
	in.lastTimestamp = timestamp
	in.hasTimestamp = true
	if dt < 0 {
		dt = 0
	}
	if dt > maxFrameDelta {
		dt = maxFrameDelta
	}
	return float32(dt)
}
