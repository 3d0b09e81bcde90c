package xr

import (
	"encoding/json"
	"fmt"
)

// scriptStep is a single action in an interaction script.
type scriptStep struct {
	Action string `json:"action"`
	Source string `json:"source,omitempty"`
	Mode   string `json:"mode,omitempty"`
	Hand   string `json:"hand,omitempty"`
	// Origin and Target are used by "aim".
	Origin [3]float64 `json:"origin,omitempty"`
	Target [3]float64 `json:"target,omitempty"`
	Frames int        `json:"frames,omitempty"`
}

// script is the top-level JSON structure of an interaction script.
type script struct {
	Steps []scriptStep `json:"steps"`
}

// ScriptRunner plays an interaction script against a SimSession, one step
// per frame. Call Step before Interactions.Update each frame.
//
//	{"steps": [
//	  {"action": "add", "source": "right", "mode": "tracked-pointer", "hand": "right"},
//	  {"action": "aim", "source": "right", "origin": [0, 1.6, 0], "target": [0, 1, -2]},
//	  {"action": "press", "source": "right"},
//	  {"action": "wait", "frames": 3},
//	  {"action": "release", "source": "right"},
//	  {"action": "end"}
//	]}
//
// Actions: add, remove, aim, lose (drop tracking), press, release, wait, end.
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
	log       debugLogger
}

// SetDebugMode logs steps that name an unknown source when enabled.
func (r *ScriptRunner) SetDebugMode(enabled bool) {
	r.log.enabled = enabled
}

// LoadScript parses and validates a JSON interaction script.
func LoadScript(jsonData []byte) (*ScriptRunner, error) {
	var sc script
	if err := json.Unmarshal(jsonData, &sc); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range sc.Steps {
		if err := st.validate(); err != nil {
			return nil, fmt.Errorf("parse script: step %d: %w", i, err)
		}
	}
	return &ScriptRunner{steps: sc.Steps}, nil
}

func (st scriptStep) validate() error {
	switch st.Action {
	case "add":
		if st.Source == "" {
			return fmt.Errorf("add: missing source")
		}
		if _, ok := ParseRayMode(st.Mode); !ok {
			return fmt.Errorf("add: unknown mode %q", st.Mode)
		}
		if _, ok := ParseHandedness(st.Hand); !ok {
			return fmt.Errorf("add: unknown hand %q", st.Hand)
		}
	case "remove", "aim", "lose", "press", "release":
		if st.Source == "" {
			return fmt.Errorf("%s: missing source", st.Action)
		}
	case "wait", "end":
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}
	return nil
}

// Done reports whether every step has run.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// Step advances the script by one frame.
func (r *ScriptRunner) Step(sim *SimSession) {
	if r.done {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "add":
		mode, _ := ParseRayMode(st.Mode)
		hand, _ := ParseHandedness(st.Hand)
		sim.AddSource(st.Source, mode, hand)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "end":
		sim.End()
	default:
		src := sim.Source(st.Source)
		if src == nil {
			r.log.printf("script: %s: no source %q", st.Action, st.Source)
			break
		}
		switch st.Action {
		case "remove":
			sim.RemoveSource(src)
		case "aim":
			sim.Aim(src, Vec3(st.Origin), Vec3(st.Target))
		case "lose":
			sim.LosePose(src)
		case "press":
			sim.Press(src)
		case "release":
			sim.Release(src)
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
}
