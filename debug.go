package xr

import (
	"fmt"
	"io"
	"os"
	"time"
)

// nodeChecks enables disposed-node panics and tree depth warnings in node
// tree operations. Nodes carry no engine pointer, so unlike the per-engine
// debug mode this switch is process-wide. See SetNodeChecks.
var nodeChecks bool

// SetNodeChecks turns node tree checks on or off for the whole process.
// With checks on, AddChild panics when either node is disposed and warns
// when a tree grows deeper than 32 levels.
func SetNodeChecks(enabled bool) {
	nodeChecks = enabled
}

// debugOut is where debug lines go. Tests swap it.
var debugOut io.Writer = os.Stderr

// debugStats holds per-frame counts and timing.
// Only populated when debug mode is on.
type debugStats struct {
	frameTime  time.Duration
	sources    int
	skipped    int // sources without a resolvable pose
	signals    int
	hovers     int
	selections int
	drags      int
}

// debugLogger writes "[xr]" prefixed lines to debugOut while enabled. An
// Interactions shares one with its dispatcher and registry. A nil logger is
// silent.
type debugLogger struct {
	enabled bool
}

func (l *debugLogger) on() bool {
	return l != nil && l.enabled
}

func (l *debugLogger) printf(format string, args ...any) {
	if !l.on() {
		return
	}
	_, _ = fmt.Fprintf(debugOut, "[xr] "+format+"\n", args...)
}

// defaultUsed logs that a default callback stood in for a missing one.
func (l *debugLogger) defaultUsed(event string, n *Node) {
	if !l.on() {
		return
	}
	name := "<nil>"
	if n != nil {
		name = n.Name
	}
	l.printf("default %s on %q", event, name)
}

// frame prints frame stats.
func (l *debugLogger) frame(stats debugStats) {
	l.printf("frame: %v | sources: %d (skipped %d) | signals: %d | hover/select/drag: %d/%d/%d",
		stats.frameTime, stats.sources, stats.skipped, stats.signals,
		stats.hovers, stats.selections, stats.drags)
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. Only called with node checks on.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("xr debug: %s on disposed node %q", op, n.Name))
	}
}

// debugCheckTreeDepth warns if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		_, _ = fmt.Fprintf(debugOut, "[xr] warning: tree depth %d exceeds %d (node %q)\n", depth, debugMaxTreeDepth, n.Name)
	}
}
