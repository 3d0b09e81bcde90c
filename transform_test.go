package xr

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const epsilon = 1e-9

func assertVec(t *testing.T, name string, got, want Vec3) {
	t.Helper()
	if !got.ApproxEqualThreshold(want, epsilon) {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

// --- composeMatrix / decomposeMatrix ---

func TestComposeMatrixOrder(t *testing.T) {
	// Scale, then rotate 90° about Y, then translate.
	rot := mgl64.QuatRotate(math.Pi/2, Vec3{0, 1, 0})
	m := composeMatrix(Vec3{10, 0, 0}, rot, Vec3{2, 2, 2})

	got := mgl64.TransformCoordinate(Vec3{1, 0, 0}, m)
	assertVec(t, "point", got, Vec3{10, 0, -2})
}

func TestDecomposeRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		pos   Vec3
		rot   Quat
		scale Vec3
	}{
		{"identity", Vec3{}, mgl64.QuatIdent(), Vec3{1, 1, 1}},
		{"translated", Vec3{1, 2, 3}, mgl64.QuatIdent(), Vec3{1, 1, 1}},
		{"rotated", Vec3{0, 1, 0}, mgl64.QuatRotate(0.7, Vec3{1, 1, 0}.Normalize()), Vec3{1, 1, 1}},
		{"scaled", Vec3{-4, 0, 2}, mgl64.QuatRotate(-1.2, Vec3{0, 0, 1}), Vec3{2, 0.5, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := composeMatrix(tt.pos, tt.rot, tt.scale)
			pos, rot, scale := decomposeMatrix(m)
			assertVec(t, "pos", pos, tt.pos)
			assertVec(t, "scale", scale, tt.scale)
			if !composeMatrix(pos, rot, scale).ApproxEqualThreshold(m, epsilon) {
				t.Errorf("recomposed matrix differs")
			}
		})
	}
}

// --- World matrices ---

func TestWorldMatrixInheritsParent(t *testing.T) {
	root := NewGroup("root")
	parent := NewGroup("parent")
	parent.SetPosition(0, 1, 0)
	parent.SetScale(2)
	child := NewGroup("child")
	child.SetPosition(1, 0, 0)
	root.AddChild(parent)
	parent.AddChild(child)

	updateWorldMatrix(root, identityTransform, false)
	assertVec(t, "child world", child.WorldPosition(), Vec3{2, 1, 0})
	assertVec(t, "LocalToWorld", child.LocalToWorld(Vec3{0.5, 0, 0}), Vec3{3, 1, 0})
	assertVec(t, "WorldToLocal", child.WorldToLocal(Vec3{3, 1, 0}), Vec3{0.5, 0, 0})
}

func TestParentChangePropagates(t *testing.T) {
	root := NewGroup("root")
	parent := NewGroup("parent")
	child := NewGroup("child")
	root.AddChild(parent)
	parent.AddChild(child)
	updateWorldMatrix(root, identityTransform, false)

	parent.SetPosition(5, 0, 0)
	updateWorldMatrix(root, identityTransform, false)
	assertVec(t, "child", child.WorldPosition(), Vec3{5, 0, 0})
}

func TestMatrixAutoUpdateOffKeepsMatrix(t *testing.T) {
	root := NewGroup("root")
	n := NewGroup("n")
	root.AddChild(n)
	n.SetMatrix(mgl64.Translate3D(1, 2, 3))
	n.MatrixAutoUpdate = false
	n.Position = Vec3{9, 9, 9} // ignored while auto-update is off
	n.MarkDirty()

	updateWorldMatrix(root, identityTransform, false)
	assertVec(t, "world", n.WorldPosition(), Vec3{1, 2, 3})

	// SetMatrix synced Position, so turning auto-update back on would use
	// whatever the fields hold now.
	n.MatrixAutoUpdate = true
	n.SetPosition(1, 2, 3)
	updateWorldMatrix(root, identityTransform, false)
	assertVec(t, "world after restore", n.WorldPosition(), Vec3{1, 2, 3})
}

func TestSetMatrixSyncsFields(t *testing.T) {
	n := NewGroup("n")
	rot := mgl64.QuatRotate(0.5, Vec3{0, 1, 0})
	n.SetMatrix(composeMatrix(Vec3{1, 2, 3}, rot, Vec3{2, 2, 2}))

	assertVec(t, "Position", n.Position, Vec3{1, 2, 3})
	assertVec(t, "Scale", n.Scale, Vec3{2, 2, 2})
	if !n.Rotation.ApproxEqualThreshold(rot, epsilon) && !n.Rotation.ApproxEqualThreshold(rot.Scale(-1), epsilon) {
		t.Errorf("Rotation = %v, want %v", n.Rotation, rot)
	}
}

func TestUpdateWorldMatrixUsesParent(t *testing.T) {
	root := NewGroup("root")
	root.SetPosition(0, 0, -1)
	child := NewGroup("child")
	root.AddChild(child)
	updateWorldMatrix(root, identityTransform, false)

	child.SetPosition(1, 0, 0)
	child.UpdateWorldMatrix()
	assertVec(t, "child", child.WorldPosition(), Vec3{1, 0, -1})
}

// --- Look helpers ---

func TestPoseLookAt(t *testing.T) {
	tests := []struct {
		name           string
		origin, target Vec3
	}{
		{"forward", Vec3{}, Vec3{0, 0, -1}},
		{"right", Vec3{0, 1.6, 0}, Vec3{3, 1.6, 0}},
		{"down diagonal", Vec3{1, 2, 3}, Vec3{0, 0, 0}},
		{"straight up", Vec3{}, Vec3{0, 5, 0}},
		{"straight down", Vec3{}, Vec3{0, -5, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := RayFromPose(PoseLookAt(tt.origin, tt.target))
			assertVec(t, "origin", ray.Origin, tt.origin)
			assertVec(t, "direction", ray.Direction, tt.target.Sub(tt.origin).Normalize())
		})
	}
}

func TestLookRotationKeepsUp(t *testing.T) {
	q := LookRotation(Vec3{1, 0, -1}, Vec3{0, 1, 0})
	up := q.Rotate(Vec3{0, 1, 0})
	assertVec(t, "up", up, Vec3{0, 1, 0})
}

func TestLookRotationZeroForward(t *testing.T) {
	if q := LookRotation(Vec3{}, Vec3{0, 1, 0}); q != mgl64.QuatIdent() {
		t.Errorf("LookRotation(0) = %v, want identity", q)
	}
}
