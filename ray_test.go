package xr

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// --- DeriveRay ---

type fixedFrame map[Space]Mat4

func (f fixedFrame) Pose(space Space) (Mat4, bool) {
	m, ok := f[space]
	return m, ok
}

func TestDeriveRay(t *testing.T) {
	space := "target-ray"
	src := &InputSource{Name: "right", TargetRaySpace: space}
	pose := PoseLookAt(Vec3{0, 1.6, 0}, Vec3{0, 1.6, -1})

	tests := []struct {
		name   string
		src    *InputSource
		frame  Frame
		wantOK bool
	}{
		{"tracked", src, fixedFrame{space: pose}, true},
		{"lost", src, fixedFrame{}, false},
		{"nil frame", src, nil, false},
		{"nil source", nil, fixedFrame{space: pose}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray, ok := DeriveRay(tt.src, tt.frame)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			assertVec(t, "origin", ray.Origin, Vec3{0, 1.6, 0})
			assertVec(t, "direction", ray.Direction, Vec3{0, 0, -1})
			if ray.Matrix != pose {
				t.Error("Matrix should be the resolved pose")
			}
		})
	}
}

func TestRayAt(t *testing.T) {
	r := RayFromPose(mgl64.Translate3D(1, 0, 0))
	assertVec(t, "At(2)", r.At(2), Vec3{1, 0, -2})
}

// --- Intersect ---

func TestIntersectSortedByDistance(t *testing.T) {
	root := NewGroup("root")
	for i, z := range []float64{-8, -2, -5} {
		n := NewMesh(string(rune('a'+i)), NewBoxGeometry(1, 1, 1))
		n.SetPosition(0, 0, z)
		root.AddChild(n)
	}
	updateWorldMatrix(root, identityTransform, false)

	hits := Intersect(rayAt(0, 0, -5), root)
	if len(hits) != 3 {
		t.Fatalf("hits = %d, want 3", len(hits))
	}
	for i := 1; i < len(hits); i++ {
		if hits[i].Distance < hits[i-1].Distance {
			t.Errorf("hits not sorted: %v then %v", hits[i-1].Distance, hits[i].Distance)
		}
	}
	if hits[0].Node.Name != "b" {
		t.Errorf("nearest = %s, want b", hits[0].Node.Name)
	}
}

func TestIntersectHitDetails(t *testing.T) {
	root := NewGroup("root")
	box := NewMesh("box", NewBoxGeometry(2, 2, 2))
	box.SetPosition(0, 0, -5)
	root.AddChild(box)
	updateWorldMatrix(root, identityTransform, false)

	ray := RayFromPose(mgl64.Translate3D(0.3, 0.4, 0))
	hits := Intersect(ray, root)
	if len(hits) != 1 {
		t.Fatalf("hits = %d, want 1", len(hits))
	}
	h := hits[0]
	if math.Abs(h.Distance-4) > epsilon {
		t.Errorf("Distance = %v, want 4", h.Distance)
	}
	assertVec(t, "Point", h.Point, Vec3{0.3, 0.4, -4})
	assertVec(t, "Normal", h.Normal, Vec3{0, 0, 1})
	if h.Target != nil {
		t.Error("Target should be nil without a capability slot")
	}
}

func TestIntersectScaledAndRotated(t *testing.T) {
	root := NewGroup("root")
	plane := NewMesh("plane", NewPlaneGeometry(1, 1))
	plane.SetPosition(0, 0, -3)
	plane.SetRotationEuler(0, math.Pi, 0) // facing away; still hit
	plane.SetScale(4)
	root.AddChild(plane)
	updateWorldMatrix(root, identityTransform, false)

	// 1.5 units off axis: outside the unscaled plane, inside the scaled one.
	ray := RayFromPose(mgl64.Translate3D(1.5, 0.2, 0))
	hits := Intersect(ray, root)
	if len(hits) != 1 {
		t.Fatalf("hits = %d, want 1", len(hits))
	}
	if math.Abs(hits[0].Distance-3) > epsilon {
		t.Errorf("Distance = %v, want 3", hits[0].Distance)
	}
	if hits[0].Normal.Dot(ray.Direction) > 0 {
		t.Error("normal should face the ray origin")
	}
}

func TestIntersectSkips(t *testing.T) {
	tests := []struct {
		name  string
		setup func(group, mesh *Node)
	}{
		{"invisible mesh", func(_, mesh *Node) { mesh.Visible = false }},
		{"non-raycastable mesh", func(_, mesh *Node) { mesh.Raycastable = false }},
		{"invisible group", func(group, _ *Node) { group.Visible = false }},
		{"non-raycastable group", func(group, _ *Node) { group.Raycastable = false }},
		{"behind origin", func(group, _ *Node) { group.SetPosition(0, 0, 5) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := NewGroup("root")
			group := NewGroup("group")
			group.SetPosition(0, 0, -5)
			mesh := NewMesh("mesh", NewBoxGeometry(1, 1, 1))
			group.AddChild(mesh)
			root.AddChild(group)
			tt.setup(group, mesh)
			updateWorldMatrix(root, identityTransform, false)

			if hits := Intersect(rayAt(0, 0, -5), root); len(hits) != 0 {
				t.Errorf("hits = %d, want 0", len(hits))
			}
		})
	}
}

func TestRaycasterNearFar(t *testing.T) {
	root := NewGroup("root")
	box := NewMesh("box", NewBoxGeometry(1, 1, 1))
	box.SetPosition(0, 0, -5)
	root.AddChild(box)
	updateWorldMatrix(root, identityTransform, false)

	rc := NewRaycaster()
	rc.Far = 3
	if hits := rc.Intersect(rayAt(0, 0, -5), root); len(hits) != 0 {
		t.Errorf("hits beyond Far = %d, want 0", len(hits))
	}
	rc.Far = math.Inf(1)
	rc.Near = 10
	if hits := rc.Intersect(rayAt(0, 0, -5), root); len(hits) != 0 {
		t.Errorf("hits before Near = %d, want 0", len(hits))
	}
}

func TestNearestSkipsHitsWithoutTarget(t *testing.T) {
	root := NewGroup("root")
	wall := NewMesh("wall", NewPlaneGeometry(10, 10))
	wall.SetPosition(0, 0, -2)
	button := NewMesh("button", NewBoxGeometry(1, 1, 1))
	button.SetPosition(0, 0, -5)
	button.Interactions = &Interactable{}
	root.AddChild(wall)
	root.AddChild(button)
	updateWorldMatrix(root, identityTransform, false)

	rc := NewRaycaster()
	hit := rc.Nearest(rayAt(0, 0, -5), root)
	if hit == nil || hit.Node != button {
		t.Fatalf("Nearest = %v, want button", hit)
	}
	// The returned hit is a copy, not a view into the buffer.
	rc.Intersect(RayFromPose(identityTransform), NewGroup("empty"))
	if hit.Node != button {
		t.Error("hit changed after reuse of the raycaster")
	}
}

func TestIntersectEmptyScene(t *testing.T) {
	if hits := Intersect(rayAt(0, 0, -5), nil); len(hits) != 0 {
		t.Errorf("hits = %d, want 0", len(hits))
	}
}
