package xr

import (
	"slices"
	"testing"
)

func TestRegistrySync(t *testing.T) {
	r := NewRegistry(DefaultControllerOptions())
	root := NewGroup("root")
	r.Bind(root)

	left := &InputSource{Name: "left", Mode: RayModeTrackedPointer}
	right := &InputSource{Name: "right", Mode: RayModeTrackedPointer}
	gaze := &InputSource{Name: "gaze", Mode: RayModeGaze}

	added, removed := r.Sync([]*InputSource{left, right, nil, left}, nil)
	if !slices.Equal(added, []*InputSource{left, right}) || len(removed) != 0 {
		t.Fatalf("added = %v, removed = %v", added, removed)
	}
	if r.Len() != 2 {
		t.Fatalf("Len = %d, want 2", r.Len())
	}
	if got := root.NumChildren(); got != 6 {
		t.Errorf("root children = %d, want 6", got)
	}

	var released []*InputSource
	added, removed = r.Sync([]*InputSource{right, gaze}, func(src *InputSource) {
		released = append(released, src)
		if r.Controller(src) == nil {
			t.Error("release should run before the controller is torn down")
		}
	})
	if !slices.Equal(added, []*InputSource{gaze}) || !slices.Equal(removed, []*InputSource{left}) {
		t.Errorf("added = %v, removed = %v", added, removed)
	}
	if !slices.Equal(released, []*InputSource{left}) {
		t.Errorf("released = %v, want [left]", released)
	}
	if !slices.Equal(r.Sources(), []*InputSource{right, gaze}) {
		t.Errorf("Sources = %v, want [right gaze]", r.Sources())
	}
	if got := root.NumChildren(); got != 4 {
		t.Errorf("root children = %d, want 4", got)
	}
}

func TestRegistryAddIsIdempotent(t *testing.T) {
	r := NewRegistry(DefaultControllerOptions())
	src := &InputSource{Name: "gaze", Mode: RayModeGaze}
	c1 := r.Add(src)
	c2 := r.Add(src)
	if c1 != c2 || r.Len() != 1 {
		t.Errorf("Add twice: same = %v, Len = %d", c1 == c2, r.Len())
	}
}

func TestRegistryRemoveDisposesController(t *testing.T) {
	r := NewRegistry(DefaultControllerOptions())
	root := NewGroup("root")
	r.Bind(root)
	src := &InputSource{Name: "right", Mode: RayModeTrackedPointer}
	c := r.Add(src)

	r.Remove(src, nil)
	r.Remove(src, nil) // untracked: no-op

	for _, el := range []*Node{c.Cursor, c.Laser, c.Grip} {
		if !el.IsDisposed() {
			t.Errorf("%v should be disposed", el)
		}
	}
	if root.NumChildren() != 0 {
		t.Errorf("root children = %d, want 0", root.NumChildren())
	}
}

func TestRegistryRebind(t *testing.T) {
	r := NewRegistry(DefaultControllerOptions())
	hall := NewGroup("hall")
	lab := NewGroup("lab")
	src := &InputSource{Name: "gaze", Mode: RayModeGaze}
	c := r.Add(src)
	if c.Bound() != nil {
		t.Fatal("controller should be unbound before Bind")
	}

	r.Bind(hall)
	r.Bind(lab)
	if c.Bound() != lab || r.Bound() != lab {
		t.Error("controller should be bound to lab")
	}
	if hall.NumChildren() != 0 || lab.NumChildren() != 1 {
		t.Errorf("children: hall %d, lab %d", hall.NumChildren(), lab.NumChildren())
	}

	r.Unbind()
	if c.Bound() != nil || lab.NumChildren() != 0 {
		t.Error("Unbind should detach the visuals")
	}
}

func TestRegistryClearReleasesInOrder(t *testing.T) {
	r := NewRegistry(DefaultControllerOptions())
	a := &InputSource{Name: "a", Mode: RayModeScreen}
	b := &InputSource{Name: "b", Mode: RayModeScreen}
	r.Add(a)
	r.Add(b)

	var released []string
	r.Clear(func(src *InputSource) { released = append(released, src.Name) })
	if !slices.Equal(released, []string{"a", "b"}) {
		t.Errorf("released = %v, want [a b]", released)
	}
	if r.Len() != 0 {
		t.Errorf("Len = %d, want 0", r.Len())
	}
}
