package xr

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// identityTransform is the identity matrix.
var identityTransform = mgl64.Ident4()

// composeMatrix builds the local matrix from the node's transform properties.
//
// Composition order:
//
//	Scale -> Rotate -> Translate(Position)
func composeMatrix(pos Vec3, rot Quat, scale Vec3) Mat4 {
	return mgl64.Translate3D(pos[0], pos[1], pos[2]).
		Mul4(rot.Normalize().Mat4()).
		Mul4(mgl64.Scale3D(scale[0], scale[1], scale[2]))
}

// decomposeMatrix splits an affine matrix into position, rotation and scale.
// Shear is discarded. A negative determinant is folded into the X scale.
func decomposeMatrix(m Mat4) (pos Vec3, rot Quat, scale Vec3) {
	pos = m.Col(3).Vec3()
	sx := m.Col(0).Vec3().Len()
	sy := m.Col(1).Vec3().Len()
	sz := m.Col(2).Vec3().Len()
	if m.Det() < 0 {
		sx = -sx
	}
	scale = Vec3{sx, sy, sz}
	if sx == 0 || sy == 0 || sz == 0 {
		return pos, mgl64.QuatIdent(), scale
	}

	var r Mat4
	r.SetCol(0, m.Col(0).Mul(1/sx))
	r.SetCol(1, m.Col(1).Mul(1/sy))
	r.SetCol(2, m.Col(2).Mul(1/sz))
	r.SetCol(3, mgl64.Vec4{0, 0, 0, 1})
	return pos, mgl64.Mat4ToQuat(r).Normalize(), scale
}

// updateWorldMatrix recomputes a node's world matrix. parentRecomputed
// indicates whether the parent was recomputed this pass, which forces
// recomputation of this node even if it's not dirty.
func updateWorldMatrix(n *Node, parentWorld Mat4, parentRecomputed bool) {
	recompute := n.transformDirty || parentRecomputed
	if recompute {
		if n.MatrixAutoUpdate {
			n.matrix = composeMatrix(n.Position, n.Rotation, n.Scale)
		}
		n.worldMatrix = parentWorld.Mul4(n.matrix)
		n.transformDirty = false
	}

	for _, child := range n.children {
		updateWorldMatrix(child, n.worldMatrix, recompute)
	}
}

// --- Transform property setters ---

// SetPosition sets the node's local position and marks it dirty.
func (n *Node) SetPosition(x, y, z float64) {
	n.Position = Vec3{x, y, z}
	n.transformDirty = true
}

// SetRotation sets the node's local rotation and marks it dirty.
func (n *Node) SetRotation(q Quat) {
	n.Rotation = q
	n.transformDirty = true
}

// SetRotationEuler sets the rotation from XYZ Euler angles in radians.
func (n *Node) SetRotationEuler(x, y, z float64) {
	n.Rotation = mgl64.AnglesToQuat(x, y, z, mgl64.XYZ)
	n.transformDirty = true
}

// SetScale sets a uniform scale and marks the node dirty.
func (n *Node) SetScale(s float64) {
	n.Scale = Vec3{s, s, s}
	n.transformDirty = true
}

// SetMatrix replaces the local matrix and keeps Position, Rotation and Scale
// in sync with it, so a later switch back to MatrixAutoUpdate keeps the pose.
func (n *Node) SetMatrix(m Mat4) {
	n.matrix = m
	n.Position, n.Rotation, n.Scale = decomposeMatrix(m)
	n.transformDirty = true
}

// MarkDirty marks the node's transform as dirty, forcing recomputation
// on the next world update. Useful after bulk-setting fields directly.
func (n *Node) MarkDirty() {
	n.transformDirty = true
}

// Matrix returns the local matrix as of the last world update or SetMatrix.
func (n *Node) Matrix() Mat4 {
	return n.matrix
}

// WorldMatrix returns the node's world matrix as of the last world update.
func (n *Node) WorldMatrix() Mat4 {
	return n.worldMatrix
}

// WorldPosition returns the translation part of the world matrix.
func (n *Node) WorldPosition() Vec3 {
	return n.worldMatrix.Col(3).Vec3()
}

// UpdateWorldMatrix refreshes this node and its subtree immediately, using
// the parent's current world matrix.
func (n *Node) UpdateWorldMatrix() {
	parent := identityTransform
	if n.Parent != nil {
		parent = n.Parent.worldMatrix
	}
	updateWorldMatrix(n, parent, true)
}

// --- Coordinate conversion ---

// WorldToLocal converts a world-space point to this node's local space.
func (n *Node) WorldToLocal(p Vec3) Vec3 {
	return mgl64.TransformCoordinate(p, n.worldMatrix.Inv())
}

// LocalToWorld converts a local-space point to world space.
func (n *Node) LocalToWorld(p Vec3) Vec3 {
	return mgl64.TransformCoordinate(p, n.worldMatrix)
}

// LookRotation returns the rotation that points local -Z along forward with
// local +Y as close to up as possible. forward need not be normalized.
func LookRotation(forward, up Vec3) Quat {
	if forward.Len() < 1e-12 {
		return mgl64.QuatIdent()
	}
	z := forward.Normalize().Mul(-1)
	if math.Abs(z.Dot(up.Normalize())) > 0.999999 {
		up = Vec3{0, 0, 1}
		if math.Abs(z.Dot(up)) > 0.999999 {
			up = Vec3{1, 0, 0}
		}
	}
	x := up.Cross(z).Normalize()
	y := z.Cross(x)

	var r Mat4
	r.SetCol(0, x.Vec4(0))
	r.SetCol(1, y.Vec4(0))
	r.SetCol(2, z.Vec4(0))
	r.SetCol(3, mgl64.Vec4{0, 0, 0, 1})
	return mgl64.Mat4ToQuat(r).Normalize()
}

// PoseLookAt returns a pose matrix positioned at origin whose -Z axis points
// at target. Handy for aiming simulated input sources.
func PoseLookAt(origin, target Vec3) Mat4 {
	rot := LookRotation(target.Sub(origin), Vec3{0, 1, 0})
	return composeMatrix(origin, rot, Vec3{1, 1, 1})
}
