package willow3d

import "github.com/go-gl/mathgl/mgl64"

// computeLocalMatrix computes the local matrix from the node's transform
// properties.
//
// Composition order:
//
//	Translate(Position) * Rx * Ry * Rz * Scale
func computeLocalMatrix(n *Node) mgl64.Mat4 {
	return composeMatrix(n.Position, n.Rotation, n.Scale)
}

// composeMatrix builds T * R(XYZ) * S.
func composeMatrix(pos, rot, scale mgl64.Vec3) mgl64.Mat4 {
	t := mgl64.Translate3D(pos[0], pos[1], pos[2])
	r := eulerMatrix(rot)
	s := mgl64.Scale3D(scale[0], scale[1], scale[2])
	return t.Mul4(r).Mul4(s)
}

// eulerMatrix returns the rotation for Euler angles applied in XYZ order.
func eulerMatrix(rot mgl64.Vec3) mgl64.Mat4 {
	return mgl64.HomogRotate3DX(rot[0]).
		Mul4(mgl64.HomogRotate3DY(rot[1])).
		Mul4(mgl64.HomogRotate3DZ(rot[2]))
}

// normalMatrix returns the inverse-transpose of the upper 3x3 of m, used to
// carry normals through non-uniform scale.
func normalMatrix(m mgl64.Mat4) mgl64.Mat3 {
	m3 := m.Mat3()
	if m3.Det() == 0 {
		return mgl64.Ident3()
	}
	return m3.Inv().Transpose()
}

// updateWorldMatrix recomputes world matrices for node and its descendants.
// Clean subtrees under a clean parent are skipped.
func updateWorldMatrix(node *Node, parent mgl64.Mat4, parentRecomputed bool) {
	recompute := node.transformDirty || parentRecomputed
	if recompute {
		node.worldMatrix = parent.Mul4(computeLocalMatrix(node))
		node.transformDirty = false
	}
	for _, child := range node.children {
		updateWorldMatrix(child, node.worldMatrix, recompute)
	}
}

// WorldMatrix returns the node's world matrix, refreshing the chain of
// ancestors first.
func (n *Node) WorldMatrix() mgl64.Mat4 {
	root := n
	for root.Parent != nil {
		root = root.Parent
	}
	updateWorldMatrix(root, mgl64.Ident4(), false)
	return n.worldMatrix
}
