package components

// Position represents an entity's world position.
type Position struct {
	X, Y float32
}

// Identity is a stable entity identifier that survives snapshot and restore.
// ecs.Entity handles are only valid inside the world that issued them.
type Identity struct {
	ID uint32
}

// DistSq returns the squared distance between two positions.
func (p Position) DistSq(o Position) float32 {
	dx := o.X - p.X
	dy := o.Y - p.Y
	return dx*dx + dy*dy
}
