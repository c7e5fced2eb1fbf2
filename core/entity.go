package core

// Entity is the capability surface shared by every board piece: a
// stable id, a continuous position, an optional standing order, and a
// per-tick update. The world is passed into Update explicitly; entities
// hold no back-reference to it.
type Entity interface {
	ID() int
	Position() Vec3
	MoveOrder(destination Vec3)
	Update(w *World) error
}

// unit is the inert base piece. Concrete variants embed it for the id,
// position, and standing-order bookkeeping.
type unit struct {
	id             int
	position       Vec3
	destination    Vec3
	hasDestination bool
}

func (u *unit) ID() int {
	return u.id
}

func (u *unit) Position() Vec3 {
	return u.position
}

// MoveOrder sets the destination applied on subsequent updates. Orders
// are never cleared on arrival.
func (u *unit) MoveOrder(destination Vec3) {
	u.destination = destination
	u.hasDestination = true
}

// Update on the base piece does nothing.
func (u *unit) Update(*World) error {
	return nil
}
