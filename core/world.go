package core

import (
	"errors"
	"fmt"
	"sync"
)

// Empty marks an unoccupied cell in the occupancy grid.
const Empty = -1

var (
	// ErrOutOfBounds is returned when a commanded coordinate lies
	// outside the board dimensions.
	ErrOutOfBounds = errors.New("coordinate outside board dimensions")

	// ErrNoEntityAtCell is returned when a move order targets an
	// empty cell.
	ErrNoEntityAtCell = errors.New("no entity at cell")
)

// LaunchEvent is emitted when a sensor fires a projectile.
type LaunchEvent struct {
	SensorID int
	Target   Vec3
}

// KillEvent is emitted when a projectile's collision scan finds a
// target inside the blast radius. Nothing downstream applies damage;
// the event exists for logging and telemetry.
type KillEvent struct {
	ProjectileID int
	TargetID     int
	Separation   float64
}

// World owns the occupancy grid, the entity arena, and the guard that
// keeps them structurally consistent.
//
// The guard is deliberately narrow: it serializes appending a new entity
// together with its starting cell, and occupancy cell rewrites when a
// carrier moves. Per-tick visibility and collision scans read the entity
// list without the guard; the list only grows and ids are stable, so an
// unguarded reader sees at worst a prefix of the live entities.
type World struct {
	maxX, maxY, maxZ int

	mu        sync.Mutex
	occupancy [][][]int
	entities  []Entity
	nextID    int

	launchSubs []func(LaunchEvent)
	killSubs   []func(KillEvent)
}

// NewWorld constructs an empty world with the given grid dimensions.
func NewWorld(maxX, maxY, maxZ int) *World {
	occ := make([][][]int, maxX)
	for x := range occ {
		occ[x] = make([][]int, maxY)
		for y := range occ[x] {
			col := make([]int, maxZ)
			for z := range col {
				col[z] = Empty
			}
			occ[x][y] = col
		}
	}
	return &World{maxX: maxX, maxY: maxY, maxZ: maxZ, occupancy: occ}
}

// Dimensions returns the grid bounds.
func (w *World) Dimensions() (maxX, maxY, maxZ int) {
	return w.maxX, w.maxY, w.maxZ
}

// InBounds reports whether the cell lies on the board.
func (w *World) InBounds(c Cell) bool {
	return c.X >= 0 && c.X < w.maxX &&
		c.Y >= 0 && c.Y < w.maxY &&
		c.Z >= 0 && c.Z < w.maxZ
}

// AddEntity allocates the next id, constructs a carrier at position with
// the given velocity, appends it to the arena, and writes its starting
// cell. The whole sequence runs under the guard so iterators never see a
// partially constructed entity.
func (w *World) AddEntity(position, velocity Vec3) (int, error) {
	c := CellOf(position)
	if !w.InBounds(c) {
		return Empty, fmt.Errorf("add entity at %v: %w", c, ErrOutOfBounds)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	id := w.nextID
	w.nextID++
	w.entities = append(w.entities, NewCarrier(id, position, velocity))
	w.occupancy[c.X][c.Y][c.Z] = id
	return id, nil
}

// EntityAt returns the id occupying the cell, or Empty.
func (w *World) EntityAt(c Cell) (int, error) {
	if !w.InBounds(c) {
		return Empty, fmt.Errorf("entity at %v: %w", c, ErrOutOfBounds)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.occupancy[c.X][c.Y][c.Z], nil
}

// IssueMoveOrder resolves the entity occupying the cell and hands it the
// destination. The order is dropped with an error when the cell is out
// of range or empty.
func (w *World) IssueMoveOrder(c Cell, destination Vec3) error {
	if !w.InBounds(c) {
		return fmt.Errorf("move order at %v: %w", c, ErrOutOfBounds)
	}

	w.mu.Lock()
	id := w.occupancy[c.X][c.Y][c.Z]
	var e Entity
	if id != Empty && id < len(w.entities) {
		e = w.entities[id]
	}
	w.mu.Unlock()

	if e == nil {
		return fmt.Errorf("move order at %v: %w", c, ErrNoEntityAtCell)
	}
	e.MoveOrder(destination)
	return nil
}

// LiveEntities returns the current entity list without taking the guard.
// Callers iterating during a tick accept the read-mostly race described
// on World.
func (w *World) LiveEntities() []Entity {
	return w.entities
}

// EntityCount returns the number of live entities.
func (w *World) EntityCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.entities)
}

// moveOccupant clears the old cell and writes id into the new one, both
// under the guard. When the new cell is off the board the old cell is
// still cleared and ErrOutOfBounds reported; the entity's continuous
// position keeps integrating regardless.
func (w *World) moveOccupant(id int, from, to Cell) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.InBounds(from) {
		w.occupancy[from.X][from.Y][from.Z] = Empty
	}
	if !w.InBounds(to) {
		return fmt.Errorf("occupant %d moving to %v: %w", id, to, ErrOutOfBounds)
	}
	w.occupancy[to.X][to.Y][to.Z] = id
	return nil
}

// OnLaunch registers a subscriber for projectile launches. Subscribers
// must be registered before the first tick.
func (w *World) OnLaunch(fn func(LaunchEvent)) {
	w.launchSubs = append(w.launchSubs, fn)
}

// OnKill registers a subscriber for collision-detection hits.
// Subscribers must be registered before the first tick.
func (w *World) OnKill(fn func(KillEvent)) {
	w.killSubs = append(w.killSubs, fn)
}

func (w *World) notifyLaunch(ev LaunchEvent) {
	for _, fn := range w.launchSubs {
		fn(ev)
	}
}

func (w *World) notifyKill(ev KillEvent) {
	for _, fn := range w.killSubs {
		fn(ev)
	}
}

// EntityView is a read-only snapshot row for rendering.
type EntityView struct {
	ID                int
	Position          Vec3
	Velocity          Vec3
	RemainingLaunches int
	Projectiles       []Vec3
}

// Snapshot returns an ordered, guarded copy of the live entities with
// their attached sensor and projectile sub-state. Intended for renderers
// running between ticks, after a drain.
func (w *World) Snapshot() []EntityView {
	w.mu.Lock()
	defer w.mu.Unlock()

	views := make([]EntityView, 0, len(w.entities))
	for _, e := range w.entities {
		view := EntityView{ID: e.ID(), Position: e.Position()}
		if c, ok := e.(*Carrier); ok {
			view.Velocity = c.Velocity()
			view.RemainingLaunches = c.Sensor().RemainingLaunches()
			for _, p := range c.Sensor().Projectiles() {
				view.Projectiles = append(view.Projectiles, p.Position())
			}
		}
		views = append(views, view)
	}
	return views
}
