package core

import (
	"errors"
	"sync"
	"testing"
)

func TestAddEntityAssignsDenseIDsAndOccupancy(t *testing.T) {
	w := NewWorld(10, 10, 10)

	id0, err := w.AddEntity(Vec3{X: 1, Y: 5}, Vec3{})
	if err != nil {
		t.Fatalf("AddEntity: %v", err)
	}
	if id0 != 0 {
		t.Fatalf("first id = %d, want 0", id0)
	}

	id1, err := w.AddEntity(Vec3{X: 8, Y: 5}, Vec3{})
	if err != nil {
		t.Fatalf("AddEntity: %v", err)
	}
	if id1 != 1 {
		t.Fatalf("second id = %d, want 1", id1)
	}

	got, err := w.EntityAt(Cell{X: 1, Y: 5})
	if err != nil {
		t.Fatalf("EntityAt: %v", err)
	}
	if got != id0 {
		t.Fatalf("occupancy[1,5,0] = %d, want %d", got, id0)
	}
	if got, _ := w.EntityAt(Cell{X: 8, Y: 5}); got != id1 {
		t.Fatalf("occupancy[8,5,0] = %d, want %d", got, id1)
	}
	if got, _ := w.EntityAt(Cell{X: 0, Y: 0}); got != Empty {
		t.Fatalf("empty cell = %d, want %d", got, Empty)
	}
}

func TestAddEntityOutOfBounds(t *testing.T) {
	w := NewWorld(10, 10, 10)
	if _, err := w.AddEntity(Vec3{X: 11, Y: 5}, Vec3{}); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("AddEntity out of range error = %v, want ErrOutOfBounds", err)
	}
	if _, err := w.AddEntity(Vec3{X: -1, Y: 5}, Vec3{}); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("AddEntity negative coordinate error = %v, want ErrOutOfBounds", err)
	}
	if w.EntityCount() != 0 {
		t.Fatalf("failed adds must not append entities")
	}
}

func TestEntityAtOutOfBounds(t *testing.T) {
	w := NewWorld(10, 10, 10)
	if _, err := w.EntityAt(Cell{X: 10, Y: 0}); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("EntityAt error = %v, want ErrOutOfBounds", err)
	}
}

func TestIssueMoveOrder(t *testing.T) {
	w := NewWorld(10, 10, 10)
	if _, err := w.AddEntity(Vec3{X: 1, Y: 8}, Vec3{}); err != nil {
		t.Fatalf("AddEntity: %v", err)
	}

	if err := w.IssueMoveOrder(Cell{X: 1, Y: 8}, Vec3{X: 7, Y: 2}); err != nil {
		t.Fatalf("IssueMoveOrder: %v", err)
	}
	c := w.LiveEntities()[0].(*Carrier)
	if !c.hasDestination || c.destination != (Vec3{X: 7, Y: 2}) {
		t.Fatalf("destination = %v (set=%v), want {7 2 0}", c.destination, c.hasDestination)
	}

	if err := w.IssueMoveOrder(Cell{X: 3, Y: 3}, Vec3{}); !errors.Is(err, ErrNoEntityAtCell) {
		t.Fatalf("empty cell error = %v, want ErrNoEntityAtCell", err)
	}
	if err := w.IssueMoveOrder(Cell{X: -1, Y: 0}, Vec3{}); !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("out of range error = %v, want ErrOutOfBounds", err)
	}
}

// Concurrent adds must never skip or reuse an id, and every entity's
// starting cell must hold its id.
func TestAddEntityConcurrent(t *testing.T) {
	w := NewWorld(32, 32, 4)

	var wg sync.WaitGroup
	for x := 0; x < 32; x++ {
		wg.Add(1)
		go func(x int) {
			defer wg.Done()
			for y := 0; y < 32; y++ {
				if _, err := w.AddEntity(Vec3{X: float64(x), Y: float64(y)}, Vec3{}); err != nil {
					t.Errorf("AddEntity(%d,%d): %v", x, y, err)
				}
			}
		}(x)
	}
	wg.Wait()

	if got := w.EntityCount(); got != 32*32 {
		t.Fatalf("entity count = %d, want %d", got, 32*32)
	}
	seen := make(map[int]bool)
	for _, e := range w.LiveEntities() {
		if seen[e.ID()] {
			t.Fatalf("duplicate id %d", e.ID())
		}
		seen[e.ID()] = true
		if id, err := w.EntityAt(CellOf(e.Position())); err != nil || id != e.ID() {
			t.Fatalf("occupancy for entity %d = %d (err %v)", e.ID(), id, err)
		}
	}
	for i := 0; i < 32*32; i++ {
		if !seen[i] {
			t.Fatalf("id %d never assigned; ids must be dense", i)
		}
	}
}

func TestSnapshotReportsSubState(t *testing.T) {
	w := NewWorld(10, 10, 10)
	if _, err := w.AddEntity(Vec3{X: 1, Y: 5}, Vec3{}); err != nil {
		t.Fatalf("AddEntity: %v", err)
	}
	if _, err := w.AddEntity(Vec3{X: 8, Y: 5}, Vec3{}); err != nil {
		t.Fatalf("AddEntity: %v", err)
	}

	// One update makes each sensor see the other carrier and launch.
	for _, e := range w.LiveEntities() {
		if err := e.Update(w); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}

	views := w.Snapshot()
	if len(views) != 2 {
		t.Fatalf("snapshot rows = %d, want 2", len(views))
	}
	for _, v := range views {
		if len(v.Projectiles) != 1 {
			t.Fatalf("entity %d snapshot projectiles = %d, want 1", v.ID, len(v.Projectiles))
		}
		if v.RemainingLaunches != 0 {
			t.Fatalf("entity %d remaining launches = %d, want 0", v.ID, v.RemainingLaunches)
		}
	}
}
