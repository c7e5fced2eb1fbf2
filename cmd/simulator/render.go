package main

import (
	"fmt"
	"io"
	"time"

	"github.com/signalsfoundry/horizon-sim/core"
)

// renderBoard prints a top-down view of the occupancy grid plus the
// projectile positions. It reads only the guarded snapshot accessors
// and runs after a drain, so it never races the tick fan-out.
func renderBoard(w io.Writer, world *core.World, simTime time.Time) {
	maxX, maxY, _ := world.Dimensions()
	views := world.Snapshot()

	occupied := make(map[[2]int]int, len(views))
	for _, v := range views {
		c := core.CellOf(v.Position)
		occupied[[2]int{c.X, c.Y}] = v.ID
	}

	fmt.Fprintf(w, "[%s] board %dx%d, %d units\n", simTime.Format(time.RFC3339), maxX, maxY, len(views))
	for y := maxY - 1; y >= 0; y-- {
		for x := 0; x < maxX; x++ {
			if id, ok := occupied[[2]int{x, y}]; ok {
				fmt.Fprintf(w, "X%d ", id)
			} else {
				fmt.Fprint(w, " . ")
			}
		}
		fmt.Fprintln(w)
	}
	for _, v := range views {
		for i, p := range v.Projectiles {
			fmt.Fprintf(w, "  projectile %d/%d at (%.2f, %.2f, %.2f)\n", v.ID, i, p.X, p.Y, p.Z)
		}
	}
}
