package rigid

import (
	"cmp"
	"math"
	"slices"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/mironco/scenecore/internal/bounds"
	"github.com/mironco/scenecore/internal/physics"
)

// Spatial grid cell size. A body is hashed into every cell its AABB spans.
const cellSize = 5.0

// Bodies spanning more cells than this (floors, terrain) skip the grid and
// are tested against every other body.
const maxCellsPerBody = 64

type cellKey struct {
	X, Y, Z int
}

func posToCell(p rl.Vector3) cellKey {
	return cellKey{
		X: int(math.Floor(float64(p.X) / cellSize)),
		Y: int(math.Floor(float64(p.Y) / cellSize)),
		Z: int(math.Floor(float64(p.Z) / cellSize)),
	}
}

func finite(v rl.Vector3) bool {
	for _, f := range []float32{v.X, v.Y, v.Z} {
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			return false
		}
	}
	return true
}

// rebuildGrid hashes every body index by its box and returns the indices
// too large to hash.
func (w *World) rebuildGrid(boxes []bounds.AABB) (large []int) {
	clear(w.grid)
	for i, b := range boxes {
		if b.IsEmpty() {
			continue
		}
		if !finite(b.Min) || !finite(b.Max) {
			large = append(large, i)
			continue
		}
		lo, hi := posToCell(b.Min), posToCell(b.Max)
		nx, ny, nz := hi.X-lo.X+1, hi.Y-lo.Y+1, hi.Z-lo.Z+1
		if nx > maxCellsPerBody || ny > maxCellsPerBody || nz > maxCellsPerBody || nx*ny*nz > maxCellsPerBody {
			large = append(large, i)
			continue
		}
		for x := lo.X; x <= hi.X; x++ {
			for y := lo.Y; y <= hi.Y; y++ {
				for z := lo.Z; z <= hi.Z; z++ {
					k := cellKey{x, y, z}
					w.grid[k] = append(w.grid[k], i)
				}
			}
		}
	}
	return large
}

// broadPhase returns index pairs (i < j) into w.order whose boxes overlap
// and that are not both static, sorted so narrow phase runs in body order.
func (w *World) broadPhase(boxes []bounds.AABB) [][2]int {
	large := w.rebuildGrid(boxes)

	checked := make(map[[2]int]bool)
	var out [][2]int
	try := func(i, j int) {
		if i == j {
			return
		}
		if i > j {
			i, j = j, i
		}
		key := [2]int{i, j}
		if checked[key] {
			return
		}
		checked[key] = true
		if w.order[i].kind == physics.Static && w.order[j].kind == physics.Static {
			return
		}
		if boxes[i].Intersects(boxes[j]) {
			out = append(out, key)
		}
	}
	for _, cell := range w.grid {
		for a := 0; a < len(cell); a++ {
			for b := a + 1; b < len(cell); b++ {
				try(cell[a], cell[b])
			}
		}
	}
	for _, i := range large {
		for j := range boxes {
			try(i, j)
		}
	}
	slices.SortFunc(out, func(a, b [2]int) int {
		if c := cmp.Compare(a[0], b[0]); c != 0 {
			return c
		}
		return cmp.Compare(a[1], b[1])
	})
	return out
}
