package viewer

import (
	"math"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/mironco/scenecore/internal/engine"
	"github.com/mironco/scenecore/internal/render"
	"github.com/mironco/scenecore/internal/world"
)

var colorSelected = rl.NewColor(108, 99, 255, 255)

func (v *Viewer) Draw() {
	camera := v.Camera.GetRaylibCamera()

	rl.BeginDrawing()
	rl.ClearBackground(skyColor(v.World.Weather.TimeOfDay))

	drawStart := time.Now()
	rl.BeginMode3D(camera)
	rl.DrawGrid(40, 1)

	aspect := float32(rl.GetScreenWidth()) / float32(max(rl.GetScreenHeight(), 1))
	frustum := world.ExtractFrustum(camera, aspect, v.Camera.Near, v.Camera.Far)
	visible := v.World.Visible(frustum)
	selected := v.World.Selected()
	for _, e := range visible {
		drawEntity(e, e == selected)
	}
	if v.DebugMode {
		sun := sunDirection(v.World.Weather.TimeOfDay)
		rl.DrawLine3D(rl.Vector3{}, rl.Vector3Scale(sun, -5), rl.Yellow)
	}
	rl.EndMode3D()
	v.drawMs = float64(time.Since(drawStart).Microseconds()) / 1000.0

	v.DrawUI(len(visible))
	rl.EndDrawing()
}

func drawEntity(e *engine.Entity, selected bool) {
	n := e.Node()
	if n == nil || n.Geometry.IsNone() {
		return
	}
	color := world.LookupColor(e.UserData.Material.Color)
	if n.IsInstanced() {
		for i := range n.Instances {
			drawGeometry(n.Geometry, n.InstanceWorldMatrix(i), color)
		}
	} else {
		drawGeometry(n.Geometry, n.WorldMatrix(), color)
	}
	if selected {
		b := n.WorldBounds()
		rl.DrawBoundingBox(rl.BoundingBox{Min: b.Min, Max: b.Max}, colorSelected)
	}
}

func drawGeometry(g render.Geometry, m rl.Matrix, color rl.Color) {
	origin := rl.Vector3Transform(rl.Vector3{}, m)
	switch g.Kind {
	case render.KindBox, render.KindRoundedBox:
		c := boxCorners(g, m)
		for _, edge := range boxEdges {
			rl.DrawLine3D(c[edge[0]], c[edge[1]], color)
		}
	case render.KindSphere:
		rl.DrawSphereWires(origin, g.Radius*maxScale(m), 8, 12, color)
	case render.KindCapsule:
		half := rl.Vector3{Y: g.Height / 2}
		top := rl.Vector3Transform(half, m)
		bottom := rl.Vector3Transform(rl.Vector3Negate(half), m)
		rl.DrawCapsuleWires(bottom, top, g.Radius*maxScale(m), 8, 4, color)
	case render.KindHeightfield:
		for row := 0; row < g.Rows; row++ {
			for col := 0; col < g.Cols; col++ {
				p := rl.Vector3Transform(heightfieldPoint(g, row, col), m)
				if col+1 < g.Cols {
					rl.DrawLine3D(p, rl.Vector3Transform(heightfieldPoint(g, row, col+1), m), color)
				}
				if row+1 < g.Rows {
					rl.DrawLine3D(p, rl.Vector3Transform(heightfieldPoint(g, row+1, col), m), color)
				}
			}
		}
	default:
		b := g.LocalBounds().Transform(m)
		if !b.IsEmpty() {
			rl.DrawBoundingBox(rl.BoundingBox{Min: b.Min, Max: b.Max}, color)
		}
	}
}

var boxEdges = [12][2]int{
	{0, 1}, {1, 3}, {3, 2}, {2, 0},
	{4, 5}, {5, 7}, {7, 6}, {6, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// boxCorners returns the eight corners of g under m. Bit 0 of the index
// selects +X, bit 1 +Y and bit 2 +Z.
func boxCorners(g render.Geometry, m rl.Matrix) [8]rl.Vector3 {
	hx, hy, hz := g.Width/2, g.Height/2, g.Depth/2
	var out [8]rl.Vector3
	for i := range out {
		p := rl.Vector3{X: -hx, Y: -hy, Z: -hz}
		if i&1 != 0 {
			p.X = hx
		}
		if i&2 != 0 {
			p.Y = hy
		}
		if i&4 != 0 {
			p.Z = hz
		}
		out[i] = rl.Vector3Transform(p, m)
	}
	return out
}

// heightfieldPoint is the local position of a sample. Columns run along X
// and rows along Z, both centered on the node.
func heightfieldPoint(g render.Geometry, row, col int) rl.Vector3 {
	var x, z float32
	if g.Cols > 1 {
		x = -g.Width/2 + g.Width*float32(col)/float32(g.Cols-1)
	}
	if g.Rows > 1 {
		z = -g.Depth/2 + g.Depth*float32(row)/float32(g.Rows-1)
	}
	return rl.Vector3{X: x, Y: g.HeightAt(row, col), Z: z}
}

func maxScale(m rl.Matrix) float32 {
	sx := rl.Vector3Length(rl.Vector3{X: m.M0, Y: m.M1, Z: m.M2})
	sy := rl.Vector3Length(rl.Vector3{X: m.M4, Y: m.M5, Z: m.M6})
	sz := rl.Vector3Length(rl.Vector3{X: m.M8, Y: m.M9, Z: m.M10})
	return max(sx, sy, sz)
}

var (
	skyNight = rl.NewColor(10, 10, 15, 255)
	skyDay   = rl.NewColor(135, 180, 235, 255)
)

// skyColor blends from night to day in Lab space with the sun height.
func skyColor(timeOfDay float32) rl.Color {
	t := max(-sunDirection(timeOfDay).Y, 0)
	c := toColorful(skyNight).BlendLab(toColorful(skyDay), float64(t)).Clamped()
	r, g, b := c.RGB255()
	return rl.NewColor(r, g, b, 255)
}

func toColorful(c rl.Color) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// sunDirection is the direction the sunlight travels: straight down at noon,
// straight up at midnight, with sunrise in the east at 6.
func sunDirection(timeOfDay float32) rl.Vector3 {
	angle := float64(timeOfDay-6) / 24 * 2 * math.Pi
	return rl.Vector3{
		X: -float32(math.Cos(angle)),
		Y: -float32(math.Sin(angle)),
	}
}
