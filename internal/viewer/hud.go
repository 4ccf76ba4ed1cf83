package viewer

import (
	"fmt"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"github.com/mironco/scenecore/internal/engine"
)

// Theme colors - indigo on dark
var (
	colorBgDark        = rl.NewColor(10, 10, 15, 255)
	colorBgPanel       = rl.NewColor(18, 18, 24, 245)
	colorBgElement     = rl.NewColor(28, 28, 38, 255)
	colorBgHover       = rl.NewColor(38, 38, 52, 255)
	colorAccent        = rl.NewColor(108, 99, 255, 255)
	colorTextPrimary   = rl.NewColor(255, 255, 255, 255)
	colorTextSecondary = rl.NewColor(200, 200, 208, 255)
	colorTextMuted     = rl.NewColor(119, 119, 119, 255)
)

const (
	panelWidth  = 260
	panelMargin = 10
	rowHeight   = 24
)

func initRayguiStyle() {
	gui.SetStyle(gui.DEFAULT, gui.BACKGROUND_COLOR, gui.NewColorPropertyValue(colorBgDark))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_NORMAL, gui.NewColorPropertyValue(colorBgElement))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_FOCUSED, gui.NewColorPropertyValue(colorBgHover))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_PRESSED, gui.NewColorPropertyValue(colorAccent))

	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_NORMAL, gui.NewColorPropertyValue(colorTextSecondary))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_FOCUSED, gui.NewColorPropertyValue(colorTextPrimary))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_PRESSED, gui.NewColorPropertyValue(colorTextPrimary))

	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_NORMAL, gui.NewColorPropertyValue(rl.NewColor(50, 50, 65, 255)))
	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_FOCUSED, gui.NewColorPropertyValue(colorAccent))
	gui.SetStyle(gui.DEFAULT, gui.LINE_COLOR, gui.NewColorPropertyValue(rl.NewColor(40, 40, 55, 255)))

	gui.SetStyle(gui.DEFAULT, gui.TEXT_SIZE, 15)
}

// hudBounds is the screen area owned by the side panel.
func hudBounds() rl.Rectangle {
	return rl.Rectangle{
		X:      float32(rl.GetScreenWidth() - panelWidth - panelMargin),
		Y:      panelMargin,
		Width:  panelWidth,
		Height: float32(rl.GetScreenHeight() - 2*panelMargin),
	}
}

// overHUD keeps clicks on the panel from picking entities behind it.
func overHUD(p rl.Vector2) bool {
	return rl.CheckCollisionPointRec(p, hudBounds())
}

func (v *Viewer) DrawUI(visible int) {
	rl.DrawText("WASD/QE to fly, right mouse to look, F to shoot", 10, 10, 20, colorTextMuted)
	rl.DrawText("Click to select, Del to delete, Ctrl+Z undo, Ctrl+S save, Ctrl+R reload", 10, 35, 20, colorTextMuted)
	rl.DrawFPS(10, 60)

	if v.DebugMode {
		rl.DrawText(fmt.Sprintf("Entities: %d (%d visible)", v.World.Scene.Len(), visible), 10, 85, 16, rl.Yellow)
		rl.DrawText(fmt.Sprintf("Bodies:  %d (%s)", v.World.Physics.BodyCount(), v.World.Physics.Backend()), 10, 105, 16, rl.Yellow)
		rl.DrawText(fmt.Sprintf("Update:  %.2f ms", v.updateMs), 10, 130, 16, rl.Green)
		rl.DrawText(fmt.Sprintf("Draw:    %.2f ms", v.drawMs), 10, 150, 16, rl.Green)
		rl.DrawText(fmt.Sprintf("Total:   %.2f ms", v.updateMs+v.drawMs), 10, 170, 16, rl.Lime)
	}

	if v.message != "" && rl.GetTime() < v.messageUntil {
		rl.DrawText(v.message, 10, int32(rl.GetScreenHeight())-30, 20, colorAccent)
	}

	v.drawPanel()
}

func (v *Viewer) drawPanel() {
	b := hudBounds()
	rl.DrawRectangleRec(b, colorBgPanel)

	x := b.X + panelMargin
	w := b.Width - 2*panelMargin
	y := b.Y + panelMargin
	row := func() rl.Rectangle {
		r := rl.Rectangle{X: x, Y: y, Width: w, Height: rowHeight - 4}
		y += rowHeight
		return r
	}
	check := func(r rl.Rectangle) rl.Rectangle {
		r.Width = r.Height
		return r
	}

	gui.Label(row(), fmt.Sprintf("%s  |  score %d", v.World.Name, v.World.Score()))

	v.World.Paused = gui.CheckBox(check(row()), "Paused", v.World.Paused)

	enabled := gui.CheckBox(check(row()), "Physics", v.World.Physics.Enabled())
	if enabled != v.World.Physics.Enabled() {
		if err := v.World.TogglePhysics(enabled); err != nil {
			v.log.Warn("toggle physics", zap.Error(err))
			v.setMsg("Physics: %v", err)
		}
	}

	weather := &v.World.Weather
	gui.Label(row(), "Time of day")
	weather.TimeOfDay = gui.Slider(row(), "", fmt.Sprintf("%.1f h", weather.TimeOfDay), weather.TimeOfDay, 0, 24)

	if gui.Button(row(), "Save scene") {
		v.save()
	}
	if gui.Button(row(), "Reload scene") {
		v.reload()
	}
	if gui.Button(row(), "Undo") {
		v.undo()
	}

	y += rowHeight / 2
	e := v.World.Selected()
	if e == nil {
		gui.Label(row(), "Nothing selected")
		return
	}
	for _, line := range entityInfo(e) {
		gui.Label(row(), line)
	}
	if gui.Button(row(), "Delete") {
		v.History.Delete(e)
		v.setMsg("Deleted %s", e.Name)
	}
}

// entityInfo is the text shown for the selected entity.
func entityInfo(e *engine.Entity) []string {
	p := e.Position()
	lines := []string{
		e.Name,
		fmt.Sprintf("type: %s", e.Type()),
		fmt.Sprintf("pos: %.2f %.2f %.2f", p.X, p.Y, p.Z),
	}
	if tags := e.GameplayTags().Names(); len(tags) > 0 {
		lines = append(lines, "tags: "+strings.Join(tags, ", "))
	}
	for _, c := range e.Components() {
		lines = append(lines, "- "+c.TypeTag())
	}
	return lines
}
