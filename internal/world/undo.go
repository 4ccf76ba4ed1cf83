package world

import (
	"go.uber.org/zap"

	"github.com/mironco/scenecore/internal/engine"
)

const maxUndoStack = 50

// UndoActionType represents the type of action that can be undone
type UndoActionType int

const (
	UndoEdit UndoActionType = iota
	UndoDelete
)

// UndoState is an entity snapshot taken before an editor action.
type UndoState struct {
	Type   UndoActionType
	Entity engine.ID
	State  engine.EntityState
}

// History is the editor undo stack. It stores saved entity states, never
// entity pointers, so it survives kills and reloads.
type History struct {
	w     *World
	stack []UndoState
}

func NewHistory(w *World) *History {
	return &History{w: w}
}

func (h *History) Len() int { return len(h.stack) }

func (h *History) Clear() { h.stack = nil }

// Edit snapshots e and then applies state to it.
func (h *History) Edit(e *engine.Entity, state engine.EntityState) error {
	if e == nil || !e.Alive() {
		return engine.ErrEntityDead
	}
	before := e.SaveState()
	if err := h.w.ApplyEntityState(e.ID(), state); err != nil {
		return err
	}
	h.push(UndoState{Type: UndoEdit, Entity: e.ID(), State: before})
	return nil
}

// Delete snapshots e and kills it.
func (h *History) Delete(e *engine.Entity) {
	if e == nil || !e.Alive() {
		return
	}
	h.push(UndoState{Type: UndoDelete, Entity: e.ID(), State: e.SaveState()})
	h.w.Destroy(e)
}

func (h *History) push(state UndoState) {
	// Cap stack size
	if len(h.stack) >= maxUndoStack {
		h.stack = h.stack[1:]
	}
	h.stack = append(h.stack, state)
}

// Undo reverts the last action and selects the entity it touched. Deleted
// entities come back under a new ID. It reports false when there was
// nothing left to revert.
func (h *History) Undo() (*engine.Entity, bool, error) {
	if len(h.stack) == 0 {
		return nil, false, nil
	}
	// Pop last state
	state := h.stack[len(h.stack)-1]
	h.stack = h.stack[:len(h.stack)-1]

	switch state.Type {
	case UndoEdit:
		e := h.w.Scene.Lookup(state.Entity)
		if e == nil {
			h.w.log.Debug("undo target is gone", zap.String("entity", state.State.Name))
			return nil, true, nil
		}
		if err := e.LoadState(state.State); err != nil {
			return nil, true, err
		}
		h.w.SelectEntity(e.ID())
		return e, true, nil

	case UndoDelete:
		e, err := h.w.Spawn(state.State)
		if err != nil {
			return nil, true, err
		}
		// Later entries still refer to the old ID.
		for i := range h.stack {
			if h.stack[i].Entity == state.Entity {
				h.stack[i].Entity = e.ID()
			}
		}
		h.w.SelectEntity(e.ID())
		h.w.log.Info("restored", zap.String("entity", e.Name))
		return e, true, nil
	}
	return nil, true, nil
}
