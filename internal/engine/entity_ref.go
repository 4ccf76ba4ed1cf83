package engine

// EntityRef names another entity in the same scene. Scene documents store
// only the name, because IDs are reassigned on every load; the resolved ID
// is cached until that entity dies or is renamed.
type EntityRef struct {
	Name string

	id ID
}

func RefTo(e *Entity) EntityRef {
	var r EntityRef
	r.Set(e)
	return r
}

// Get resolves the reference, or returns nil when it is empty or no live
// entity carries the name. Names are not unique; the first match wins.
func (r *EntityRef) Get(scene *Scene) *Entity {
	if r.Name == "" || scene == nil {
		return nil
	}
	if r.id != 0 {
		if e := scene.Lookup(r.id); e != nil && e.Alive() && e.Name == r.Name {
			return e
		}
		r.id = 0
	}
	e := scene.FindByName(r.Name)
	if e == nil || !e.Alive() {
		return nil
	}
	r.id = e.ID()
	return e
}

func (r EntityRef) IsValid() bool { return r.Name != "" }

func (r *EntityRef) Set(e *Entity) {
	if e == nil {
		r.Clear()
		return
	}
	r.Name = e.Name
	r.id = e.ID()
}

func (r *EntityRef) Clear() {
	r.Name = ""
	r.id = 0
}
