package engine

import (
	"encoding/json"
	"maps"
)

// ComponentState is the serialized form of one component.
type ComponentState struct {
	Type  string         `json:"type"`
	Name  string         `json:"name,omitempty"`
	Props map[string]any `json:"props,omitempty"`
}

// Float reads a numeric prop. Props decoded from JSON hold float64, props
// saved in memory hold whatever the component stored.
func (s ComponentState) Float(key string, def float32) float32 {
	switch v := s.Props[key].(type) {
	case float64:
		return float32(v)
	case float32:
		return v
	case int:
		return float32(v)
	case int64:
		return float32(v)
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return float32(f)
		}
	}
	return def
}

func (s ComponentState) Int(key string, def int) int {
	switch v := s.Props[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case float32:
		return int(v)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i)
		}
	}
	return def
}

func (s ComponentState) String(key, def string) string {
	if v, ok := s.Props[key].(string); ok {
		return v
	}
	return def
}

func (s ComponentState) Bool(key string, def bool) bool {
	if v, ok := s.Props[key].(bool); ok {
		return v
	}
	return def
}

func (s ComponentState) clone() ComponentState {
	s.Props = maps.Clone(s.Props)
	return s
}

// EntityState is the serialized form of one entity.
type EntityState struct {
	Name         string           `json:"name"`
	Type         string           `json:"type"`
	Tags         []string         `json:"tags,omitempty"`
	GameplayTags []string         `json:"gameplayTags,omitempty"`
	Components   []ComponentState `json:"components,omitempty"`
	UserData     UserData         `json:"userData"`
}
