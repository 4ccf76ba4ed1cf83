package engine

import "errors"

var (
	ErrUnknownComponentType = errors.New("unknown component type")
	ErrUnknownEntityType    = errors.New("unknown entity type")
	ErrNilComponent         = errors.New("nil component")
	ErrComponentOwned       = errors.New("component already owned or disposed")
	ErrEntityDead           = errors.New("entity is dead")
)
