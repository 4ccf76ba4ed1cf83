package physics

import "errors"

var (
	ErrUnsupportedGeometry = errors.New("unsupported physics geometry")
	ErrUnknownBackend      = errors.New("unknown physics backend")
	ErrUnknownBody         = errors.New("unknown body")
)
