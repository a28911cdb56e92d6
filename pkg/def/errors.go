package def

import "errors"

// ErrInvalidDefinition is returned when a definition fails validation.
var ErrInvalidDefinition = errors.New("invalid definition")

// ErrUnknownEvent is returned by Dispatch for event names outside the domain.
var ErrUnknownEvent = errors.New("unknown event")

// ErrUnknownState is returned by Restore for out-of-domain state ordinals.
var ErrUnknownState = errors.New("unknown state")

// ErrUnknownGuard is returned by Build when a referenced guard is not
// registered and unbound names are not allowed.
var ErrUnknownGuard = errors.New("unknown guard")

// ErrUnknownAction is returned by Build when a referenced action is not
// registered and unbound names are not allowed.
var ErrUnknownAction = errors.New("unknown action")
