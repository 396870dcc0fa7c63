package selection

import "errors"

// ErrNoSelections is returned when a response names no usable candidate.
var ErrNoSelections = errors.New("no selections in response")
