package tui

import "errors"

var (
	// ErrAborted signals the operator aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoSelection is returned when a select prompt yields no option.
	ErrNoSelection = errors.New("tui: no option selected")
)
