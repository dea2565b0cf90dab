package ui

import "errors"

// CLI errors.
var (
	ErrNoSnapshot    = errors.New("no guide data yet, run 'bangumi sync' first")
	ErrUnknownTab    = errors.New("unknown tab")
	ErrUnknownColumn = errors.New("unknown column")
)
