package gridsearch

import "errors"

var (
	// ErrInvalidGrid is returned when grid rows are empty or have unequal widths.
	ErrInvalidGrid = errors.New("invalid grid")

	// ErrInvalidEndpoint is returned when start or goal is out of bounds or a wall.
	ErrInvalidEndpoint = errors.New("invalid endpoint")

	// ErrUnknownStrategy is returned for a strategy name or value that is not supported.
	ErrUnknownStrategy = errors.New("unknown strategy")

	// ErrEmptyFrontier is returned by Frontier.Remove on an empty frontier.
	ErrEmptyFrontier = errors.New("empty frontier")

	// ErrNotFound is returned when the frontier empties before the goal is reached.
	// The accompanying Result still carries the explored count.
	ErrNotFound = errors.New("no path found")

	// ErrCancelled is returned when a search observes cancellation mid-run.
	ErrCancelled = errors.New("search cancelled")

	// ErrExpansionLimit is returned alongside ErrCancelled when WithMaxExpansions is exceeded.
	ErrExpansionLimit = errors.New("expansion limit reached")
)
