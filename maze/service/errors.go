package service

import (
	"errors"

	"github.com/wricardo/maze-solver/maze/config"
	"github.com/wricardo/maze-solver/maze/grid"
	"github.com/wricardo/maze-solver/maze/runs"
	"github.com/wricardo/maze-solver/maze/search"
)

// ErrInvalidRequest marks malformed input that is not a maze problem
var ErrInvalidRequest = errors.New("invalid request")

// IsNotFound reports whether err means a maze or run does not exist
func IsNotFound(err error) bool {
	return isNotFound(err)
}

func isNotFound(err error) bool {
	return errors.Is(err, config.ErrMazeNotFound) || errors.Is(err, runs.ErrRunNotFound)
}

// IsConflict reports whether err means a maze id is already taken
func IsConflict(err error) bool {
	return errors.Is(err, config.ErrMazeExists)
}

// IsInvalid reports whether err was caused by bad input
func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, config.ErrInvalidMaze) ||
		errors.Is(err, grid.ErrMalformedGrid) ||
		errors.Is(err, grid.ErrMissingMarker) ||
		errors.Is(err, search.ErrUnknownStrategy) ||
		errors.Is(err, search.ErrInvalidEndpoint) ||
		errors.Is(err, search.ErrBudgetExceeded) ||
		errors.Is(err, runs.ErrInvalidRunID)
}
