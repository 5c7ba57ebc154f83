package tui

import "github.com/reel-cli/reel/resolution"

type state int

const (
	loadingState state = iota
	errorState
	readyState
	qualityState
	captionState
	seasonsState
	episodesState
)

// stateFor maps an engine phase onto the view that presents it.
func stateFor(phase resolution.Phase) state {
	switch phase {
	case resolution.Ready:
		return readyState
	case resolution.Failed:
		return errorState
	default:
		return loadingState
	}
}

// follows reports whether s tracks the engine, as opposed to a picker the user opened.
func (s state) follows() bool {
	return s == loadingState || s == readyState || s == errorState
}
