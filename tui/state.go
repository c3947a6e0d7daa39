// Package tui provides the primary terminal user interface implementation.
package tui

type state int

const (
	loadingState state = iota
	errorState
	permissionState
	videosState
	foldersState
	folderVideosState
	historyState
	searchState
	playerState
)

// browsing states are switched between with tab and never stacked on each other
var browsingStates = []state{videosState, foldersState, historyState}
