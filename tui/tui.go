// Package tui provides the terminal user interface over the resolution engine.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/reel-cli/reel/navigation"
	"github.com/reel-cli/reel/player"
	"github.com/reel-cli/reel/resolution"
	"github.com/reel-cli/reel/stream"
)

// Options wires the interface to its collaborators.
type Options struct {
	// Source is requested on start when there is no Navigator.
	Source stream.SourceID
	// ShowID is recorded in history for shows.
	ShowID string
	Title  string

	Engine    *resolution.Engine
	Navigator *navigation.Navigator
	Player    player.Player
}

// Run blocks until the user quits.
func Run(options *Options) error {
	bubble := newBubble(options)
	defer bubble.unsubscribe()

	_, err := tea.NewProgram(bubble, tea.WithAltScreen()).Run()
	return err
}
