package tui

import tea "github.com/charmbracelet/bubbletea"

func (b *statefulBubble) Init() tea.Cmd {
	cmds := []tea.Cmd{b.spinnerC.Tick, b.waitForSnapshot()}

	if b.navigator != nil {
		cmds = append(cmds, b.loadCatalog())
	} else if b.options.Source != "" {
		b.engine.Request(b.options.Source)
	}

	return tea.Batch(cmds...)
}
