// ABOUTME: Entry point for the dashboard TUI
// ABOUTME: Creates the tea.Program with alt screen and mouse tracking, blocks until exit

package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Program wraps the running tea.Program so other goroutines, such as the
// config watcher, can post messages.
type Program struct {
	p *tea.Program
}

// Send posts msg to the running program. It is a no-op on a nil Program.
func (p *Program) Send(msg tea.Msg) {
	if p != nil && p.p != nil {
		p.p.Send(msg)
	}
}

// New builds the program without starting it.
func New(deps Deps, opts ...tea.ProgramOption) (*Program, func() error) {
	m := NewAppModel(deps)
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseAllMotion()}, opts...)
	p := tea.NewProgram(m, opts...)

	// The program holds a copy of m; sh is a pointer so both share it.
	run := func() error {
		defer m.sh.close()
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("bubble tea: %w", err)
		}
		return nil
	}
	return &Program{p: p}, run
}

// Run starts the dashboard and blocks until the user exits.
func Run(deps Deps) error {
	_, run := New(deps)
	return run()
}
