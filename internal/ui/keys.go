package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding

	// Slides
	Prev  key.Binding
	Next  key.Binding
	First key.Binding
	Last  key.Binding

	// Fields
	EditPrice          key.Binding
	ToggleAvailability key.Binding
	EditNote           key.Binding
	Save               key.Binding
	CopyAll            key.Binding

	// While a field has focus
	Confirm  key.Binding
	Escape   key.Binding
	Tab      key.Binding
	ShiftTab key.Binding
	PageUp   key.Binding
	PageDown key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),

		Prev: key.NewBinding(
			key.WithKeys("left", "p", "k"),
			key.WithHelp("←/p", "Previous product"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "n", "j"),
			key.WithHelp("→/n", "Next product"),
		),
		First: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "First product"),
		),
		Last: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Last product"),
		),

		EditPrice: key.NewBinding(
			key.WithKeys("e", "$"),
			key.WithHelp("e", "Edit price"),
		),
		ToggleAvailability: key.NewBinding(
			key.WithKeys("a", " "),
			key.WithHelp("a/Space", "Toggle not available"),
		),
		EditNote: key.NewBinding(
			key.WithKeys("N", "m"),
			key.WithHelp("N", "Edit note"),
		),
		Save: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Save changes"),
		),
		CopyAll: key.NewBinding(
			key.WithKeys("c", "y"),
			key.WithHelp("c", "Copy product list"),
		),

		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Save field"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Leave field"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next field"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous field"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "Previous product"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdown", "Next product"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		// Slides
		{k.Prev, k.Next, k.First, k.Last},
		// Fields
		{k.EditPrice, k.ToggleAvailability, k.EditNote, k.Save},
		// Editing
		{k.Confirm, k.Tab, k.Escape, k.PageUp, k.PageDown},
		// General
		{k.CopyAll, k.CycleTheme, k.Help, k.Quit},
	}
}
