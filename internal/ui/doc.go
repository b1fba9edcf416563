// Package ui is the Bubble Tea front end of showcase.
//
// The screen shows one product at a time: a header with the position
// ("2 of 14"), a command bar, the product image drawn with half blocks next
// to an edit form, and a one-line status area.
//
// # Editing
//
// The form holds the pending values for the current product. Pressing Enter
// in a field, toggling availability or pressing s commits them and confirms
// with "Saved: <title>". Leaving a field with Esc keeps the typed text
// pending; moving to another product or copying the list commits it
// silently first.
//
// # Asynchronous work
//
// The catalog fetch and every image load run as tea.Cmds. Image results
// pass through the session's sequencer, which drops results of products the
// user already moved away from. Status messages expire on their own; the
// model schedules one redraw per message at its deadline.
//
// # Files
//
//   - model.go: Model, Update loop, messages and commands
//   - slide.go: image pane, detail form and boxed layout
//   - header.go: header, command bar and status line
//   - modal.go: acknowledgment dialog
//   - help.go, keys.go: key bindings and the help overlay
//   - theme.go, style_helpers.go: themes and background-safe styling
package ui
