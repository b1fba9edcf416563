// Package session ties the catalog store, the change detector, the image
// sequencer and the status notifier together. Every action that moves the
// cursor or reads the whole catalog first commits the pending form values
// silently, so edits are never lost on navigation or export.
package session
