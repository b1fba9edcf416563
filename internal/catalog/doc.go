// Package catalog holds the in-memory product list edited by showcase.
//
// # Overview
//
// The package owns three pieces of the editing core:
//
//   - Store: the ordered products and the cursor of the slide view
//   - Commit: change detection and autosave for the current product
//   - Export: the plain-text product list shared through the clipboard
//
// # Cursor
//
// The cursor always lies in [0, Len()) when the catalog is non-empty. Seek
// and SeekTo normalize with modulo arithmetic, so stepping back from the
// first product lands on the last one and any delta resolves to a valid
// index. On an empty catalog every navigation and edit call is a no-op.
//
// # Ingestion
//
// Load normalizes records as received from the source document:
//
//	isAvailable absent  -> true
//	note absent         -> ""
//	id absent           -> random UUID
//	price "12" / 12     -> 12
//	title or image ""   -> record dropped (counted in LoadStats.Skipped)
//
// # Autosave
//
// Commit compares the form values against the stored product field by
// field: prices by numeric value ("10" equals "10.0"), availability through
// the inverted "not available" toggle, notes after trimming. Only a real
// difference produces a write, and the write covers all three fields at
// once. Interactive commits return a confirmation; silent ones do not.
//
//	out := catalog.Commit(store, edit, catalog.Interactive)
//	if out.Changed {
//		notify(out.Confirmation)
//	}
package catalog
