package catalog

import (
	"math"
	"strconv"
	"strings"
)

// Mode selects whether a commit surfaces a confirmation.
type Mode int

const (
	// Interactive commits return a confirmation naming the product.
	Interactive Mode = iota
	// Silent commits are used before navigating away or exporting.
	Silent
)

// Edit holds the raw form values for the current product. NotAvailable is
// the inverse of Product.IsAvailable, matching the form's toggle.
type Edit struct {
	Price        string
	NotAvailable bool
	Note         string
}

// EditFor returns the form values that round-trip to p unchanged.
func EditFor(p Product) Edit {
	e := Edit{NotAvailable: !p.IsAvailable, Note: p.Note}
	if p.Price != nil {
		e.Price = strconv.FormatFloat(*p.Price, 'f', -1, 64)
	}
	return e
}

// Outcome reports what Commit did.
type Outcome struct {
	Changed      bool
	Product      Product // current product after the commit
	Confirmation string  // set for interactive commits that wrote
	InvalidPrice bool    // price text could not be parsed and was ignored
}

// Commit reconciles e into the current product of store. All three fields
// are written together, and only when at least one differs from what is
// stored, so repeating a call with the same values is a no-op.
func Commit(store *Store, e Edit, mode Mode) Outcome {
	note := strings.TrimSpace(e.Note)
	price, priceOK := parsePrice(e.Price)

	var out Outcome
	out.InvalidPrice = !priceOK
	product, wrote := store.update(func(current Product) (Fields, bool) {
		out.Product = current
		if !priceOK {
			price = current.Price
		}
		next := Fields{Price: price, IsAvailable: !e.NotAvailable, Note: note}
		changed := !samePrice(current.Price, next.Price) ||
			current.IsAvailable != next.IsAvailable ||
			current.Note != next.Note
		return next, changed
	})
	if !wrote {
		return out
	}
	out.Changed = true
	out.Product = product
	if mode == Interactive {
		out.Confirmation = "Saved: " + product.Title
	}
	return out
}

// parsePrice maps blank text to an absent price. ok is false for text that
// is not a finite number.
func parsePrice(text string) (price *float64, ok bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, true
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, false
	}
	return &v, true
}

func samePrice(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
