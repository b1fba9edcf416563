package catalog

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Product is a catalog entry as held by the Store.
type Product struct {
	ID          string
	Title       string
	Image       string
	Price       *float64 // nil means unset/unknown
	IsAvailable bool
	Note        string
}

// HasPrice reports whether a price is set.
func (p Product) HasPrice() bool {
	return p.Price != nil
}

func (p Product) clone() Product {
	if p.Price != nil {
		v := *p.Price
		p.Price = &v
	}
	return p
}

// RawProduct mirrors one record of the source document. Optional fields are
// pointers so absence can be told apart from zero values.
type RawProduct struct {
	ID          json.RawMessage `json:"id"`
	Title       string          `json:"title"`
	Image       string          `json:"image"`
	Price       Price           `json:"price"`
	IsAvailable *bool           `json:"isAvailable"`
	Note        *string         `json:"note"`
}

// Price decodes a JSON number, null, or numeric string. Anything else
// decodes as absent.
type Price struct {
	Value *float64
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Price) UnmarshalJSON(data []byte) error {
	p.Value = nil
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	text := string(trimmed)
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil
		}
		text = strings.TrimSpace(s)
		if text == "" {
			return nil
		}
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	p.Value = &v
	return nil
}

// normalize turns a received record into a stored one. ok is false when the
// record lacks a title or image reference.
func normalize(raw RawProduct) (Product, bool) {
	title := strings.TrimSpace(raw.Title)
	image := strings.TrimSpace(raw.Image)
	if title == "" || image == "" {
		return Product{}, false
	}
	p := Product{
		ID:          rawID(raw.ID),
		Title:       title,
		Image:       image,
		IsAvailable: true,
	}
	if raw.Price.Value != nil {
		v := *raw.Price.Value
		p.Price = &v
	}
	if raw.IsAvailable != nil {
		p.IsAvailable = *raw.IsAvailable
	}
	if raw.Note != nil {
		p.Note = strings.TrimSpace(*raw.Note)
	}
	return p, true
}

// rawID keeps string ids as-is and numeric ids as their literal text.
// Missing ids get a random UUID so the product is addressable for the session.
func rawID(data json.RawMessage) string {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		if trimmed[0] == '"' {
			var s string
			if err := json.Unmarshal(trimmed, &s); err == nil && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		} else {
			return string(trimmed)
		}
	}
	return uuid.NewString()
}
