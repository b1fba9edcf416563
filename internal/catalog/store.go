package catalog

import (
	"errors"
	"sync"
)

// ErrEmptyCatalog is returned by Load when no usable product was supplied.
var ErrEmptyCatalog = errors.New("catalog is empty")

// Fields are the mutable parts of a product.
type Fields struct {
	Price       *float64
	IsAvailable bool
	Note        string
}

// LoadStats summarizes one Load call.
type LoadStats struct {
	Loaded  int
	Skipped int // records without a title or image
}

// Store owns the ordered product list and the cursor. All methods are safe
// for concurrent use; reads hand out copies.
type Store struct {
	mu       sync.RWMutex
	products []Product
	cursor   int
}

// Load replaces the catalog with the normalized raw records and resets the
// cursor. When nothing usable remains the catalog is left empty and
// ErrEmptyCatalog is returned.
func (s *Store) Load(raw []RawProduct) (LoadStats, error) {
	products := make([]Product, 0, len(raw))
	var stats LoadStats
	for _, r := range raw {
		p, ok := normalize(r)
		if !ok {
			stats.Skipped++
			continue
		}
		products = append(products, p)
	}
	stats.Loaded = len(products)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = 0
	if len(products) == 0 {
		s.products = nil
		return stats, ErrEmptyCatalog
	}
	s.products = products
	return stats, nil
}

// Reset empties the catalog.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = nil
	s.cursor = 0
}

// Len returns the number of products.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}

// Position returns the cursor and the catalog length.
func (s *Store) Position() (index, count int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursor, len(s.products)
}

// Current returns the product under the cursor.
func (s *Store) Current() (Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentLocked()
}

// Seek moves the cursor by delta with wraparound and returns the new
// current product. It is a no-op on an empty catalog.
func (s *Store) Seek(delta int) (Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.products) == 0 {
		return Product{}, false
	}
	s.cursor = wrap(s.cursor+delta, len(s.products))
	return s.currentLocked()
}

// SeekTo moves the cursor to index, normalized the same way as Seek.
func (s *Store) SeekTo(index int) (Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.products) == 0 {
		return Product{}, false
	}
	s.cursor = wrap(index, len(s.products))
	return s.currentLocked()
}

// Locate moves the cursor to the product with the given id.
func (s *Store) Locate(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, p := range s.products {
		if p.ID == id {
			s.cursor = i
			return true
		}
	}
	return false
}

// ApplyEdit overwrites the current product's mutable fields. Deciding
// whether a write is warranted is up to the caller.
func (s *Store) ApplyEdit(f Fields) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyLocked(f)
}

// Products returns a copy of the catalog in display order.
func (s *Store) Products() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.products) == 0 {
		return nil
	}
	dup := make([]Product, len(s.products))
	for i, p := range s.products {
		dup[i] = p.clone()
	}
	return dup
}

// update runs fn against the current product under the write lock and
// applies the fields it returns when write is true.
func (s *Store) update(fn func(current Product) (f Fields, write bool)) (Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.currentLocked()
	if !ok {
		return Product{}, false
	}
	f, write := fn(current)
	if !write {
		return current, false
	}
	s.applyLocked(f)
	updated, _ := s.currentLocked()
	return updated, true
}

func (s *Store) currentLocked() (Product, bool) {
	if len(s.products) == 0 {
		return Product{}, false
	}
	return s.products[s.cursor].clone(), true
}

func (s *Store) applyLocked(f Fields) bool {
	if len(s.products) == 0 {
		return false
	}
	p := &s.products[s.cursor]
	p.Price = nil
	if f.Price != nil {
		v := *f.Price
		p.Price = &v
	}
	p.IsAvailable = f.IsAvailable
	p.Note = f.Note
	return true
}

// wrap normalizes i into [0, n) for any i.
func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
