package search

import (
	"errors"
	"net/url"
	"strings"

	"github.com/goccy/go-json"
)

var (
	// ErrUnknownCategory is returned for a category outside Categories.
	ErrUnknownCategory = errors.New("unknown filter category")
	// ErrUnknownValue is returned for a value the category's table does not list.
	ErrUnknownValue = errors.New("unknown filter value")
)

// Selection holds at most one active value per category. The zero value is
// an empty selection that imposes no constraint.
type Selection struct {
	values map[Category]string
}

// NewSelection builds a selection from category/value pairs, validating each.
func NewSelection(pairs map[Category]string) (Selection, error) {
	var s Selection
	for _, cat := range Categories {
		if v, ok := pairs[cat]; ok {
			if err := s.Set(cat, v); err != nil {
				return Selection{}, err
			}
		}
	}
	for cat := range pairs {
		if !knownCategory(cat) {
			return Selection{}, ErrUnknownCategory
		}
	}
	return s, nil
}

// ParseSelection reads one query parameter per category (e.g. ?taste=Sweet).
// Empty parameters are ignored.
func ParseSelection(q url.Values) (Selection, error) {
	var s Selection
	for _, cat := range Categories {
		if v := strings.TrimSpace(q.Get(string(cat))); v != "" {
			if err := s.Set(cat, v); err != nil {
				return Selection{}, err
			}
		}
	}
	return s, nil
}

// Get returns the active value for cat, if any.
func (s Selection) Get(cat Category) (string, bool) {
	v, ok := s.values[cat]
	return v, ok
}

// IsEmpty reports whether no category is active.
func (s Selection) IsEmpty() bool { return len(s.values) == 0 }

// Set activates value for cat, replacing any previous value. An empty value
// clears the category.
func (s *Selection) Set(cat Category, value string) error {
	if !knownCategory(cat) {
		return ErrUnknownCategory
	}
	if strings.TrimSpace(value) == "" {
		s.Clear(cat)
		return nil
	}
	v, ok := canonical(cat, value)
	if !ok {
		return ErrUnknownValue
	}
	if s.values == nil {
		s.values = make(map[Category]string, len(Categories))
	}
	s.values[cat] = v
	return nil
}

// Toggle activates value for cat, or clears cat when value is already the
// active one. It reports whether the category is active afterwards.
func (s *Selection) Toggle(cat Category, value string) (bool, error) {
	if !knownCategory(cat) {
		return false, ErrUnknownCategory
	}
	v, ok := canonical(cat, value)
	if !ok {
		return false, ErrUnknownValue
	}
	if cur, active := s.values[cat]; active && strings.EqualFold(cur, v) {
		s.Clear(cat)
		return false, nil
	}
	return true, s.Set(cat, v)
}

// Clear deactivates cat.
func (s *Selection) Clear(cat Category) {
	delete(s.values, cat)
}

// Values returns a copy of the active values.
func (s Selection) Values() map[Category]string {
	out := make(map[Category]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// MarshalJSON renders the active values as a flat object.
func (s Selection) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Values())
}

func knownCategory(cat Category) bool {
	for _, c := range Categories {
		if c == cat {
			return true
		}
	}
	return false
}
