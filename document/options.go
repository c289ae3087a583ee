package document

import (
	"fmt"
	"strings"
)

// Source is a source for element identifiers.
type Source int

const (
	ByID Source = iota
	ByClass
	ByTag
)

func (s Source) String() string {
	switch s {
	case ByID:
		return "id"
	case ByClass:
		return "class"
	case ByTag:
		return "tag"
	}
	return fmt.Sprintf("Source(%d)", int(s))
}

// ParseSource converts "id", "class" or "tag" to a Source.
func ParseSource(s string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "id":
		return ByID, nil
	case "class":
		return ByClass, nil
	case "tag":
		return ByTag, nil
	}
	return 0, fmt.Errorf("document: unknown identifier source %q", s)
}

// DefaultPreference is id, then class, then tag name.
func DefaultPreference() []Source {
	return []Source{ByID, ByClass, ByTag}
}

type props struct {
	order []Source
}

// Option is a type to configure document loading.
type Option func(*props)

// Preference sets the order of preference for element identifiers.
// An empty order is ignored. Elements for which none of the sources yields
// an identifier are not addressable.
func Preference(order ...Source) Option {
	return func(p *props) {
		if len(order) > 0 {
			p.order = append([]Source(nil), order...)
		}
	}
}
