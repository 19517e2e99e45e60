package filter

import "fmt"

// Tag types an entry can be filtered on. These mirror the entry_filters
// taxonomy of the timeline: event themes, tool categories, and server types.
const (
	TypeTheme    = "theme"
	TypeCategory = "category"
	TypeServer   = "server"
)

// Types lists the known tag types in a stable order.
var Types = []string{TypeTheme, TypeCategory, TypeServer}

// ValidType reports whether t is a known tag type.
func ValidType(t string) bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

// MaxValuesPerType bounds the number of selected values per tag type.
const MaxValuesPerType = 32

// Set narrows a candidate entry set: AND across tag types, OR within the
// selected values of one type. An empty Set matches everything.
type Set struct {
	selections map[string][]string
}

// NewSet validates and creates a filter Set from tag type -> selected values.
// Empty value lists are dropped.
func NewSet(selections map[string][]string) (Set, error) {
	if len(selections) == 0 {
		return Set{}, nil
	}
	kept := make(map[string][]string, len(selections))
	for t, values := range selections {
		if !ValidType(t) {
			return Set{}, fmt.Errorf("unknown filter type %q", t)
		}
		if len(values) > MaxValuesPerType {
			return Set{}, fmt.Errorf("too many %s filter values (max %d)", t, MaxValuesPerType)
		}
		if len(values) == 0 {
			continue
		}
		kept[t] = append([]string(nil), values...)
	}
	return Set{selections: kept}, nil
}

// IsEmpty reports whether the set has no selections.
func (s Set) IsEmpty() bool { return len(s.selections) == 0 }

// Values returns the selected values for a tag type.
func (s Set) Values(tagType string) []string { return s.selections[tagType] }

// Types returns the tag types with at least one selection, in Types order.
func (s Set) Types() []string {
	out := make([]string, 0, len(s.selections))
	for _, t := range Types {
		if len(s.selections[t]) > 0 {
			out = append(out, t)
		}
	}
	return out
}

// Matches reports whether an entry's tags satisfy the set: for every tag type
// with selections, the entry must carry at least one of the selected values.
func (s Set) Matches(entryTags map[string][]string) bool {
	for t, selected := range s.selections {
		if !containsAny(entryTags[t], selected) {
			return false
		}
	}
	return true
}

func containsAny(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}
