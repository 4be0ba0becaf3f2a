package roles

import (
	"regexp"
	"slices"
)

// Category is an exclusive partition of guild roles. A member holds at most
// one role from each category, identified by role name alone.
type Category int

const (
	CategoryType Category = iota + 1
	CategoryColor
)

// NoneLabel is the Type value that clears the category instead of assigning.
const NoneLabel = "none"

// TypeLabels are the only role names that belong to the Type category.
var TypeLabels = []string{
	"ISTJ", "ISTP", "ISFJ", "ISFP", "INFJ", "INFP", "INTJ", "INTP",
	"ESTP", "ESTJ", "ESFP", "ESFJ", "ENFP", "ENFJ", "ENTP", "ENTJ",
	NoneLabel,
}

var hexColorRegex = regexp.MustCompile(`^#[a-fA-F0-9]{6}$`)

func (c Category) String() string {
	switch c {
	case CategoryType:
		return "type"
	case CategoryColor:
		return "color"
	default:
		return "unknown"
	}
}

// Matches reports whether a role with the given name belongs to the category.
func (c Category) Matches(name string) bool {
	switch c {
	case CategoryType:
		return IsTypeLabel(name)
	case CategoryColor:
		return IsHexColor(name)
	default:
		return false
	}
}

// IsHexColor reports whether s is '#' followed by exactly six hex digits.
func IsHexColor(s string) bool {
	return hexColorRegex.MatchString(s)
}

func IsTypeLabel(s string) bool {
	return slices.Contains(TypeLabels, s)
}
