package roles

import "fmt"

// ColorLookup resolves a human-readable color name to a hex code.
type ColorLookup interface {
	Lookup(name string) (string, bool)
}

// Resolved is a validated category value. Value is what the role is named
// after; Display is what the requester typed.
type Resolved struct {
	Value   string
	Display string
	// FromTable is set when Value came from the color table.
	FromTable bool
}

// ResolveColor turns user input into a hex color role name. Table names win
// over literal hex codes.
func ResolveColor(table ColorLookup, input string) (Resolved, error) {
	if table != nil {
		if hex, ok := table.Lookup(input); ok {
			return Resolved{Value: hex, Display: input, FromTable: true}, nil
		}
	}
	if IsHexColor(input) {
		return Resolved{Value: input, Display: input}, nil
	}
	return Resolved{}, fmt.Errorf("%w: %q", ErrUnknownColor, input)
}

func ResolveType(input string) (Resolved, error) {
	if !IsTypeLabel(input) {
		return Resolved{}, fmt.Errorf("%w: %q", ErrUnknownType, input)
	}
	return Resolved{Value: input, Display: input}, nil
}

// Resolve validates input for the given category.
func Resolve(table ColorLookup, category Category, input string) (Resolved, error) {
	switch category {
	case CategoryType:
		return ResolveType(input)
	case CategoryColor:
		return ResolveColor(table, input)
	default:
		return Resolved{}, fmt.Errorf("unsupported category %d", category)
	}
}
