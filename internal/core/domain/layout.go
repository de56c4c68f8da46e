package domain

const unknownDescription = "Unknown"

// Layout defines how the list view arranges its entries.
type Layout string

// Available layouts.
const (
	// LayoutLinear renders one entry per row.
	LayoutLinear Layout = "linear"

	// LayoutGrid packs entries into columns.
	LayoutGrid Layout = "grid"
)

// IsValid returns true if the layout is recognised.
func (l Layout) IsValid() bool {
	switch l {
	case LayoutLinear, LayoutGrid:
		return true
	default:
		return false
	}
}

// IsLinear returns true for the linear layout.
func (l Layout) IsLinear() bool {
	return l == LayoutLinear
}

// String returns the string representation.
func (l Layout) String() string {
	return string(l)
}

// Description returns a human-readable description of the layout.
func (l Layout) Description() string {
	switch l {
	case LayoutLinear:
		return "Linear (one entry per row)"
	case LayoutGrid:
		return "Grid (entries packed into columns)"
	default:
		return unknownDescription
	}
}

// ParseLayout converts user input into a Layout.
// Returns ErrInvalidInput for anything other than "linear" or "grid".
func ParseLayout(s string) (Layout, error) {
	layout := Layout(s)
	if !layout.IsValid() {
		return "", ErrInvalidInput
	}
	return layout, nil
}

// LayoutFromBool maps the persisted boolean onto a Layout.
func LayoutFromBool(isLinear bool) Layout {
	if isLinear {
		return LayoutLinear
	}
	return LayoutGrid
}

// LayoutPreferences holds the list view layout configuration.
type LayoutPreferences struct {
	// IsLinearLayout selects linear rendering when true, grid when false.
	IsLinearLayout bool
}

// DefaultLayoutPreferences returns preferences with sensible defaults.
// The list renders linear until the user chooses otherwise.
func DefaultLayoutPreferences() LayoutPreferences {
	return LayoutPreferences{
		IsLinearLayout: true,
	}
}

// AllLayouts returns all available layouts.
func AllLayouts() []Layout {
	return []Layout{
		LayoutLinear,
		LayoutGrid,
	}
}
