package config

var defaultConfig = Config{
	Gap:       nil,
	Layout:    LayoutTile,
	Remainder: RemainderLast,
	Clamp:     nil,
	Manual:    []LayoutManual{},
}

const (
	LayoutTile   = "tile"
	LayoutGrid   = "grid"
	LayoutManual = "manual"

	RemainderLast = "last"
	RemainderDrop = "drop"
)

type Config struct {
	Gap       *int           `json:"gap,omitempty" yaml:"gap,omitempty"`
	Layout    string         `json:"layout" yaml:"layout"`       // [tile, grid, manual]
	Remainder string         `json:"remainder" yaml:"remainder"` // [last, drop]
	Clamp     *bool          `json:"clamp,omitempty" yaml:"clamp,omitempty"`
	Manual    []LayoutManual `json:"manual" yaml:"manual"`
}

// LayoutManual is a slot of the manual layout. Values are decimals or
// fractions of the usable area, e.g. "0.5" or "2/3".
type LayoutManual struct {
	X string `json:"x" yaml:"x"`
	Y string `json:"y" yaml:"y"`
	W string `json:"w" yaml:"w"`
	H string `json:"h" yaml:"h"`
}
