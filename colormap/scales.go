package colormap

import "sort"

// Built-in scales.  Anchor colors follow the matplotlib perceptually uniform
// family, evenly spaced.
var (
	Inferno = mustEven("inferno",
		"#000004", "#280B54", "#65156E", "#9F2A63",
		"#D44842", "#F57D15", "#FAC127", "#FCFFA4")

	Magma = mustEven("magma",
		"#000004", "#1C1044", "#4F127B", "#812581", "#B5367A",
		"#E55064", "#FB8761", "#FEC287", "#FCFDBF")

	Viridis = mustEven("viridis",
		"#440154", "#482374", "#404387", "#345E8D", "#29788E", "#20908C",
		"#22A784", "#44BE70", "#79D151", "#BDDE26", "#FDE725")

	Grayscale = mustEven("grayscale", "#000000", "#FFFFFF")
)

var scales = map[string]Map{
	"inferno":   Inferno,
	"magma":     Magma,
	"viridis":   Viridis,
	"grayscale": Grayscale,
}

// Lookup retrieves a built-in scale by name, case sensitively.
func Lookup(name string) (Map, error) {
	m, ok := scales[name]
	if !ok {
		return Map{}, &UnknownScaleError{Name: name}
	}
	return m, nil
}

// Names lists the built-in scale names in sorted order.
func Names() []string {
	out := make([]string, 0, len(scales))
	for k := range scales {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// UnknownScaleError indicates a Lookup of a scale that does not exist.
type UnknownScaleError struct {
	Name string
}

func (e *UnknownScaleError) Error() string {
	return "colormap: no scale named " + e.Name
}

func mustEven(name string, hexes ...string) Map {
	positions := make([]float64, len(hexes))
	for i := range positions {
		positions[i] = float64(i) / float64(len(hexes)-1)
	}
	m, err := FromHex(name, positions, hexes)
	if err != nil {
		panic(err)
	}
	return m
}
