// Package palette defines the named HSV color bands used for region
// classification and, per color vision deficiency profile, the sets of bands
// that are hard to tell apart from their surroundings.
package palette

import (
	"sync"

	"go-color-inspector/pkg/colorutil"
)

// Band is one named color category: an inclusive range on each HSV axis plus
// a human-readable display name. Several bands may share a display name; red
// wraps around the hue circle and is split into red_low and red_high rather
// than expressed as a wrapping range.
type Band struct {
	Name        string        `json:"name"`
	DisplayName string        `json:"display_name"`
	Min         colorutil.HSV `json:"min"`
	Max         colorutil.HSV `json:"max"`
}

// Contains reports whether the sample falls inside the band on all three
// axes. Bounds are inclusive.
func (b Band) Contains(h, s, v uint8) bool {
	return h >= b.Min.H && h <= b.Max.H &&
		s >= b.Min.S && s <= b.Max.S &&
		v >= b.Min.V && v <= b.Max.V
}

// Band names the traffic light classifier reads directly.
const (
	BandRedLow  = "red_low"
	BandRedHigh = "red_high"
	BandYellow  = "yellow"
	BandGreen   = "green"
)

func hsv(h, s, v uint8) colorutil.HSV { return colorutil.HSV{H: h, S: s, V: v} }

// bands is the reference palette in its fixed definition order. Detection
// results and tie-breaks follow this order, so entries must not be reordered
// casually.
var bands = []Band{
	// Reds
	{"red_low", "red", hsv(0, 100, 100), hsv(10, 255, 255)},
	{"red_high", "red", hsv(160, 100, 100), hsv(180, 255, 255)},
	{"dark_red", "dark red (maroon)", hsv(0, 100, 50), hsv(10, 255, 100)},
	{"dark_red_high", "dark red (burgundy)", hsv(160, 100, 50), hsv(180, 255, 100)},

	// Oranges and browns
	{"orange", "orange", hsv(10, 100, 100), hsv(20, 255, 255)},
	{"rust_orange", "rust orange", hsv(10, 80, 80), hsv(20, 255, 150)},
	{"brown", "brown", hsv(10, 50, 50), hsv(25, 200, 150)},
	{"dark_brown", "dark brown (chocolate)", hsv(10, 50, 30), hsv(25, 200, 80)},
	{"tan", "tan (beige)", hsv(15, 30, 150), hsv(30, 100, 220)},

	// Yellows
	{"yellow", "yellow", hsv(25, 100, 100), hsv(35, 255, 255)},
	{"gold", "gold (amber)", hsv(20, 80, 100), hsv(30, 255, 200)},
	{"pale_yellow", "pale yellow (cream)", hsv(25, 40, 180), hsv(35, 100, 255)},

	// Greens
	{"green", "green", hsv(35, 100, 100), hsv(85, 255, 255)},
	{"lime", "lime green", hsv(35, 100, 150), hsv(55, 255, 255)},
	{"dark_green", "dark green (forest)", hsv(35, 100, 30), hsv(85, 255, 100)},
	{"olive", "olive (khaki)", hsv(30, 30, 50), hsv(50, 150, 150)},
	{"teal", "teal", hsv(80, 80, 80), hsv(95, 255, 200)},

	// Blues and cyans
	{"cyan", "cyan", hsv(85, 100, 100), hsv(100, 255, 255)},
	{"blue", "blue", hsv(100, 100, 100), hsv(130, 255, 255)},
	{"light_blue", "light blue (sky)", hsv(100, 50, 150), hsv(115, 150, 255)},
	{"dark_blue", "dark blue (navy)", hsv(100, 100, 50), hsv(130, 255, 120)},

	// Purples and violets
	{"purple", "purple", hsv(130, 100, 100), hsv(145, 255, 255)},
	{"violet", "violet", hsv(145, 80, 80), hsv(160, 255, 255)},
	{"lavender", "lavender", hsv(130, 30, 150), hsv(155, 100, 255)},
	{"magenta", "magenta (fuchsia)", hsv(150, 100, 100), hsv(165, 255, 255)},
	{"plum", "plum", hsv(140, 50, 50), hsv(160, 150, 150)},

	// Pinks
	{"pink", "pink", hsv(160, 50, 150), hsv(175, 200, 255)},
	{"hot_pink", "hot pink", hsv(165, 100, 150), hsv(175, 255, 255)},

	// Neutrals, matched on saturation and value only
	{"white", "white", hsv(0, 0, 200), hsv(180, 30, 255)},
	{"gray", "gray", hsv(0, 0, 80), hsv(180, 30, 200)},
	{"black", "black", hsv(0, 0, 0), hsv(180, 255, 50)},
}

// Table is the read-only palette: bands in definition order, a name index,
// and the per-profile problematic sets. It is built once and never mutated;
// callers must not modify returned slices.
type Table struct {
	bands       []Band
	byName      map[string]int
	problematic map[Profile][]string
}

var (
	defaultTable *Table
	buildOnce    sync.Once
)

// Default returns the process-wide palette table.
func Default() *Table {
	buildOnce.Do(func() {
		defaultTable = newTable(bands)
	})
	return defaultTable
}

func newTable(bands []Band) *Table {
	t := &Table{
		bands:       bands,
		byName:      make(map[string]int, len(bands)),
		problematic: make(map[Profile][]string, len(problematicBands)+1),
	}
	for i, b := range bands {
		t.byName[b.Name] = i
	}
	for p, names := range problematicBands {
		t.problematic[p] = names
	}

	// Total color blindness affects every band. Built by iterating the table
	// so the set stays exhaustive as bands are added.
	all := make([]string, len(bands))
	for i, b := range bands {
		all[i] = b.Name
	}
	t.problematic[Achromatopsia] = all

	return t
}

// Bands returns all bands in definition order.
func (t *Table) Bands() []Band { return t.bands }

// Len returns the number of bands.
func (t *Table) Len() int { return len(t.bands) }

// Lookup returns the band with the given name.
func (t *Table) Lookup(name string) (Band, bool) {
	i, ok := t.byName[name]
	if !ok {
		return Band{}, false
	}
	return t.bands[i], true
}

// DisplayName returns the human-readable label for a band name, or the name
// itself when it is not in the table.
func (t *Table) DisplayName(name string) string {
	if b, ok := t.Lookup(name); ok {
		return b.DisplayName
	}
	return name
}

// ProblematicBands returns the band names that are hard to distinguish under
// the given profile. The normal profile has none.
func (t *Table) ProblematicBands(p Profile) []string {
	return t.problematic[p]
}
