package palette

import "fmt"

// Profile identifies a form of color vision deficiency.
type Profile string

const (
	Normal        Profile = "normal"
	Protanopia    Profile = "protanopia"    // red-blind
	Protanomaly   Profile = "protanomaly"   // red-weak
	Deuteranopia  Profile = "deuteranopia"  // green-blind
	Deuteranomaly Profile = "deuteranomaly" // green-weak
	Tritanopia    Profile = "tritanopia"    // blue-blind
	Tritanomaly   Profile = "tritanomaly"   // blue-weak
	Achromatopsia Profile = "achromatopsia" // no color discrimination
)

// Profiles returns every recognized profile in declaration order.
func Profiles() []Profile {
	return []Profile{
		Normal,
		Protanopia,
		Protanomaly,
		Deuteranopia,
		Deuteranomaly,
		Tritanopia,
		Tritanomaly,
		Achromatopsia,
	}
}

// ParseProfile maps a request string to a Profile. The empty string selects
// Normal so callers can omit the field.
func ParseProfile(s string) (Profile, error) {
	switch Profile(s) {
	case "":
		return Normal, nil
	case Normal, Protanopia, Protanomaly, Deuteranopia, Deuteranomaly,
		Tritanopia, Tritanomaly, Achromatopsia:
		return Profile(s), nil
	default:
		return "", fmt.Errorf("unknown color vision profile %q", s)
	}
}

// problematicBands lists, per profile, the bands whose colors tend to blend
// into their surroundings. Achromatopsia is intentionally absent: its set is
// derived from the full table when the Table is built.
var problematicBands = map[Profile][]string{
	Normal: {},
	Protanopia: {
		"red_low", "red_high", "dark_red", "dark_red_high",
		"orange", "rust_orange", "brown", "dark_brown",
		"green", "dark_green", "olive", "lime",
	},
	Protanomaly: {
		"red_low", "red_high", "dark_red", "dark_red_high",
		"orange", "rust_orange", "brown",
	},
	Deuteranopia: {
		"red_low", "red_high", "dark_red", "dark_red_high",
		"green", "dark_green", "lime", "olive",
		"yellow", "gold", "brown",
	},
	Deuteranomaly: {
		"green", "dark_green", "lime", "olive",
		"yellow", "gold",
	},
	Tritanopia: {
		"blue", "light_blue", "dark_blue",
		"yellow", "gold", "pale_yellow",
		"cyan", "teal",
		"violet", "purple",
	},
	Tritanomaly: {
		"blue", "light_blue",
		"yellow", "gold",
	},
}
