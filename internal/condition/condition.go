// ABOUTME: Weather condition classification from WeatherAPI.com condition codes
// ABOUTME: Maps numeric codes to the small set of categories used for display state

package condition

import (
	"fmt"
	"sort"
	"strings"
)

// Category is the semantic weather category derived from a condition code.
type Category string

const (
	Clear         Category = "sunny"
	Overcast      Category = "cloudy"
	Precipitation Category = "rainy"
	Frozen        Category = "snowy"
	Severe        Category = "stormy"
)

// Default is returned for any code outside the known table.
const Default = Overcast

// codeSets lists the recognized vendor codes per category. The sets are disjoint.
var codeSets = map[Category][]int{
	Clear:    {1000},
	Overcast: {1003, 1006, 1009, 1030, 1135, 1147},
	Precipitation: {
		1063, 1069, 1072, 1150, 1153, 1168, 1171, 1180, 1183,
		1186, 1189, 1192, 1195, 1198, 1201, 1240, 1243, 1246,
	},
	Frozen: {
		1066, 1114, 1117, 1204, 1207, 1210, 1213, 1216, 1219,
		1222, 1225, 1237, 1249, 1252, 1255, 1258, 1261, 1264,
	},
	Severe: {1087, 1273, 1276, 1279, 1282},
}

// byCode is the inverted lookup table built from codeSets.
var byCode = func() map[int]Category {
	m := make(map[int]Category)
	for cat, codes := range codeSets {
		for _, code := range codes {
			if prev, dup := m[code]; dup {
				panic(fmt.Sprintf("condition code %d listed under both %s and %s", code, prev, cat))
			}
			m[code] = cat
		}
	}
	return m
}()

// Classify maps a condition code to its category. Unknown codes map to Overcast.
func Classify(code int) Category {
	if cat, ok := byCode[code]; ok {
		return cat
	}
	return Default
}

// Known reports whether code appears in the classification table.
func Known(code int) bool {
	_, ok := byCode[code]
	return ok
}

// Categories returns all categories in a fixed display order.
func Categories() []Category {
	return []Category{Clear, Overcast, Precipitation, Frozen, Severe}
}

// Codes returns the sorted codes recognized for a category.
func Codes(c Category) []int {
	codes := append([]int(nil), codeSets[c]...)
	sort.Ints(codes)
	return codes
}

// ParseCategory parses a category name such as "rainy" (case-insensitive).
func ParseCategory(s string) (Category, error) {
	want := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, c := range Categories() {
		if c == want {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Icon returns a single-glyph symbol for terminal display.
func (c Category) Icon() string {
	switch c {
	case Clear:
		return "☀"
	case Precipitation:
		return "☂"
	case Frozen:
		return "❄"
	case Severe:
		return "⚡"
	default:
		return "☁"
	}
}

func (c Category) String() string {
	return string(c)
}
