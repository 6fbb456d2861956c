// ABOUTME: Tests for condition code classification
// ABOUTME: Pins the vendor code table as a golden fixture

package condition

import (
	"testing"
)

var golden = map[Category][]int{
	Clear:    {1000},
	Overcast: {1003, 1006, 1009, 1030, 1135, 1147},
	Precipitation: {1063, 1069, 1072, 1150, 1153, 1168, 1171, 1180, 1183,
		1186, 1189, 1192, 1195, 1198, 1201, 1240, 1243, 1246},
	Frozen: {1066, 1114, 1117, 1204, 1207, 1210, 1213, 1216, 1219,
		1222, 1225, 1237, 1249, 1252, 1255, 1258, 1261, 1264},
	Severe: {1087, 1273, 1276, 1279, 1282},
}

func TestClassify_GoldenTable(t *testing.T) {
	total := 0
	for want, codes := range golden {
		for _, code := range codes {
			total++
			if got := Classify(code); got != want {
				t.Errorf("Classify(%d) = %s, want %s", code, got, want)
			}
		}
	}
	if total != len(byCode) {
		t.Errorf("golden fixture has %d codes, table has %d", total, len(byCode))
	}
}

func TestClassify_UnknownDefaultsToOvercast(t *testing.T) {
	for _, code := range []int{0, -1, 999, 1001, 1002, 1283, 2000, 1 << 30} {
		if got := Classify(code); got != Overcast {
			t.Errorf("Classify(%d) = %s, want %s", code, got, Overcast)
		}
	}
}

func TestClassify_UINames(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{1000, "sunny"},
		{1003, "cloudy"},
		{1183, "rainy"},
		{1225, "snowy"},
		{1087, "stormy"},
	}
	for _, tt := range tests {
		if got := Classify(tt.code).String(); got != tt.want {
			t.Errorf("Classify(%d).String() = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestCodes_SortedCopy(t *testing.T) {
	codes := Codes(Severe)
	if len(codes) != 5 {
		t.Fatalf("expected 5 severe codes, got %d", len(codes))
	}
	for i := 1; i < len(codes); i++ {
		if codes[i-1] >= codes[i] {
			t.Fatalf("codes not sorted: %v", codes)
		}
	}
	codes[0] = 42
	if Codes(Severe)[0] == 42 {
		t.Error("Codes should return a copy")
	}
}

func TestParseCategory(t *testing.T) {
	got, err := ParseCategory("  Rainy ")
	if err != nil {
		t.Fatalf("ParseCategory failed: %v", err)
	}
	if got != Precipitation {
		t.Errorf("got %s, want %s", got, Precipitation)
	}

	if _, err := ParseCategory("foggy"); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestIcon_EveryCategoryHasGlyph(t *testing.T) {
	for _, c := range Categories() {
		if c.Icon() == "" {
			t.Errorf("category %s has no icon", c)
		}
	}
}

func TestKnown(t *testing.T) {
	if !Known(1000) || !Known(1282) {
		t.Error("expected table codes to be known")
	}
	if Known(9999) {
		t.Error("9999 should not be known")
	}
}
