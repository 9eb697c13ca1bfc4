package extract

import "testing"

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"$123,456", 123456},
		{"$85,000", 85000},
		{" $12,000 ", 12000},
		{"$500", 500},
		{"1,250", 1250},
	}

	for _, tt := range tests {
		got, err := parsePrice(tt.in)
		if err != nil {
			t.Errorf("parsePrice(%q) returned error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parsePrice(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParsePrice_Invalid(t *testing.T) {
	for _, in := range []string{"", "Negotiable", "$TBD", "contact office"} {
		if _, err := parsePrice(in); err == nil {
			t.Errorf("parsePrice(%q) should return an error", in)
		}
	}
}

func TestIntAfter(t *testing.T) {
	got, err := intAfter("Square feet: 1200", "Square feet:")
	if err != nil {
		t.Fatalf("intAfter() returned error: %v", err)
	}
	if got != 1200 {
		t.Errorf("intAfter() = %d, want 1200", got)
	}

	if _, err := intAfter("Square feet: unknown", "Square feet:"); err == nil {
		t.Error("intAfter() should fail on non-numeric remainder")
	}
}

func TestIntBefore(t *testing.T) {
	got, err := intBefore("3 Bedrooms", "Bedrooms")
	if err != nil {
		t.Fatalf("intBefore() returned error: %v", err)
	}
	if got != 3 {
		t.Errorf("intBefore() = %d, want 3", got)
	}

	if _, err := intBefore("TBD Bedrooms", "Bedrooms"); err == nil {
		t.Error("intBefore() should fail on non-numeric prefix")
	}
}

func TestFloatBefore(t *testing.T) {
	got, err := floatBefore("0.25 Acres", "Acres")
	if err != nil {
		t.Fatalf("floatBefore() returned error: %v", err)
	}
	if got != 0.25 {
		t.Errorf("floatBefore() = %v, want 0.25", got)
	}

	if _, err := floatBefore("a few Acres", "Acres"); err == nil {
		t.Error("floatBefore() should fail on non-numeric prefix")
	}
}

func TestNormalizeSpace(t *testing.T) {
	got := normalizeSpace("  3 \n\t Bedrooms  ")
	if got != "3 Bedrooms" {
		t.Errorf("normalizeSpace() = %q, want %q", got, "3 Bedrooms")
	}
}
