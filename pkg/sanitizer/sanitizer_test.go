package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "Dana Levi", want: "Dana Levi"},
		{name: "surrounding space", input: "  Dana Levi  ", want: "Dana Levi"},
		{name: "collapses runs", input: "Dana \t\n  Levi", want: "Dana Levi"},
		{name: "empty", input: "", want: ""},
		{name: "only whitespace", input: " \t \n ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Guest@Example.COM "); got != "guest@example.com" {
		t.Errorf("NormalizeEmail = %q", got)
	}
}

func TestNormalizeCustomData(t *testing.T) {
	in := map[string]string{
		"  highchair ": " yes ",
		"   ":          "dropped",
		"allergies":    "nuts,  shellfish",
	}
	got := NormalizeCustomData(in)

	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d: %v", len(got), got)
	}
	if got["highchair"] != "yes" {
		t.Errorf("highchair = %q", got["highchair"])
	}
	if got["allergies"] != "nuts, shellfish" {
		t.Errorf("allergies = %q", got["allergies"])
	}
}

func TestNormalizeCustomDataNil(t *testing.T) {
	if got := NormalizeCustomData(nil); got != nil {
		t.Errorf("expected nil map to stay nil, got %v", got)
	}
}
