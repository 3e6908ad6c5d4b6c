package classifier

import "testing"

func TestDisplayLabel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want string
	}{
		{"non_coffee", "Bukan Biji Kopi"},
		{"arabica", "Arabica"},
		{"robusta", "Robusta"},
		{"liberica", "Liberica"},
		{"Arabica", "Arabica"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := DisplayLabel(tc.raw); got != tc.want {
			t.Errorf("DisplayLabel(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}
