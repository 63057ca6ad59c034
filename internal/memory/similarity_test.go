package memory

import "testing"

func TestRatio(t *testing.T) {
	cases := []struct {
		name string
		a, b string
		want int
	}{
		{"identical", "the earth is flat", "the earth is flat", 100},
		{"both empty", "", "", 100},
		{"nothing in common", "abc", "", 0},
		{"trailing punctuation", "the earth is flat", "the earth is flat!!", 89},
		{"classic edit distance", "kitten", "sitting", 57},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Ratio(tc.a, tc.b); got != tc.want {
				t.Errorf("Ratio(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestRatio_Symmetric(t *testing.T) {
	a, b := "vaccines cause autism", "vaccines do not cause autism"
	if Ratio(a, b) != Ratio(b, a) {
		t.Errorf("Expected symmetric scores, got %d vs %d", Ratio(a, b), Ratio(b, a))
	}
}
