package listing

import "testing"

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"19.99", 19.99},
		{"0", 0},
		{"150", 150},
		{"", 0},
		{"abc", 0},
		{"12.3.4", 0},
		{"-5", 0},
	}
	for _, tc := range cases {
		if got := ParsePrice(tc.in); got != tc.want {
			t.Errorf("ParsePrice(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
