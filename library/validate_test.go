package library

import "testing"

func TestValidDNI(t *testing.T) {
	cases := []struct {
		dni  string
		want bool
	}{
		{"12345678", true},
		{"1234567", false},
		{"123456789", false},
		{"1234567a", false},
		{"", false},
	}
	for _, c := range cases {
		if got := ValidDNI(c.dni); got != c.want {
			t.Errorf("ValidDNI(%q) = %v, want %v", c.dni, got, c.want)
		}
	}
}

func TestValidISBN(t *testing.T) {
	cases := []struct {
		isbn string
		want bool
	}{
		{"0306406152", true},
		{"9780306406157", true},
		{"978-0-306-40615-7", true},
		{"978 0 306 40615 7", true},
		{"030640615", false},
		{"97803064061570", false},
		{"03064061Xb", false},
		{"", false},
	}
	for _, c := range cases {
		if got := ValidISBN(c.isbn); got != c.want {
			t.Errorf("ValidISBN(%q) = %v, want %v", c.isbn, got, c.want)
		}
	}
}

func TestValidCDJ(t *testing.T) {
	cases := []struct {
		code string
		want bool
	}{
		{"813.52", true},
		{"800.00", true},
		{"813", false},
		{"813.", false},
		{".52", false},
		{"8a3.52", false},
		{"813.5.2", false},
		{"", false},
	}
	for _, c := range cases {
		if got := ValidCDJ(c.code); got != c.want {
			t.Errorf("ValidCDJ(%q) = %v, want %v", c.code, got, c.want)
		}
	}
}
