package npi

import (
	"math/rand"
	"testing"
)

func TestCheckDigit(t *testing.T) {
	cases := []struct {
		digits string
		want   string
	}{
		{"0", "0"},
		{"1", "9"},
		// parity 0 doubles the first digit: 1*2 + 8 = 10 -> check 0
		{"18", "0"},
	}
	for _, tc := range cases {
		got, err := CheckDigit(tc.digits)
		if err != nil {
			t.Fatalf("CheckDigit(%q) failed: %v", tc.digits, err)
		}
		if got != tc.want {
			t.Fatalf("CheckDigit(%q) = %q, want %q", tc.digits, got, tc.want)
		}
	}
}

func TestCheckDigitRejectsNonDigits(t *testing.T) {
	if _, err := CheckDigit("12a4"); err == nil {
		t.Fatal("expected error for non-digit input")
	}
	if _, err := CheckDigit(""); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestValidLuhnRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(11))
	for i := 0; i < 100; i++ {
		base := make([]byte, 9)
		for j := range base {
			base[j] = byte('0' + rnd.Intn(10))
		}
		check, err := CheckDigit(string(base))
		if err != nil {
			t.Fatalf("CheckDigit(%q) failed: %v", base, err)
		}
		full := string(base) + check
		if !ValidLuhn(full) {
			t.Fatalf("expected %q to validate", full)
		}
		// Flipping the check digit must invalidate.
		wrong := string(base) + string(rune('0'+(int(check[0]-'0')+1)%10))
		if ValidLuhn(wrong) {
			t.Fatalf("expected %q to fail validation", wrong)
		}
	}
}

func TestValidLuhnShortInput(t *testing.T) {
	if ValidLuhn("") || ValidLuhn("5") {
		t.Fatal("strings shorter than two digits cannot validate")
	}
}
