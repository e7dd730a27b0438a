package security

import (
	"strings"
	"testing"
)

// Reference vectors from EIP-55.
var checksumVectors = []string{
	"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
	"0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
	"0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB",
	"0xD1220A0cf47c7B9Be7A2E6BA89F429762e7b9aDb",
}

func TestChecksumAddress(t *testing.T) {
	for _, want := range checksumVectors {
		for _, in := range []string{want, strings.ToLower(want), "0x" + strings.ToUpper(want[2:])} {
			if got := ChecksumAddress(in); got != want {
				t.Errorf("ChecksumAddress(%q) = %q, want %q", in, got, want)
			}
		}
	}
}

func TestNormalizeVoterID(t *testing.T) {
	cases := map[string]string{
		"":        "anonymous",
		"   ":     "anonymous",
		"alice":   "alice",
		" bob ":   "bob",
		"0x1234":  "0x1234",
		"0xZZ" + strings.Repeat("0", 38): "0xZZ" + strings.Repeat("0", 38),
		strings.ToLower(checksumVectors[0]): checksumVectors[0],
	}
	for in, want := range cases {
		if got := NormalizeVoterID(in); got != want {
			t.Errorf("NormalizeVoterID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsAddress(t *testing.T) {
	if !IsAddress(checksumVectors[1]) {
		t.Errorf("IsAddress(%q) = false, want true", checksumVectors[1])
	}
	for _, s := range []string{"", "anonymous", "0x", checksumVectors[1][:41], checksumVectors[1] + "0"} {
		if IsAddress(s) {
			t.Errorf("IsAddress(%q) = true, want false", s)
		}
	}
}
