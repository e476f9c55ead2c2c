package domain

import (
	"bytes"
	"errors"
	"testing"
)

func TestFormatSID(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{
			name:  "everyone",
			input: []byte{1, 1, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0},
			want:  "S-1-1-0",
		},
		{
			name: "domain user",
			input: []byte{
				1, 5, 0, 0, 0, 0, 0, 5,
				0x15, 0, 0, 0,
				0x23, 0xe6, 0x73, 0x4b,
				0x5f, 0x5a, 0x8e, 0x1f,
				0x46, 0x3e, 0xb8, 0x7f,
				0x51, 0x04, 0, 0,
			},
			want: "S-1-5-21-1265886755-529422943-2142780998-1105",
		},
		{
			name:  "no sub-authorities",
			input: []byte{1, 0, 0, 0, 0, 0, 0, 5},
			want:  "S-1-5",
		},
		{
			name:  "large authority uses hex",
			input: []byte{1, 1, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 7, 0, 0, 0},
			want:  "S-1-0x010203040506-7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatSID(tt.input)
			if err != nil {
				t.Fatalf("FormatSID failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestFormatSID_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
	}{
		{"nil", nil},
		{"short header", []byte{1, 1, 0, 0}},
		{"bad revision", []byte{2, 0, 0, 0, 0, 0, 0, 5}},
		{"truncated sub-authority", []byte{1, 2, 0, 0, 0, 0, 0, 5, 21, 0, 0, 0}},
		{"trailing bytes", []byte{1, 0, 0, 0, 0, 0, 0, 5, 9}},
		{"too many sub-authorities", append([]byte{1, 16, 0, 0, 0, 0, 0, 5}, make([]byte, 64)...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FormatSID(tt.input)
			if !errors.Is(err, ErrInvalidSID) {
				t.Errorf("expected ErrInvalidSID, got %v", err)
			}
		})
	}
}

func TestFormatSID_Deterministic(t *testing.T) {
	raw := MustParseSID("S-1-5-21-3623811015-3361044348-30300820-1013")
	copied := bytes.Clone(raw)

	first, err := FormatSID(raw)
	if err != nil {
		t.Fatalf("FormatSID failed: %v", err)
	}
	second, err := FormatSID(copied)
	if err != nil {
		t.Fatalf("FormatSID failed: %v", err)
	}

	if first != second {
		t.Errorf("byte-equal SIDs formatted differently: %s vs %s", first, second)
	}
	if !bytes.Equal(raw, copied) {
		t.Error("FormatSID modified its input")
	}
}

func TestParseSID_RoundTrip(t *testing.T) {
	inputs := []string{
		"S-1-1-0",
		"S-1-5-18",
		"S-1-5-21-3623811015-3361044348-30300820-500",
		"S-1-0x010203040506-7",
	}

	for _, in := range inputs {
		raw, err := ParseSID(in)
		if err != nil {
			t.Fatalf("ParseSID(%q) failed: %v", in, err)
		}
		out, err := FormatSID(raw)
		if err != nil {
			t.Fatalf("FormatSID failed for %q: %v", in, err)
		}
		if out != in {
			t.Errorf("round trip changed %s into %s", in, out)
		}
	}
}

func TestParseSID_Invalid(t *testing.T) {
	inputs := []string{"", "S-1", "X-1-5", "S-2-5-21", "S-1-5-abc", "S-1-5-4294967296"}

	for _, in := range inputs {
		if _, err := ParseSID(in); !errors.Is(err, ErrInvalidSID) {
			t.Errorf("ParseSID(%q): expected ErrInvalidSID, got %v", in, err)
		}
	}
}
