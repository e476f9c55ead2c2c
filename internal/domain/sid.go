package domain

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidSID is returned when bytes or text do not form a security identifier.
var ErrInvalidSID = errors.New("invalid security identifier")

const (
	sidRevision        = 1
	sidHeaderLen       = 8  // revision, sub-authority count, 6-byte authority
	sidMaxSubAuthority = 15 // SID_MAX_SUB_AUTHORITIES
)

// FormatSID converts a binary security identifier into its canonical string
// form (S-1-5-21-...). Byte-equal input always yields the same string.
//
// Layout: revision (1 byte), sub-authority count (1 byte), identifier
// authority (6 bytes, big-endian), then count sub-authorities (4 bytes each,
// little-endian).
func FormatSID(b []byte) (string, error) {
	if len(b) < sidHeaderLen {
		return "", fmt.Errorf("%w: %d bytes is shorter than the header", ErrInvalidSID, len(b))
	}
	if b[0] != sidRevision {
		return "", fmt.Errorf("%w: unsupported revision %d", ErrInvalidSID, b[0])
	}

	count := int(b[1])
	if count > sidMaxSubAuthority {
		return "", fmt.Errorf("%w: %d sub-authorities", ErrInvalidSID, count)
	}
	if len(b) != sidHeaderLen+4*count {
		return "", fmt.Errorf("%w: expected %d bytes for %d sub-authorities, got %d",
			ErrInvalidSID, sidHeaderLen+4*count, count, len(b))
	}

	var authority uint64
	for _, x := range b[2:sidHeaderLen] {
		authority = authority<<8 | uint64(x)
	}

	var sb strings.Builder
	sb.WriteString("S-")
	sb.WriteString(strconv.Itoa(int(b[0])))
	sb.WriteByte('-')
	if authority < 1<<32 {
		sb.WriteString(strconv.FormatUint(authority, 10))
	} else {
		fmt.Fprintf(&sb, "0x%012X", authority)
	}

	for i := range count {
		off := sidHeaderLen + 4*i
		sb.WriteByte('-')
		sb.WriteString(strconv.FormatUint(uint64(binary.LittleEndian.Uint32(b[off:off+4])), 10))
	}

	return sb.String(), nil
}

// ParseSID converts the string form of a security identifier back into its
// binary layout. It is the inverse of FormatSID.
func ParseSID(s string) ([]byte, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) < 3 || !strings.EqualFold(parts[0], "S") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSID, s)
	}

	revision, err := strconv.ParseUint(parts[1], 10, 8)
	if err != nil || revision != sidRevision {
		return nil, fmt.Errorf("%w: bad revision in %q", ErrInvalidSID, s)
	}

	var authority uint64
	if hex, ok := strings.CutPrefix(strings.ToLower(parts[2]), "0x"); ok {
		authority, err = strconv.ParseUint(hex, 16, 48)
	} else {
		authority, err = strconv.ParseUint(parts[2], 10, 48)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: bad authority in %q", ErrInvalidSID, s)
	}

	subs := parts[3:]
	if len(subs) > sidMaxSubAuthority {
		return nil, fmt.Errorf("%w: %d sub-authorities", ErrInvalidSID, len(subs))
	}

	b := make([]byte, sidHeaderLen+4*len(subs))
	b[0] = byte(revision)
	b[1] = byte(len(subs))
	for i := range 6 {
		b[2+i] = byte(authority >> (8 * (5 - i)))
	}
	for i, sub := range subs {
		v, err := strconv.ParseUint(sub, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: bad sub-authority %q", ErrInvalidSID, sub)
		}
		binary.LittleEndian.PutUint32(b[sidHeaderLen+4*i:], uint32(v))
	}

	return b, nil
}

// MustParseSID is like ParseSID but panics on error. Intended for fixtures.
func MustParseSID(s string) []byte {
	b, err := ParseSID(s)
	if err != nil {
		panic(err)
	}
	return b
}
