package core

import "testing"

// ed25519BasePoint is the standard Ed25519 base point B in its 32-byte
// compressed encoding (y little-endian, sign bit of x in the top bit of the
// last byte) — a well-known valid curve point used across ed25519
// implementations and test vectors.
var ed25519BasePoint = [32]byte{
	0x58, 0x66, 0x66, 0x66, 0x66, 0x66, 0x66, 0x66,
	0x66, 0x66, 0x66, 0x66, 0x66, 0x66, 0x66, 0x66,
	0x66, 0x66, 0x66, 0x66, 0x66, 0x66, 0x66, 0x66,
	0x66, 0x66, 0x66, 0x66, 0x66, 0x66, 0x66, 0x66,
}

func TestEd25519PointIsValidBasePoint(t *testing.T) {
	if !ed25519PointIsValid(ed25519BasePoint) {
		t.Error("the Ed25519 base point should decompress to a valid curve point")
	}
}

func TestEd25519PointIsValidRejectsYAboveField(t *testing.T) {
	var b [32]byte
	for i := range b {
		b[i] = 0xff
	}
	// Clearing the sign bit still leaves y >= p = 2^255 - 19, which must be
	// rejected outright by the field-range check.
	if ed25519PointIsValid(b) {
		t.Error("a y coordinate at or above the field prime must be rejected")
	}
}
