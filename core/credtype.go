package core

import "fmt"

// CredType is the closed set of scalar field kinds a Schema may contain.
// Every variant has a fixed on-wire byte width except Text, which is
// bounded but variable (see MaxTextSize).
type CredType uint8

const (
	CredChar CredType = iota
	CredU8
	CredI8
	CredBoolean
	CredU16
	CredI16
	CredU32
	CredI32
	CredF32
	CredU64
	CredI64
	CredF64
	CredHash
	CredText
)

// MaxTextSize is the upper bound on a Text field's byte length.
const MaxTextSize = 128

// HashSize is the fixed byte width of a Hash field.
const HashSize = 32

// Width returns the fixed on-wire byte width of the type. For CredText it
// returns the maximum allowed width; callers that need the actual stored
// length of a text value must use len(value) instead.
func (t CredType) Width() int {
	switch t {
	case CredChar, CredU8, CredI8, CredBoolean:
		return 1
	case CredU16, CredI16:
		return 2
	case CredU32, CredI32, CredF32:
		return 4
	case CredU64, CredI64, CredF64:
		return 8
	case CredHash:
		return HashSize
	case CredText:
		return MaxTextSize
	default:
		return 0
	}
}

// IsText reports whether the type is variable-width.
func (t CredType) IsText() bool { return t == CredText }

// IsValid reports whether t is one of the known tags.
func (t CredType) IsValid() bool {
	return t <= CredText
}

// Encode returns the canonical single-byte wire encoding of the type. It is
// used verbatim when computing a schema's content hash (see Schema.Hash).
func (t CredType) Encode() []byte { return []byte{byte(t)} }

func (t CredType) String() string {
	switch t {
	case CredChar:
		return "Char"
	case CredU8:
		return "U8"
	case CredI8:
		return "I8"
	case CredBoolean:
		return "Boolean"
	case CredU16:
		return "U16"
	case CredI16:
		return "I16"
	case CredU32:
		return "U32"
	case CredI32:
		return "I32"
	case CredF32:
		return "F32"
	case CredU64:
		return "U64"
	case CredI64:
		return "I64"
	case CredF64:
		return "F64"
	case CredHash:
		return "Hash"
	case CredText:
		return "Text"
	default:
		return fmt.Sprintf("CredType(%d)", uint8(t))
	}
}
