// Acquirer address parser.
//
// AcquirerAddress is a tagged sum over the three chain address families this
// subsystem recognises. Parsing is deterministic and follows a fixed,
// ordered probe — the order matters because a 32-byte Substrate account id
// and a 32-byte Solana Ed25519 public key are otherwise indistinguishable by
// length alone.
package core

import (
	"encoding/hex"
	"strings"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"
)

// AddressKind tags the variant held by an AcquirerAddress.
type AddressKind uint8

const (
	AddressSubstrate AddressKind = iota
	AddressEthereum
	AddressSolana
)

// AcquirerAddress is the parsed, validated external-chain address an
// attestation is about. Equality must always be compared via Equal, never by
// struct literal comparison, because Solana additionally carries its
// normative string form.
type AcquirerAddress struct {
	Kind AddressKind

	// Substrate: 32-byte account id.
	// Ethereum:  20-byte account id.
	// Solana:    32-byte decoded Ed25519 public key; SolanaText holds the
	//            original base58 string, which is the normative input and
	//            must not carry whitespace or trailing bytes.
	Account32 [32]byte
	Account20 [20]byte
	SolanaText string
}

// Equal reports whether two addresses are the same variant and value. For
// Solana, comparison uses the canonical decoded 32-byte key, not the string
// form.
func (a AcquirerAddress) Equal(b AcquirerAddress) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case AddressSubstrate:
		return a.Account32 == b.Account32
	case AddressEthereum:
		return a.Account20 == b.Account20
	case AddressSolana:
		return a.Account32 == b.Account32
	default:
		return false
	}
}

// Key returns a deterministic byte-string suitable for use as (part of) a
// storage key. It is stable across process restarts and independent of the
// Solana string form.
func (a AcquirerAddress) Key() []byte {
	switch a.Kind {
	case AddressSubstrate:
		out := make([]byte, 1+32)
		out[0] = byte(AddressSubstrate)
		copy(out[1:], a.Account32[:])
		return out
	case AddressEthereum:
		out := make([]byte, 1+20)
		out[0] = byte(AddressEthereum)
		copy(out[1:], a.Account20[:])
		return out
	case AddressSolana:
		out := make([]byte, 1+32)
		out[0] = byte(AddressSolana)
		copy(out[1:], a.Account32[:])
		return out
	default:
		return []byte{0xff}
	}
}

const ss58ChecksumPrefix = "SS58PRE"
const defaultSS58Prefix = 42

// ss58Encode produces the SS58 string for a 32-byte account id under the
// given single-byte network prefix.
func ss58Encode(account [32]byte, prefix byte) string {
	buf := make([]byte, 0, 1+32+2)
	buf = append(buf, prefix)
	buf = append(buf, account[:]...)
	sum := blake2b.Sum512(append([]byte(ss58ChecksumPrefix), buf...))
	buf = append(buf, sum[:2]...)
	return base58.Encode(buf)
}

// ss58Decode decodes an SS58 string into its 32-byte account id and network
// prefix, verifying the blake2b checksum. It only supports the common
// single-byte prefix form (prefix values 0-63).
func ss58Decode(s string) (account [32]byte, prefix byte, ok bool) {
	raw, err := base58.Decode(s)
	if err != nil || len(raw) != 35 {
		return account, 0, false
	}
	prefix = raw[0]
	if prefix > 63 {
		return account, 0, false
	}
	payload := raw[1:33]
	checksum := raw[33:35]
	sum := blake2b.Sum512(append([]byte(ss58ChecksumPrefix), raw[:33]...))
	if string(sum[:2]) != string(checksum) {
		return account, 0, false
	}
	copy(account[:], payload)
	return account, prefix, true
}

// ParseAcquirerAddress runs the fixed, ordered address-family probe.
// It is deterministic: the same input byte slice always yields the same
// result (or the same failure).
func ParseAcquirerAddress(raw []byte) (AcquirerAddress, error) {
	// Step 1: valid UTF-8 and decodes as SS58 to a 32-byte account.
	if utf8.Valid(raw) {
		s := string(raw)
		if account, prefix, ok := ss58Decode(s); ok {
			if ss58Encode(account, prefix) == s {
				return AcquirerAddress{Kind: AddressSubstrate, Account32: account}, nil
			}
		}
	}

	// Step 2: "0x" + 40 hex chars decoding to 20 bytes.
	if utf8.Valid(raw) {
		s := string(raw)
		if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
			hexPart := s[2:]
			if len(hexPart) == 40 {
				if b, err := hex.DecodeString(hexPart); err == nil && len(b) == 20 {
					var acc [20]byte
					copy(acc[:], b)
					return AcquirerAddress{Kind: AddressEthereum, Account20: acc}, nil
				}
			}
		}
	}

	// Step 3: raw 20-byte blob.
	if len(raw) == 20 {
		var acc [20]byte
		copy(acc[:], raw)
		return AcquirerAddress{Kind: AddressEthereum, Account20: acc}, nil
	}

	// Step 4: valid UTF-8, base58-decodes to exactly 32 bytes, and those
	// bytes are a valid Ed25519 public key.
	if utf8.Valid(raw) {
		s := string(raw)
		if decoded, err := base58.Decode(s); err == nil && len(decoded) == 32 {
			var acc [32]byte
			copy(acc[:], decoded)
			if ed25519PointIsValid(acc) && base58.Encode(acc[:]) == s {
				return AcquirerAddress{Kind: AddressSolana, Account32: acc, SolanaText: s}, nil
			}
		}
	}

	// Step 5: raw 32-byte blob, accepted if an SS58 round-trip succeeds.
	if len(raw) == 32 {
		var acc [32]byte
		copy(acc[:], raw)
		encoded := ss58Encode(acc, defaultSS58Prefix)
		if decodedAgain, _, ok := ss58Decode(encoded); ok && decodedAgain == acc {
			return AcquirerAddress{Kind: AddressSubstrate, Account32: acc}, nil
		}
	}

	return AcquirerAddress{}, ErrInvalidAddress
}

// EthereumHex returns the 0x-prefixed, EIP-55 mixed-case checksummed hex form
// of an Ethereum variant, using go-ethereum's common.Address formatting.
func (a AcquirerAddress) EthereumHex() string {
	if a.Kind != AddressEthereum {
		return ""
	}
	return common.BytesToAddress(a.Account20[:]).Hex()
}
