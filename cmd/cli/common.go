// Shared CLI parsing helpers used across the command files in this package.
package cli

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	core "credentialvm/core"
)

func parsePrincipal(hexStr string) (core.Principal, error) {
	var p core.Principal
	b, err := hex.DecodeString(strings.TrimPrefix(hexStr, "0x"))
	if err != nil || len(b) != len(p) {
		return p, fmt.Errorf("invalid principal %q: want 32-byte hex", hexStr)
	}
	copy(p[:], b)
	return p, nil
}

func parseHash(hexStr string) (core.Hash, error) {
	var h core.Hash
	b, err := hex.DecodeString(strings.TrimPrefix(hexStr, "0x"))
	if err != nil || len(b) != len(h) {
		return h, fmt.Errorf("invalid hash %q: want 32-byte hex", hexStr)
	}
	copy(h[:], b)
	return h, nil
}

func parsePrincipalList(csv string) ([]core.Principal, error) {
	if csv == "" {
		return nil, nil
	}
	parts := strings.Split(csv, ",")
	out := make([]core.Principal, 0, len(parts))
	for _, p := range parts {
		pr, err := parsePrincipal(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		out = append(out, pr)
	}
	return out, nil
}

func parseHashList(csv string) ([]core.Hash, error) {
	if csv == "" {
		return nil, nil
	}
	parts := strings.Split(csv, ",")
	out := make([]core.Hash, 0, len(parts))
	for _, p := range parts {
		h, err := parseHash(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, nil
}

func parseCredType(name string) (core.CredType, error) {
	switch strings.ToLower(name) {
	case "char":
		return core.CredChar, nil
	case "u8":
		return core.CredU8, nil
	case "i8":
		return core.CredI8, nil
	case "boolean", "bool":
		return core.CredBoolean, nil
	case "u16":
		return core.CredU16, nil
	case "i16":
		return core.CredI16, nil
	case "u32":
		return core.CredU32, nil
	case "i32":
		return core.CredI32, nil
	case "f32":
		return core.CredF32, nil
	case "u64":
		return core.CredU64, nil
	case "i64":
		return core.CredI64, nil
	case "f64":
		return core.CredF64, nil
	case "hash":
		return core.CredHash, nil
	case "text":
		return core.CredText, nil
	default:
		return 0, fmt.Errorf("unknown cred type %q", name)
	}
}

// parseFieldSpec parses "name:type,name:type,..." into SchemaFields, e.g.
// "age:u8,score:u32".
func parseFieldSpec(spec string) ([]core.SchemaField, error) {
	if spec == "" {
		return nil, fmt.Errorf("empty field spec")
	}
	parts := strings.Split(spec, ",")
	out := make([]core.SchemaField, 0, len(parts))
	for _, p := range parts {
		nameType := strings.SplitN(strings.TrimSpace(p), ":", 2)
		if len(nameType) != 2 {
			return nil, fmt.Errorf("malformed field spec %q: want name:type", p)
		}
		t, err := parseCredType(nameType[1])
		if err != nil {
			return nil, err
		}
		out = append(out, core.SchemaField{Name: []byte(nameType[0]), Type: t})
	}
	return out, nil
}

// parseValueList parses "v1,v2,..." raw field values for attest/update.
// Each value is read by its own form, not by the schema field's type:
// "0x"-hex is decoded, a decimal integer becomes its minimal little-endian
// bytes, and anything else is taken as its literal bytes; values too short
// are right-padded by core.validate.
func parseValueList(csv string) ([][]byte, error) {
	if csv == "" {
		return nil, nil
	}
	parts := strings.Split(csv, ",")
	out := make([][]byte, 0, len(parts))
	for _, p := range parts {
		v := strings.TrimSpace(p)
		if strings.HasPrefix(v, "0x") || strings.HasPrefix(v, "0X") {
			b, err := hex.DecodeString(v[2:])
			if err != nil {
				return nil, fmt.Errorf("invalid hex value %q: %w", v, err)
			}
			out = append(out, b)
			continue
		}
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			out = append(out, uint64ToLE(n))
			continue
		}
		out = append(out, []byte(v))
	}
	return out, nil
}

// uint64ToLE encodes n as the minimal little-endian byte sequence (at least
// one byte), leaving width-specific zero-padding to core's validate step.
func uint64ToLE(n uint64) []byte {
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(n >> (8 * i))
	}
	end := len(b)
	for end > 1 && b[end-1] == 0 {
		end--
	}
	return b[:end]
}

func requireApp() (*core.App, error) {
	app := core.Current()
	if app == nil {
		return nil, fmt.Errorf("app not initialised: run via cmd/credentialvm")
	}
	return app, nil
}
