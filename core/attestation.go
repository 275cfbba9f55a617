// Attestation store and validator. The backing StateRW is a flat
// byte-keyed store, so an append-only list is represented as a length
// counter plus one key per index rather than a native slice value.
package core

import (
	"encoding/binary"
	"encoding/hex"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Attestation is an ordered sequence of raw field values, one per schema
// field, in schema-field order.
type Attestation [][]byte

const (
	attestListPrefix  = "attest:list:"
	attestCountPrefix = "attest:count:"
)

func attestCountKey(account AcquirerAddress, issuerHash, schemaHash Hash) []byte {
	k := append([]byte(attestCountPrefix), account.Key()...)
	k = append(k, issuerHash[:]...)
	k = append(k, schemaHash[:]...)
	return k
}

func attestListKey(account AcquirerAddress, issuerHash, schemaHash Hash, index uint32) []byte {
	k := append([]byte(attestListPrefix), account.Key()...)
	k = append(k, issuerHash[:]...)
	k = append(k, schemaHash[:]...)
	var idx [4]byte
	binary.BigEndian.PutUint32(idx[:], index)
	return append(k, idx[:]...)
}

// AttestationStore manages the append-only per-(account, issuer, schema)
// attestation lists and enforces schema-bound validation on write.
type AttestationStore struct {
	st     StateRW
	issuer *IssuerRegistry
	schema *SchemaRegistry
	bus    EventBus
	limits Limits
}

// NewAttestationStore constructs a store backed by st, authorizing against
// issuer, validating field layout against schema, and publishing to bus.
func NewAttestationStore(st StateRW, issuer *IssuerRegistry, schema *SchemaRegistry, bus EventBus, limits Limits) *AttestationStore {
	return &AttestationStore{st: st, issuer: issuer, schema: schema, bus: bus, limits: limits}
}

// Count returns the number of attestations stored for the given key triple.
func (a *AttestationStore) Count(account AcquirerAddress, issuerHash, schemaHash Hash) uint32 {
	raw, err := a.st.GetState(attestCountKey(account, issuerHash, schemaHash))
	if err != nil || len(raw) != 4 {
		return 0
	}
	return binary.BigEndian.Uint32(raw)
}

func (a *AttestationStore) setCount(account AcquirerAddress, issuerHash, schemaHash Hash, n uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], n)
	return a.st.SetState(attestCountKey(account, issuerHash, schemaHash), buf[:])
}

// Get fetches a single attestation by index, failing with
// ErrInvalidAttestationIdx if out of range.
func (a *AttestationStore) Get(account AcquirerAddress, issuerHash, schemaHash Hash, index uint32) (Attestation, error) {
	if index >= a.Count(account, issuerHash, schemaHash) {
		return nil, ErrInvalidAttestationIdx
	}
	raw, err := a.st.GetState(attestListKey(account, issuerHash, schemaHash, index))
	if err != nil {
		return nil, ErrAttestationNotFound
	}
	return decodeAttestation(raw)
}

// Last returns the most recently written attestation, or ErrAttestationNotFound
// if none exist yet.
func (a *AttestationStore) Last(account AcquirerAddress, issuerHash, schemaHash Hash) (Attestation, uint32, error) {
	count := a.Count(account, issuerHash, schemaHash)
	if count == 0 {
		return nil, 0, ErrAttestationNotFound
	}
	idx := count - 1
	att, err := a.Get(account, issuerHash, schemaHash, idx)
	return att, idx, err
}

// validate checks raw against schema's field layout: field count must match,
// every value must be non-empty, fixed-width fields are right-padded with
// zero bytes up to their width (or rejected if longer), Text fields are
// bounded by MaxTextSize, and Hash fields accept either 32 raw bytes or a
// hex string (with or without a "0x" prefix).
func validate(schema Schema, raw [][]byte) (Attestation, error) {
	if len(raw) != len(schema.Fields) {
		return nil, ErrInvalidFormat
	}
	out := make(Attestation, len(raw))
	for i, f := range schema.Fields {
		v := raw[i]
		if len(v) == 0 {
			return nil, ErrInvalidFormat
		}
		switch {
		case f.Type == CredHash:
			decoded, ok := decodeHashField(v)
			if !ok {
				return nil, ErrInvalidHashFormat
			}
			out[i] = decoded
		case f.Type.IsText():
			if len(v) > MaxTextSize {
				return nil, ErrInvalidFormat
			}
			cp := append([]byte(nil), v...)
			out[i] = cp
		default:
			width := f.Type.Width()
			if len(v) > width {
				return nil, ErrInvalidFormat
			}
			padded := make([]byte, width)
			copy(padded, v)
			out[i] = padded
		}
	}
	return out, nil
}

// decodeHashField accepts 32 raw bytes, or a hex string of 64 chars with an
// optional "0x" prefix.
func decodeHashField(v []byte) ([]byte, bool) {
	if len(v) == HashSize {
		return append([]byte(nil), v...), true
	}
	s := strings.TrimPrefix(string(v), "0x")
	if len(s) != HashSize*2 {
		return nil, false
	}
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return nil, false
	}
	return decoded, true
}

// Attest requires origin to be a controller of issuerHash, validates raw
// against schemaHash's field layout, runs every attached extension's
// Validate hook, and appends the attestation.
func (a *AttestationStore) Attest(origin Principal, issuerHash, schemaHash Hash, account AcquirerAddress, raw [][]byte, currentBlock uint64) (uint32, error) {
	issuer, err := a.issuer.Get(issuerHash)
	if err != nil {
		return 0, err
	}
	if !issuer.HasController(origin) {
		return 0, ErrNotAuthorized
	}
	schema, err := a.schema.Get(schemaHash)
	if err != nil {
		return 0, err
	}
	att, err := validate(schema, raw)
	if err != nil {
		return 0, err
	}
	if err := ApplyExtensions(schema.Extensions, currentBlock); err != nil {
		return 0, err
	}

	index := a.Count(account, issuerHash, schemaHash)
	encoded, err := encodeAttestation(att)
	if err != nil {
		return 0, err
	}
	if err := a.st.SetState(attestListKey(account, issuerHash, schemaHash, index), encoded); err != nil {
		return 0, err
	}
	if err := a.setCount(account, issuerHash, schemaHash, index+1); err != nil {
		return 0, err
	}
	log.WithFields(log.Fields{"issuer_hash": issuerHash, "schema_hash": schemaHash, "index": index}).Debug("attestation created")
	a.bus.Emit(AttestationCreated{IssuerHash: issuerHash, AccountID: account, SchemaHash: schemaHash, AttestationIndex: index, Attestation: att})
	return index, nil
}

// UpdateAttestation requires origin to be a controller of issuerHash,
// validates raw against schemaHash's field layout, and overwrites the
// attestation at index. Fails ErrAttestationNotFound if no attestation
// exists yet for the key, and ErrInvalidAttestationIdx if index is out of
// range of an existing list.
func (a *AttestationStore) UpdateAttestation(origin Principal, issuerHash, schemaHash Hash, account AcquirerAddress, index uint32, raw [][]byte, currentBlock uint64) error {
	issuer, err := a.issuer.Get(issuerHash)
	if err != nil {
		return err
	}
	if !issuer.HasController(origin) {
		return ErrNotAuthorized
	}
	count := a.Count(account, issuerHash, schemaHash)
	if count == 0 {
		return ErrAttestationNotFound
	}
	if index >= count {
		return ErrInvalidAttestationIdx
	}
	schema, err := a.schema.Get(schemaHash)
	if err != nil {
		return err
	}
	att, err := validate(schema, raw)
	if err != nil {
		return err
	}
	if err := ApplyExtensions(schema.Extensions, currentBlock); err != nil {
		return err
	}
	encoded, err := encodeAttestation(att)
	if err != nil {
		return err
	}
	if err := a.st.SetState(attestListKey(account, issuerHash, schemaHash, index), encoded); err != nil {
		return err
	}
	log.WithFields(log.Fields{"issuer_hash": issuerHash, "schema_hash": schemaHash, "index": index}).Debug("attestation updated")
	a.bus.Emit(AttestationUpdated{IssuerHash: issuerHash, AccountID: account, SchemaHash: schemaHash, AttestationIndex: index, Attestation: att})
	return nil
}
