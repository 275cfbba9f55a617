// Schema registry.
package core

import (
	"crypto/sha256"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// SchemaField is one (name, type) pair in an ordered Schema.
type SchemaField struct {
	Name []byte
	Type CredType
}

// Schema is an ordered, bounded sequence of typed fields, optionally carrying
// extension data (the integrated variant; see core/extensions.go).
type Schema struct {
	Fields     []SchemaField
	Extensions []ExtensionData
}

// Hash computes schema_hash = H(concat(name ‖ encode(type)) for each field),
// under sha256 rather than a bespoke hash primitive. Reordering fields or
// changing a single field's type yields a distinct hash.
func (s Schema) Hash() Hash {
	h := sha256.New()
	for _, f := range s.Fields {
		h.Write(f.Name)
		h.Write(f.Type.Encode())
	}
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

// shaHash is the content-hash function H used for issuer_hash = H(name),
// schema_hash, and similar content-addressed keys: sha256.
func shaHash(b []byte) Hash {
	sum := sha256.Sum256(b)
	return Hash(sum)
}

const schemaKeyPrefix = "schema:"

func schemaKey(h Hash) []byte {
	return append([]byte(schemaKeyPrefix), h[:]...)
}

// SchemaRegistry stores typed field layouts keyed by their content hash.
type SchemaRegistry struct {
	st     StateRW
	issuer *IssuerRegistry
	bus    EventBus
	limits Limits
}

// NewSchemaRegistry constructs a registry backed by st, authorizing mutations
// against issuer and publishing events to bus.
func NewSchemaRegistry(st StateRW, issuer *IssuerRegistry, bus EventBus, limits Limits) *SchemaRegistry {
	return &SchemaRegistry{st: st, issuer: issuer, bus: bus, limits: limits}
}

// CreateSchema requires origin to be a controller of issuerHash, enforces
// MaxSchemaFields/MaxSchemaFieldSize, rejects a duplicate schema_hash, and
// emits SchemaCreated on success.
func (r *SchemaRegistry) CreateSchema(origin Principal, issuerHash Hash, fields []SchemaField, exts []ExtensionData) (Hash, error) {
	issuer, err := r.issuer.Get(issuerHash)
	if err != nil {
		return Hash{}, err
	}
	if !issuer.HasController(origin) {
		return Hash{}, ErrNotAuthorized
	}
	if len(fields) > r.limits.MaxSchemaFields {
		return Hash{}, ErrTooManySchemaFields
	}
	for _, f := range fields {
		if len(f.Name) > r.limits.MaxSchemaFieldSize {
			return Hash{}, ErrSchemaFieldTooLarge
		}
		if !f.Type.IsValid() {
			return Hash{}, fmt.Errorf("%w: unknown cred type %d", ErrInvalidFormat, f.Type)
		}
	}

	schema := Schema{Fields: append([]SchemaField(nil), fields...), Extensions: exts}
	hash := schema.Hash()
	key := schemaKey(hash)
	if ok, _ := r.st.HasState(key); ok {
		return Hash{}, ErrSchemaAlreadyExists
	}
	encoded, err := encodeSchema(schema)
	if err != nil {
		return Hash{}, err
	}
	if err := r.st.SetState(key, encoded); err != nil {
		return Hash{}, err
	}
	log.WithFields(log.Fields{"schema_hash": hash, "issuer_hash": issuerHash}).Debug("schema created")
	r.bus.Emit(SchemaCreated{SchemaHash: hash, Schema: schema, IssuerHash: issuerHash})
	return hash, nil
}

// Get fetches a stored schema by hash, failing with ErrSchemaNotFound.
func (r *SchemaRegistry) Get(hash Hash) (Schema, error) {
	raw, err := r.st.GetState(schemaKey(hash))
	if err != nil {
		return Schema{}, ErrSchemaNotFound
	}
	return decodeSchema(raw)
}
