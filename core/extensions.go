// Schema extensions: a schema may carry an optional list of extensions,
// validated during Attest and applied (filtered) before the evaluator's
// projection step. See DESIGN.md for the integrated-vs-last-write decision.
package core

// ExtensionTag identifies the closed set of extension kinds.
type ExtensionTag uint8

const (
	ExtensionNone ExtensionTag = iota
	ExtensionExpiry
)

// ExtensionData is a closed tagged sum of per-schema extension behaviour.
// Only ExpiryBlock is populated for ExtensionExpiry; future variants add
// their own field alongside it.
type ExtensionData struct {
	Tag         ExtensionTag
	ExpiryBlock uint64
}

// Validate runs the extension's attestation-time check. For Expiry, it
// requires expiry_block >= currentBlock — an attestation that is already
// expired at creation time is rejected outright.
func (e ExtensionData) Validate(currentBlock uint64) error {
	switch e.Tag {
	case ExtensionExpiry:
		if e.ExpiryBlock < currentBlock {
			return ErrInvalidFormat
		}
		return nil
	default:
		return nil
	}
}

// Filter runs the extension's read-time check, returning false if the
// attestation should be treated as absent for the given block height.
func (e ExtensionData) Filter(currentBlock uint64) bool {
	switch e.Tag {
	case ExtensionExpiry:
		return currentBlock <= e.ExpiryBlock
	default:
		return true
	}
}

// ApplyExtensions runs Validate for every extension in the schema, in order,
// failing on the first violation.
func ApplyExtensions(exts []ExtensionData, currentBlock uint64) error {
	for _, e := range exts {
		if err := e.Validate(currentBlock); err != nil {
			return err
		}
	}
	return nil
}

// FilterExtensions reports whether the attestation is still visible at
// currentBlock under every extension attached to its schema.
func FilterExtensions(exts []ExtensionData, currentBlock uint64) bool {
	for _, e := range exts {
		if !e.Filter(currentBlock) {
			return false
		}
	}
	return true
}
