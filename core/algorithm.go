// Algorithm registry. Saved WASM modules are bound to one or more schemas
// and carry their own gas limit; the module is decoded once at save time
// purely to validate it and is not retained — core/evaluator.go re-decodes
// it fresh on every Run.
package core

import (
	"encoding/binary"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/wasmerio/wasmer-go/wasmer"
)

// FirstAlgoID is the first id handed out by AlgorithmRegistry.SaveAlgorithm.
const FirstAlgoID uint64 = 100

// Algorithm is a saved WebAssembly module plus the schemas it is bound to
// and the gas limit its evaluation is metered against.
type Algorithm struct {
	SchemaHashes []Hash
	Code         []byte
	GasLimit     uint64
}

const (
	algoKeyPrefix   = "algo:record:"
	algoNextIDKey   = "algo:nextid"
)

func algoKey(id uint64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], id)
	return append([]byte(algoKeyPrefix), buf[:]...)
}

// AlgorithmRegistry stores algorithms under monotonically increasing ids.
type AlgorithmRegistry struct {
	mu     sync.Mutex
	st     StateRW
	bus    EventBus
	limits Limits
}

// NewAlgorithmRegistry constructs a registry backed by st, publishing events
// to bus.
func NewAlgorithmRegistry(st StateRW, bus EventBus, limits Limits) *AlgorithmRegistry {
	return &AlgorithmRegistry{st: st, bus: bus, limits: limits}
}

func (r *AlgorithmRegistry) nextID() (uint64, error) {
	raw, err := r.st.GetState([]byte(algoNextIDKey))
	if err != nil || len(raw) != 8 {
		return FirstAlgoID, nil
	}
	return binary.BigEndian.Uint64(raw), nil
}

func (r *AlgorithmRegistry) setNextID(id uint64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], id)
	return r.st.SetState([]byte(algoNextIDKey), buf[:])
}

// SaveAlgorithm bounds-checks schemaHashes/code, validates code by decoding
// it once with wasmer (discarding the module immediately), defaults
// gasLimit to DefaultGasLimit when zero, and allocates the next id (spec
// §4.5).
func (r *AlgorithmRegistry) SaveAlgorithm(schemaHashes []Hash, code []byte, gasLimit uint64) (uint64, error) {
	if len(schemaHashes) > r.limits.MaxSchemas {
		return 0, ErrTooManySchemas
	}
	if len(code) > r.limits.MaxCodeSize {
		return 0, ErrCodeTooHeavy
	}
	if err := validateWasmModule(code); err != nil {
		return 0, ErrInvalidWasmProvided
	}
	if gasLimit == 0 {
		gasLimit = r.limits.DefaultGasLimit
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id, err := r.nextID()
	if err != nil {
		return 0, err
	}
	algo := Algorithm{
		SchemaHashes: append([]Hash(nil), schemaHashes...),
		Code:         append([]byte(nil), code...),
		GasLimit:     gasLimit,
	}
	encoded, err := encodeAlgorithm(algo)
	if err != nil {
		return 0, err
	}
	if err := r.st.SetState(algoKey(id), encoded); err != nil {
		return 0, err
	}
	if err := r.setNextID(id + 1); err != nil {
		return 0, err
	}
	log.WithFields(log.Fields{"algo_id": id, "schemas": len(schemaHashes), "gas_limit": gasLimit}).Info("algorithm saved")
	r.bus.Emit(AlgorithmAdded{AlgorithmID: id, SchemaHashes: algo.SchemaHashes})
	return id, nil
}

// Get fetches a saved algorithm by id, failing with ErrAlgoNotFound.
func (r *AlgorithmRegistry) Get(id uint64) (Algorithm, error) {
	raw, err := r.st.GetState(algoKey(id))
	if err != nil {
		return Algorithm{}, ErrAlgoNotFound
	}
	return decodeAlgorithm(raw)
}

// validateWasmModule decodes code once to confirm it is well-formed
// WebAssembly, then discards the result; the module is never cached.
func validateWasmModule(code []byte) error {
	engine := wasmer.NewEngine()
	store := wasmer.NewStore(engine)
	_, err := wasmer.NewModule(store, code)
	return err
}
