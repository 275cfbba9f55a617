package core

import (
	"errors"
	"testing"
)

// minimalWasmModule is the smallest well-formed WebAssembly binary: the
// magic number and version header with no sections.
var minimalWasmModule = []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

func newTestAlgorithmRegistry() (*AlgorithmRegistry, *InMemoryState) {
	st := NewInMemoryState()
	return NewAlgorithmRegistry(st, NopBus{}, DefaultLimits), st
}

func TestSaveAlgorithmAssignsIncreasingIDs(t *testing.T) {
	r, _ := newTestAlgorithmRegistry()
	hashes := []Hash{{1}}

	first, err := r.SaveAlgorithm(hashes, minimalWasmModule, 0)
	if err != nil {
		t.Fatalf("SaveAlgorithm: %v", err)
	}
	if first != FirstAlgoID {
		t.Fatalf("first id = %d, want %d", first, FirstAlgoID)
	}
	second, err := r.SaveAlgorithm(hashes, minimalWasmModule, 0)
	if err != nil {
		t.Fatalf("SaveAlgorithm: %v", err)
	}
	if second != first+1 {
		t.Fatalf("second id = %d, want %d", second, first+1)
	}
}

func TestSaveAlgorithmDefaultsGasLimit(t *testing.T) {
	r, _ := newTestAlgorithmRegistry()
	id, err := r.SaveAlgorithm([]Hash{{1}}, minimalWasmModule, 0)
	if err != nil {
		t.Fatalf("SaveAlgorithm: %v", err)
	}
	algo, err := r.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if algo.GasLimit != DefaultLimits.DefaultGasLimit {
		t.Errorf("GasLimit = %d, want default %d", algo.GasLimit, DefaultLimits.DefaultGasLimit)
	}
}

func TestSaveAlgorithmRejectsInvalidWasm(t *testing.T) {
	r, _ := newTestAlgorithmRegistry()
	_, err := r.SaveAlgorithm([]Hash{{1}}, []byte("not wasm"), 0)
	if !errors.Is(err, ErrInvalidWasmProvided) {
		t.Fatalf("SaveAlgorithm(garbage) = %v, want ErrInvalidWasmProvided", err)
	}
}

func TestSaveAlgorithmRejectsTooManySchemas(t *testing.T) {
	r, _ := newTestAlgorithmRegistry()
	hashes := make([]Hash, DefaultLimits.MaxSchemas+1)
	_, err := r.SaveAlgorithm(hashes, minimalWasmModule, 0)
	if !errors.Is(err, ErrTooManySchemas) {
		t.Fatalf("SaveAlgorithm with too many schemas = %v, want ErrTooManySchemas", err)
	}
}

func TestSaveAlgorithmRejectsOversizedCode(t *testing.T) {
	r, _ := newTestAlgorithmRegistry()
	code := make([]byte, DefaultLimits.MaxCodeSize+1)
	_, err := r.SaveAlgorithm([]Hash{{1}}, code, 0)
	if !errors.Is(err, ErrCodeTooHeavy) {
		t.Fatalf("SaveAlgorithm with oversized code = %v, want ErrCodeTooHeavy", err)
	}
}

func TestAlgorithmGetNotFound(t *testing.T) {
	r, _ := newTestAlgorithmRegistry()
	if _, err := r.Get(999); !errors.Is(err, ErrAlgoNotFound) {
		t.Fatalf("Get(999) = %v, want ErrAlgoNotFound", err)
	}
}
