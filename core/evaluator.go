// Gas-metered evaluator, the deepest component: a fresh wasmer engine and
// store per invocation, host functions registered under explicit
// module/name pairs, and linear memory written before instantiation. The
// wasmer objects are not closed explicitly on return; they are released when
// the garbage collector runs their finalizers.
package core

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/wasmerio/wasmer-go/wasmer"
)

// wasmPageSize is the fixed WebAssembly linear-memory page size.
const wasmPageSize = 65536

// evalState is the per-invocation state machine. Transitions are monotonic;
// there is no retry or resume.
type evalState int

const (
	stateLoaded evalState = iota
	stateMemoryReady
	stateInstantiated
	stateStarted
	stateExecuting
	stateCompleted
	stateTrapped
	stateOutOfGas
)

func (s evalState) String() string {
	switch s {
	case stateLoaded:
		return "Loaded"
	case stateMemoryReady:
		return "MemoryReady"
	case stateInstantiated:
		return "Instantiated"
	case stateStarted:
		return "Started"
	case stateExecuting:
		return "Executing"
	case stateCompleted:
		return "Completed"
	case stateTrapped:
		return "Trapped"
	case stateOutOfGas:
		return "OutOfGas"
	default:
		return "Unknown"
	}
}

// errGuestAbort is the fixed, deliberately misleading trap reported by the
// env.abort import once its gas charge has succeeded. If the charge itself
// fails, the import still traps, but with the charge error (ErrOutOfGas or
// ErrGasOverflow) instead. The message is kept as-is rather than silently
// corrected to a more accurate one.
var errGuestAbort = errors.New("Gas charge failed")

// Evaluator runs saved algorithms against projected attestation data. Run
// authorization is unchecked by design: any caller may execute any stored
// algorithm against any acquirer's attestations.
type Evaluator struct {
	algos        *AlgorithmRegistry
	attestations *AttestationStore
	schemas      *SchemaRegistry
	bus          EventBus
	limits       Limits
	sandbox      *SandboxTracker
}

// NewEvaluator constructs an evaluator over the given registries.
func NewEvaluator(algos *AlgorithmRegistry, attestations *AttestationStore, schemas *SchemaRegistry, bus EventBus, limits Limits) *Evaluator {
	return &Evaluator{algos: algos, attestations: attestations, schemas: schemas, bus: bus, limits: limits, sandbox: NewSandboxTracker()}
}

// runContext carries the per-invocation state the host imports close over.
type runContext struct {
	meter  *GasMeter
	state  evalState
	result error
}

// Run executes algoID against (account, issuerHash)'s attestations at
// currentBlock and returns its i64 result. Every exit path removes the
// invocation's SandboxTracker entry; the wasmer engine, store, module and
// instance are not closed explicitly and stay alive until garbage-collected.
func (e *Evaluator) Run(algoID uint64, issuerHash Hash, account AcquirerAddress, currentBlock uint64) (int64, error) {
	algo, err := e.algos.Get(algoID)
	if err != nil {
		return 0, err
	}

	buffer, err := e.projectInput(algo, issuerHash, account, currentBlock)
	if err != nil {
		return 0, err
	}

	rc := &runContext{meter: NewGasMeter(algo.GasLimit), state: stateLoaded}
	seq := e.sandbox.Start(algoID, e.limits.MaxMemoryPages, algo.GasLimit)
	defer e.sandbox.Finish(seq)

	memWords := memoryWords(len(buffer))
	memCharge, err := checkedMul(e.limits.GasCost.MemoryOp, memWords)
	if err != nil {
		rc.state = stateOutOfGas
		log.WithFields(log.Fields{"algo_id": algoID, "stage": "memory_op"}).Warn(err)
		return 0, err
	}
	if err := rc.meter.Charge(memCharge); err != nil {
		rc.state = stateOutOfGas
		log.WithFields(log.Fields{"algo_id": algoID, "stage": "memory_op"}).Warn(err)
		return 0, err
	}

	engine := wasmer.NewEngine()
	store := wasmer.NewStore(engine)

	module, err := wasmer.NewModule(store, algo.Code)
	if err != nil {
		return 0, e.fail(algoID, rc, stateLoaded, ErrAcmSetupFailed, err)
	}

	memoryType := wasmer.NewMemoryType(wasmer.NewLimits(e.limits.MaxMemoryPages, e.limits.MaxMemoryPages))
	memory := wasmer.NewMemory(store, memoryType)
	capacity := int(e.limits.MaxMemoryPages) * wasmPageSize
	if len(buffer) > capacity {
		return 0, e.fail(algoID, rc, stateLoaded, ErrAcmMemoryWriteError, fmt.Errorf("projection buffer %d bytes exceeds memory capacity %d", len(buffer), capacity))
	}
	copy(memory.Data(), buffer)
	rc.state = stateMemoryReady

	importObject := wasmer.NewImportObject()

	printType := wasmer.NewFunctionType(wasmer.NewValueTypes(wasmer.I32), wasmer.NewValueTypes())
	printFunc := wasmer.NewFunction(store, printType, func(args []wasmer.Value) ([]wasmer.Value, error) {
		if err := rc.meter.Charge(e.limits.GasCost.BasicOp); err != nil {
			rc.state = stateOutOfGas
			rc.result = err
			return nil, err
		}
		return []wasmer.Value{}, nil
	})

	abortType := wasmer.NewFunctionType(wasmer.NewValueTypes(wasmer.I32, wasmer.I32, wasmer.I32, wasmer.I32), wasmer.NewValueTypes())
	abortFunc := wasmer.NewFunction(store, abortType, func(args []wasmer.Value) ([]wasmer.Value, error) {
		if err := rc.meter.Charge(e.limits.GasCost.CallOp); err != nil {
			rc.state = stateOutOfGas
			rc.result = err
			return nil, err
		}
		rc.state = stateTrapped
		rc.result = errGuestAbort
		return nil, errGuestAbort
	})

	importObject.Register("host", map[string]wasmer.IntoExtern{"print": printFunc})
	importObject.Register("env", map[string]wasmer.IntoExtern{"abort": abortFunc, "memory": memory})

	instance, err := wasmer.NewInstance(module, importObject)
	if err != nil {
		return 0, e.fail(algoID, rc, stateMemoryReady, ErrAcmLinkerFailed, err)
	}
	// wasmer runs the module's start function (if any) as part of
	// instantiation; there is no separate call to make here.
	rc.state = stateInstantiated
	rc.state = stateStarted

	calcFunc, err := instance.Exports.GetFunction("calc")
	if err != nil {
		return 0, e.fail(algoID, rc, stateStarted, ErrAcmFailedToFindCalcFunc, err)
	}

	rc.state = stateExecuting
	raw, err := calcFunc()
	if err != nil {
		if rc.result != nil {
			switch {
			case errors.Is(rc.result, ErrOutOfGas), errors.Is(rc.result, ErrGasOverflow):
				return 0, rc.result
			case errors.Is(rc.result, errGuestAbort):
				return 0, e.fail(algoID, rc, stateTrapped, ErrAlgoExecutionFailed, rc.result)
			}
		}
		return 0, e.fail(algoID, rc, stateTrapped, ErrAcmFailedToCalculate, err)
	}

	result, ok := raw.(int64)
	if !ok {
		return 0, e.fail(algoID, rc, stateTrapped, ErrAcmFailedToCalculate, fmt.Errorf("calc returned non-i64 value %T", raw))
	}

	rc.state = stateCompleted
	e.sandbox.Update(seq, rc.meter.Consumed(), rc.state.String())
	e.bus.Emit(AlgoResult{Result: result, IssuerHash: issuerHash, AccountID: account})
	return result, nil
}

// fail logs the specific evaluator-stage error kind and transitions rc to
// the given terminal state, returning the error surfaced to the caller: the
// outermost dispatch surfaces AlgoExecutionFailed while the specific kind is
// logged. ErrOutOfGas and ErrGasOverflow are returned unchanged.
func (e *Evaluator) fail(algoID uint64, rc *runContext, terminal evalState, kind error, detail error) error {
	rc.state = terminal
	log.WithFields(log.Fields{"algo_id": algoID, "state": rc.state.String(), "kind": kind}).Warnf("evaluator stage failed: %v", detail)
	if kind == ErrOutOfGas || kind == ErrGasOverflow {
		return kind
	}
	return ErrAlgoExecutionFailed
}

// projectInput builds the evaluator's input buffer: for each schema
// binding, fetch the last attestation, drop its Text fields (descending
// index order), and concatenate the remaining fixed-width bytes in
// schema-binding order. The attestation lookup runs before the schema
// lookup, so a binding with neither fails with ErrAttestationNotFound
// rather than ErrSchemaNotFound.
func (e *Evaluator) projectInput(algo Algorithm, issuerHash Hash, account AcquirerAddress, currentBlock uint64) ([]byte, error) {
	var buffer []byte
	for _, schemaHash := range algo.SchemaHashes {
		if e.attestations.Count(account, issuerHash, schemaHash) == 0 {
			return nil, ErrAttestationNotFound
		}

		schema, err := e.schemas.Get(schemaHash)
		if err != nil {
			return nil, err
		}

		att, _, err := e.lastVisibleAttestation(schema, account, issuerHash, schemaHash, currentBlock)
		if err != nil {
			return nil, err
		}

		fields := append(Attestation(nil), att...)
		var textIndices []int
		for i, f := range schema.Fields {
			if f.Type.IsText() {
				textIndices = append(textIndices, i)
			}
		}
		for i := len(textIndices) - 1; i >= 0; i-- {
			idx := textIndices[i]
			fields = append(fields[:idx], fields[idx+1:]...)
		}
		for _, f := range fields {
			buffer = append(buffer, f...)
		}
	}
	return buffer, nil
}

// lastVisibleAttestation returns the most recent attestation not filtered
// out by the schema's extensions at currentBlock, walking back through
// history as needed.
func (e *Evaluator) lastVisibleAttestation(schema Schema, account AcquirerAddress, issuerHash, schemaHash Hash, currentBlock uint64) (Attestation, uint32, error) {
	count := e.attestations.Count(account, issuerHash, schemaHash)
	if count == 0 {
		return nil, 0, ErrAttestationNotFound
	}
	for i := int64(count) - 1; i >= 0; i-- {
		idx := uint32(i)
		att, err := e.attestations.Get(account, issuerHash, schemaHash, idx)
		if err != nil {
			return nil, 0, err
		}
		if FilterExtensions(schema.Extensions, currentBlock) {
			return att, idx, nil
		}
	}
	return nil, 0, ErrAttestationNotFound
}
