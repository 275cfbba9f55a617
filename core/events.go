package core

import log "github.com/sirupsen/logrus"

// Event is the structured record this subsystem hands off to the event bus.
// The bus itself, along with transaction dispatch, signed-origin
// authentication and the storage backend, is host-framework machinery and
// lives outside this package; EventBus is the thin seam this package calls
// through.
type Event interface{ eventName() string }

type IssuerCreated struct {
	Hash        Hash
	Name        []byte
	Controllers []Principal
}

func (IssuerCreated) eventName() string { return "IssuerCreated" }

type IssuerUpdated struct {
	Hash        Hash
	Name        []byte
	Controllers []Principal
}

func (IssuerUpdated) eventName() string { return "IssuerUpdated" }

type SchemaCreated struct {
	SchemaHash Hash
	Schema     Schema
	IssuerHash Hash
}

func (SchemaCreated) eventName() string { return "SchemaCreated" }

type AttestationCreated struct {
	IssuerHash        Hash
	AccountID         AcquirerAddress
	SchemaHash        Hash
	AttestationIndex  uint32
	Attestation       Attestation
}

func (AttestationCreated) eventName() string { return "AttestationCreated" }

type AttestationUpdated struct {
	IssuerHash       Hash
	AccountID        AcquirerAddress
	SchemaHash       Hash
	AttestationIndex uint32
	Attestation      Attestation
}

func (AttestationUpdated) eventName() string { return "AttestationUpdated" }

type AlgorithmAdded struct {
	AlgorithmID  uint64
	SchemaHashes []Hash
}

func (AlgorithmAdded) eventName() string { return "AlgorithmAdded" }

type AlgoResult struct {
	Result     int64
	IssuerHash Hash
	AccountID  AcquirerAddress
}

func (AlgoResult) eventName() string { return "AlgoResult" }

// EventBus receives structured outcome records emitted by the operations in
// this package.
type EventBus interface {
	Emit(Event)
}

// LogBus is an EventBus that logs every event via logrus, standing in for
// the host framework's real bus in CLI/standalone and test contexts, typed
// per event kind rather than a generic (topic string, data []byte) pair.
type LogBus struct{ Logger *log.Logger }

// NewLogBus returns a LogBus using logrus's standard logger if none is
// given.
func NewLogBus(l *log.Logger) *LogBus {
	if l == nil {
		l = log.StandardLogger()
	}
	return &LogBus{Logger: l}
}

func (b *LogBus) Emit(e Event) {
	b.Logger.WithField("event", e.eventName()).Infof("%+v", e)
}

// NopBus discards all events. Useful for benchmarks and unit tests that do
// not care about the emitted record.
type NopBus struct{}

func (NopBus) Emit(Event) {}
