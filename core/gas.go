// Gas schedule for the evaluator. Gas is charged at exactly three named
// points: a host print call, a host abort call, and the one-time cost of
// projecting attestation bytes into linear memory. There is no "default"
// bucket to fall back to.
package core

import "fmt"

// GasCost is the configurable, deployment-fixed price list. All three
// fields are denominated in the same abstract gas unit.
type GasCost struct {
	BasicOp  uint64 // charged once per host.print call
	MemoryOp uint64 // charged once per 32-byte word of the projection buffer
	CallOp   uint64 // charged once per env.abort call
}

// DefaultGasCost is the out-of-the-box schedule used when a deployment does
// not override it via configuration.
var DefaultGasCost = GasCost{
	BasicOp:  1,
	MemoryOp: 8,
	CallOp:   4,
}

// GasMeter tracks gas usage and enforces an execution-wide budget. The
// invariant consumed <= limit holds at every observable point; Charge uses
// checked addition so a charge that would overflow uint64 is reported
// distinctly from one that would merely exceed the limit (see ErrGasOverflow
// vs ErrOutOfGas).
type GasMeter struct {
	consumed uint64
	limit    uint64
}

// NewGasMeter constructs a GasMeter with the given budget.
func NewGasMeter(limit uint64) *GasMeter {
	return &GasMeter{limit: limit}
}

// Consumed returns the gas charged so far.
func (g *GasMeter) Consumed() uint64 { return g.consumed }

// Limit returns the total budget.
func (g *GasMeter) Limit() uint64 { return g.limit }

// Remaining returns the gas left in the budget.
func (g *GasMeter) Remaining() uint64 {
	if g.consumed >= g.limit {
		return 0
	}
	return g.limit - g.consumed
}

// Charge attempts to consume amount units of gas. It fails with
// ErrGasOverflow if consumed+amount overflows uint64, and with ErrOutOfGas if
// the charge would push consumed past limit. On failure the meter is left
// unchanged.
func (g *GasMeter) Charge(amount uint64) error {
	sum := g.consumed + amount
	if sum < g.consumed { // unsigned wrap-around: overflow
		return ErrGasOverflow
	}
	if sum > g.limit {
		return ErrOutOfGas
	}
	g.consumed = sum
	return nil
}

// memoryWords returns the number of 32-byte words needed to cover n bytes,
// i.e. ceil(n/32), the unit the memory_op charge is priced per.
func memoryWords(n int) uint64 {
	if n <= 0 {
		return 0
	}
	return uint64((n + 31) / 32)
}

// checkedMul multiplies a and b, reporting ErrGasOverflow instead of
// wrapping silently if the product does not fit in a uint64.
func checkedMul(a, b uint64) (uint64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	product := a * b
	if product/a != b {
		return 0, ErrGasOverflow
	}
	return product, nil
}

func (g *GasMeter) String() string {
	return fmt.Sprintf("gas{consumed=%d limit=%d}", g.consumed, g.limit)
}
