package core

import "math/big"

// ed25519PointIsValid reports whether the 32-byte compressed encoding b
// decompresses to a valid point on the Edwards25519 curve. A base58-decoded
// 32-byte value that is not a curve point is rejected outright rather than
// falling through to another address family.
//
// No available Edwards25519 package exposes standalone point decompression
// (only the higher-level crypto/ed25519 sign/verify surface), so this
// performs the textbook field arithmetic directly against math/big; see
// DESIGN.md for the stdlib-use justification.
func ed25519PointIsValid(b [32]byte) bool {
	p := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(19)) // 2^255 - 19

	// d = -121665/121666 mod p
	d121665 := big.NewInt(121665)
	d121666 := big.NewInt(121666)
	d := new(big.Int).Neg(d121665)
	d.Mod(d, p)
	inv121666 := new(big.Int).ModInverse(d121666, p)
	if inv121666 == nil {
		return false
	}
	d.Mul(d, inv121666)
	d.Mod(d, p)

	signBit := b[31] >> 7
	yBytes := make([]byte, 32)
	copy(yBytes, b[:])
	yBytes[31] &= 0x7f
	reverseBytes(yBytes)
	y := new(big.Int).SetBytes(yBytes)
	if y.Cmp(p) >= 0 {
		return false
	}

	one := big.NewInt(1)
	y2 := new(big.Int).Mul(y, y)
	y2.Mod(y2, p)

	u := new(big.Int).Sub(y2, one)
	u.Mod(u, p)
	v := new(big.Int).Mul(d, y2)
	v.Add(v, one)
	v.Mod(v, p)

	vInv := new(big.Int).ModInverse(v, p)
	if vInv == nil {
		return false
	}
	x2 := new(big.Int).Mul(u, vInv)
	x2.Mod(x2, p)

	// candidate root via exponent (p+3)/8, valid since p ≡ 5 (mod 8)
	exp := new(big.Int).Add(p, big.NewInt(3))
	exp.Div(exp, big.NewInt(8))
	x := new(big.Int).Exp(x2, exp, p)

	check := new(big.Int).Mul(x, x)
	check.Mod(check, p)
	if check.Cmp(x2) != 0 {
		// try x * sqrt(-1)
		sqrtM1 := edwardsSqrtM1(p)
		x.Mul(x, sqrtM1)
		x.Mod(x, p)
		check.Mul(x, x)
		check.Mod(check, p)
		if check.Cmp(x2) != 0 {
			return false
		}
	}

	if x.Sign() == 0 && signBit == 1 {
		return false
	}
	return true
}

// edwardsSqrtM1 returns a fixed square root of -1 mod p, computed once from
// the field prime (2 is a valid exponent base since p ≡ 5 mod 8 guarantees a
// quartic residue sqrt(-1) = 2^((p-1)/4) mod p).
func edwardsSqrtM1(p *big.Int) *big.Int {
	exp := new(big.Int).Sub(p, big.NewInt(1))
	exp.Div(exp, big.NewInt(4))
	return new(big.Int).Exp(big.NewInt(2), exp, p)
}

func reverseBytes(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}
