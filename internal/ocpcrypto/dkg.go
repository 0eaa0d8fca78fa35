package ocpcrypto

import "fmt"

// LagrangeAtZero returns the Lagrange coefficients for reconstructing f(0)
// from shares (x_i, f(x_i)) where indices are distinct non-zero field
// elements: lambda_i = Prod_{j!=i} (0 - x_j) / (x_i - x_j).
func LagrangeAtZero(indices []uint32) ([]Scalar, error) {
	if len(indices) == 0 {
		return nil, fmt.Errorf("lagrange: empty indices")
	}
	seen := map[uint32]bool{}
	for _, idx := range indices {
		if idx == 0 {
			return nil, fmt.Errorf("lagrange: index 0 not allowed")
		}
		if seen[idx] {
			return nil, fmt.Errorf("lagrange: duplicate index %d", idx)
		}
		seen[idx] = true
	}

	lambdas := make([]Scalar, 0, len(indices))
	for _, xiU := range indices {
		xi := ScalarFromUint64(uint64(xiU))
		num := ScalarFromUint64(1)
		den := ScalarFromUint64(1)
		for _, xjU := range indices {
			if xjU == xiU {
				continue
			}
			xj := ScalarFromUint64(uint64(xjU))
			num = ScalarMul(num, ScalarNeg(xj))
			den = ScalarMul(den, ScalarSub(xi, xj))
		}
		denInv, err := ScalarInv(den)
		if err != nil {
			return nil, err
		}
		lambdas = append(lambdas, ScalarMul(num, denInv))
	}
	return lambdas, nil
}

// FeldmanPolynomial is a degree-(t-1) polynomial over the scalar field used
// by a single committee member's share of a Feldman verifiable secret
// sharing round (SPEC_FULL §4.10).
type FeldmanPolynomial struct {
	coeffs []Scalar // coeffs[0] is the member's secret contribution f(0)
}

// NewFeldmanPolynomial builds a polynomial from a secret and threshold-1
// additional random coefficients.
func NewFeldmanPolynomial(secret Scalar, randomCoeffs []Scalar) FeldmanPolynomial {
	coeffs := make([]Scalar, 0, len(randomCoeffs)+1)
	coeffs = append(coeffs, secret)
	coeffs = append(coeffs, randomCoeffs...)
	return FeldmanPolynomial{coeffs: coeffs}
}

// Threshold returns t, the minimum number of shares needed to reconstruct.
func (p FeldmanPolynomial) Threshold() int {
	return len(p.coeffs)
}

// Evaluate computes f(x) for a non-zero member index x.
func (p FeldmanPolynomial) Evaluate(x uint32) (Scalar, error) {
	if x == 0 {
		return Scalar{}, fmt.Errorf("feldman: x must be non-zero")
	}
	xs := ScalarFromUint64(uint64(x))
	acc := ScalarZero()
	pow := ScalarFromUint64(1)
	for _, c := range p.coeffs {
		acc = ScalarAdd(acc, ScalarMul(c, pow))
		pow = ScalarMul(pow, xs)
	}
	return acc, nil
}

// Commitments returns the public commitments c_k = coeff_k * G, broadcast
// so other members can verify the shares they receive without learning the
// polynomial.
func (p FeldmanPolynomial) Commitments() []Point {
	out := make([]Point, len(p.coeffs))
	for i, c := range p.coeffs {
		out[i] = MulBase(c)
	}
	return out
}

// VerifyFeldmanShare checks that share = f(x) is consistent with the
// dealer's published commitments, i.e. f(x)*G == sum_k commitments[k] * x^k.
func VerifyFeldmanShare(commitments []Point, x uint32, share Scalar) bool {
	if len(commitments) == 0 {
		return false
	}
	xs := ScalarFromUint64(uint64(x))
	acc := PointIdentity()
	pow := ScalarFromUint64(1)
	for _, c := range commitments {
		acc = PointAdd(acc, MulPoint(c, pow))
		pow = ScalarMul(pow, xs)
	}
	return PointEq(MulBase(share), acc)
}

// AggregatePublicKey sums each member's constant-term commitment (c_0 =
// f_i(0)*G) into the committee's aggregate public key, Y = sum Y_i.
func AggregatePublicKey(memberConstantTerms []Point) Point {
	acc := PointIdentity()
	for _, y := range memberConstantTerms {
		acc = PointAdd(acc, y)
	}
	return acc
}

// ReconstructSecret recombines threshold-many Shamir shares into the
// aggregate secret via Lagrange interpolation at zero. Used only for
// auditing/slashing flows; normal operation never needs the combined
// secret, only each member's own share.
func ReconstructSecret(indices []uint32, shares []Scalar) (Scalar, error) {
	if len(indices) != len(shares) {
		return Scalar{}, fmt.Errorf("reconstruct: indices/shares length mismatch")
	}
	lambdas, err := LagrangeAtZero(indices)
	if err != nil {
		return Scalar{}, err
	}
	acc := ScalarZero()
	for i, lambda := range lambdas {
		acc = ScalarAdd(acc, ScalarMul(lambda, shares[i]))
	}
	return acc, nil
}
