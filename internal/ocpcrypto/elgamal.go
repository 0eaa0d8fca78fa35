package ocpcrypto

import "fmt"

// ElGamalCiphertext is an additive ElGamal ciphertext (C1, C2) on
// ristretto255: PK = x*G, Enc(PK, M; r) = (r*G, M + r*PK).
type ElGamalCiphertext struct {
	C1 Point
	C2 Point
}

func (c ElGamalCiphertext) Bytes() []byte {
	return concatBytes(c.C1.Bytes(), c.C2.Bytes())
}

func ElGamalCiphertextFromBytes(b []byte) (ElGamalCiphertext, error) {
	if len(b) != 2*PointBytes {
		return ElGamalCiphertext{}, fmt.Errorf("elgamal: expected %d bytes", 2*PointBytes)
	}
	c1, err := PointFromBytesCanonical(b[:PointBytes])
	if err != nil {
		return ElGamalCiphertext{}, err
	}
	c2, err := PointFromBytesCanonical(b[PointBytes:])
	if err != nil {
		return ElGamalCiphertext{}, err
	}
	return ElGamalCiphertext{C1: c1, C2: c2}, nil
}

func ElGamalEncrypt(pk Point, m Point, r Scalar) (ElGamalCiphertext, error) {
	if r.IsZero() {
		return ElGamalCiphertext{}, fmt.Errorf("elgamal: r must be non-zero")
	}
	c1 := MulBase(r)
	c2 := PointAdd(m, MulPoint(pk, r))
	return ElGamalCiphertext{C1: c1, C2: c2}, nil
}

// ElGamalDecrypt returns c2 - x*c1 = M.
func ElGamalDecrypt(sk Scalar, ct ElGamalCiphertext) Point {
	return PointSub(ct.C2, MulPoint(ct.C1, sk))
}

// ElGamalReencrypt re-randomises a ciphertext under pk without changing the
// plaintext: (c1 + rho*G, c2 + rho*pk). Used by the shuffle protocol's
// per-shuffler re-encryption step.
func ElGamalReencrypt(pk Point, ct ElGamalCiphertext, rho Scalar) ElGamalCiphertext {
	return ElGamalCiphertext{
		C1: PointAdd(ct.C1, MulBase(rho)),
		C2: PointAdd(ct.C2, MulPoint(pk, rho)),
	}
}

// ElGamalAddCiphertexts homomorphically combines two ciphertexts encrypted
// under the same key.
func ElGamalAddCiphertexts(a, b ElGamalCiphertext) ElGamalCiphertext {
	return ElGamalCiphertext{C1: PointAdd(a.C1, b.C1), C2: PointAdd(a.C2, b.C2)}
}
