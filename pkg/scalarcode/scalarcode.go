// Package scalarcode hashes strings to scalars of the BN254 scalar field and
// provides canonical compressed (de)serialization for scalars and curve
// points, base64url text form. This is the one place the rest of the module
// touches gnark-crypto's field/curve types directly.
package scalarcode

import (
	"crypto/sha256"
	"encoding/base64"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/transitivedelegationvc/delegation/pkg/delegerr"
)

var enc = base64.RawURLEncoding

// ToScalar hashes s with SHA-256 and reduces the big-endian digest modulo
// the BN254 scalar field order, per spec.md §4.1.
func ToScalar(s string) fr.Element {
	sum := sha256.Sum256([]byte(s))
	var x fr.Element
	x.SetBigInt(new(big.Int).SetBytes(sum[:]))
	return x
}

// EncodeScalar returns the base64url (unpadded) compressed encoding of x.
func EncodeScalar(x fr.Element) string {
	b := x.Bytes()
	return enc.EncodeToString(b[:])
}

// DecodeScalar inverts EncodeScalar.
func DecodeScalar(s string) (fr.Element, error) {
	var x fr.Element
	raw, err := enc.DecodeString(s)
	if err != nil {
		return x, delegerr.Wrap(delegerr.Decoding, "scalar base64url", err)
	}
	if len(raw) != fr.Bytes {
		return x, delegerr.New(delegerr.Deserialize, "scalar: wrong byte length")
	}
	x.SetBytes(raw)
	return x, nil
}

// EncodeG1 returns the base64url (unpadded) compressed encoding of p.
func EncodeG1(p bn254.G1Affine) string {
	b := p.Bytes()
	return enc.EncodeToString(b[:])
}

// DecodeG1 inverts EncodeG1.
func DecodeG1(s string) (bn254.G1Affine, error) {
	var p bn254.G1Affine
	raw, err := enc.DecodeString(s)
	if err != nil {
		return p, delegerr.Wrap(delegerr.Decoding, "G1 base64url", err)
	}
	if _, err := p.SetBytes(raw); err != nil {
		return p, delegerr.Wrap(delegerr.Deserialize, "G1 point", err)
	}
	return p, nil
}

// EncodeG2 returns the base64url (unpadded) compressed encoding of p.
func EncodeG2(p bn254.G2Affine) string {
	b := p.Bytes()
	return enc.EncodeToString(b[:])
}

// DecodeG2 inverts EncodeG2.
func DecodeG2(s string) (bn254.G2Affine, error) {
	var p bn254.G2Affine
	raw, err := enc.DecodeString(s)
	if err != nil {
		return p, delegerr.Wrap(delegerr.Decoding, "G2 base64url", err)
	}
	if _, err := p.SetBytes(raw); err != nil {
		return p, delegerr.Wrap(delegerr.Deserialize, "G2 point", err)
	}
	return p, nil
}
