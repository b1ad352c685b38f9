package accumulator

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/transitivedelegationvc/delegation/pkg/delegerr"
	"github.com/transitivedelegationvc/delegation/pkg/scalarcode"
)

// Params carries the public setup parameters of a positive accumulator: the
// BN254 G1/G2 generators it is built over. They are curve constants, but are
// still carried explicitly (not assumed as package globals) so a Verifier
// can be constructed from data alone, per spec.md §4.4.
type Params struct {
	G1Gen bn254.G1Affine
	G2Gen bn254.G2Affine
}

// DefaultParams returns the standard BN254 generators.
func DefaultParams() Params {
	_, _, g1, g2 := bn254.Generators()
	return Params{G1Gen: g1, G2Gen: g2}
}

// EncodedParams is the wire form of Params.
type EncodedParams struct {
	G1Gen string `json:"g1_gen"`
	G2Gen string `json:"g2_gen"`
}

// Encode returns the wire form of p.
func (p Params) Encode() EncodedParams {
	return EncodedParams{
		G1Gen: scalarcode.EncodeG1(p.G1Gen),
		G2Gen: scalarcode.EncodeG2(p.G2Gen),
	}
}

// Decode inverts Encode.
func (e EncodedParams) Decode() (Params, error) {
	g1, err := scalarcode.DecodeG1(e.G1Gen)
	if err != nil {
		return Params{}, err
	}
	g2, err := scalarcode.DecodeG2(e.G2Gen)
	if err != nil {
		return Params{}, err
	}
	return Params{G1Gen: g1, G2Gen: g2}, nil
}

// GenerateKeyPair produces a fresh accumulator secret key and its public key
// (sk·G2Gen) under the given params.
func GenerateKeyPair(params Params) (sk fr.Element, pk bn254.G2Affine, err error) {
	if _, err = sk.SetRandom(); err != nil {
		return sk, pk, delegerr.Wrap(delegerr.Serialize, "generate accumulator secret key", err)
	}
	skBig := new(big.Int)
	sk.BigInt(skBig)
	pk.ScalarMultiplication(&params.G2Gen, skBig)
	return sk, pk, nil
}
