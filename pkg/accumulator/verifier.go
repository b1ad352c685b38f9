package accumulator

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"golang.org/x/sync/errgroup"

	"github.com/transitivedelegationvc/delegation/pkg/delegerr"
	"github.com/transitivedelegationvc/delegation/pkg/scalarcode"
)

// Verifier checks membership witnesses against a published accumulator value
// without needing the secret key. It is stateless and safe for concurrent
// use once constructed.
type Verifier struct {
	value  bn254.G1Affine
	pk     bn254.G2Affine
	params Params
}

// NewVerifier constructs a Verifier from a serialized accumulator value, the
// delegator's accumulator public key, and the setup parameters.
func NewVerifier(serializedValue string, pk bn254.G2Affine, params Params) (*Verifier, error) {
	value, err := scalarcode.DecodeG1(serializedValue)
	if err != nil {
		return nil, err
	}
	return &Verifier{value: value, pk: pk, params: params}, nil
}

// verifyOne checks a single (witness, element) pair against v's stored
// accumulator value: e(w, pk + x·G2Gen) == e(value, G2Gen).
func (v *Verifier) verifyOne(witness, element string) error {
	w, err := scalarcode.DecodeG1(witness)
	if err != nil {
		return err
	}
	x, err := scalarcode.DecodeScalar(element)
	if err != nil {
		return err
	}

	xBig := new(big.Int)
	x.BigInt(xBig)
	var lhs bn254.G2Affine
	lhs.ScalarMultiplication(&v.params.G2Gen, xBig)
	lhs.Add(&lhs, &v.pk)

	var negValue bn254.G1Affine
	negValue.Neg(&v.value)

	ok, err := bn254.PairingCheck(
		[]bn254.G1Affine{w, negValue},
		[]bn254.G2Affine{lhs, v.params.G2Gen},
	)
	if err != nil {
		return delegerr.Wrap(delegerr.MembershipFailed, "pairing computation failed", err)
	}
	if !ok {
		return delegerr.New(delegerr.MembershipFailed, "witness does not prove membership")
	}
	return nil
}

// VerifyBatch verifies that every (witnesses[i], elements[i]) pair proves
// membership in v's accumulator. If parallel is true, pairs are checked
// concurrently; the result does not depend on completion order, and the
// first observed failure is returned once all workers have been joined.
func (v *Verifier) VerifyBatch(witnesses, elements []string, parallel bool) error {
	if len(witnesses) != len(elements) {
		return delegerr.New(delegerr.LengthMismatch, fmt.Sprintf(
			"%d witnesses vs %d elements", len(witnesses), len(elements)))
	}

	if !parallel {
		for i := range witnesses {
			if err := v.verifyOne(witnesses[i], elements[i]); err != nil {
				return annotateIndex(err, i)
			}
		}
		return nil
	}

	var g errgroup.Group
	for i := range witnesses {
		i := i
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = delegerr.New(delegerr.WorkerPanic, fmt.Sprintf("verification worker panicked: %v", r))
				}
			}()
			if verr := v.verifyOne(witnesses[i], elements[i]); verr != nil {
				return annotateIndex(verr, i)
			}
			return nil
		})
	}
	return g.Wait()
}

func annotateIndex(err error, i int) error {
	if de, ok := err.(*delegerr.Error); ok && de.Kind == delegerr.MembershipFailed {
		de.Index = i
		return de
	}
	return err
}
