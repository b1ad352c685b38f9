package accumulator

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"

	"github.com/transitivedelegationvc/delegation/pkg/scalarcode"
)

func newManager(t *testing.T) (*Manager, Params) {
	t.Helper()
	params := DefaultParams()
	sk, _, err := GenerateKeyPair(params)
	require.NoError(t, err)
	return New(sk, params), params
}

func TestAddThenWitnessVerifies(t *testing.T) {
	m, params := newManager(t)
	x := scalarcode.ToScalar("permission:read")

	require.NoError(t, m.Add(x))
	w, err := m.Witness(x)
	require.NoError(t, err)

	v, err := NewVerifier(m.Value(), m.PublicKey(), params)
	require.NoError(t, err)
	require.NoError(t, v.VerifyBatch([]string{w}, []string{scalarcode.EncodeScalar(x)}, false))
}

func TestDuplicateAddFails(t *testing.T) {
	m, _ := newManager(t)
	x := scalarcode.ToScalar("dup")
	require.NoError(t, m.Add(x))
	require.Error(t, m.Add(x))
}

func TestRemoveAbsentFails(t *testing.T) {
	m, _ := newManager(t)
	require.Error(t, m.Remove(scalarcode.ToScalar("never-added")))
}

func TestBatchAddIsAtomicOnDuplicate(t *testing.T) {
	m, _ := newManager(t)
	a := scalarcode.ToScalar("a")
	b := scalarcode.ToScalar("b")
	require.NoError(t, m.Add(a))

	err := m.AddBatch([]fr.Element{a, b})
	require.Error(t, err)
	require.False(t, m.state.has(b), "no elements should be added when the batch fails atomically")
}

func TestStaleWitnessFailsAfterMutation(t *testing.T) {
	m, params := newManager(t)
	x := scalarcode.ToScalar("x")
	y := scalarcode.ToScalar("y")
	require.NoError(t, m.Add(x))
	staleValue := m.Value()
	w, err := m.Witness(x)
	require.NoError(t, err)

	require.NoError(t, m.Add(y))

	v, err := NewVerifier(m.Value(), m.PublicKey(), params)
	require.NoError(t, err)
	require.Error(t, v.VerifyBatch([]string{w}, []string{scalarcode.EncodeScalar(x)}, false))

	// but the stale witness still verifies against the stale value
	vStale, err := NewVerifier(staleValue, m.PublicKey(), params)
	require.NoError(t, err)
	require.NoError(t, vStale.VerifyBatch([]string{w}, []string{scalarcode.EncodeScalar(x)}, false))
}

func TestVerifyBatchLengthMismatch(t *testing.T) {
	m, params := newManager(t)
	v, err := NewVerifier(m.Value(), m.PublicKey(), params)
	require.NoError(t, err)
	err = v.VerifyBatch([]string{"a"}, nil, false)
	require.Error(t, err)
}

func TestVerifyBatchParallelMatchesSequential(t *testing.T) {
	m, params := newManager(t)
	var elements []fr.Element
	for _, s := range []string{"p0", "p1", "p2", "p3"} {
		elements = append(elements, scalarcode.ToScalar(s))
	}
	require.NoError(t, m.AddBatch(elements))

	witnesses, err := m.Witnesses(elements)
	require.NoError(t, err)
	encodedElements := make([]string, len(elements))
	for i, e := range elements {
		encodedElements[i] = scalarcode.EncodeScalar(e)
	}

	v, err := NewVerifier(m.Value(), m.PublicKey(), params)
	require.NoError(t, err)
	require.NoError(t, v.VerifyBatch(witnesses, encodedElements, false))
	require.NoError(t, v.VerifyBatch(witnesses, encodedElements, true))
}

func TestVerifyBatchFlippedWitnessByteFails(t *testing.T) {
	m, params := newManager(t)
	x := scalarcode.ToScalar("flip-me")
	require.NoError(t, m.Add(x))
	w, err := m.Witness(x)
	require.NoError(t, err)

	tampered := []byte(w)
	tampered[0] ^= 0xFF

	v, err := NewVerifier(m.Value(), m.PublicKey(), params)
	require.NoError(t, err)
	err = v.VerifyBatch([]string{string(tampered)}, []string{scalarcode.EncodeScalar(x)}, false)
	require.Error(t, err)
}
