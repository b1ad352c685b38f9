// Package accumulator implements a pairing-based positive membership
// accumulator over BN254: the exact multiset state (C2), the single-owner
// manager that mutates it under a secret key (C3), and the stateless
// verifier that checks membership witnesses against a published value (C4).
package accumulator

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/transitivedelegationvc/delegation/pkg/delegerr"
	"github.com/transitivedelegationvc/delegation/pkg/scalarcode"
)

// Manager owns a positive accumulator under a delegator's secret key. It is
// single-owner and single-threaded; callers must serialize mutations
// externally (spec.md §4.3 / §5).
type Manager struct {
	sk     fr.Element
	params Params
	value  bn254.G1Affine // base point G1Gen at construction, empty-set value
	state  *state
}

// New constructs a Manager whose accumulator starts at params.G1Gen, the
// empty-set value (not the group identity).
func New(sk fr.Element, params Params) *Manager {
	return &Manager{sk: sk, params: params, value: params.G1Gen, state: newState()}
}

func (m *Manager) factor(x fr.Element) fr.Element {
	var f fr.Element
	f.Add(&x, &m.sk)
	return f
}

func scalarMul(p bn254.G1Affine, f fr.Element) bn254.G1Affine {
	var out bn254.G1Affine
	n := new(big.Int)
	f.BigInt(n)
	out.ScalarMultiplication(&p, n)
	return out
}

// Add accumulates x, failing AlreadyPresent if it is already a member.
func (m *Manager) Add(x fr.Element) error {
	if err := m.state.add(x); err != nil {
		return err
	}
	m.value = scalarMul(m.value, m.factor(x))
	return nil
}

// AddBatch accumulates every element of xs, atomically: if any element is
// already present (in the state, or duplicated within xs itself), no
// elements are added.
func (m *Manager) AddBatch(xs []fr.Element) error {
	seen := make(map[fr.Element]struct{}, len(xs))
	for _, x := range xs {
		if m.state.has(x) {
			return delegerr.New(delegerr.AlreadyPresent, "batch add: element already accumulated")
		}
		if _, dup := seen[x]; dup {
			return delegerr.New(delegerr.AlreadyPresent, "batch add: duplicate element within batch")
		}
		seen[x] = struct{}{}
	}
	for _, x := range xs {
		if err := m.Add(x); err != nil {
			return err
		}
	}
	return nil
}

// Remove is the inverse of Add, failing Absent if x was never a member.
func (m *Manager) Remove(x fr.Element) error {
	if err := m.state.remove(x); err != nil {
		return err
	}
	f := m.factor(x)
	var inv fr.Element
	inv.Inverse(&f)
	m.value = scalarMul(m.value, inv)
	return nil
}

// RemoveBatch is the atomic inverse of AddBatch.
func (m *Manager) RemoveBatch(xs []fr.Element) error {
	seen := make(map[fr.Element]struct{}, len(xs))
	for _, x := range xs {
		if !m.state.has(x) {
			return delegerr.New(delegerr.Absent, "batch remove: element not accumulated")
		}
		if _, dup := seen[x]; dup {
			return delegerr.New(delegerr.Absent, "batch remove: duplicate element within batch")
		}
		seen[x] = struct{}{}
	}
	for _, x := range xs {
		if err := m.Remove(x); err != nil {
			return err
		}
	}
	return nil
}

// Value returns the serialized (compressed, base64url) accumulator value.
func (m *Manager) Value() string {
	return scalarcode.EncodeG1(m.value)
}

// Witness computes the membership witness for x: w = (x+sk)⁻¹·value. x must
// already be a member.
func (m *Manager) Witness(x fr.Element) (string, error) {
	if !m.state.has(x) {
		return "", delegerr.New(delegerr.Absent, "witness requested for non-member element")
	}
	f := m.factor(x)
	var inv fr.Element
	inv.Inverse(&f)
	w := scalarMul(m.value, inv)
	return scalarcode.EncodeG1(w), nil
}

// Witnesses computes the per-element batch witnesses in input order.
func (m *Manager) Witnesses(xs []fr.Element) ([]string, error) {
	out := make([]string, len(xs))
	for i, x := range xs {
		w, err := m.Witness(x)
		if err != nil {
			return nil, err
		}
		out[i] = w
	}
	return out, nil
}

// PublicKey returns sk·G2Gen, the accumulator's public verification key.
func (m *Manager) PublicKey() bn254.G2Affine {
	var pk bn254.G2Affine
	n := new(big.Int)
	m.sk.BigInt(n)
	pk.ScalarMultiplication(&m.params.G2Gen, n)
	return pk
}

// Params returns the setup parameters this accumulator was built over.
func (m *Manager) Params() Params { return m.params }
