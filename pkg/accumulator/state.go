package accumulator

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/transitivedelegationvc/delegation/pkg/delegerr"
)

// state is an exact in-memory multiset of accumulated scalars: an element
// may be present at most once. fr.Element is a comparable [4]uint64 array in
// its canonical (Montgomery) form, so it is used directly as a map key.
type state struct {
	members map[fr.Element]struct{}
}

func newState() *state {
	return &state{members: make(map[fr.Element]struct{})}
}

func (s *state) has(x fr.Element) bool {
	_, ok := s.members[x]
	return ok
}

func (s *state) add(x fr.Element) error {
	if s.has(x) {
		return delegerr.New(delegerr.AlreadyPresent, "element already accumulated")
	}
	s.members[x] = struct{}{}
	return nil
}

func (s *state) remove(x fr.Element) error {
	if !s.has(x) {
		return delegerr.New(delegerr.Absent, "element not accumulated")
	}
	delete(s.members, x)
	return nil
}
