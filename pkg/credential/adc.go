package credential

import (
	"encoding/json"

	"github.com/transitivedelegationvc/delegation/pkg/delegerr"
)

// ADCTypeTag is the stable type identifier for scheme A credentials, used
// verbatim as the VC envelope's type tag.
const ADCTypeTag = "OurDelegationCredential"

// ADelegator is one hierarchy entry: the issuer at that level, its subject,
// and the accumulator material that proves what was delegated. Wire field
// names (id, sub, iat, exp, av, mw, pw) are fixed and short by design.
type ADelegator struct {
	ID                  string   `json:"id"`
	DelegateeID         string   `json:"sub"`
	IAT                 string   `json:"iat"`
	Exp                 string   `json:"exp"`
	AccumulatorValue    string   `json:"av"`
	MetadataWitnesses   []string `json:"mw"`
	PermissionWitnesses []string `json:"pw"`
}

// ADC is the accumulator-based delegation credential. Permissions and their
// witnesses are parallel slices; the cardinality invariant permission_witnesses
// == len(permissions) must hold for the outer credential and for every
// hierarchy entry, restored by RetainOnly whenever it prunes.
type ADC struct {
	DelegateeID         string       `json:"sub"`
	AccumulatorValue    string       `json:"av"`
	IAT                 string       `json:"iat"`
	Exp                 string       `json:"exp"`
	Permissions         []string     `json:"per"`
	MetadataWitnesses   []string     `json:"mw"`
	PermissionWitnesses []string     `json:"pw"`
	Hierarchy           []ADelegator `json:"hierarchy"`
}

var _ Credential = (*ADC)(nil)

// TypeTag implements Credential.
func (c *ADC) TypeTag() string { return ADCTypeTag }

// ToString implements Credential.
func (c *ADC) ToString() (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", delegerr.Wrap(delegerr.Serialize, "A-DC to json", err)
	}
	return string(b), nil
}

// FromString implements Credential.
func (c *ADC) FromString(s string) error {
	if err := json.Unmarshal([]byte(s), c); err != nil {
		return delegerr.Wrap(delegerr.Deserialize, "A-DC from json", err)
	}
	return nil
}

// ToMap implements Credential.
func (c *ADC) ToMap() (map[string]any, error) {
	s, err := c.ToString()
	if err != nil {
		return nil, err
	}
	m := map[string]any{}
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, delegerr.Wrap(delegerr.Deserialize, "A-DC to map", err)
	}
	return m, nil
}

// FromMap implements Credential.
func (c *ADC) FromMap(m map[string]any) error {
	b, err := json.Marshal(m)
	if err != nil {
		return delegerr.Wrap(delegerr.Serialize, "A-DC from map", err)
	}
	return c.FromString(string(b))
}

// IsEmpty implements Credential.
func (c *ADC) IsEmpty() bool {
	return len(c.Permissions) == 0 || len(c.PermissionWitnesses) == 0
}

// RetainOnly implements Credential: drops every permission not in allowed,
// and in index lock-step the corresponding permission_witnesses entry of the
// outer credential and of every hierarchy entry. Order of kept items is
// preserved; removed indices are returned ascending.
func (c *ADC) RetainOnly(allowed []string) ([]int, error) {
	if len(c.PermissionWitnesses) != len(c.Permissions) {
		return nil, delegerr.New(delegerr.CardinalityMismatch,
			"permission_witnesses length does not match permissions length")
	}
	for _, h := range c.Hierarchy {
		if len(h.PermissionWitnesses) != len(c.Permissions) {
			return nil, delegerr.New(delegerr.CardinalityMismatch,
				"hierarchy entry "+h.ID+" permission_witnesses length mismatch")
		}
	}

	keep := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		keep[a] = struct{}{}
	}

	var removed []int
	var perms, witnesses []string
	hierarchyWitnesses := make([][]string, len(c.Hierarchy))

	for i, p := range c.Permissions {
		if _, ok := keep[p]; !ok {
			removed = append(removed, i)
			continue
		}
		perms = append(perms, p)
		witnesses = append(witnesses, c.PermissionWitnesses[i])
		for h := range c.Hierarchy {
			hierarchyWitnesses[h] = append(hierarchyWitnesses[h], c.Hierarchy[h].PermissionWitnesses[i])
		}
	}

	c.Permissions = perms
	c.PermissionWitnesses = witnesses
	for h := range c.Hierarchy {
		c.Hierarchy[h].PermissionWitnesses = hierarchyWitnesses[h]
	}
	return removed, nil
}
