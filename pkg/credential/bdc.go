package credential

import (
	"encoding/json"

	"github.com/transitivedelegationvc/delegation/pkg/delegerr"
)

// BDCTypeTag is the stable type identifier for scheme B credentials, used
// verbatim as the VC envelope's type tag.
const BDCTypeTag = "PJVDelegationCredential"

// BDelegator is the claim set signed at one level of a B-DC chain. Hierarchy
// is either "" (root) or a compact JWE whose plaintext is the canonical JSON
// of the parent B-DC, encrypted for owner's X25519 key.
type BDelegator struct {
	Owner       string   `json:"owner"`
	Iss         string   `json:"iss"`
	Sub         string   `json:"sub"`
	IAT         string   `json:"iat"`
	Exp         string   `json:"exp"`
	ResourceURI string   `json:"uri"`
	Operations  []string `json:"ops"`
	Hierarchy   string   `json:"hierarchy"`
}

// BSignature carries the issuer's EdDSA signature over the canonical JSON of
// the sibling Delegator claim set.
type BSignature struct {
	ED25519Signature string `json:"ED25519Signature"`
}

// BDC is the signature-chained delegation credential ("PJV"). Each layer's
// parent is embedded by value, JWE-encrypted, never by reference.
type BDC struct {
	Delegator BDelegator `json:"claims"`
	Signature BSignature `json:"auth"`
}

var _ Credential = (*BDC)(nil)

// TypeTag implements Credential.
func (c *BDC) TypeTag() string { return BDCTypeTag }

// ToString implements Credential.
func (c *BDC) ToString() (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", delegerr.Wrap(delegerr.Serialize, "B-DC to json", err)
	}
	return string(b), nil
}

// FromString implements Credential.
func (c *BDC) FromString(s string) error {
	if err := json.Unmarshal([]byte(s), c); err != nil {
		return delegerr.Wrap(delegerr.Deserialize, "B-DC from json", err)
	}
	return nil
}

// ToMap implements Credential.
func (c *BDC) ToMap() (map[string]any, error) {
	s, err := c.ToString()
	if err != nil {
		return nil, err
	}
	m := map[string]any{}
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, delegerr.Wrap(delegerr.Deserialize, "B-DC to map", err)
	}
	return m, nil
}

// FromMap implements Credential.
func (c *BDC) FromMap(m map[string]any) error {
	b, err := json.Marshal(m)
	if err != nil {
		return delegerr.Wrap(delegerr.Serialize, "B-DC from map", err)
	}
	return c.FromString(string(b))
}

// IsEmpty implements Credential.
func (c *BDC) IsEmpty() bool {
	return len(c.Delegator.Operations) == 0 || c.Delegator.ResourceURI == ""
}

// RetainOnly implements Credential: drops every operation not in allowed,
// preserving order, returning the ascending removed indices. The caller is
// responsible for re-signing the Delegator claim set afterward — RetainOnly
// only mutates claims, since the signature belongs to the issuer, not to the
// holder doing the pruning.
func (c *BDC) RetainOnly(allowed []string) ([]int, error) {
	keep := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		keep[a] = struct{}{}
	}

	var removed []int
	var ops []string
	for i, op := range c.Delegator.Operations {
		if _, ok := keep[op]; !ok {
			removed = append(removed, i)
			continue
		}
		ops = append(ops, op)
	}
	c.Delegator.Operations = ops
	return removed, nil
}
