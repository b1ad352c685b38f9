package credential

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleADC() *ADC {
	return &ADC{
		DelegateeID:      "did:example:bob",
		AccumulatorValue: "AAAA",
		IAT:              "1000",
		Exp:              "2000",
		Permissions:      []string{"read", "write", "delete"},
		MetadataWitnesses: []string{
			"w-delegatee", "w-iat", "w-exp",
		},
		PermissionWitnesses: []string{"w-read", "w-write", "w-delete"},
		Hierarchy: []ADelegator{
			{
				ID:                  "did:example:alice",
				DelegateeID:         "did:example:bob",
				IAT:                 "500",
				Exp:                 "3000",
				AccumulatorValue:    "BBBB",
				MetadataWitnesses:   []string{"hw-delegatee", "hw-iat", "hw-exp"},
				PermissionWitnesses: []string{"hw-read", "hw-write", "hw-delete"},
			},
		},
	}
}

func TestADCRoundTripString(t *testing.T) {
	c := sampleADC()
	s, err := c.ToString()
	require.NoError(t, err)

	var out ADC
	require.NoError(t, out.FromString(s))
	require.Equal(t, c, &out)
}

func TestADCRoundTripMap(t *testing.T) {
	c := sampleADC()
	m, err := c.ToMap()
	require.NoError(t, err)

	var out ADC
	require.NoError(t, out.FromMap(m))
	require.Equal(t, c, &out)
}

func TestADCRetainOnlyPrunesInLockstep(t *testing.T) {
	c := sampleADC()
	removed, err := c.RetainOnly([]string{"read", "delete"})
	require.NoError(t, err)
	require.Equal(t, []int{1}, removed)

	require.Equal(t, []string{"read", "delete"}, c.Permissions)
	require.Equal(t, []string{"w-read", "w-delete"}, c.PermissionWitnesses)
	require.Equal(t, []string{"hw-read", "hw-delete"}, c.Hierarchy[0].PermissionWitnesses)
	require.False(t, c.IsEmpty())
}

func TestADCRetainOnlyToEmpty(t *testing.T) {
	c := sampleADC()
	_, err := c.RetainOnly(nil)
	require.NoError(t, err)
	require.True(t, c.IsEmpty())
}

func TestADCRetainOnlyRejectsCardinalityMismatch(t *testing.T) {
	c := sampleADC()
	c.PermissionWitnesses = c.PermissionWitnesses[:1]
	_, err := c.RetainOnly([]string{"read"})
	require.Error(t, err)
}

func TestADCTypeTag(t *testing.T) {
	require.Equal(t, "OurDelegationCredential", (&ADC{}).TypeTag())
}

func sampleBDC() *BDC {
	return &BDC{
		Delegator: BDelegator{
			Owner:       "did:example:owner",
			Iss:         "did:example:alice",
			Sub:         "did:example:bob",
			IAT:         "1000",
			Exp:         "2000",
			ResourceURI: "https://example.com/doc/1",
			Operations:  []string{"read", "write"},
			Hierarchy:   "",
		},
		Signature: BSignature{ED25519Signature: "c2ln"},
	}
}

func TestBDCRoundTripString(t *testing.T) {
	c := sampleBDC()
	s, err := c.ToString()
	require.NoError(t, err)

	var out BDC
	require.NoError(t, out.FromString(s))
	require.Equal(t, c, &out)
}

func TestBDCRoundTripMap(t *testing.T) {
	c := sampleBDC()
	m, err := c.ToMap()
	require.NoError(t, err)

	var out BDC
	require.NoError(t, out.FromMap(m))
	require.Equal(t, c, &out)
}

func TestBDCRetainOnlyPrunesOperations(t *testing.T) {
	c := sampleBDC()
	removed, err := c.RetainOnly([]string{"read"})
	require.NoError(t, err)
	require.Equal(t, []int{1}, removed)
	require.Equal(t, []string{"read"}, c.Delegator.Operations)
}

func TestBDCIsEmpty(t *testing.T) {
	c := sampleBDC()
	require.False(t, c.IsEmpty())
	c.Delegator.ResourceURI = ""
	require.True(t, c.IsEmpty())
}

func TestBDCTypeTag(t *testing.T) {
	require.Equal(t, "PJVDelegationCredential", (&BDC{}).TypeTag())
}
