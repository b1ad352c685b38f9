package schemeb

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/transitivedelegationvc/delegation/pkg/delegerr"
	"github.com/transitivedelegationvc/delegation/pkg/directory"
)

func nowNs() string { return strconv.FormatInt(time.Now().UnixNano(), 10) }

const validityPeriod = "3600000000000"

func TestDepth3ChainOwnerRootDiscloseSubset(t *testing.T) {
	dir := directory.NewDirectoryB()
	d0, err := NewIssuer("did:example:owner", dir) // owner == root issuer
	require.NoError(t, err)
	d1, err := NewIssuer("did:example:d1", dir)
	require.NoError(t, err)
	d2, err := NewIssuer("did:example:d2", dir)
	require.NoError(t, err)

	vc01, err := d0.Issue("vc-01", "1000", "did:example:d1", "did:example:owner",
		"https://example.com/doc", nowNs(), validityPeriod, []string{"p0", "p1", "p2"}, nil, dir)
	require.NoError(t, err)

	vc12, err := d1.Issue("vc-12", "1000", "did:example:d2", "did:example:owner",
		"https://example.com/doc", nowNs(), validityPeriod, []string{"p0", "p1", "p2"}, &vc01, dir)
	require.NoError(t, err)

	vc23, err := d2.Issue("vc-23", "1000", "did:example:d3", "did:example:owner",
		"https://example.com/doc", nowNs(), validityPeriod, []string{"p0", "p1", "p2"}, &vc12, dir)
	require.NoError(t, err)

	// The outer delegator's embedded signature is checked against its own
	// "iss", so the presenter must be that issuer (d2), not the delegatee.
	jws, err := d2.Present(vc23, []string{"p1"})
	require.NoError(t, err)

	_, err = Verify("did:example:owner", "did:example:d2", jws, nowNs(), d0.DecryptKey(), dir, 0)
	require.NoError(t, err)
}

func TestTamperedInnerSignatureFailsAtDepth2(t *testing.T) {
	dir := directory.NewDirectoryB()
	d0, err := NewIssuer("did:example:owner", dir)
	require.NoError(t, err)
	d1, err := NewIssuer("did:example:d1", dir)
	require.NoError(t, err)

	vc01, err := d0.Issue("vc-01", "1000", "did:example:d1", "did:example:owner",
		"https://example.com/doc", nowNs(), validityPeriod, []string{"p0", "p1"}, nil, dir)
	require.NoError(t, err)

	// Corrupt the inner signature before d1 hands it on by tampering the
	// parent VC directly.
	vc01.CredentialSubject.Signature.ED25519Signature = "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

	vc12, err := d1.Issue("vc-12", "1000", "did:example:d2", "did:example:owner",
		"https://example.com/doc", nowNs(), validityPeriod, []string{"p0"}, &vc01, dir)
	require.NoError(t, err)

	// d1 presents as vc12's own issuer, so the outer signature checks out and
	// verification recurses into the tampered vc01 signature one layer in.
	jws, err := d1.Present(vc12, []string{"p0"})
	require.NoError(t, err)

	_, err = Verify("did:example:owner", "did:example:d1", jws, nowNs(), d0.DecryptKey(), dir, 0)
	require.Error(t, err)
	require.Equal(t, delegerr.JWSInvalid, delegerr.KindOf(err))
}

func TestNonOwnerVerifierFailsJWEInvalid(t *testing.T) {
	dir := directory.NewDirectoryB()
	d0, err := NewIssuer("did:example:owner", dir)
	require.NoError(t, err)
	d1, err := NewIssuer("did:example:d1", dir)
	require.NoError(t, err)
	notOwner, err := NewIssuer("did:example:not-owner", dir)
	require.NoError(t, err)

	vc01, err := d0.Issue("vc-01", "1000", "did:example:d1", "did:example:owner",
		"https://example.com/doc", nowNs(), validityPeriod, []string{"p0"}, nil, dir)
	require.NoError(t, err)

	vc12, err := d1.Issue("vc-12", "1000", "did:example:d2", "did:example:owner",
		"https://example.com/doc", nowNs(), validityPeriod, []string{"p0"}, &vc01, dir)
	require.NoError(t, err)

	jws, err := d1.Present(vc12, []string{"p0"})
	require.NoError(t, err)

	// vc12's hierarchy is JWE-encrypted for the owner's key; a non-owner
	// presenting their own X25519 key cannot decrypt it.
	_, err = Verify("did:example:not-owner", "did:example:d1", jws, nowNs(), notOwner.DecryptKey(), dir, 0)
	require.Error(t, err)
	require.Equal(t, delegerr.JWEInvalid, delegerr.KindOf(err))
}

func TestOperationNotInheritedRejected(t *testing.T) {
	dir := directory.NewDirectoryB()
	d0, err := NewIssuer("did:example:owner", dir)
	require.NoError(t, err)
	d1, err := NewIssuer("did:example:d1", dir)
	require.NoError(t, err)

	vc01, err := d0.Issue("vc-01", "1000", "did:example:d1", "did:example:owner",
		"https://example.com/doc", nowNs(), validityPeriod, []string{"p0", "p1"}, nil, dir)
	require.NoError(t, err)

	// scheme B does not enforce operation subsetting at issuance time (only
	// at verification, spec.md §4.9), so this issuance itself succeeds.
	vc12, err := d1.Issue("vc-12", "1000", "did:example:d2", "did:example:owner",
		"https://example.com/doc", nowNs(), validityPeriod, []string{"p9"}, &vc01, dir)
	require.NoError(t, err)

	jws, err := d1.Present(vc12, []string{"p9"})
	require.NoError(t, err)

	_, err = Verify("did:example:owner", "did:example:d1", jws, nowNs(), d0.DecryptKey(), dir, 0)
	require.Error(t, err)
	require.Equal(t, delegerr.OperationNotInherited, delegerr.KindOf(err))
}

func TestExpiredRejected(t *testing.T) {
	dir := directory.NewDirectoryB()
	d0, err := NewIssuer("did:example:owner", dir)
	require.NoError(t, err)

	vc, err := d0.Issue("vc-1", "1000", "did:example:owner", "did:example:owner",
		"https://example.com/doc", "0", "0", []string{"p0"}, nil, dir)
	require.NoError(t, err)

	jws, err := d0.Present(vc, []string{"p0"})
	require.NoError(t, err)

	_, err = Verify("did:example:owner", "did:example:owner", jws, nowNs(), d0.DecryptKey(), dir, 0)
	require.Error(t, err)
	require.Equal(t, delegerr.Expired, delegerr.KindOf(err))
}
