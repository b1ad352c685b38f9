package directory

import (
	"crypto/ecdh"
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/transitivedelegationvc/delegation/pkg/accumulator"
	"github.com/transitivedelegationvc/delegation/pkg/delegerr"
)

func TestDirectoryALookupUnknown(t *testing.T) {
	d := NewDirectoryA()
	_, err := d.Lookup("did:example:nobody")
	require.Error(t, err)
	require.Equal(t, delegerr.UnknownPresenter, delegerr.KindOf(err))
}

func TestDirectoryAPublishThenLookup(t *testing.T) {
	d := NewDirectoryA()
	params := accumulator.DefaultParams()
	_, pk, err := accumulator.GenerateKeyPair(params)
	require.NoError(t, err)
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	d.Publish("did:example:alice", EntryA{AccumulatorPK: pk, AccumulatorParams: params, VerificationKey: EdDSAJWK("did:example:alice", pub)})

	e, err := d.Lookup("did:example:alice")
	require.NoError(t, err)
	gotPub, err := e.Ed25519PublicKey()
	require.NoError(t, err)
	require.Equal(t, pub, gotPub)
}

func TestDirectoryBLookupOwnerAndPresenter(t *testing.T) {
	d := NewDirectoryB()
	_, err := d.LookupOwner("did:example:owner")
	require.Error(t, err)
	require.Equal(t, delegerr.UnknownOwner, delegerr.KindOf(err))

	_, err = d.LookupPresenter("did:example:owner")
	require.Error(t, err)
	require.Equal(t, delegerr.UnknownPresenter, delegerr.KindOf(err))

	priv, err := ecdh.X25519().GenerateKey(rand.Reader)
	require.NoError(t, err)
	pub, _, genErr := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, genErr)

	d.Publish("did:example:owner", EntryB{
		EncryptionKey:   X25519JWK("did:example:owner", priv.PublicKey()),
		VerificationKey: EdDSAJWK("did:example:owner", pub),
	})

	eo, err := d.LookupOwner("did:example:owner")
	require.NoError(t, err)
	gotEncPub, err := eo.X25519PublicKey()
	require.NoError(t, err)
	require.Equal(t, priv.PublicKey(), gotEncPub)

	ep, err := d.LookupPresenter("did:example:owner")
	require.NoError(t, err)
	gotVerPub, err := ep.Ed25519PublicKey()
	require.NoError(t, err)
	require.Equal(t, pub, gotVerPub)
}

func TestJWKHelpers(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	jwk := EdDSAJWK("did:example:alice", pub)
	require.Equal(t, "did:example:alice", jwk.KeyID)
	require.True(t, jwk.Valid())

	priv, err := ecdh.X25519().GenerateKey(rand.Reader)
	require.NoError(t, err)
	xjwk := X25519JWK("did:example:alice", priv.PublicKey())
	require.Equal(t, "did:example:alice", xjwk.KeyID)
	require.True(t, xjwk.Valid())
}
