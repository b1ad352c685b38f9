// Package directory models the process-local "DLT": a shared map from
// delegator id to the key material that delegator has published. Writers
// are issuer constructors; readers are verifiers and sibling issuers. A
// single-writer/many-reader policy is sufficient (spec.md §5) — writes only
// happen during setup and are never re-entered during verification.
package directory

import (
	"crypto/ecdh"
	"crypto/ed25519"
	"sync"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/go-jose/go-jose/v4"

	"github.com/transitivedelegationvc/delegation/pkg/accumulator"
	"github.com/transitivedelegationvc/delegation/pkg/delegerr"
)

// EntryA is the scheme A key material published by a delegator: its
// accumulator public key and setup parameters, plus the Ed25519 key it
// signs presentations with, carried as an ed25519_pub_jwk (spec.md §6).
type EntryA struct {
	AccumulatorPK     bn254.G2Affine
	AccumulatorParams accumulator.Params
	VerificationKey   jose.JSONWebKey
}

// Ed25519PublicKey unwraps e's verification key from its JWK form.
func (e EntryA) Ed25519PublicKey() (ed25519.PublicKey, error) {
	pub, ok := e.VerificationKey.Key.(ed25519.PublicKey)
	if !ok {
		return nil, delegerr.New(delegerr.Deserialize, "directory entry verification key is not an ed25519 key")
	}
	return pub, nil
}

// EntryB is the scheme B key material published by a delegator: its X25519
// public encryption key (for JWE hierarchy wrapping) and Ed25519 verification key,
// carried as x25519_pub_jwk / ed25519_pub_jwk (spec.md §6).
type EntryB struct {
	EncryptionKey   jose.JSONWebKey
	VerificationKey jose.JSONWebKey
}

// X25519PublicKey unwraps e's encryption key from its JWK form.
func (e EntryB) X25519PublicKey() (*ecdh.PublicKey, error) {
	pub, ok := e.EncryptionKey.Key.(*ecdh.PublicKey)
	if !ok {
		return nil, delegerr.New(delegerr.Deserialize, "directory entry encryption key is not an x25519 key")
	}
	return pub, nil
}

// Ed25519PublicKey unwraps e's verification key from its JWK form.
func (e EntryB) Ed25519PublicKey() (ed25519.PublicKey, error) {
	pub, ok := e.VerificationKey.Key.(ed25519.PublicKey)
	if !ok {
		return nil, delegerr.New(delegerr.Deserialize, "directory entry verification key is not an ed25519 key")
	}
	return pub, nil
}

// DirectoryA is the scheme A key directory: id -> (accumulator_pk,
// setup_params) and id -> ed25519_pub_jwk (spec.md §6).
type DirectoryA struct {
	mu      sync.RWMutex
	entries map[string]EntryA
}

// NewDirectoryA constructs an empty scheme A directory.
func NewDirectoryA() *DirectoryA {
	return &DirectoryA{entries: make(map[string]EntryA)}
}

// Publish registers id's key material. Called once by an issuer's
// constructor; re-publishing under the same id overwrites the prior entry.
func (d *DirectoryA) Publish(id string, entry EntryA) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries[id] = entry
}

// Lookup returns id's published key material, or UnknownPresenter if id was
// never published.
func (d *DirectoryA) Lookup(id string) (EntryA, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, ok := d.entries[id]
	if !ok {
		return EntryA{}, delegerr.New(delegerr.UnknownPresenter, "unknown delegator id: "+id)
	}
	return e, nil
}

// DirectoryB is the scheme B key directory: id -> x25519_pub_jwk and
// id -> ed25519_pub_jwk (spec.md §6).
type DirectoryB struct {
	mu      sync.RWMutex
	entries map[string]EntryB
}

// NewDirectoryB constructs an empty scheme B directory.
func NewDirectoryB() *DirectoryB {
	return &DirectoryB{entries: make(map[string]EntryB)}
}

// Publish registers id's key material.
func (d *DirectoryB) Publish(id string, entry EntryB) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries[id] = entry
}

// LookupOwner returns id's encryption key, or UnknownOwner if id was never
// published (spec.md §4.9's owner lookup on issuance).
func (d *DirectoryB) LookupOwner(id string) (EntryB, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, ok := d.entries[id]
	if !ok {
		return EntryB{}, delegerr.New(delegerr.UnknownOwner, "unknown owner id: "+id)
	}
	return e, nil
}

// LookupPresenter returns id's key material, or UnknownPresenter if id was
// never published (spec.md §4.7/§4.9's verification-key lookup).
func (d *DirectoryB) LookupPresenter(id string) (EntryB, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, ok := d.entries[id]
	if !ok {
		return EntryB{}, delegerr.New(delegerr.UnknownPresenter, "unknown delegator id: "+id)
	}
	return e, nil
}

// EdDSAJWK wraps an Ed25519 public key as an OKP JSON Web Key, matching the
// ed25519_pub_jwk naming of spec.md §6.
func EdDSAJWK(id string, pub ed25519.PublicKey) jose.JSONWebKey {
	return jose.JSONWebKey{Key: pub, KeyID: id, Algorithm: string(jose.EdDSA), Use: "sig"}
}

// X25519JWK wraps an X25519 public key as an OKP JSON Web Key, matching the
// x25519_pub_jwk naming of spec.md §6.
func X25519JWK(id string, pub *ecdh.PublicKey) jose.JSONWebKey {
	return jose.JSONWebKey{Key: pub, KeyID: id, Algorithm: string(jose.ECDH_ES_A128KW), Use: "enc"}
}
