// Package schemeb implements the EdDSA-chained delegation scheme whose
// hierarchy is carried as a JWE-wrapped parent credential, encrypted for the
// resource owner (spec.md §4.9, C8).
package schemeb

import (
	"crypto/ecdh"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"math/big"

	"github.com/transitivedelegationvc/delegation/pkg/credential"
	"github.com/transitivedelegationvc/delegation/pkg/delegerr"
	"github.com/transitivedelegationvc/delegation/pkg/directory"
	"github.com/transitivedelegationvc/delegation/pkg/dlog"
	"github.com/transitivedelegationvc/delegation/pkg/envelope"
)

// VC is the envelope shape scheme B carries its credentials and
// presentations in.
type VC = envelope.VC[*credential.BDC]

var enc = base64.RawURLEncoding

// Issuer is one delegator in a scheme B chain. It owns an Ed25519 signing
// key pair (the verification half is published) and an X25519 key pair
// (published so others may encrypt a hierarchy for it, if it is ever an
// owner).
type Issuer struct {
	ID         string
	signingKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey
	decryptKey *ecdh.PrivateKey
	encryptKey *ecdh.PublicKey
	logger     *dlog.Logger
}

// NewIssuer generates fresh Ed25519 and X25519 keys for id and publishes
// both public halves to dir. It issues silently; use NewIssuerWithLogger for
// a component that logs issuance outcomes.
func NewIssuer(id string, dir *directory.DirectoryB) (*Issuer, error) {
	return NewIssuerWithLogger(id, dir, nil)
}

// NewIssuerWithLogger is NewIssuer with an optional structured logger. A nil
// logger is accepted and every log call below becomes a no-op.
func NewIssuerWithLogger(id string, dir *directory.DirectoryB, logger *dlog.Logger) (*Issuer, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, delegerr.Wrap(delegerr.Serialize, "generate issuer signing key", err)
	}
	xPriv, err := ecdh.X25519().GenerateKey(rand.Reader)
	if err != nil {
		return nil, delegerr.Wrap(delegerr.Serialize, "generate issuer encryption key", err)
	}

	iss := &Issuer{
		ID: id, signingKey: priv, publicKey: pub, decryptKey: xPriv, encryptKey: xPriv.PublicKey(),
		logger: logger.Component("schemeb"),
	}
	dir.Publish(id, directory.EntryB{
		EncryptionKey:   directory.X25519JWK(id, xPriv.PublicKey()),
		VerificationKey: directory.EdDSAJWK(id, pub),
	})
	return iss, nil
}

// signDelegator returns the base64url(raw signature) over the canonical
// JSON of d.
func (iss *Issuer) signDelegator(d credential.BDelegator) (string, error) {
	payload, err := json.Marshal(d)
	if err != nil {
		return "", delegerr.Wrap(delegerr.Serialize, "delegator to json", err)
	}
	sig := ed25519.Sign(iss.signingKey, payload)
	return enc.EncodeToString(sig), nil
}

// Issue builds a new B-DC delegating operations to delegateeID. parent, if
// present, is the B-VC this issuer itself holds; ownerID identifies the
// resource owner the new hierarchy link is encrypted for, whose X25519 key is
// looked up in dir.
func (iss *Issuer) Issue(
	credentialID, validFrom, delegateeID, ownerID, resourceURI, nowNs, validityPeriodNs string,
	operations []string,
	parent *VC,
	dir *directory.DirectoryB,
) (VC, error) {
	if len(operations) == 0 {
		return VC{}, delegerr.New(delegerr.EmptyOperations, "issue: operations must not be empty")
	}

	iat, ok := new(big.Int).SetString(nowNs, 10)
	if !ok {
		return VC{}, delegerr.New(delegerr.ParseError, "issue: unparseable now_ns")
	}
	period, ok := new(big.Int).SetString(validityPeriodNs, 10)
	if !ok {
		return VC{}, delegerr.New(delegerr.ParseError, "issue: unparseable validity_period_ns")
	}
	exp := new(big.Int).Add(iat, period)

	hierarchy := ""
	if parent != nil {
		ownerEntry, err := dir.LookupOwner(ownerID)
		if err != nil {
			return VC{}, err
		}
		ownerPub, err := ownerEntry.X25519PublicKey()
		if err != nil {
			return VC{}, err
		}
		hierarchy, err = encryptHierarchy(parent.CredentialSubject, ownerPub)
		if err != nil {
			return VC{}, err
		}
	}

	delegator := credential.BDelegator{
		Owner:       ownerID,
		Iss:         iss.ID,
		Sub:         delegateeID,
		IAT:         iat.String(),
		Exp:         exp.String(),
		ResourceURI: resourceURI,
		Operations:  append([]string{}, operations...),
		Hierarchy:   hierarchy,
	}

	sig, err := iss.signDelegator(delegator)
	if err != nil {
		return VC{}, err
	}

	dc := &credential.BDC{Delegator: delegator, Signature: credential.BSignature{ED25519Signature: sig}}
	iss.logger.Debug("issue: ok", "iat", delegator.IAT, "exp", delegator.Exp, "operations", len(operations))
	return envelope.New(credentialID, iss.ID, validFrom, dc), nil
}

// Present constructs a presentation disclosing only disclosed operations,
// re-signs the pruned delegator (spec.md §4.9 Present), and signs the whole
// VP as a compact JWS (§4.8). iss must be vc's own outer delegator issuer:
// verifyChain checks the re-signed delegator against delegator.iss's
// published key, so the delegatee cannot present on the issuer's behalf.
func (iss *Issuer) Present(vc VC, disclosed []string) (string, error) {
	presented := vc
	dc := cloneBDC(vc.CredentialSubject)
	if _, err := dc.RetainOnly(disclosed); err != nil {
		return "", err
	}
	if dc.IsEmpty() {
		return "", delegerr.New(delegerr.EmptyOperations, "present: nothing left to disclose")
	}

	sig, err := iss.signDelegator(dc.Delegator)
	if err != nil {
		return "", err
	}
	dc.Signature = credential.BSignature{ED25519Signature: sig}

	presented.CredentialSubject = dc
	return envelope.Sign(presented, iss.signingKey)
}

// PublicKey returns the issuer's Ed25519 verification key.
func (iss *Issuer) PublicKey() ed25519.PublicKey { return iss.publicKey }

// DecryptKey returns the issuer's X25519 private key, needed to verify a
// scheme B chain for which this issuer is the resource owner.
func (iss *Issuer) DecryptKey() *ecdh.PrivateKey { return iss.decryptKey }

func cloneBDC(dc *credential.BDC) *credential.BDC {
	return &credential.BDC{
		Delegator: credential.BDelegator{
			Owner:       dc.Delegator.Owner,
			Iss:         dc.Delegator.Iss,
			Sub:         dc.Delegator.Sub,
			IAT:         dc.Delegator.IAT,
			Exp:         dc.Delegator.Exp,
			ResourceURI: dc.Delegator.ResourceURI,
			Operations:  append([]string{}, dc.Delegator.Operations...),
			Hierarchy:   dc.Delegator.Hierarchy,
		},
		Signature: dc.Signature,
	}
}
