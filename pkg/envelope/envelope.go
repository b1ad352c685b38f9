// Package envelope implements the W3C-style Verifiable Credential/Presentation
// container (spec.md §4.5/§4.8, C6) and its compact-JWS presentation codec.
// It is generic over credential.Credential so scheme A and scheme B share one
// envelope implementation.
package envelope

import (
	"crypto/ed25519"
	"encoding/json"

	"github.com/go-jose/go-jose/v4"

	"github.com/transitivedelegationvc/delegation/pkg/credential"
	"github.com/transitivedelegationvc/delegation/pkg/delegerr"
)

// defaultContext is the single W3C credentials context this module emits.
var defaultContext = []string{"https://www.w3.org/ns/credentials/v2"}

// VC is the Verifiable Credential/Presentation envelope, generic over the
// credential shape it carries. The same type serves as both VC and VP: a
// presentation is a VC whose CredentialSubject has been pruned by
// Credential.RetainOnly and which is then signed as a compact JWS.
type VC[T credential.Credential] struct {
	Context           []string `json:"@context"`
	Type              []string `json:"type"`
	ID                string   `json:"id"`
	Issuer            string   `json:"issuer"`
	ValidFrom         string   `json:"validFrom"`
	CredentialSubject T        `json:"credentialSubject"`
}

// New wraps a credential in a VC envelope, tagging Type with the
// credential's own type tag.
func New[T credential.Credential](id, issuer, validFrom string, subject T) VC[T] {
	return VC[T]{
		Context:           defaultContext,
		Type:              []string{subject.TypeTag()},
		ID:                id,
		Issuer:            issuer,
		ValidFrom:         validFrom,
		CredentialSubject: subject,
	}
}

// allowedJWSAlgs pins the presentation envelope to EdDSA. spec.md's own
// history initializes the JWS header with alg "P256" while actually signing
// with an Ed25519 key; a verifier accepting that header literally would
// create an algorithm-substitution hole, so P256 (and anything but EdDSA) is
// rejected here regardless of what a header claims.
var allowedJWSAlgs = []jose.SignatureAlgorithm{jose.EdDSA}

// Sign produces a compact JWS over the canonical JSON of vc, signed with the
// issuer's Ed25519 private key.
func Sign[T credential.Credential](vc VC[T], signingKey ed25519.PrivateKey) (string, error) {
	payload, err := json.Marshal(vc)
	if err != nil {
		return "", delegerr.Wrap(delegerr.Serialize, "VC to json", err)
	}

	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.EdDSA, Key: signingKey}, nil)
	if err != nil {
		return "", delegerr.Wrap(delegerr.JWSInvalid, "construct EdDSA signer", err)
	}

	sig, err := signer.Sign(payload)
	if err != nil {
		return "", delegerr.Wrap(delegerr.JWSInvalid, "sign VC payload", err)
	}

	compact, err := sig.CompactSerialize()
	if err != nil {
		return "", delegerr.Wrap(delegerr.JWSInvalid, "compact-serialize JWS", err)
	}
	return compact, nil
}

// Verify checks a compact JWS against the presenter's Ed25519 public key,
// rejecting any algorithm but EdDSA, and decodes the payload into a VC.
func Verify[T credential.Credential](compactJWS string, verificationKey ed25519.PublicKey) (VC[T], error) {
	var vc VC[T]

	sig, err := jose.ParseSigned(compactJWS, allowedJWSAlgs)
	if err != nil {
		return vc, delegerr.Wrap(delegerr.JWSInvalid, "parse compact JWS", err)
	}
	if len(sig.Signatures) != 1 {
		return vc, delegerr.New(delegerr.JWSInvalid, "expected exactly one JWS signature")
	}
	if alg := sig.Signatures[0].Header.Algorithm; jose.SignatureAlgorithm(alg) != jose.EdDSA {
		return vc, delegerr.New(delegerr.JWSInvalid, "rejected non-EdDSA alg: "+alg)
	}

	payload, err := sig.Verify(verificationKey)
	if err != nil {
		return vc, delegerr.Wrap(delegerr.JWSInvalid, "EdDSA verification failed", err)
	}
	if err := json.Unmarshal(payload, &vc); err != nil {
		return vc, delegerr.Wrap(delegerr.Deserialize, "VC payload from json", err)
	}
	return vc, nil
}
