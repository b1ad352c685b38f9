package schemeb

import (
	"crypto/ecdh"
	"encoding/json"

	"github.com/go-jose/go-jose/v4"

	"github.com/transitivedelegationvc/delegation/pkg/credential"
	"github.com/transitivedelegationvc/delegation/pkg/delegerr"
)

// encryptHierarchy canonical-serializes parent and encrypts it for the
// owner's X25519 public key as a compact JWE: ECDH-ES+A128KW key wrap over
// an A128GCM content encryption (spec.md §4.9 step 3).
func encryptHierarchy(parent *credential.BDC, ownerPub *ecdh.PublicKey) (string, error) {
	plaintext, err := json.Marshal(parent)
	if err != nil {
		return "", delegerr.Wrap(delegerr.Serialize, "B-DC to json for JWE plaintext", err)
	}

	encrypter, err := jose.NewEncrypter(
		jose.A128GCM,
		jose.Recipient{Algorithm: jose.ECDH_ES_A128KW, Key: ownerPub},
		nil,
	)
	if err != nil {
		return "", delegerr.Wrap(delegerr.JWEInvalid, "construct ECDH-ES+A128KW encrypter", err)
	}

	obj, err := encrypter.Encrypt(plaintext)
	if err != nil {
		return "", delegerr.Wrap(delegerr.JWEInvalid, "encrypt hierarchy", err)
	}

	compact, err := obj.CompactSerialize()
	if err != nil {
		return "", delegerr.Wrap(delegerr.JWEInvalid, "compact-serialize JWE", err)
	}
	return compact, nil
}

// decryptHierarchy inverts encryptHierarchy using the verifying owner's
// X25519 private key. Only the owner can succeed here, which is the scheme's
// enforcement that B verification must be performed by the resource owner.
func decryptHierarchy(compact string, ownerPriv *ecdh.PrivateKey) (*credential.BDC, error) {
	obj, err := jose.ParseEncrypted(compact, []jose.KeyAlgorithm{jose.ECDH_ES_A128KW}, []jose.ContentEncryption{jose.A128GCM})
	if err != nil {
		return nil, delegerr.Wrap(delegerr.JWEInvalid, "parse compact JWE", err)
	}

	plaintext, err := obj.Decrypt(ownerPriv)
	if err != nil {
		return nil, delegerr.Wrap(delegerr.JWEInvalid, "decrypt hierarchy", err)
	}

	var parent credential.BDC
	if err := json.Unmarshal(plaintext, &parent); err != nil {
		return nil, delegerr.Wrap(delegerr.Deserialize, "parent B-DC from json", err)
	}
	return &parent, nil
}
