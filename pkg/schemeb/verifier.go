package schemeb

import (
	"crypto/ecdh"
	"crypto/ed25519"
	"encoding/json"

	"github.com/transitivedelegationvc/delegation/pkg/credential"
	"github.com/transitivedelegationvc/delegation/pkg/delegerr"
	"github.com/transitivedelegationvc/delegation/pkg/directory"
	"github.com/transitivedelegationvc/delegation/pkg/dlog"
	"github.com/transitivedelegationvc/delegation/pkg/envelope"
	"github.com/transitivedelegationvc/delegation/pkg/timing"
)

// DefaultMaxChainDepth bounds scheme B's recursive hierarchy decryption
// against a malicious self-referential hierarchy, per spec.md §9's Open
// Question that a depth bound MUST be enforced by the implementer.
const DefaultMaxChainDepth = 64

// Verify decodes and checks a scheme B presentation (spec.md §4.9): the
// outer compact JWS, then recursively the EdDSA signature, timing, and
// operation-inheritance of every layer down to the terminal root, which must
// be owned and issued by selfID. ownerPriv must be selfID's X25519 private
// key; maxDepth <= 0 uses DefaultMaxChainDepth.
func Verify(selfID, presenterID, jws, nowNs string, ownerPriv *ecdh.PrivateKey, dir *directory.DirectoryB, maxDepth int) (VC, error) {
	return VerifyWithLogger(selfID, presenterID, jws, nowNs, ownerPriv, dir, maxDepth, nil)
}

// VerifyWithLogger is Verify with an optional structured logger; the final
// accept/reject outcome is logged at debug/warn level.
func VerifyWithLogger(selfID, presenterID, jws, nowNs string, ownerPriv *ecdh.PrivateKey, dir *directory.DirectoryB, maxDepth int, logger *dlog.Logger) (VC, error) {
	logger = logger.Component("schemeb")
	if maxDepth <= 0 {
		maxDepth = DefaultMaxChainDepth
	}

	presenterEntry, err := dir.LookupPresenter(presenterID)
	if err != nil {
		logger.Warn("verify: unknown presenter", "presenter", presenterID)
		return VC{}, err
	}

	presenterKey, err := presenterEntry.Ed25519PublicKey()
	if err != nil {
		logger.Warn("verify: presenter key malformed", "presenter", presenterID)
		return VC{}, err
	}
	vp, err := envelope.Verify[*credential.BDC](jws, presenterKey)
	if err != nil {
		logger.Warn("verify: envelope rejected", "err", err)
		return VC{}, err
	}

	if _, err := verifyChain(vp.CredentialSubject.Delegator, vp.CredentialSubject.Signature,
		selfID, ownerPriv, dir, nowNs, maxDepth, 0); err != nil {
		logger.Warn("verify: chain rejected", "err", err)
		return VC{}, err
	}
	logger.Debug("verify: ok", "presenter", presenterID)
	return vp, nil
}

func verifyChain(
	current credential.BDelegator,
	sig credential.BSignature,
	selfID string,
	ownerPriv *ecdh.PrivateKey,
	dir *directory.DirectoryB,
	nowNs string,
	maxDepth, depth int,
) (credential.BDelegator, error) {
	if depth >= maxDepth {
		return credential.BDelegator{}, delegerr.New(delegerr.ChainTooDeep, "scheme B hierarchy exceeds maximum chain depth")
	}

	if err := timing.VerifyTimings(nowNs, current.IAT, current.Exp); err != nil {
		return credential.BDelegator{}, err
	}

	issEntry, err := dir.LookupPresenter(current.Iss)
	if err != nil {
		return credential.BDelegator{}, err
	}
	issKey, err := issEntry.Ed25519PublicKey()
	if err != nil {
		return credential.BDelegator{}, err
	}
	if err := verifyDelegatorSignature(current, sig, issKey); err != nil {
		return credential.BDelegator{}, err
	}

	if current.Hierarchy == "" {
		if !(selfID == current.Owner && current.Owner == current.Iss) {
			return credential.BDelegator{}, delegerr.New(delegerr.InvalidRoot,
				"terminal B-DC's owner/issuer/self-id do not all match")
		}
		return current, nil
	}

	parentDC, err := decryptHierarchy(current.Hierarchy, ownerPriv)
	if err != nil {
		return credential.BDelegator{}, err
	}

	parent, err := verifyChain(parentDC.Delegator, parentDC.Signature, selfID, ownerPriv, dir, nowNs, maxDepth, depth+1)
	if err != nil {
		return credential.BDelegator{}, err
	}

	granted := make(map[string]struct{}, len(parent.Operations))
	for _, op := range parent.Operations {
		granted[op] = struct{}{}
	}
	for _, op := range current.Operations {
		if _, ok := granted[op]; !ok {
			return credential.BDelegator{}, delegerr.New(delegerr.OperationNotInherited,
				"operation not present in parent's operations: "+op)
		}
	}
	if current.Iss != parent.Sub {
		return credential.BDelegator{}, delegerr.New(delegerr.ChainBroken, "delegator.iss does not equal parent.sub")
	}

	return current, nil
}

func verifyDelegatorSignature(d credential.BDelegator, sig credential.BSignature, verificationKey ed25519.PublicKey) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return delegerr.Wrap(delegerr.Serialize, "delegator to json", err)
	}
	raw, err := enc.DecodeString(sig.ED25519Signature)
	if err != nil {
		return delegerr.Wrap(delegerr.Decoding, "signature base64url", err)
	}
	if !ed25519.Verify(verificationKey, payload, raw) {
		return delegerr.New(delegerr.JWSInvalid, "delegator EdDSA signature does not verify")
	}
	return nil
}
