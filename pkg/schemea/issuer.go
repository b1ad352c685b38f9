// Package schemea implements the accumulator-based delegation scheme: the
// issuer that builds A-DCs along a chain and the verifier that checks every
// accumulator witness in that chain (spec.md §4.6/§4.7, C7).
package schemea

import (
	"crypto/ed25519"
	"crypto/rand"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/transitivedelegationvc/delegation/pkg/accumulator"
	"github.com/transitivedelegationvc/delegation/pkg/credential"
	"github.com/transitivedelegationvc/delegation/pkg/delegerr"
	"github.com/transitivedelegationvc/delegation/pkg/directory"
	"github.com/transitivedelegationvc/delegation/pkg/dlog"
	"github.com/transitivedelegationvc/delegation/pkg/envelope"
	"github.com/transitivedelegationvc/delegation/pkg/scalarcode"
)

// VC is the envelope shape scheme A carries its credentials and
// presentations in.
type VC = envelope.VC[*credential.ADC]

// Issuer is one delegator in a scheme A chain. It owns a persistent
// accumulator secret key (so its published public key stays valid across
// every credential it issues) and an Ed25519 signing key for the
// presentation envelope.
type Issuer struct {
	ID         string
	sk         fr.Element
	signingKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey
	params     accumulator.Params
	logger     *dlog.Logger
}

// NewIssuer generates fresh accumulator and Ed25519 keys for id and
// publishes the public halves to dir. It issues silently; use
// NewIssuerWithLogger for a component that logs issuance outcomes.
func NewIssuer(id string, dir *directory.DirectoryA) (*Issuer, error) {
	return NewIssuerWithLogger(id, dir, nil)
}

// NewIssuerWithLogger is NewIssuer with an optional structured logger. A nil
// logger is accepted and every log call below becomes a no-op.
func NewIssuerWithLogger(id string, dir *directory.DirectoryA, logger *dlog.Logger) (*Issuer, error) {
	params := accumulator.DefaultParams()
	sk, accPK, err := accumulator.GenerateKeyPair(params)
	if err != nil {
		return nil, err
	}
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, delegerr.Wrap(delegerr.Serialize, "generate issuer signing key", err)
	}

	iss := &Issuer{ID: id, sk: sk, signingKey: priv, publicKey: pub, params: params, logger: logger.Component("schemea")}
	dir.Publish(id, directory.EntryA{
		AccumulatorPK: accPK, AccumulatorParams: params,
		VerificationKey: directory.EdDSAJWK(id, pub),
	})
	return iss, nil
}

// Issue builds a new A-DC delegating permissions to delegateeID, optionally
// extending parent's chain (spec.md §4.6).
func (iss *Issuer) Issue(
	credentialID, validFrom, delegateeID, nowNs, validityPeriodNs string,
	permissions []string,
	parent *VC,
) (VC, error) {
	if len(permissions) == 0 {
		return VC{}, delegerr.New(delegerr.EmptyPermissions, "issue: permissions must not be empty")
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

	var hierarchy []credential.ADelegator

	if parent != nil {
		parentDC := parent.CredentialSubject

		for _, d := range parentDC.Hierarchy {
			parentExp, ok := new(big.Int).SetString(d.Exp, 10)
			if !ok {
				return VC{}, delegerr.New(delegerr.ParseError, "issue: unparseable hierarchy exp")
			}
			if parentExp.Cmp(exp) < 0 {
				exp = parentExp
			}
		}

		granted := make(map[string]struct{}, len(parentDC.Permissions))
		for _, p := range parentDC.Permissions {
			granted[p] = struct{}{}
		}
		for _, p := range permissions {
			if _, ok := granted[p]; !ok {
				return VC{}, delegerr.New(delegerr.PermissionNotGranted, "issue: requested permission not in parent: "+p)
			}
		}

		if len(parentDC.PermissionWitnesses) != len(parentDC.Permissions) {
			iss.logger.Warn("issue: cardinality mismatch", "witnesses", len(parentDC.PermissionWitnesses), "permissions", len(parentDC.Permissions))
			return VC{}, delegerr.New(delegerr.CardinalityMismatch, "issue: parent permission_witnesses length mismatch")
		}
		for _, h := range parentDC.Hierarchy {
			if len(h.PermissionWitnesses) != len(parentDC.Permissions) {
				iss.logger.Warn("issue: cardinality mismatch in hierarchy entry", "witnesses", len(h.PermissionWitnesses), "permissions", len(parentDC.Permissions))
				return VC{}, delegerr.New(delegerr.CardinalityMismatch, "issue: parent hierarchy entry witness length mismatch")
			}
		}

		if len(permissions) > len(parentDC.Permissions) {
			iss.logger.Warn("issue: cannot escalate", "requested", len(permissions), "parent_granted", len(parentDC.Permissions))
			return VC{}, delegerr.New(delegerr.CannotEscalate, "issue: requested permissions exceed parent's")
		}

		parentClone := cloneADC(parentDC)
		if len(permissions) < len(parentClone.Permissions) {
			if _, err := parentClone.RetainOnly(permissions); err != nil {
				return VC{}, err
			}
		}

		hierarchy = append(append([]credential.ADelegator{}, parentClone.Hierarchy...), credential.ADelegator{
			ID:                  parent.Issuer,
			DelegateeID:         parentClone.DelegateeID,
			IAT:                 parentClone.IAT,
			Exp:                 parentClone.Exp,
			AccumulatorValue:    parentClone.AccumulatorValue,
			MetadataWitnesses:   parentClone.MetadataWitnesses,
			PermissionWitnesses: parentClone.PermissionWitnesses,
		})
	}

	iatStr := iat.String()
	expStr := exp.String()

	mgr := accumulator.New(iss.sk, iss.params)

	permScalars := make([]fr.Element, len(permissions))
	for i, p := range permissions {
		permScalars[i] = scalarcode.ToScalar(p)
	}
	if err := mgr.AddBatch(permScalars); err != nil {
		return VC{}, err
	}

	delegateeScalar := scalarcode.ToScalar(delegateeID)
	iatScalar := scalarcode.ToScalar(iatStr)
	expScalar := scalarcode.ToScalar(expStr)
	if err := mgr.Add(delegateeScalar); err != nil {
		return VC{}, err
	}
	if err := mgr.Add(iatScalar); err != nil {
		return VC{}, err
	}
	if err := mgr.Add(expScalar); err != nil {
		return VC{}, err
	}

	permWitnesses, err := mgr.Witnesses(permScalars)
	if err != nil {
		return VC{}, err
	}
	metaWitnesses, err := mgr.Witnesses([]fr.Element{delegateeScalar, iatScalar, expScalar})
	if err != nil {
		return VC{}, err
	}

	dc := &credential.ADC{
		DelegateeID:         delegateeID,
		AccumulatorValue:    mgr.Value(),
		IAT:                 iatStr,
		Exp:                 expStr,
		Permissions:         append([]string{}, permissions...),
		MetadataWitnesses:   metaWitnesses,
		PermissionWitnesses: permWitnesses,
		Hierarchy:           hierarchy,
	}

	iss.logger.Debug("issue: ok", "iat", iatStr, "exp", expStr, "permissions", len(permissions))
	return envelope.New(credentialID, iss.ID, validFrom, dc), nil
}

// Present constructs a presentation disclosing only disclosed permissions
// and signs it as a compact JWS (spec.md §4.8).
func (iss *Issuer) Present(vc VC, disclosed []string) (string, error) {
	presented := vc
	dc := cloneADC(vc.CredentialSubject)
	if _, err := dc.RetainOnly(disclosed); err != nil {
		return "", err
	}
	if dc.IsEmpty() {
		return "", delegerr.New(delegerr.EmptyPermissions, "present: nothing left to disclose")
	}
	presented.CredentialSubject = dc
	return envelope.Sign(presented, iss.signingKey)
}

// PublicKey returns the issuer's Ed25519 verification key.
func (iss *Issuer) PublicKey() ed25519.PublicKey { return iss.publicKey }

func cloneADC(dc *credential.ADC) *credential.ADC {
	clone := &credential.ADC{
		DelegateeID:         dc.DelegateeID,
		AccumulatorValue:    dc.AccumulatorValue,
		IAT:                 dc.IAT,
		Exp:                 dc.Exp,
		Permissions:         append([]string{}, dc.Permissions...),
		MetadataWitnesses:   append([]string{}, dc.MetadataWitnesses...),
		PermissionWitnesses: append([]string{}, dc.PermissionWitnesses...),
	}
	clone.Hierarchy = make([]credential.ADelegator, len(dc.Hierarchy))
	for i, h := range dc.Hierarchy {
		clone.Hierarchy[i] = credential.ADelegator{
			ID:                  h.ID,
			DelegateeID:         h.DelegateeID,
			IAT:                 h.IAT,
			Exp:                 h.Exp,
			AccumulatorValue:    h.AccumulatorValue,
			MetadataWitnesses:   append([]string{}, h.MetadataWitnesses...),
			PermissionWitnesses: append([]string{}, h.PermissionWitnesses...),
		}
	}
	return clone
}
