package schemea

import (
	"github.com/transitivedelegationvc/delegation/pkg/accumulator"
	"github.com/transitivedelegationvc/delegation/pkg/credential"
	"github.com/transitivedelegationvc/delegation/pkg/delegerr"
	"github.com/transitivedelegationvc/delegation/pkg/directory"
	"github.com/transitivedelegationvc/delegation/pkg/dlog"
	"github.com/transitivedelegationvc/delegation/pkg/envelope"
	"github.com/transitivedelegationvc/delegation/pkg/scalarcode"
	"github.com/transitivedelegationvc/delegation/pkg/timing"
)

// Verify decodes and checks a scheme A presentation (spec.md §4.7):
// presenter's EdDSA signature, every hierarchy link's chain-consistency and
// timing, and every accumulator witness from root to the outermost layer.
func Verify(presenterID, jws string, nowNs string, dir *directory.DirectoryA, parallel bool) (VC, error) {
	return VerifyWithLogger(presenterID, jws, nowNs, dir, parallel, nil)
}

// VerifyWithLogger is Verify with an optional structured logger; rejected
// presentations are logged at warn level before the typed error returns.
func VerifyWithLogger(presenterID, jws string, nowNs string, dir *directory.DirectoryA, parallel bool, logger *dlog.Logger) (VC, error) {
	logger = logger.Component("schemea")

	presenterEntry, err := dir.Lookup(presenterID)
	if err != nil {
		logger.Warn("verify: unknown presenter", "presenter", presenterID)
		return VC{}, err
	}

	presenterKey, err := presenterEntry.Ed25519PublicKey()
	if err != nil {
		logger.Warn("verify: presenter key malformed", "presenter", presenterID)
		return VC{}, err
	}
	vp, err := envelope.Verify[*credential.ADC](jws, presenterKey)
	if err != nil {
		logger.Warn("verify: envelope rejected", "err", err)
		return VC{}, err
	}

	outer := vp.CredentialSubject
	currentIssuer := vp.Issuer

	for k := len(outer.Hierarchy) - 1; k >= 0; k-- {
		d := outer.Hierarchy[k]
		if d.DelegateeID != currentIssuer {
			logger.Warn("verify: chain broken", "expected_delegatee", currentIssuer, "got", d.DelegateeID)
			return VC{}, delegerr.New(delegerr.ChainBroken,
				"hierarchy entry delegatee does not match next issuer on the walk")
		}
		if err := timing.VerifyTimings(nowNs, d.IAT, d.Exp); err != nil {
			logger.Warn("verify: hierarchy layer timing rejected", "err", err)
			return VC{}, err
		}
		if err := verifyLayer(dir, d.ID, d.AccumulatorValue, d.MetadataWitnesses, d.PermissionWitnesses,
			d.DelegateeID, d.IAT, d.Exp, outer.Permissions, parallel); err != nil {
			logger.Warn("verify: hierarchy layer witness rejected", "issuer", d.ID, "err", err)
			return VC{}, err
		}
		currentIssuer = d.ID
	}

	if err := timing.VerifyTimings(nowNs, outer.IAT, outer.Exp); err != nil {
		logger.Warn("verify: outer timing rejected", "err", err)
		return VC{}, err
	}
	if err := verifyLayer(dir, vp.Issuer, outer.AccumulatorValue, outer.MetadataWitnesses, outer.PermissionWitnesses,
		outer.DelegateeID, outer.IAT, outer.Exp, outer.Permissions, parallel); err != nil {
		logger.Warn("verify: outer witness rejected", "err", err)
		return VC{}, err
	}

	logger.Debug("verify: ok", "presenter", presenterID)
	return vp, nil
}

// verifyLayer checks one accumulator layer's metadata witnesses (over
// delegateeID, iat, exp) and permission witnesses (over the outer
// presentation's disclosed permissions) against issuerID's published
// accumulator entry.
func verifyLayer(
	dir *directory.DirectoryA,
	issuerID, accumulatorValue string,
	metadataWitnesses, permissionWitnesses []string,
	delegateeID, iat, exp string,
	disclosedPermissions []string,
	parallel bool,
) error {
	entry, err := dir.Lookup(issuerID)
	if err != nil {
		return err
	}
	v, err := accumulator.NewVerifier(accumulatorValue, entry.AccumulatorPK, entry.AccumulatorParams)
	if err != nil {
		return err
	}

	metaElems := []string{
		scalarcode.EncodeScalar(scalarcode.ToScalar(delegateeID)),
		scalarcode.EncodeScalar(scalarcode.ToScalar(iat)),
		scalarcode.EncodeScalar(scalarcode.ToScalar(exp)),
	}
	if err := v.VerifyBatch(metadataWitnesses, metaElems, parallel); err != nil {
		return err
	}

	permElems := make([]string, len(disclosedPermissions))
	for i, p := range disclosedPermissions {
		permElems[i] = scalarcode.EncodeScalar(scalarcode.ToScalar(p))
	}
	return v.VerifyBatch(permissionWitnesses, permElems, parallel)
}
