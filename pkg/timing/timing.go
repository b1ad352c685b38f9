// Package timing implements the nanosecond-timestamp validity check shared
// by both delegation schemes (spec.md §4.10, C9). Timestamps are carried on
// the wire as decimal text because the values can exceed 64 bits; arithmetic
// and comparison happen on the parsed big.Int form.
package timing

import (
	"math/big"

	"github.com/transitivedelegationvc/delegation/pkg/delegerr"
)

func parseUnsigned(s, field string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok || n.Sign() < 0 {
		return nil, delegerr.New(delegerr.ParseError, "unparseable "+field+" timestamp: "+s)
	}
	return n, nil
}

// VerifyTimings parses nowNs, iat, and exp as unsigned decimal nanosecond
// timestamps and checks now is within [iat, exp], and that iat <= exp.
func VerifyTimings(nowNs, iat, exp string) error {
	now, err := parseUnsigned(nowNs, "now")
	if err != nil {
		return err
	}
	iatN, err := parseUnsigned(iat, "iat")
	if err != nil {
		return err
	}
	expN, err := parseUnsigned(exp, "exp")
	if err != nil {
		return err
	}

	if iatN.Cmp(expN) > 0 {
		return delegerr.New(delegerr.Inverted, "iat is after exp")
	}
	if now.Cmp(iatN) < 0 {
		return delegerr.New(delegerr.NotYetValid, "now is before iat")
	}
	if now.Cmp(expN) > 0 {
		return delegerr.New(delegerr.Expired, "now is after exp")
	}
	return nil
}
