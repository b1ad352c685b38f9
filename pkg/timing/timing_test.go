package timing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/transitivedelegationvc/delegation/pkg/delegerr"
)

func TestVerifyTimingsOK(t *testing.T) {
	require.NoError(t, VerifyTimings("1500", "1000", "2000"))
}

func TestVerifyTimingsNotYetValid(t *testing.T) {
	err := VerifyTimings("500", "1000", "2000")
	require.Error(t, err)
	require.Equal(t, delegerr.NotYetValid, delegerr.KindOf(err))
}

func TestVerifyTimingsExpired(t *testing.T) {
	err := VerifyTimings("3000", "1000", "2000")
	require.Error(t, err)
	require.Equal(t, delegerr.Expired, delegerr.KindOf(err))

	err = VerifyTimings("1", "0", "0")
	require.Error(t, err)
	require.Equal(t, delegerr.Expired, delegerr.KindOf(err))
}

func TestVerifyTimingsInverted(t *testing.T) {
	err := VerifyTimings("1500", "2000", "1000")
	require.Error(t, err)
	require.Equal(t, delegerr.Inverted, delegerr.KindOf(err))
}

func TestVerifyTimingsParseError(t *testing.T) {
	err := VerifyTimings("not-a-number", "1000", "2000")
	require.Error(t, err)
	require.Equal(t, delegerr.ParseError, delegerr.KindOf(err))

	err = VerifyTimings("1500", "-5", "2000")
	require.Error(t, err)
	require.Equal(t, delegerr.ParseError, delegerr.KindOf(err))
}

func TestVerifyTimingsHugeValues(t *testing.T) {
	// values exceeding int64/uint64 range must still parse correctly
	huge := "999999999999999999999999999999"
	require.NoError(t, VerifyTimings(huge, "0", huge))
}
