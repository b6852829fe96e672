package types_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/paw-chain/dexcore/x/dex/types"
)

func TestValidateIdentifier(t *testing.T) {
	valid := []string{
		"upaw",
		"uusdc",
		"paw1qxyzabc",
		"ibc/27394FB092D2ECCD56123C74F36E4C1F926001CEADA9CA97EA622B25F41E5EB2",
		"gamm.pool.1",
		"factory:sub-denom",
	}
	for _, s := range valid {
		require.NoError(t, types.ValidateIdentifier(s), s)
	}

	invalid := []string{
		"",
		"ab",
		"u\x00paw",
		"1upaw",
		" upaw",
		"upaw!",
		strings.Repeat("a", 129),
	}
	for _, s := range invalid {
		require.ErrorIs(t, types.ValidateIdentifier(s), types.ErrInvalidIdentifier, "%q", s)
	}
}
