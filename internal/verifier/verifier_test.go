package verifier_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/paw-chain/dexcore/internal/verifier"
)

func TestHMACVerifier(t *testing.T) {
	v := verifier.NewHMAC([]byte("shared-secret"))
	swapHash := "a1b2c3"

	proof := v.Prove(swapHash)
	require.True(t, v.Verify(swapHash, proof))

	require.False(t, v.Verify(swapHash, []byte("wrong")))
	require.False(t, v.Verify("otherhash", proof))
	require.False(t, v.Verify(swapHash, nil))

	// Different secrets never cross-validate.
	other := verifier.NewHMAC([]byte("different-secret"))
	require.False(t, other.Verify(swapHash, proof))
}

func TestHMACVerifierEmptySecret(t *testing.T) {
	v := verifier.NewHMAC(nil)
	require.False(t, v.Verify("hash", v.Prove("hash")), "an unconfigured verifier rejects everything")
}

func TestStaticVerifier(t *testing.T) {
	require.True(t, verifier.Static(true).Verify("x", nil))
	require.False(t, verifier.Static(false).Verify("x", []byte("proof")))
}
