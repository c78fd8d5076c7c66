package cryptox_test

import (
	"testing"

	"github.com/aussiebroadwan/chatauth/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func newTestCipher(t *testing.T, secret string) *cryptox.Cipher {
	t.Helper()
	c, err := cryptox.NewCipher([]byte(secret), "synchronize")
	require.NoError(t, err)
	return c
}

func TestCipherRoundTripPrintableASCII(t *testing.T) {
	c := newTestCipher(t, "test-synchronize-secret")

	// Every printable ASCII character, plus some realistic usernames.
	var all []byte
	for b := byte(0x20); b < 0x7f; b++ {
		all = append(all, b)
	}
	inputs := []string{
		"",
		"a",
		string(all),
		"3f6b1c2e-7d1a-4a54-9a2f-0c1b2d3e4f50",
		"alice@example.com",
		"user name with spaces",
	}

	for _, in := range inputs {
		enc, err := c.Encrypt(in)
		require.NoError(t, err)
		require.NotContains(t, enc, "=", "value must be cookie safe")
		require.NotContains(t, enc, "+")
		require.NotContains(t, enc, "/")

		dec, err := c.Decrypt(enc)
		require.NoError(t, err)
		require.Equal(t, in, dec)
	}
}

func TestCipherUsesFreshNonce(t *testing.T) {
	c := newTestCipher(t, "test-synchronize-secret")

	a, err := c.Encrypt("same-input")
	require.NoError(t, err)
	b, err := c.Encrypt("same-input")
	require.NoError(t, err)

	require.NotEqual(t, a, b)
}

func TestCipherRejectsGarbage(t *testing.T) {
	c := newTestCipher(t, "test-synchronize-secret")

	for _, in := range []string{"", "short", "not base64 !!!", "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"} {
		_, err := c.Decrypt(in)
		require.ErrorIs(t, err, cryptox.ErrCiphertext, "input %q", in)
	}
}

func TestCipherRejectsTampering(t *testing.T) {
	c := newTestCipher(t, "test-synchronize-secret")

	enc, err := c.Encrypt("alice")
	require.NoError(t, err)

	// Flip one character in the middle of the encoded value.
	b := []byte(enc)
	mid := len(b) / 2
	if b[mid] == 'A' {
		b[mid] = 'B'
	} else {
		b[mid] = 'A'
	}

	_, err = c.Decrypt(string(b))
	require.ErrorIs(t, err, cryptox.ErrCiphertext)
}

func TestCipherKeyedBySecret(t *testing.T) {
	a := newTestCipher(t, "secret-one")
	b := newTestCipher(t, "secret-two")

	enc, err := a.Encrypt("alice")
	require.NoError(t, err)

	_, err = b.Decrypt(enc)
	require.ErrorIs(t, err, cryptox.ErrCiphertext)
}

func TestNewCipherRequiresSecret(t *testing.T) {
	_, err := cryptox.NewCipher(nil, "synchronize")
	require.Error(t, err)
}
