package secret

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoxRoundTrip(t *testing.T) {
	box, err := NewBox("correct horse battery staple")
	require.NoError(t, err)

	sealed, err := box.Seal("abc123secret")
	require.NoError(t, err)
	assert.NotEqual(t, "abc123secret", sealed)

	opened, err := box.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "abc123secret", opened)
}

func TestBoxSamePassphraseOpensAcrossInstances(t *testing.T) {
	first, err := NewBox("shared-passphrase")
	require.NoError(t, err)

	sealed, err := first.Seal("api-key-value")
	require.NoError(t, err)

	second, err := NewBox("shared-passphrase")
	require.NoError(t, err)

	opened, err := second.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "api-key-value", opened)
}

func TestBoxWrongPassphrase(t *testing.T) {
	box, err := NewBox("right")
	require.NoError(t, err)

	sealed, err := box.Seal("value")
	require.NoError(t, err)

	other, err := NewBox("wrong")
	require.NoError(t, err)

	_, err = other.Open(sealed)
	assert.Error(t, err)
}

func TestBoxMalformedInput(t *testing.T) {
	box, err := NewBox("pass")
	require.NoError(t, err)

	_, err = box.Open("not base64 !!!")
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = box.Open("c2hvcnQ=")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestNewBoxEmptyPassphrase(t *testing.T) {
	_, err := NewBox("")
	assert.Error(t, err)
}
