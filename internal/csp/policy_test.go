package csp

import (
	"bytes"
	"errors"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const basicHeader = "default-src 'self'; script-src 'self'; style-src 'self'; form-action 'self'; img-src *; object-src 'none';"

func TestBuildBasic(t *testing.T) {
	header, ok, err := Build(ScenarioBasic, Options{})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, basicHeader, header)
}

func TestBuildNoneEmitsNoHeader(t *testing.T) {
	header, ok, err := Build(ScenarioNone, Options{})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, header)
}

func TestBuildHash(t *testing.T) {
	header, ok, err := Build(ScenarioHash, Options{ScriptHash: "abc="})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "default-src 'self'; script-src 'self' 'sha256-abc='; style-src 'self'; form-action 'self'; img-src *; object-src 'none';", header)

	digest, found := ExtractHash(header)
	assert.True(t, found)
	assert.Equal(t, "abc=", digest)
}

func TestBuildNonce(t *testing.T) {
	header, _, err := Build(ScenarioNonce, Options{Nonce: "r4nd0m+/=="})
	require.NoError(t, err)
	assert.Equal(t, "default-src 'self'; script-src 'self' 'nonce-r4nd0m+/=='; style-src 'self'; form-action 'self'; img-src *; object-src 'none';", header)

	nonce, found := ExtractNonce(header)
	assert.True(t, found)
	assert.Equal(t, "r4nd0m+/==", nonce)
}

func TestBuildMissingInputs(t *testing.T) {
	_, _, err := Build(ScenarioHash, Options{})
	assert.ErrorIs(t, err, ErrMissingHash)

	_, _, err = Build(ScenarioNonce, Options{Nonce: "  "})
	assert.ErrorIs(t, err, ErrMissingNonce)

	_, _, err = Build(Scenario("strict"), Options{})
	assert.Error(t, err)
}

func TestPolicyOrderIsStable(t *testing.T) {
	// Порядок добавления не влияет на порядок в заголовке
	p := New().
		Set(ObjectSrc, SourceNone).
		Set("frame-ancestors", SourceNone).
		Set(ImgSrc, SourceWildcard).
		Set(DefaultSrc, SourceSelf)

	assert.Equal(t, "default-src 'self'; img-src *; object-src 'none'; frame-ancestors 'none';", p.String())
}

func TestPolicyEmptyDirectiveIsDropped(t *testing.T) {
	p := Basic().Set(StyleSrc).Set(ImgSrc, " ", "")
	assert.NotContains(t, p.String(), "style-src")
	assert.NotContains(t, p.String(), "img-src")
	assert.Equal(t, "default-src 'self'; script-src 'self'; form-action 'self'; object-src 'none';", p.String())
}

func TestPolicyAddDeduplicates(t *testing.T) {
	p := Basic().Add(ScriptSrc, SourceSelf, "'nonce-a'", "'nonce-a'")
	assert.Equal(t, []string{"'self'", "'nonce-a'"}, p.Get(ScriptSrc))
}

func TestPolicyCloneIsIndependent(t *testing.T) {
	base := Basic()
	c := base.Clone().Add(ScriptSrc, "'nonce-x'")
	assert.Equal(t, basicHeader, base.String())
	assert.NotEqual(t, base.String(), c.String())
}

func TestNewNonceIsUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		n, err := NewNonce()
		require.NoError(t, err)
		assert.Len(t, n, 24) // 16 байт в base64
		_, dup := seen[n]
		require.False(t, dup, "nonce повторился: %s", n)
		seen[n] = struct{}{}
	}
}

func TestNonceFromReaderError(t *testing.T) {
	boom := errors.New("entropy exhausted")
	_, err := NonceFrom(iotest.ErrReader(boom))
	assert.ErrorIs(t, err, boom)

	// Короткий источник тоже ошибка, а не короткий nonce
	_, err = NonceFrom(bytes.NewReader([]byte{1, 2, 3}))
	assert.Error(t, err)
}

func TestNonceFromDeterministicReader(t *testing.T) {
	n, err := NonceFrom(bytes.NewReader(make([]byte, NonceSize)))
	require.NoError(t, err)
	assert.Equal(t, "AAAAAAAAAAAAAAAAAAAAAA==", n)
}

func TestHashScript(t *testing.T) {
	assert.Equal(t, "47DEQpj8HBSa+/TImW+5JCeuQeRkm5NMpJWZG3hSuFU=", HashScript(nil))
	assert.Equal(t, "ungWv48Bz+pBQUDeXa4iI7ADYaOWF3qctBD/YfIAFa0=", HashScript([]byte("abc")))
	// Любой лишний пробел меняет дайджест
	assert.NotEqual(t, HashScript([]byte("abc")), HashScript([]byte("abc\n")))
	assert.Equal(t, "'sha256-abc='", HashSource("abc="))
}
