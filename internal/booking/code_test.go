package booking

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateCodeShape(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		require.Len(t, code, 10)
		for _, c := range code {
			require.True(t, strings.ContainsRune(codeAlphabet, c), "unexpected symbol %q", c)
		}
		seen[code] = true
	}
	require.Len(t, seen, 200)
}

func TestGenerateCodeSkipsBiasedBytes(t *testing.T) {
	src := append(bytes.Repeat([]byte{255}, 10), []byte{0, 1, 25, 26, 35, 36, 251, 2, 3, 4, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}...)
	code, err := generateCode(bytes.NewReader(src))
	require.NoError(t, err)
	// 251 % 36 = 35
	require.Equal(t, "ABZ09A9CDE", code)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("no entropy") }

func TestGenerateCodePropagatesReaderError(t *testing.T) {
	_, err := generateCode(failingReader{})
	require.ErrorContains(t, err, "no entropy")
}
