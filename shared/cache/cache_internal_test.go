package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	t.Run("strings stay raw", func(t *testing.T) {
		raw, err := encode("hello")
		require.NoError(t, err)
		assert.Equal(t, []byte("hello"), raw)

		var out string
		require.NoError(t, decode(raw, &out))
		assert.Equal(t, "hello", out)
	})

	t.Run("bytes stay raw", func(t *testing.T) {
		raw, err := encode([]byte{0x01, 0x02})
		require.NoError(t, err)

		var out []byte
		require.NoError(t, decode(raw, &out))
		assert.Equal(t, []byte{0x01, 0x02}, out)
	})

	t.Run("structs are json", func(t *testing.T) {
		type counter struct {
			Count int `json:"count"`
		}

		raw, err := encode(counter{Count: 3})
		require.NoError(t, err)
		assert.JSONEq(t, `{"count":3}`, string(raw))

		var out counter
		require.NoError(t, decode(raw, &out))
		assert.Equal(t, 3, out.Count)
	})

	t.Run("integers round trip", func(t *testing.T) {
		raw, err := encode(7)
		require.NoError(t, err)

		var out int
		require.NoError(t, decode(raw, &out))
		assert.Equal(t, 7, out)
	})

	t.Run("corrupt json", func(t *testing.T) {
		var out int
		assert.Error(t, decode([]byte("{"), &out))
	})
}
