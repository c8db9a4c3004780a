package compress

import (
	"bytes"
	"testing"

	"github.com/hupe1980/vecwire/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	rng := testutil.NewRNG(1)
	random := make([]byte, 3*BlockSize+17)
	for i := range random {
		random[i] = byte(rng.Intn(256))
	}

	inputs := map[string][]byte{
		"empty":          {},
		"small":          []byte(`{"rows":[]}`),
		"repetitive":     bytes.Repeat([]byte(`{"id":1,"emb":[0.5,0.5]},`), 50000),
		"incompressible": random,
	}

	for _, typ := range []Type{None, LZ4, ZSTD} {
		for name, in := range inputs {
			t.Run(typ.String()+"/"+name, func(t *testing.T) {
				framed, err := Compress(typ, in)
				require.NoError(t, err)

				out, err := Decompress(typ, framed)
				require.NoError(t, err)
				assert.Equal(t, len(in), len(out))
				assert.True(t, bytes.Equal(in, out))
			})
		}
	}
}

func TestCompressionHelps(t *testing.T) {
	in := bytes.Repeat([]byte("vector"), 100000)
	for _, typ := range []Type{LZ4, ZSTD} {
		framed, err := Compress(typ, in)
		require.NoError(t, err)
		assert.Less(t, len(framed), len(in)/4, typ.String())
	}
}

func TestDecompressCorrupt(t *testing.T) {
	framed, err := Compress(ZSTD, bytes.Repeat([]byte("abc"), 1000))
	require.NoError(t, err)

	_, err = Decompress(ZSTD, framed[:5])
	assert.ErrorIs(t, err, ErrCorrupt)

	_, err = Decompress(ZSTD, framed[:len(framed)-1])
	assert.ErrorIs(t, err, ErrCorrupt)

	_, err = Decompress(Type(9), framed)
	assert.Error(t, err)
}

func TestNames(t *testing.T) {
	assert.Equal(t, LZ4, FromName("a/b/0.json.lz4"))
	assert.Equal(t, ZSTD, FromName("a/b/0.json.zst"))
	assert.Equal(t, None, FromName("a/b/0.json"))
	assert.Equal(t, ".zst", ZSTD.Suffix())
	assert.Equal(t, "", None.Suffix())
	assert.Equal(t, "Type(7)", Type(7).String())
}
