package codec

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByName(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			c, ok := ByName(name)
			require.True(t, ok)
			assert.Equal(t, name, c.Name())
		})
	}

	_, ok := ByName("msgpack")
	assert.False(t, ok)
}

func TestCodecsAgree(t *testing.T) {
	v := map[string]any{"b": []any{1.5, "x"}, "a": true, "html": "<b>&</b>"}
	for _, c := range []Codec{JSON{}, GoJSON{}} {
		t.Run(c.Name(), func(t *testing.T) {
			data, err := c.Marshal(v)
			require.NoError(t, err)
			assert.Equal(t, `{"a":true,"b":[1.5,"x"],"html":"<b>&</b>"}`, string(data))

			var got map[string]any
			require.NoError(t, c.Unmarshal(data, &got))
			assert.Equal(t, json.Number("1.5"), got["b"].([]any)[0])
			assert.Equal(t, "<b>&</b>", got["html"])
		})
	}
}

func TestCodecsKeepInt64(t *testing.T) {
	for _, c := range []Codec{JSON{}, GoJSON{}} {
		t.Run(c.Name(), func(t *testing.T) {
			data := MustMarshal(c, map[string]int64{"pk": math.MaxInt64})

			var got map[string]any
			require.NoError(t, c.Unmarshal(data, &got))

			n, ok := got["pk"].(json.Number)
			require.True(t, ok)
			i, err := n.Int64()
			require.NoError(t, err)
			assert.Equal(t, int64(math.MaxInt64), i)

			var typed struct {
				PK int64 `json:"pk"`
			}
			require.NoError(t, c.Unmarshal(data, &typed))
			assert.Equal(t, int64(math.MaxInt64), typed.PK)
		})
	}
}

func TestMustMarshal(t *testing.T) {
	assert.Equal(t, `"x"`, string(MustMarshal(nil, "x")))
	assert.Panics(t, func() { MustMarshal(JSON{}, make(chan int)) })
}

func TestGoJSONAppend(t *testing.T) {
	out, err := GoJSON{}.Append([]byte("rows="), []int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, "rows=[1,2]", string(out))
}
