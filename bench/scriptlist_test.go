package bench_test

import (
	_ "embed"
	json "encoding/json"
	"runtime"
	"testing"

	"github.com/tordmark/snipjet/bench"
	"github.com/tordmark/snipjet/registry"

	jsonv2 "github.com/go-json-experiment/json"
	goccy "github.com/goccy/go-json"
	jsoniter "github.com/json-iterator/go"
	ffjson "github.com/pquerna/ffjson/ffjson"
	segmentio "github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/scripts_64.json
var scripts64 []byte

func TestImplementationsScriptList(t *testing.T) {
	in := []byte(`[
		{"name":"hello","description":"prints a greeting","url":"https://x/hello.go"},
		{"name":"ws","description":"\"quoted\" and юникод","url":"https://x/ws.go"}
	]`)
	expect := func() []registry.Script {
		return []registry.Script{
			{Name: "hello", Description: "prints a greeting", URL: "https://x/hello.go"},
			{Name: "ws", Description: `"quoted" and юникод`, URL: "https://x/ws.go"},
		}
	}

	t.Run("unmr/encoding_json", func(t *testing.T) {
		var v []registry.Script
		require.NoError(t, json.Unmarshal(in, &v))
		require.Equal(t, expect(), v)
	})

	t.Run("unmr/jsoniter", func(t *testing.T) {
		var v []registry.Script
		require.NoError(t, jsoniter.Unmarshal(in, &v))
		require.Equal(t, expect(), v)
	})

	t.Run("unmr/goccy", func(t *testing.T) {
		var v []registry.Script
		require.NoError(t, goccy.Unmarshal(in, &v))
		require.Equal(t, expect(), v)
	})

	t.Run("unmr/jsonv2", func(t *testing.T) {
		var v []registry.Script
		require.NoError(t, jsonv2.Unmarshal(in, &v))
		require.Equal(t, expect(), v)
	})

	t.Run("unmr/segmentio", func(t *testing.T) {
		var v []registry.Script
		require.NoError(t, segmentio.Unmarshal(in, &v))
		require.Equal(t, expect(), v)
	})

	t.Run("unmr/ffjson", func(t *testing.T) {
		var v []registry.Script
		require.NoError(t, ffjson.Unmarshal(in, &v))
		require.Equal(t, expect(), v)
	})

	t.Run("tree/dejson", func(t *testing.T) {
		v, err := bench.DejsonScriptList(in)
		require.NoError(t, err)
		require.Equal(t, expect(), v)
	})

	t.Run("hand/gjson", func(t *testing.T) {
		v, err := bench.GJSONScriptList(in)
		require.NoError(t, err)
		require.Equal(t, expect(), v)
	})

	t.Run("hand/fastjson", func(t *testing.T) {
		v, err := bench.FastjsonScriptList(in)
		require.NoError(t, err)
		require.Equal(t, expect(), v)
	})

	t.Run("hand/jscan", func(t *testing.T) {
		v, err := bench.JscanScriptList(in)
		require.NoError(t, err)
		require.Equal(t, expect(), v)
	})
}

func TestImplementationsScriptListFixture(t *testing.T) {
	var std []registry.Script
	require.NoError(t, json.Unmarshal(scripts64, &std))
	require.Len(t, std, 64)

	for _, tt := range []struct {
		name   string
		decode func([]byte) ([]registry.Script, error)
	}{
		{"tree/dejson", bench.DejsonScriptList},
		{"hand/gjson", bench.GJSONScriptList},
		{"hand/fastjson", bench.FastjsonScriptList},
		{"hand/jscan", bench.JscanScriptList},
	} {
		t.Run(tt.name, func(t *testing.T) {
			v, err := tt.decode(scripts64)
			require.NoError(t, err)
			require.Equal(t, std, v, "deviation from encoding/json")
		})
	}
}

func BenchmarkDecodeScriptList(b *testing.B) {
	in := scripts64

	b.Run("unmr/encoding_json", func(b *testing.B) {
		for n := 0; n < b.N; n++ {
			var v []registry.Script
			if err := json.Unmarshal(in, &v); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("unmr/jsoniter", func(b *testing.B) {
		for n := 0; n < b.N; n++ {
			var v []registry.Script
			if err := jsoniter.Unmarshal(in, &v); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("unmr/goccy", func(b *testing.B) {
		for n := 0; n < b.N; n++ {
			var v []registry.Script
			if err := goccy.Unmarshal(in, &v); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("unmr/jsonv2", func(b *testing.B) {
		for n := 0; n < b.N; n++ {
			var v []registry.Script
			if err := jsonv2.Unmarshal(in, &v); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("unmr/segmentio", func(b *testing.B) {
		for n := 0; n < b.N; n++ {
			var v []registry.Script
			if err := segmentio.Unmarshal(in, &v); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("unmr/ffjson", func(b *testing.B) {
		for n := 0; n < b.N; n++ {
			var v []registry.Script
			if err := ffjson.Unmarshal(in, &v); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("tree/dejson", func(b *testing.B) {
		var v []registry.Script
		var err error
		b.ResetTimer()
		for n := 0; n < b.N; n++ {
			if v, err = bench.DejsonScriptList(in); err != nil {
				b.Fatal(err)
			}
		}
		runtime.KeepAlive(v)
	})

	b.Run("hand/gjson", func(b *testing.B) {
		var v []registry.Script
		var err error
		b.ResetTimer()
		for n := 0; n < b.N; n++ {
			if v, err = bench.GJSONScriptList(in); err != nil {
				b.Fatal(err)
			}
		}
		runtime.KeepAlive(v)
	})

	b.Run("hand/fastjson", func(b *testing.B) {
		var v []registry.Script
		var err error
		b.ResetTimer()
		for n := 0; n < b.N; n++ {
			if v, err = bench.FastjsonScriptList(in); err != nil {
				b.Fatal(err)
			}
		}
		runtime.KeepAlive(v)
	})

	b.Run("hand/jscan", func(b *testing.B) {
		var v []registry.Script
		var err error
		b.ResetTimer()
		for n := 0; n < b.N; n++ {
			if v, err = bench.JscanScriptList(in); err != nil {
				b.Fatal(err)
			}
		}
		runtime.KeepAlive(v)
	})
}
