// Package bench holds hand-written script-list decoders for the comparison
// benchmarks. Each function decodes the registry payload shape (an array of
// objects with name, description and url string members) using one library.
package bench

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/romshark/jscan/v2"
	"github.com/tidwall/gjson"
	"github.com/valyala/fastjson"

	"github.com/tordmark/snipjet/dejson"
	"github.com/tordmark/snipjet/registry"
)

var ErrInvalid = errors.New("invalid")

// DejsonScriptList decodes via the hand-written recursive-descent decoder.
func DejsonScriptList(j []byte) ([]registry.Script, error) {
	v, err := dejson.Decode(j)
	if err != nil {
		return nil, err
	}
	if v.Kind() != dejson.KindArray {
		return nil, ErrInvalid
	}
	arr := v.Array()
	scripts := make([]registry.Script, 0, len(arr))
	for _, e := range arr {
		obj := e.Object()
		if obj == nil {
			return nil, ErrInvalid
		}
		var s registry.Script
		if m, ok := obj.Get("name"); ok && m.Kind() == dejson.KindString {
			s.Name = m.Str()
		}
		if m, ok := obj.Get("description"); ok && m.Kind() == dejson.KindString {
			s.Description = m.Str()
		}
		if m, ok := obj.Get("url"); ok && m.Kind() == dejson.KindString {
			s.URL = m.Str()
		}
		scripts = append(scripts, s)
	}
	return scripts, nil
}

// GJSONScriptList decodes with tidwall/gjson.
func GJSONScriptList(j []byte) ([]registry.Script, error) {
	if !gjson.ValidBytes(j) {
		return nil, ErrInvalid
	}
	l := gjson.ParseBytes(j).Array()
	scripts := make([]registry.Script, 0, len(l))
	for _, e := range l {
		if !e.IsObject() {
			return nil, ErrInvalid
		}
		scripts = append(scripts, registry.Script{
			Name:        e.Get("name").String(),
			Description: e.Get("description").String(),
			URL:         e.Get("url").String(),
		})
	}
	return scripts, nil
}

// FastjsonScriptList decodes with valyala/fastjson.
func FastjsonScriptList(j []byte) ([]registry.Script, error) {
	v, err := fastjson.ParseBytes(j)
	if err != nil {
		return nil, err
	}
	a, err := v.Array()
	if err != nil {
		return nil, ErrInvalid
	}
	scripts := make([]registry.Script, 0, len(a))
	for _, e := range a {
		if e.Type() != fastjson.TypeObject {
			return nil, ErrInvalid
		}
		scripts = append(scripts, registry.Script{
			Name:        string(e.GetStringBytes("name")),
			Description: string(e.GetStringBytes("description")),
			URL:         string(e.GetStringBytes("url")),
		})
	}
	return scripts, nil
}

// JscanScriptList decodes with a single jscan traversal. jscan yields raw
// string tokens, so member values are unquoted here. Member values arrive
// after their parent object, so the current script is flushed when the next
// top-level object begins and once at the end.
func JscanScriptList(j []byte) ([]registry.Script, error) {
	var (
		scripts []registry.Script
		cur     registry.Script
		started bool
		bad     bool
	)
	err := jscan.Scan(string(j), func(i *jscan.Iterator[string]) (exit bool) {
		switch i.Level() {
		case 0:
			if i.ValueType() != jscan.ValueTypeArray {
				bad = true
				return true
			}
		case 1:
			if i.ValueType() != jscan.ValueTypeObject {
				bad = true
				return true
			}
			if started {
				scripts = append(scripts, cur)
			}
			cur = registry.Script{}
			started = true
		case 2:
			if i.ValueType() != jscan.ValueTypeString {
				return false
			}
			val, ok := unquote(i.Value())
			if !ok {
				bad = true
				return true
			}
			switch trimQuotes(i.Key()) {
			case "name":
				cur.Name = val
			case "description":
				cur.Description = val
			case "url":
				cur.URL = val
			}
		}
		return false
	})
	if err.IsErr() || bad {
		return nil, ErrInvalid
	}
	if started {
		scripts = append(scripts, cur)
	}
	if scripts == nil {
		scripts = []registry.Script{}
	}
	return scripts, nil
}

func trimQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// unquote resolves a raw string token to its decoded value.
func unquote(s string) (string, bool) {
	if !strings.ContainsRune(s, '\\') {
		return trimQuotes(s), true
	}
	var out string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return "", false
	}
	return out, true
}
