package dejson

// Kind identifies the concrete JSON type held by a Value.
type Kind uint8

const (
	// KindInvalid is the zero Value. Decode never returns it.
	KindInvalid Kind = iota

	// KindNull is the JSON literal `null`
	KindNull

	// KindBool is `true` or `false`
	KindBool

	// KindNumber is any JSON number (held as float64)
	KindNumber

	// KindString is a JSON string (held as UTF-8)
	KindString

	// KindArray is a JSON array
	KindArray

	// KindObject is a JSON object
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return "invalid"
}

// Value is a decoded JSON value, a tagged union over the six JSON types.
// The zero Value has KindInvalid. Values are immutable once returned by
// Decode and hold no reference to the decoder or the input buffer.
type Value struct {
	obj  *Object
	arr  []Value
	str  string
	num  float64
	kind Kind
	b    bool
}

// Null returns the JSON null value.
func Null() Value { return Value{kind: KindNull} }

// Bool returns a JSON boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a JSON number value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// String returns a JSON string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Array returns a JSON array value wrapping vals.
func Array(vals ...Value) Value { return Value{kind: KindArray, arr: vals} }

// Kind reports the JSON type of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the JSON null value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Bool returns the boolean content, or false if v is not a KindBool.
func (v Value) Bool() bool { return v.kind == KindBool && v.b }

// Float64 returns the numeric content, or 0 if v is not a KindNumber.
func (v Value) Float64() float64 {
	if v.kind != KindNumber {
		return 0
	}
	return v.num
}

// Str returns the string content, or "" if v is not a KindString.
func (v Value) Str() string {
	if v.kind != KindString {
		return ""
	}
	return v.str
}

// Array returns the elements of a KindArray value, nil otherwise.
func (v Value) Array() []Value {
	if v.kind != KindArray {
		return nil
	}
	return v.arr
}

// Object returns the object content of a KindObject value, nil otherwise.
func (v Value) Object() *Object {
	if v.kind != KindObject {
		return nil
	}
	return v.obj
}

// Interface converts v into the native tree encoding/json produces for
// `any` targets: map[string]any, []any, float64, string, bool and nil.
// Object member order is lost in the conversion; use Object directly when
// order matters.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.num
	case KindString:
		return v.str
	case KindArray:
		a := make([]any, len(v.arr))
		for i, e := range v.arr {
			a[i] = e.Interface()
		}
		return a
	case KindObject:
		m := make(map[string]any, v.obj.Len())
		for _, mb := range v.obj.members {
			m[mb.Key] = mb.Value.Interface()
		}
		return m
	}
	return nil
}

// Equal reports structural equality of two values. Array element order is
// significant, object member order is not.
func (v Value) Equal(u Value) bool {
	if v.kind != u.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.b == u.b
	case KindNumber:
		return v.num == u.num
	case KindString:
		return v.str == u.str
	case KindArray:
		if len(v.arr) != len(u.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(u.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if v.obj.Len() != u.obj.Len() {
			return false
		}
		for _, mb := range v.obj.members {
			w, ok := u.obj.Get(mb.Key)
			if !ok || !mb.Value.Equal(w) {
				return false
			}
		}
		return true
	}
	return true
}

// Member is a single key-value pair of an Object.
type Member struct {
	Key   string
	Value Value
}

// Object is a JSON object preserving member insertion order for
// deterministic iteration. A duplicate key overwrites the earlier value in
// place, keeping the original position (last write wins).
type Object struct {
	members []Member
	index   map[string]int
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{index: map[string]int{}}
}

// Len returns the number of members.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.members)
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return Value{}, false
	}
	i, ok := o.index[key]
	if !ok {
		return Value{}, false
	}
	return o.members[i].Value, true
}

// Member returns the i-th member in insertion order. i must be in [0, Len).
func (o *Object) Member(i int) Member { return o.members[i] }

// Set stores v under key, overwriting in place if key already exists.
func (o *Object) Set(key string, v Value) {
	if i, ok := o.index[key]; ok {
		o.members[i].Value = v
		return
	}
	o.index[key] = len(o.members)
	o.members = append(o.members, Member{Key: key, Value: v})
}

// value wraps o as a Value.
func (o *Object) value() Value { return Value{kind: KindObject, obj: o} }
