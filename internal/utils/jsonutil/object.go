package jsonutil

// Object is a JSON object that keeps its keys in insertion order.
//
// Values held by an Object (and by the []interface{} arrays nested in it) are
// always one of: *Object, []interface{}, string, json.Number, bool or nil.
// Setting an existing key replaces its value in place; setting a new key
// appends it.
type Object struct {
	keys   []string
	values map[string]interface{}
}

// NewObject returns an empty Object
func NewObject() *Object {
	return &Object{values: make(map[string]interface{})}
}

// Len returns the number of keys
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns a copy of the keys in order
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	keys := make([]string, len(o.keys))
	copy(keys, o.keys)
	return keys
}

// Get returns the value stored under key
func (o *Object) Get(key string) (interface{}, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.values[key]
	return v, ok
}

// Has reports whether key is present, regardless of its value
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// GetString returns the value under key if it is a string
func (o *Object) GetString(key string) (string, bool) {
	v, ok := o.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetObject returns the value under key if it is an object
func (o *Object) GetObject(key string) (*Object, bool) {
	v, ok := o.Get(key)
	if !ok {
		return nil, false
	}
	obj, ok := v.(*Object)
	return obj, ok && obj != nil
}

// GetArray returns the value under key if it is an array
func (o *Object) GetArray(key string) ([]interface{}, bool) {
	v, ok := o.Get(key)
	if !ok {
		return nil, false
	}
	arr, ok := v.([]interface{})
	return arr, ok
}

// Set stores value under key
func (o *Object) Set(key string, value interface{}) {
	if o.values == nil {
		o.values = make(map[string]interface{})
	}
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Delete removes key and reports whether it was present
func (o *Object) Delete(key string) bool {
	if o == nil {
		return false
	}
	if _, exists := o.values[key]; !exists {
		return false
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	return true
}

// Range calls fn for every key in order until fn returns false
func (o *Object) Range(fn func(key string, value interface{}) bool) {
	if o == nil {
		return
	}
	for _, k := range o.keys {
		if !fn(k, o.values[k]) {
			return
		}
	}
}

// Clone returns a deep copy of the object
func (o *Object) Clone() *Object {
	if o == nil {
		return nil
	}
	clone := &Object{
		keys:   make([]string, len(o.keys)),
		values: make(map[string]interface{}, len(o.values)),
	}
	copy(clone.keys, o.keys)
	for k, v := range o.values {
		clone.values[k] = CloneValue(v)
	}
	return clone
}

// MarshalJSON encodes the object compactly with its key order intact
func (o *Object) MarshalJSON() ([]byte, error) {
	return Marshal(o)
}

// UnmarshalJSON decodes a JSON object, remembering key order
func (o *Object) UnmarshalJSON(data []byte) error {
	v, err := Decode(data)
	if err != nil {
		return err
	}
	obj, ok := v.(*Object)
	if !ok {
		return errNotObject
	}
	*o = *obj
	return nil
}

// CloneValue deep copies any value held by an Object
func CloneValue(v interface{}) interface{} {
	switch t := v.(type) {
	case *Object:
		return t.Clone()
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = CloneValue(item)
		}
		return out
	default:
		return v
	}
}
