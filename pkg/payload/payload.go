// Package payload gives typed access to decoded JSON notification objects.
package payload

import (
	"encoding/json"

	"github.com/pkg/errors"
)

var (
	ErrMissingField = errors.New("missing field")
	ErrWrongType    = errors.New("wrong type")
)

// Object is a single decoded JSON object.
type Object map[string]interface{}

func Decode(data []byte) (Object, error) {
	var o Object
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, errors.Wrap(err, "decode payload")
	}
	if o == nil {
		return nil, errors.Wrap(ErrWrongType, "payload is not an object")
	}
	return o, nil
}

func (o Object) Has(key string) bool {
	_, ok := o[key]
	return ok
}

// String returns the required string field key.
func (o Object) String(key string) (string, error) {
	v, ok := o[key]
	if !ok {
		return "", errors.Wrapf(ErrMissingField, "%s", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", errors.Wrapf(ErrWrongType, "%s: want string, got %T", key, v)
	}
	return s, nil
}

// Float returns the required numeric field key.
func (o Object) Float(key string) (float64, error) {
	v, ok := o[key]
	if !ok {
		return 0, errors.Wrapf(ErrMissingField, "%s", key)
	}
	f, ok := v.(float64)
	if !ok {
		return 0, errors.Wrapf(ErrWrongType, "%s: want number, got %T", key, v)
	}
	return f, nil
}

// Object returns the optional nested object key. ok is false if the key is
// absent.
func (o Object) Object(key string) (obj Object, ok bool, err error) {
	v, ok := o[key]
	if !ok {
		return nil, false, nil
	}
	obj, err = AsObject(v)
	if err != nil {
		return nil, true, errors.Wrapf(err, "%s", key)
	}
	return obj, true, nil
}

// ObjectOrEmpty is like Object but yields an empty object for a missing key.
func (o Object) ObjectOrEmpty(key string) (Object, error) {
	obj, ok, err := o.Object(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Object{}, nil
	}
	return obj, nil
}

// AsObject converts a decoded JSON value into an Object.
func AsObject(v interface{}) (Object, error) {
	switch t := v.(type) {
	case Object:
		return t, nil
	case map[string]interface{}:
		return Object(t), nil
	default:
		return nil, errors.Wrapf(ErrWrongType, "want object, got %T", v)
	}
}
