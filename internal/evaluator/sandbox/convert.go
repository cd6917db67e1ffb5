package sandbox

import (
	"fmt"
	"reflect"

	"go.starlark.net/starlark"

	"github.com/goliatone/go-lessons/pkg/interfaces"
)

// Seed converts Go values into Starlark values and binds them in ns.
func Seed(ns *interfaces.Namespace, values map[string]any) error {
	for name, raw := range values {
		value, err := ToValue(raw)
		if err != nil {
			return fmt.Errorf("sandbox: seed %s: %w", name, err)
		}
		ns.Set(name, value)
	}
	return nil
}

// Snapshot returns the namespace bindings as plain Go values, skipping
// functions and other values without a data representation.
func Snapshot(ns *interfaces.Namespace) map[string]any {
	out := map[string]any{}
	for _, name := range ns.Names() {
		raw, _ := ns.Get(name)
		value, ok := raw.(starlark.Value)
		if !ok {
			continue
		}
		if plain, ok := FromValue(value); ok {
			out[name] = plain
		}
	}
	return out
}

// ToValue converts a Go value into a Starlark value. Starlark values pass
// through unchanged.
func ToValue(v any) (starlark.Value, error) {
	switch v := v.(type) {
	case starlark.Value:
		return v, nil
	case nil:
		return starlark.None, nil
	case bool:
		return starlark.Bool(v), nil
	case string:
		return starlark.String(v), nil
	case []byte:
		return starlark.Bytes(v), nil
	case int:
		return starlark.MakeInt(v), nil
	case int64:
		return starlark.MakeInt64(v), nil
	case uint64:
		return starlark.MakeUint64(v), nil
	case float64:
		return starlark.Float(v), nil
	case []any:
		elems := make([]starlark.Value, len(v))
		for i, e := range v {
			converted, err := ToValue(e)
			if err != nil {
				return nil, err
			}
			elems[i] = converted
		}
		return starlark.NewList(elems), nil
	case map[string]any:
		d := starlark.NewDict(len(v))
		for k, e := range v {
			converted, err := ToValue(e)
			if err != nil {
				return nil, err
			}
			if err := d.SetKey(starlark.String(k), converted); err != nil {
				return nil, err
			}
		}
		return d, nil
	}

	value := reflect.ValueOf(v)
	switch value.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return starlark.MakeInt64(value.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return starlark.MakeUint64(value.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return starlark.Float(value.Float()), nil
	case reflect.String:
		return starlark.String(value.String()), nil
	case reflect.Bool:
		return starlark.Bool(value.Bool()), nil
	case reflect.Slice, reflect.Array:
		elems := make([]starlark.Value, value.Len())
		for i := range elems {
			converted, err := ToValue(value.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			elems[i] = converted
		}
		return starlark.NewList(elems), nil
	case reflect.Map:
		d := starlark.NewDict(value.Len())
		iter := value.MapRange()
		for iter.Next() {
			key, err := ToValue(iter.Key().Interface())
			if err != nil {
				return nil, err
			}
			elem, err := ToValue(iter.Value().Interface())
			if err != nil {
				return nil, err
			}
			if err := d.SetKey(key, elem); err != nil {
				return nil, err
			}
		}
		return d, nil
	case reflect.Pointer, reflect.Interface:
		if value.IsNil() {
			return starlark.None, nil
		}
		return ToValue(value.Elem().Interface())
	}

	return nil, fmt.Errorf("unsupported type for starlark: %T", v)
}

// FromValue converts a Starlark data value into its Go counterpart. ok is
// false for callables and other values that carry no data.
func FromValue(v starlark.Value) (any, bool) {
	switch v := v.(type) {
	case starlark.NoneType:
		return nil, true
	case starlark.Bool:
		return bool(v), true
	case starlark.String:
		return string(v), true
	case starlark.Bytes:
		return []byte(v), true
	case starlark.Int:
		if i, ok := v.Int64(); ok {
			return i, true
		}
		return v.String(), true
	case starlark.Float:
		return float64(v), true
	case *starlark.List:
		return fromIterable(v, v.Len())
	case starlark.Tuple:
		return fromIterable(v, v.Len())
	case *starlark.Set:
		return fromIterable(v, v.Len())
	case *starlark.Dict:
		out := make(map[string]any, v.Len())
		for _, item := range v.Items() {
			elem, ok := FromValue(item[1])
			if !ok {
				continue
			}
			key := item[0].String()
			if s, isString := item[0].(starlark.String); isString {
				key = string(s)
			}
			out[key] = elem
		}
		return out, true
	}
	return nil, false
}

func fromIterable(v starlark.Iterable, size int) (any, bool) {
	out := make([]any, 0, size)
	iter := v.Iterate()
	defer iter.Done()
	var elem starlark.Value
	for iter.Next(&elem) {
		if plain, ok := FromValue(elem); ok {
			out = append(out, plain)
		}
	}
	return out, true
}
