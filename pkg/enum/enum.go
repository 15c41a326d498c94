package enum

import (
	"fmt"
	"reflect"
)

var enumManager = map[string]any{}

type enum[T comparable] struct {
	toEnum   map[string]T
	toString map[T]string
}

// New registers value as a member of its enum type. The string form of the value is used as
// its name.
func New[T comparable](value T) T {
	t := reflect.TypeOf(value)
	if _, ok := enumManager[t.String()]; !ok {
		enumManager[t.String()] = enum[T]{toEnum: make(map[string]T), toString: make(map[T]string)}
	}

	name := fmt.Sprint(value)
	e := enumManager[t.String()].(enum[T])
	e.toEnum[name] = value
	e.toString[value] = name
	return value
}

func ToEnum[T comparable](s string) (T, error) {
	var defaultT T
	e, ok := enumManager[reflect.TypeOf(defaultT).String()]
	if !ok {
		return defaultT, fmt.Errorf("not found enum type %T", defaultT)
	}

	t, ok := e.(enum[T]).toEnum[s]
	if !ok {
		return defaultT, fmt.Errorf("not found value %s in enum %T", s, defaultT)
	}

	return t, nil
}

// ToString returns an empty string if value was not registered.
func ToString[T comparable](value T) string {
	e, ok := enumManager[reflect.TypeOf(value).String()]
	if !ok {
		return ""
	}

	return e.(enum[T]).toString[value]
}
