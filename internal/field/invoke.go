package field

import (
	"fmt"
	"reflect"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// call invokes fn with the given arguments and normalizes the result to a
// (value, error) pair. fn may return nothing, a single value, a single error,
// or a value plus a trailing error. Arguments are converted to the parameter
// type when they are convertible but not directly assignable; a nil argument
// becomes the parameter type's zero value. Arity and type mismatches are
// reported as errors rather than reflect panics, since argument lists come
// from user configuration.
func call(fn any, args []any) (any, error) {
	fv := reflect.ValueOf(fn)
	if !fv.IsValid() || fv.Kind() != reflect.Func {
		return nil, fmt.Errorf("callable must be a func, got %T", fn)
	}

	ft := fv.Type()
	if ft.IsVariadic() {
		if len(args) < ft.NumIn()-1 {
			return nil, fmt.Errorf("callable takes at least %d arguments, got %d", ft.NumIn()-1, len(args))
		}
	} else if len(args) != ft.NumIn() {
		return nil, fmt.Errorf("callable takes %d arguments, got %d", ft.NumIn(), len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		pt := paramType(ft, i)
		if arg == nil {
			in[i] = reflect.Zero(pt)
			continue
		}
		av := reflect.ValueOf(arg)
		if !av.Type().AssignableTo(pt) {
			if !canConvert(av.Type(), pt) {
				return nil, fmt.Errorf("argument %d: cannot use %T as %s", i, arg, pt)
			}
			av = av.Convert(pt)
		}
		in[i] = av
	}

	return splitResults(fv.Call(in))
}

// paramType reports the type of the i-th parameter, unrolling a variadic
// tail.
func paramType(ft reflect.Type, i int) reflect.Type {
	n := ft.NumIn()
	switch {
	case ft.IsVariadic() && i >= n-1:
		return ft.In(n - 1).Elem()
	case i < n:
		return ft.In(i)
	default:
		return reflect.TypeOf((*any)(nil)).Elem()
	}
}

// canConvert mirrors reflect's ConvertibleTo but rejects the integer-to-string
// conversion, which would silently produce a one-rune string.
func canConvert(from, to reflect.Type) bool {
	if !from.ConvertibleTo(to) {
		return false
	}
	if to.Kind() == reflect.String {
		switch from.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			return false
		}
	}
	return true
}

// splitResults maps a callable's return values onto the (value, error)
// convention used throughout this package.
func splitResults(out []reflect.Value) (any, error) {
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		if err, ok := asError(out[0]); ok {
			return nil, err
		}
		return out[0].Interface(), nil
	case 2:
		if !out[1].Type().Implements(errorType) {
			return nil, fmt.Errorf("callable's second return value must be an error, got %s", out[1].Type())
		}
		if err, ok := asError(out[1]); ok {
			return nil, err
		}
		return out[0].Interface(), nil
	default:
		return nil, fmt.Errorf("callable returned %d values, want at most two", len(out))
	}
}

// asError extracts a non-nil error from v, if v holds one.
func asError(v reflect.Value) (error, bool) {
	if !v.Type().Implements(errorType) {
		return nil, false
	}
	if v.IsNil() {
		return nil, false
	}
	return v.Interface().(error), true
}
