package engine

import (
	"fmt"
	"reflect"
	"strings"
)

// DecodeRecord copies record values into target's struct fields for Go-side
// consumers of built records. Fields match by `seed:"name"` tag, falling
// back to the lowercased field name; a `seed:"-"` tag opts a field out.
// Values are converted when convertible; keys absent from the record leave
// the field untouched.
func DecodeRecord(record map[string]any, target any) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return fmt.Errorf("decode target must be a non-nil pointer to a struct, got %T", target)
	}
	sv := v.Elem()
	if sv.Kind() != reflect.Struct {
		return fmt.Errorf("decode target must point to a struct, got %T", target)
	}

	st := sv.Type()
	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		if !f.IsExported() {
			continue
		}
		name := strings.Split(f.Tag.Get("seed"), ",")[0]
		if name == "-" {
			continue
		}
		if name == "" {
			name = strings.ToLower(f.Name)
		}

		raw, ok := record[name]
		if !ok {
			continue
		}
		if raw == nil {
			sv.Field(i).Set(reflect.Zero(f.Type))
			continue
		}

		rv := reflect.ValueOf(raw)
		switch {
		case rv.Type().AssignableTo(f.Type):
			sv.Field(i).Set(rv)
		case convertibleRecordValue(rv.Type(), f.Type):
			sv.Field(i).Set(rv.Convert(f.Type))
		default:
			return fmt.Errorf("record value for '%s' has type %T, want %s", name, raw, f.Type)
		}
	}

	return nil
}

// convertibleRecordValue reports whether from converts cleanly to to. The
// integer-to-string conversion is excluded; it would yield a one-rune string
// instead of the decimal form a record consumer expects.
func convertibleRecordValue(from, to reflect.Type) bool {
	if !from.ConvertibleTo(to) {
		return false
	}
	if to.Kind() == reflect.String && from.Kind() != reflect.String {
		switch from.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			return false
		}
	}
	return true
}
