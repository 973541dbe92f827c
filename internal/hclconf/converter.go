package hclconf

import (
	"context"
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/vk/seedforge/internal/config"
	"github.com/vk/seedforge/internal/ctxlog"
)

// Converter is the HCL-specific implementation of the config.Converter
// interface.
type Converter struct{}

// NewConverter creates a new HCL converter.
func NewConverter() *Converter {
	return &Converter{}
}

// DecodeBody evaluates HCL expressions, applies defaults, and populates the
// provided Go struct using reflection. Struct fields match manifest inputs
// through their `seed` tags.
func (c *Converter) DecodeBody(
	ctx context.Context,
	inputStruct any,
	args map[string]hcl.Expression,
	defs map[string]*config.InputDefinition,
	evalCtx *hcl.EvalContext,
) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Starting HCL body decoding.")

	structVal := reflect.ValueOf(inputStruct)
	if structVal.Kind() != reflect.Pointer || structVal.IsNil() {
		return fmt.Errorf("inputStruct must be a non-nil pointer")
	}
	structVal = structVal.Elem()
	structType := structVal.Type()

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		fieldVal := structVal.Field(i)

		if !fieldVal.CanSet() {
			continue
		}

		lookupName := field.Name
		if tag := field.Tag.Get("seed"); tag != "" {
			lookupName = strings.Split(tag, ",")[0]
		}

		inputDef, defExists := defs[lookupName]
		if !defExists {
			continue
		}

		targetPtr := fieldVal.Addr().Interface()
		argExpr, argProvided := args[lookupName]

		if argProvided {
			val, diags := argExpr.Value(evalCtx)
			if diags.HasErrors() {
				return diags
			}
			if err := c.decode(ctx, val, targetPtr); err != nil {
				return fmt.Errorf("failed to decode argument '%s': %w", lookupName, err)
			}
		} else {
			if inputDef.Default == nil && !inputDef.Optional {
				return fmt.Errorf("missing required argument %q", lookupName)
			}

			if inputDef.Default != nil {
				if err := c.decode(ctx, *inputDef.Default, targetPtr); err != nil {
					return fmt.Errorf("failed to apply default for '%s': %w", lookupName, err)
				}
			}
		}
	}
	logger.Debug("Finished HCL body decoding successfully.")
	return nil
}

// decode handles the conversion of a cty.Value into a Go pointer target.
func (c *Converter) decode(ctx context.Context, val cty.Value, goVal any) error {
	logger := ctxlog.FromContext(ctx)
	valPtr := reflect.ValueOf(goVal)
	if valPtr.Kind() != reflect.Pointer {
		return fmt.Errorf("target for decoding must be a pointer, got %T", goVal)
	}

	// cty.Value targets take the value verbatim. Heterogeneous records stay
	// typed instead of being forced through an implied type.
	if target, ok := goVal.(*cty.Value); ok {
		*target = val
		return nil
	}

	// Untyped targets take the native form. Sinks declare their records
	// input this way since record shape is not known until runtime.
	if target, ok := goVal.(*any); ok {
		native, err := c.FromCtyValue(val)
		if err != nil {
			return err
		}
		*target = native
		return nil
	}

	impliedType, err := gocty.ImpliedType(valPtr.Elem().Interface())
	if err != nil {
		logger.Debug("Could not imply cty.Type from Go type, decoding natively.", "go_type", valPtr.Elem().Type().String(), "error", err)
		native, nerr := c.FromCtyValue(val)
		if nerr != nil {
			return nerr
		}
		return assignNative(native, valPtr.Elem())
	}

	convertedVal, err := convert.Convert(val, impliedType)
	if err != nil {
		return fmt.Errorf("cannot convert %s to required type %s: %w", val.Type().FriendlyName(), impliedType.FriendlyName(), err)
	}

	return gocty.FromCtyValue(convertedVal, goVal)
}

// ToCtyValue converts a native Go value into its corresponding cty.Value.
// Records are heterogeneous, so maps and slices convert recursively into
// object and tuple values rather than through a single implied type.
func (c *Converter) ToCtyValue(v any) (cty.Value, error) {
	switch tv := v.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil

	case cty.Value:
		return tv, nil

	case map[string]any:
		if len(tv) == 0 {
			return cty.EmptyObjectVal, nil
		}
		attrs := make(map[string]cty.Value, len(tv))
		for k, elem := range tv {
			cv, err := c.ToCtyValue(elem)
			if err != nil {
				return cty.NilVal, fmt.Errorf("attribute %q: %w", k, err)
			}
			attrs[k] = cv
		}
		return cty.ObjectVal(attrs), nil

	case []map[string]any:
		elems := make([]any, len(tv))
		for i, e := range tv {
			elems[i] = e
		}
		return c.ToCtyValue(elems)

	case []any:
		if len(tv) == 0 {
			return cty.EmptyTupleVal, nil
		}
		elems := make([]cty.Value, len(tv))
		for i, e := range tv {
			cv, err := c.ToCtyValue(e)
			if err != nil {
				return cty.NilVal, fmt.Errorf("element %d: %w", i, err)
			}
			elems[i] = cv
		}
		return cty.TupleVal(elems), nil

	default:
		ty, err := gocty.ImpliedType(v)
		if err != nil {
			return cty.NilVal, fmt.Errorf("unable to infer cty.Type for %T: %w", v, err)
		}
		return gocty.ToCtyValue(v, ty)
	}
}

// FromCtyValue converts a cty.Value into its native Go equivalent: objects
// and maps become map[string]any, tuples, lists and sets become []any,
// integral numbers become int64 and other numbers float64. Null and unknown
// values become nil.
func (c *Converter) FromCtyValue(v cty.Value) (any, error) {
	if v == cty.NilVal || v.IsNull() || !v.IsKnown() {
		return nil, nil
	}

	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil

	case ty == cty.Number:
		bf := v.AsBigFloat()
		if i, acc := bf.Int64(); acc == big.Exact {
			return i, nil
		}
		f, _ := bf.Float64()
		return f, nil

	case ty == cty.Bool:
		return v.True(), nil

	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any)
		for it := v.ElementIterator(); it.Next(); {
			k, ev := it.Element()
			nv, err := c.FromCtyValue(ev)
			if err != nil {
				return nil, fmt.Errorf("attribute %q: %w", k.AsString(), err)
			}
			out[k.AsString()] = nv
		}
		return out, nil

	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		out := make([]any, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			nv, err := c.FromCtyValue(ev)
			if err != nil {
				return nil, err
			}
			out = append(out, nv)
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}

// Functions returns the function table exposed to scenario and blueprint
// expressions.
func (c *Converter) Functions() map[string]function.Function {
	return map[string]function.Function{
		"format":   stdlib.FormatFunc,
		"join":     stdlib.JoinFunc,
		"length":   stdlib.LengthFunc,
		"lower":    stdlib.LowerFunc,
		"upper":    stdlib.UpperFunc,
		"coalesce": stdlib.CoalesceFunc,
	}
}

// assignNative assigns a converter-produced native value to target,
// rebuilding slices and maps element by element so a []any fits concrete
// slice types such as []map[string]any.
func assignNative(native any, target reflect.Value) error {
	if native == nil {
		target.Set(reflect.Zero(target.Type()))
		return nil
	}

	nv := reflect.ValueOf(native)
	tt := target.Type()
	if nv.Type().AssignableTo(tt) {
		target.Set(nv)
		return nil
	}

	switch tt.Kind() {
	case reflect.Slice:
		if nv.Kind() != reflect.Slice {
			return fmt.Errorf("cannot assign %T to %s", native, tt)
		}
		out := reflect.MakeSlice(tt, nv.Len(), nv.Len())
		for i := 0; i < nv.Len(); i++ {
			if err := assignNative(nv.Index(i).Interface(), out.Index(i)); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
		target.Set(out)
		return nil

	case reflect.Map:
		if nv.Kind() != reflect.Map {
			return fmt.Errorf("cannot assign %T to %s", native, tt)
		}
		out := reflect.MakeMapWithSize(tt, nv.Len())
		for _, k := range nv.MapKeys() {
			kv := reflect.New(tt.Key()).Elem()
			if err := assignNative(k.Interface(), kv); err != nil {
				return fmt.Errorf("key %v: %w", k.Interface(), err)
			}
			vv := reflect.New(tt.Elem()).Elem()
			if err := assignNative(nv.MapIndex(k).Interface(), vv); err != nil {
				return fmt.Errorf("value for key %v: %w", k.Interface(), err)
			}
			out.SetMapIndex(kv, vv)
		}
		target.Set(out)
		return nil

	case reflect.Pointer:
		out := reflect.New(tt.Elem())
		if err := assignNative(native, out.Elem()); err != nil {
			return err
		}
		target.Set(out)
		return nil

	default:
		if nv.Type().ConvertibleTo(tt) {
			target.Set(nv.Convert(tt))
			return nil
		}
		return fmt.Errorf("cannot assign %T to %s", native, tt)
	}
}
