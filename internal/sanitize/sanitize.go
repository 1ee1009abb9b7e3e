// Package sanitize turns engine results into JSON-safe trees: string map
// keys and finite numbers only.
package sanitize

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/seenimoa/stockstrip/pkg/models"
	"github.com/seenimoa/stockstrip/pkg/utils"
)

var timeType = reflect.TypeOf(time.Time{})

// Tree returns a copy of v in which every map is keyed by strings, every
// NaN, infinite, or negative-zero float is 0, and structs are rendered as
// maps of their exported fields. Dates, as keys or values, render as
// 2006-01-02.
func Tree(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case float64:
		return Float(x)
	case float32:
		return Float(float64(x))
	case time.Time:
		return utils.FormatDate(x)
	case models.Series:
		return Tree(x.Map())
	case error:
		return Tree(models.ErrorMarker(x))
	}
	return walk(reflect.ValueOf(v))
}

// Float maps NaN, ±Inf and -0 to 0.
func Float(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f == 0 {
		return 0
	}
	return f
}

func walk(rv reflect.Value) any {
	switch rv.Kind() {
	case reflect.Invalid:
		return nil
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return Tree(rv.Elem().Interface())
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float())
	case reflect.Map:
		if rv.IsNil() {
			return map[string]any{}
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[key(iter.Key())] = Tree(iter.Value().Interface())
		}
		return out
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return rv.Interface()
		}
		if rv.IsNil() {
			return []any{}
		}
		fallthrough
	case reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = Tree(rv.Index(i).Interface())
		}
		return out
	case reflect.Struct:
		return structFields(rv)
	}
	return rv.Interface()
}

func key(k reflect.Value) string {
	if k.Kind() == reflect.Interface {
		if k.IsNil() {
			return "<nil>"
		}
		k = k.Elem()
	}
	if k.Type() == timeType {
		return utils.FormatDate(k.Interface().(time.Time))
	}
	if k.Kind() == reflect.Float32 || k.Kind() == reflect.Float64 {
		return fmt.Sprint(Float(k.Float()))
	}
	return fmt.Sprint(k.Interface())
}

// structFields renders exported fields under their json names.
func structFields(rv reflect.Value) map[string]any {
	t := rv.Type()
	out := make(map[string]any, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("json"); ok {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}
		out[name] = Tree(rv.Field(i).Interface())
	}
	return out
}
