package listview

import (
	"fmt"
	"reflect"
	"strings"
)

// resolvePath walks a dot-separated field path ("region.name") through maps,
// structs and pointers. It never panics: a missing or nil intermediate
// resolves to absent (ok == false), which callers coerce to the empty string.
func resolvePath(v interface{}, path string) (string, bool) {
	cur := reflect.ValueOf(v)
	for _, part := range strings.Split(path, ".") {
		cur = indirect(cur)
		if !cur.IsValid() {
			return "", false
		}
		switch cur.Kind() {
		case reflect.Map:
			if cur.Type().Key().Kind() != reflect.String {
				return "", false
			}
			cur = cur.MapIndex(reflect.ValueOf(part))
			if !cur.IsValid() {
				return "", false
			}
		case reflect.Struct:
			f, ok := fieldByName(cur, part)
			if !ok {
				return "", false
			}
			cur = f
		default:
			return "", false
		}
	}

	cur = indirect(cur)
	if !cur.IsValid() {
		return "", false
	}
	return fmt.Sprintf("%v", cur.Interface()), true
}

// indirect unwraps pointers and interfaces, returning an invalid value for nil.
func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

// fieldByName matches a struct field by json tag first, then by field name,
// both case-insensitively.
func fieldByName(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("json")
		if comma := strings.Index(tag, ","); comma >= 0 {
			tag = tag[:comma]
		}
		if tag != "" && strings.EqualFold(tag, name) {
			return v.Field(i), true
		}
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.IsExported() && strings.EqualFold(f.Name, name) {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}
