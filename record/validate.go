package record

import "reflect"

// Truthy nil、空字符串、false、数值 0、空集合为假
func Truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case Record:
		return len(val) != 0
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() != 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}

// ID 返回 id 字段，不存在或为假值时 ok 为 false
func (r Record) ID() (any, bool) {
	id, ok := r.Get("id")
	if !ok || !Truthy(id) {
		return nil, false
	}
	return id, true
}

// Validate 更新和删除前的检查：记录非空且 id 为真值
func Validate(r Record) bool {
	if len(r) == 0 {
		return false
	}
	_, ok := r.ID()
	return ok
}
