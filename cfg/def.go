package cfg

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// SetDefaults 根据 def tag 为结构体的零值字段设置默认值，嵌套结构体递归处理
func SetDefaults(object any) error {
	if object == nil {
		return errors.New("object cannot be nil")
	}

	rv := reflect.ValueOf(object)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return errors.New("object must be a non-nil pointer")
	}

	return setDefaults(rv.Elem())
}

func setDefaults(rv reflect.Value) error {
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Struct:
	case reflect.Slice:
		// 切片中的结构体（如 tables、fields）同样需要默认值
		for i := 0; i < rv.Len(); i++ {
			if err := setDefaults(rv.Index(i)); err != nil {
				return errors.WithMessagef(err, "index %d", i)
			}
		}
		return nil
	default:
		return nil
	}

	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		fieldValue := rv.Field(i)
		if !fieldValue.CanSet() {
			continue
		}

		if err := setDefaults(fieldValue); err != nil {
			return errors.WithMessagef(err, "field %s", field.Name)
		}

		defTag, ok := field.Tag.Lookup("def")
		if !ok || defTag == "" || !fieldValue.IsZero() {
			continue
		}

		if fieldValue.Kind() == reflect.Ptr {
			fieldValue.Set(reflect.New(fieldValue.Type().Elem()))
			fieldValue = fieldValue.Elem()
		}

		if err := setDefaultValue(fieldValue, defTag); err != nil {
			return errors.WithMessagef(err, "field %s", field.Name)
		}
	}

	return nil
}

// setDefaultValue 按字段类型解析 def tag
func setDefaultValue(rv reflect.Value, defValue string) error {
	switch rv.Kind() {
	case reflect.String:
		rv.SetString(defValue)
	case reflect.Bool:
		val, err := strconv.ParseBool(defValue)
		if err != nil {
			return errors.Wrapf(err, "invalid bool value %q", defValue)
		}
		rv.SetBool(val)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		// time.Duration 支持 "30s" 这种写法
		if rv.Type() == reflect.TypeOf(time.Duration(0)) {
			duration, err := time.ParseDuration(defValue)
			if err != nil {
				return errors.Wrapf(err, "invalid duration value %q", defValue)
			}
			rv.SetInt(int64(duration))
			return nil
		}
		val, err := strconv.ParseInt(defValue, 0, rv.Type().Bits())
		if err != nil {
			return errors.Wrapf(err, "invalid int value %q", defValue)
		}
		rv.SetInt(val)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		val, err := strconv.ParseUint(defValue, 0, rv.Type().Bits())
		if err != nil {
			return errors.Wrapf(err, "invalid uint value %q", defValue)
		}
		rv.SetUint(val)
	case reflect.Float32, reflect.Float64:
		val, err := strconv.ParseFloat(defValue, rv.Type().Bits())
		if err != nil {
			return errors.Wrapf(err, "invalid float value %q", defValue)
		}
		rv.SetFloat(val)
	case reflect.Slice:
		// 逗号分隔的列表
		parts := strings.Split(defValue, ",")
		slice := reflect.MakeSlice(rv.Type(), len(parts), len(parts))
		for i, part := range parts {
			if err := setDefaultValue(slice.Index(i), strings.TrimSpace(part)); err != nil {
				return errors.WithMessagef(err, "slice element %d", i)
			}
		}
		rv.Set(slice)
	default:
		return errors.Errorf("unsupported default value type %v", rv.Type())
	}

	return nil
}
