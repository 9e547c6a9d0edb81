package cfg

import (
	"os"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
	"github.com/hatlonely/surrealgate/cfg/decoder"
	"github.com/hatlonely/surrealgate/cfg/validator"
	"github.com/pkg/errors"
)

// Load 从文件加载配置到 object
// 解码器根据文件后缀选择，之后依次执行字段映射（cfg tag）、默认值（def tag）和校验（validate tag）
func Load(filename string, object any) error {
	raw, err := loadRaw(filename)
	if err != nil {
		return err
	}
	return Decode(raw, object)
}

func loadRaw(filename string) (any, error) {
	if filename == "" {
		return nil, errors.New("filename cannot be empty")
	}

	dec, err := decoder.NewDecoderForFile(filename)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read file %s", filename)
	}

	raw, err := dec.Decode(data)
	if err != nil {
		return nil, errors.WithMessagef(err, "file %s", filename)
	}

	return raw, nil
}

// Decode 将通用结构（map/slice）转换为 object，并设置默认值、执行校验
// input 已经是 object 同类型时直接拷贝
func Decode(input any, object any) error {
	rv := reflect.ValueOf(object)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return errors.New("object must be a non-nil pointer")
	}

	if input != nil {
		iv := reflect.ValueOf(input)
		switch {
		case iv.Type().AssignableTo(rv.Elem().Type()):
			rv.Elem().Set(iv)
		case iv.Kind() == reflect.Ptr && iv.Type().AssignableTo(rv.Type()):
			if !iv.IsNil() {
				rv.Elem().Set(iv.Elem())
			}
		default:
			if err := convert(input, object); err != nil {
				return err
			}
		}
	}

	if err := SetDefaults(object); err != nil {
		return errors.WithMessage(err, "SetDefaults failed")
	}

	if err := validator.ValidateStruct(object); err != nil {
		return errors.Wrap(err, "validate failed")
	}

	return nil
}

func convert(input any, object any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		TagName:          "cfg",
		Result:           object,
	})
	if err != nil {
		return errors.Wrap(err, "mapstructure.NewDecoder failed")
	}

	if err := dec.Decode(input); err != nil {
		return errors.Wrap(err, "decode failed")
	}

	return nil
}
