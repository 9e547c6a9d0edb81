package ref

import (
	"reflect"
	"sync"

	"github.com/hatlonely/surrealgate/cfg"
	"github.com/pkg/errors"
)

// TypeOptions 通过 namespace + type 定位已注册的构造函数，Options 作为构造参数
// 配置文件中 Options 通常是 map，会按构造函数参数类型自动转换
type TypeOptions struct {
	Namespace string `cfg:"namespace"`
	Type      string `cfg:"type" validate:"required"`
	Options   any    `cfg:"options"`
}

type constructor struct {
	originalFunc any
	newFunc      reflect.Value
	hasOptions   bool
	returnsError bool
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

func newConstructor(newFunc any) (*constructor, error) {
	funcValue := reflect.ValueOf(newFunc)
	if funcValue.Kind() != reflect.Func {
		return nil, errors.New("newFunc must be a function")
	}

	funcType := funcValue.Type()
	if funcType.NumIn() > 1 {
		return nil, errors.Errorf("newFunc must have 0 or 1 input parameters, got %d", funcType.NumIn())
	}
	if funcType.NumOut() != 1 && funcType.NumOut() != 2 {
		return nil, errors.Errorf("newFunc must have 1 or 2 return values, got %d", funcType.NumOut())
	}
	if funcType.NumOut() == 2 && !funcType.Out(1).Implements(errorType) {
		return nil, errors.New("second return value must be error type")
	}

	return &constructor{
		originalFunc: newFunc,
		newFunc:      funcValue,
		hasOptions:   funcType.NumIn() == 1,
		returnsError: funcType.NumOut() == 2,
	}, nil
}

func (c *constructor) new(options any) (any, error) {
	var args []reflect.Value
	if c.hasOptions {
		arg, err := c.convertOptions(options)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}

	results := c.newFunc.Call(args)
	if c.returnsError && !results[1].IsNil() {
		return nil, results[1].Interface().(error)
	}

	return results[0].Interface(), nil
}

// convertOptions 将 options 转换为构造函数的参数类型
// 类型一致时直接传递，否则经过 cfg.Decode（字段映射、默认值、校验）
func (c *constructor) convertOptions(options any) (reflect.Value, error) {
	paramType := c.newFunc.Type().In(0)

	if options != nil && reflect.TypeOf(options).AssignableTo(paramType) {
		return reflect.ValueOf(options), nil
	}

	if paramType.Kind() == reflect.Ptr {
		target := reflect.New(paramType.Elem())
		if err := cfg.Decode(options, target.Interface()); err != nil {
			return reflect.Value{}, errors.WithMessagef(err, "convert options to %v failed", paramType)
		}
		return target, nil
	}

	target := reflect.New(paramType)
	if err := cfg.Decode(options, target.Interface()); err != nil {
		return reflect.Value{}, errors.WithMessagef(err, "convert options to %v failed", paramType)
	}
	return target.Elem(), nil
}

var nameConstructorMap sync.Map

func isSameFunc(func1, func2 any) bool {
	return reflect.ValueOf(func1).Pointer() == reflect.ValueOf(func2).Pointer()
}

// Register 注册构造函数，同一个 key 重复注册相同函数时忽略
func Register(namespace string, type_ string, newFunc any) error {
	key := namespace + ":" + type_

	if value, ok := nameConstructorMap.Load(key); ok {
		if isSameFunc(value.(*constructor).originalFunc, newFunc) {
			return nil
		}
		return errors.Errorf("constructor for %s already registered with different function", key)
	}

	c, err := newConstructor(newFunc)
	if err != nil {
		return errors.WithMessage(err, "failed to create constructor")
	}

	nameConstructorMap.Store(key, c)
	return nil
}

// RegisterT 使用类型 T 的包路径和类型名作为 namespace 和 type
func RegisterT[T any](newFunc any) error {
	namespace, type_, err := typeKey[T]()
	if err != nil {
		return err
	}
	return Register(namespace, type_, newFunc)
}

func MustRegister(namespace string, type_ string, newFunc any) {
	if err := Register(namespace, type_, newFunc); err != nil {
		panic(err)
	}
}

func MustRegisterT[T any](newFunc any) {
	if err := RegisterT[T](newFunc); err != nil {
		panic(err)
	}
}

func New(namespace string, type_ string, options any) (any, error) {
	key := namespace + ":" + type_
	value, ok := nameConstructorMap.Load(key)
	if !ok {
		return nil, errors.Errorf("constructor not found for %s", key)
	}

	return value.(*constructor).new(options)
}

func NewWithOptions(options *TypeOptions) (any, error) {
	if options == nil {
		return nil, errors.New("options is nil")
	}
	return New(options.Namespace, options.Type, options.Options)
}

func typeKey[T any]() (string, string, error) {
	var t T
	tType := reflect.TypeOf(&t).Elem()
	for tType.Kind() == reflect.Ptr {
		tType = tType.Elem()
	}

	if tType.PkgPath() == "" || tType.Name() == "" {
		return "", "", errors.Errorf("cannot determine package path or type name for type %v", tType)
	}

	return tType.PkgPath(), tType.Name(), nil
}
