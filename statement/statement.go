package statement

import (
	"github.com/pkg/errors"
)

var (
	ErrEmptyRecord = errors.New("empty record")
	ErrInvalidKey  = errors.New("invalid key")
	ErrMissingID   = errors.New("missing id")
)

type Kind string

const (
	KindDefine Kind = "define"
	KindSelect Kind = "select"
	KindInsert Kind = "insert"
	KindUpdate Kind = "update"
	KindDelete Kind = "delete"
)

// Statement 一条待执行的语句，Table 和 Kind 用于指标和缓存
type Statement struct {
	Table string
	Kind  Kind
	Text  string
}

func (s Statement) String() string {
	return s.Text
}

// Mutating 是否会修改数据或结构
func (s Statement) Mutating() bool {
	return s.Kind != KindSelect
}
