package schema

import (
	"sync"

	"github.com/pkg/errors"
)

// Registry 进程内所有表结构的集合
// 启动阶段注册，之后只读；All 的顺序即注册顺序，批量建表按此顺序执行
type Registry struct {
	mu     sync.RWMutex
	tables []*TableSchema
	index  map[string]*TableSchema
}

func NewRegistry() *Registry {
	return &Registry{index: map[string]*TableSchema{}}
}

// NewRegistryWithOptions 按配置顺序构造并注册所有表
func NewRegistryWithOptions(options []TableOptions) (*Registry, error) {
	registry := NewRegistry()
	for i := range options {
		table, err := NewTableSchemaWithOptions(&options[i])
		if err != nil {
			return nil, err
		}
		if err := registry.Register(table); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func (r *Registry) Register(table *TableSchema) error {
	if table == nil {
		return errors.WithMessage(ErrInvalidSchema, "table is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.index[table.name]; ok {
		return errors.WithMessagef(ErrDuplicateTable, "table %s", table.name)
	}
	r.index[table.name] = table
	r.tables = append(r.tables, table)
	return nil
}

func (r *Registry) MustRegister(table *TableSchema) {
	if err := r.Register(table); err != nil {
		panic(err)
	}
}

// All 按注册顺序返回
func (r *Registry) All() []*TableSchema {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tables := make([]*TableSchema, len(r.tables))
	copy(tables, r.tables)
	return tables
}

func (r *Registry) Find(name string) (*TableSchema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	table, ok := r.index[name]
	if !ok {
		return nil, errors.WithMessagef(ErrTableNotFound, "table %s", name)
	}
	return table, nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tables)
}
