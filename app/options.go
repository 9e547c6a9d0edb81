package app

import (
	"time"

	"github.com/hatlonely/surrealgate/log"
	"github.com/hatlonely/surrealgate/ref"
	"github.com/hatlonely/surrealgate/router"
	"github.com/hatlonely/surrealgate/schema"
	"github.com/hatlonely/surrealgate/server"
	"github.com/hatlonely/surrealgate/statement"
	"github.com/hatlonely/surrealgate/store"
)

// DatabaseOptions 数据库描述以及默认 HTTPClient 的连接参数
type DatabaseOptions struct {
	router.DatabaseOptions `cfg:",squash"`

	Username string        `cfg:"username"`
	Password string        `cfg:"password"`
	Timeout  time.Duration `cfg:"timeout" def:"10s"`

	MaxResponseSize int64 `cfg:"maxResponseSize" def:"16777216"`
}

type CacheOptions struct {
	Enable bool `cfg:"enable"`

	store.CachedClientOptions `cfg:",squash"`
}

type MetricsOptions struct {
	Enable bool `cfg:"enable"`

	// 指标名前缀
	Name string `cfg:"name" def:"surrealgate"`
}

type TracingOptions struct {
	Enable bool `cfg:"enable"`
}

type Options struct {
	Server   server.Options  `cfg:"server"`
	Database DatabaseOptions `cfg:"database"`

	// 不配置时根据 database 创建 HTTPClient
	Store *ref.TypeOptions `cfg:"store"`

	Cache     CacheOptions      `cfg:"cache"`
	Metrics   MetricsOptions    `cfg:"metrics"`
	Tracing   TracingOptions    `cfg:"tracing"`
	Statement statement.Options `cfg:"statement"`
	Logger    log.Options       `cfg:"logger"`

	Tables []schema.TableOptions `cfg:"tables" validate:"dive"`

	// 额外的表定义文件，内容为 tables 列表，追加在 Tables 之后
	SchemaFile string `cfg:"schemaFile"`

	CreateTablesOnStart bool `cfg:"createTablesOnStart"`
}

type schemaFile struct {
	Tables []schema.TableOptions `cfg:"tables" validate:"dive"`
}
