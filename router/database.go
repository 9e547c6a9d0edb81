package router

import (
	"github.com/hatlonely/surrealgate/record"
)

// DatabaseCapabilitiesOptions 数据库级别的路由开关，未配置时开启
type DatabaseCapabilitiesOptions struct {
	Info         *bool `cfg:"info"`
	CreateTables *bool `cfg:"createTables"`
	// 查看表的建表语句，不执行
	Definitions *bool `cfg:"definitions"`
}

// DatabaseOptions 数据库的描述信息，只用于展示
type DatabaseOptions struct {
	Name        string `cfg:"name" def:"surreal" validate:"required"`
	Description string `cfg:"description" def:"SurrealDB"`
	URL         string `cfg:"url" def:"http://localhost:8000/sql"`
	Namespace   string `cfg:"namespace" def:"test"`
	Database    string `cfg:"database" def:"test"`

	Capabilities DatabaseCapabilitiesOptions `cfg:"capabilities"`
}

type Database struct {
	name         string
	description  string
	url          string
	namespace    string
	database     string
	info         bool
	createTables bool
	definitions  bool
}

func NewDatabaseWithOptions(options *DatabaseOptions) *Database {
	flag := func(v *bool) bool {
		return v == nil || *v
	}
	return &Database{
		name:         options.Name,
		description:  options.Description,
		url:          options.URL,
		namespace:    options.Namespace,
		database:     options.Database,
		info:         flag(options.Capabilities.Info),
		createTables: flag(options.Capabilities.CreateTables),
		definitions:  flag(options.Capabilities.Definitions),
	}
}

func (d *Database) Name() string {
	return d.name
}

func (d *Database) InfoEnabled() bool {
	return d.info
}

func (d *Database) CreateTablesEnabled() bool {
	return d.createTables
}

func (d *Database) DefinitionsEnabled() bool {
	return d.definitions
}

func (d *Database) APIRoute() string {
	return "/api/v1/db/" + d.name
}

func (d *Database) Info() record.Record {
	return record.Record{
		{Key: "name", Value: d.name},
		{Key: "description", Value: d.description},
		{Key: "url", Value: d.url},
		{Key: "namespace", Value: d.namespace},
		{Key: "database", Value: d.database},
		{Key: "api_route", Value: d.APIRoute()},
	}
}
