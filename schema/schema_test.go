package schema

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
)

func boolPtr(v bool) *bool {
	return &v
}

func TestFieldType(t *testing.T) {
	for _, v := range []string{"string", "object", "array<string>", "option<int>", "record<user>", "geometry<point|polygon>", "set<array<int>>",
		"option<record<user | post>>", "array<int, 10>", "array<option<string>,5>"} {
		assert.True(t, FieldType(v).Valid(), v)
	}
	for _, v := range []string{"", "String", "strin", "string;", "array<string>; DELETE user", "foo<int>",
		"option<int> value rand<x>", "array<string >", "array< string>", "array<>", "array<int,>", "array<int", "array<int>>",
		"record<user|>", "option<int> ", "int | string", "array<int>array<int>"} {
		assert.False(t, FieldType(v).Valid(), v)
	}
	assert.Equal(t, FieldTypeArray, FieldType("array<string>").Base())
}

func TestIsFieldPath(t *testing.T) {
	assert.True(t, IsFieldPath("name"))
	assert.True(t, IsFieldPath("name.first"))
	assert.True(t, IsFieldPath("tags.*"))
	assert.False(t, IsFieldPath(""))
	assert.False(t, IsFieldPath("name..first"))
	assert.False(t, IsFieldPath("na me"))
	assert.False(t, IsFieldPath("1name"))
}

func TestCapabilities(t *testing.T) {
	Convey("Capabilities", t, func() {
		Convey("零值全部开启", func() {
			var c Capabilities
			for _, capability := range AllCapabilities {
				So(c.Enabled(capability), ShouldBeTrue)
			}
		})

		Convey("未配置的操作默认开启", func() {
			c := NewCapabilities(&CapabilitiesOptions{Delete: boolPtr(false), Read: boolPtr(true)})
			So(c.Enabled(CapabilityDelete), ShouldBeFalse)
			So(c.Enabled(CapabilityRead), ShouldBeTrue)
			So(c.Enabled(CapabilityUpdate), ShouldBeTrue)
			So(c.Enabled(Capability("drop")), ShouldBeFalse)
			So(c.List(), ShouldResemble, []Capability{CapabilityRead, CapabilityWrite, CapabilityUpdate, CapabilityInfo})
		})

		Convey("MarshalJSON", func() {
			buf, err := json.Marshal(NewCapabilities(&CapabilitiesOptions{Delete: boolPtr(false)}))
			So(err, ShouldBeNil)
			So(string(buf), ShouldEqual, `{"delete":false,"info":true,"read":true,"update":true,"write":true}`)
		})
	})
}

func newUserOptions() *TableOptions {
	return &TableOptions{
		Name:        "user",
		Description: "User table",
		Schemafull:  true,
		Capabilities: CapabilitiesOptions{
			Delete: boolPtr(false),
		},
		Fields: []FieldOptions{
			{Name: "name", Type: "object"},
			{Name: "name.full", Type: "string", Value: `name.first + " " + name.last`},
			{Name: "email", Type: "string", Assert: "is::email($value)"},
		},
	}
}

func TestNewTableSchemaWithOptions(t *testing.T) {
	Convey("NewTableSchemaWithOptions", t, func() {
		Convey("构造成功", func() {
			table, err := NewTableSchemaWithOptions(newUserOptions())
			So(err, ShouldBeNil)
			So(table.Name(), ShouldEqual, "user")
			So(table.Description(), ShouldEqual, "User table")
			So(table.Schemafull(), ShouldBeTrue)
			So(table.APIRoute(), ShouldEqual, "/api/v1/user")
			So(table.Capabilities().Enabled(CapabilityDelete), ShouldBeFalse)
			So(len(table.Fields()), ShouldEqual, 3)
			So(table.Fields()[1].Name, ShouldEqual, "name.full")
			So(table.Fields()[2].Assert, ShouldEqual, "is::email($value)")
		})

		Convey("Fields 返回副本", func() {
			table := MustNewTableSchema(newUserOptions())
			fields := table.Fields()
			fields[0].Name = "changed"
			So(table.Fields()[0].Name, ShouldEqual, "name")
		})

		Convey("非法定义", func() {
			for _, mutate := range []func(o *TableOptions){
				func(o *TableOptions) { o.Name = "" },
				func(o *TableOptions) { o.Name = "user; DELETE user" },
				func(o *TableOptions) { o.Fields[0].Name = "a b" },
				func(o *TableOptions) { o.Fields[1].Name = "name" },
				func(o *TableOptions) { o.Fields[2].Type = "string; DELETE user" },
				func(o *TableOptions) { o.Fields[2].Type = "varchar" },
			} {
				options := newUserOptions()
				mutate(options)
				_, err := NewTableSchemaWithOptions(options)
				So(errors.Is(err, ErrInvalidSchema), ShouldBeTrue)
			}
			_, err := NewTableSchemaWithOptions(nil)
			So(errors.Is(err, ErrInvalidSchema), ShouldBeTrue)
		})

		Convey("Info", func() {
			buf, err := json.Marshal(MustNewTableSchema(newUserOptions()).Info())
			So(err, ShouldBeNil)
			So(string(buf), ShouldEqual, `{"name":"user","description":"User table","schemafull":true,"api_route":"/api/v1/user",`+
				`"apis_enabled":{"delete":false,"info":true,"read":true,"update":true,"write":true},`+
				`"fields":{"name":{"type":"object"},"name.full":{"type":"string","value":"name.first + \" \" + name.last"},`+
				`"email":{"type":"string","assertion":"is::email($value)"}}}`)
		})
	})
}

func TestRegistry(t *testing.T) {
	Convey("Registry", t, func() {
		registry := NewRegistry()
		user := MustNewTableSchema(&TableOptions{Name: "user"})
		post := MustNewTableSchema(&TableOptions{Name: "post"})

		So(registry.Register(user), ShouldBeNil)
		So(registry.Register(post), ShouldBeNil)

		Convey("按注册顺序返回", func() {
			So(registry.Len(), ShouldEqual, 2)
			So(registry.All(), ShouldResemble, []*TableSchema{user, post})
		})

		Convey("重复注册", func() {
			err := registry.Register(MustNewTableSchema(&TableOptions{Name: "user"}))
			So(errors.Is(err, ErrDuplicateTable), ShouldBeTrue)
			So(registry.Len(), ShouldEqual, 2)
			So(func() { registry.MustRegister(user) }, ShouldPanic)
		})

		Convey("查找", func() {
			table, err := registry.Find("post")
			So(err, ShouldBeNil)
			So(table, ShouldEqual, post)
			_, err = registry.Find("comment")
			So(errors.Is(err, ErrTableNotFound), ShouldBeTrue)
		})

		Convey("并发读", func() {
			var wg sync.WaitGroup
			for i := 0; i < 16; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, _ = registry.Find("user")
					_ = registry.All()
				}()
			}
			wg.Wait()
		})
	})

	Convey("NewRegistryWithOptions", t, func() {
		registry, err := NewRegistryWithOptions([]TableOptions{{Name: "user"}, {Name: "post"}})
		So(err, ShouldBeNil)
		So(registry.Len(), ShouldEqual, 2)
		So(registry.All()[1].Name(), ShouldEqual, "post")

		_, err = NewRegistryWithOptions([]TableOptions{{Name: "user"}, {Name: "user"}})
		So(errors.Is(err, ErrDuplicateTable), ShouldBeTrue)
	})
}
