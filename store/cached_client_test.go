package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hatlonely/surrealgate/ref"
	"github.com/hatlonely/surrealgate/statement"
	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
)

func testCachedClient(newCache func() Cache) {
	inner := &fakeClient{result: Result{"status": "OK", "result": []any{map[string]any{"id": "user:1"}}}}
	client := NewCachedClient(inner, newCache(), time.Minute, nil)

	selectUser := statement.Statement{Table: "user", Kind: statement.KindSelect, Text: "SELECT * FROM user"}
	selectPost := statement.Statement{Table: "post", Kind: statement.KindSelect, Text: "SELECT * FROM post"}
	updateUser := statement.Statement{Table: "user", Kind: statement.KindUpdate, Text: "UPDATE user:1 SET a = 1;"}

	Convey("重复查询命中缓存", func() {
		r1, err := client.Execute(context.Background(), selectUser)
		So(err, ShouldBeNil)
		r2, err := client.Execute(context.Background(), selectUser)
		So(err, ShouldBeNil)
		So(inner.calls.Load(), ShouldEqual, 1)
		So(r2["status"], ShouldEqual, "OK")
		So(r2["result"], ShouldResemble, r1["result"])
	})

	Convey("修改语句使该表缓存失效", func() {
		_, _ = client.Execute(context.Background(), selectUser)
		_, _ = client.Execute(context.Background(), selectPost)
		_, err := client.Execute(context.Background(), updateUser)
		So(err, ShouldBeNil)
		So(inner.calls.Load(), ShouldEqual, 3)

		_, _ = client.Execute(context.Background(), selectUser)
		So(inner.calls.Load(), ShouldEqual, 4)
		_, _ = client.Execute(context.Background(), selectPost)
		So(inner.calls.Load(), ShouldEqual, 4)
	})

	Convey("错误不缓存", func() {
		inner.err = &TransportError{Cause: ErrEmptyResponse}
		_, err := client.Execute(context.Background(), selectUser)
		So(errors.Is(err, ErrEmptyResponse), ShouldBeTrue)
		inner.err = nil
		_, err = client.Execute(context.Background(), selectUser)
		So(err, ShouldBeNil)
		So(inner.calls.Load(), ShouldEqual, 2)
	})

	Convey("Close", func() {
		So(client.Close(), ShouldBeNil)
		So(inner.closed, ShouldBeTrue)
	})
}

func TestCachedClient(t *testing.T) {
	Convey("CachedClient with FreeCache", t, func() {
		testCachedClient(func() Cache {
			cache, err := NewFreeCacheWithOptions(&FreeCacheOptions{Size: 1024 * 1024})
			So(err, ShouldBeNil)
			return cache
		})
	})

	Convey("CachedClient with RedisCache", t, func() {
		server := miniredis.RunT(t)
		testCachedClient(func() Cache {
			cache, err := NewRedisCacheWithOptions(&RedisCacheOptions{Endpoint: server.Addr(), Prefix: "test:"})
			So(err, ShouldBeNil)
			return cache
		})
	})
}

func TestRedisCache(t *testing.T) {
	Convey("RedisCache", t, func() {
		server := miniredis.RunT(t)
		cache, err := NewRedisCacheWithOptions(&RedisCacheOptions{Endpoint: server.Addr(), Prefix: "p:"})
		So(err, ShouldBeNil)
		defer cache.Close()

		_, ok, err := cache.Get(context.Background(), "k")
		So(err, ShouldBeNil)
		So(ok, ShouldBeFalse)

		So(cache.Set(context.Background(), "k", []byte("v"), time.Second), ShouldBeNil)
		So(server.Exists("p:k"), ShouldBeTrue)
		value, ok, err := cache.Get(context.Background(), "k")
		So(err, ShouldBeNil)
		So(ok, ShouldBeTrue)
		So(string(value), ShouldEqual, "v")

		server.FastForward(2 * time.Second)
		_, ok, err = cache.Get(context.Background(), "k")
		So(err, ShouldBeNil)
		So(ok, ShouldBeFalse)
	})
}

func TestNewCachedClientWithOptions(t *testing.T) {
	Convey("NewCachedClientWithOptions", t, func() {
		Convey("默认使用 FreeCache", func() {
			client, err := NewCachedClientWithOptions(&fakeClient{}, &CachedClientOptions{TTL: time.Minute}, nil)
			So(err, ShouldBeNil)
			_, ok := client.cache.(*FreeCache)
			So(ok, ShouldBeTrue)
		})

		Convey("通过配置创建 RedisCache", func() {
			server := miniredis.RunT(t)
			client, err := NewCachedClientWithOptions(&fakeClient{}, &CachedClientOptions{
				TTL: time.Minute,
				Cache: &ref.TypeOptions{
					Type:    "RedisCache",
					Options: map[string]any{"endpoint": server.Addr()},
				},
			}, nil)
			So(err, ShouldBeNil)
			redisCache, ok := client.cache.(*RedisCache)
			So(ok, ShouldBeTrue)
			So(redisCache.prefix, ShouldEqual, "surrealgate:")
		})

		Convey("类型不是 Cache", func() {
			_, err := NewCachedClientWithOptions(&fakeClient{}, &CachedClientOptions{
				Cache: &ref.TypeOptions{Type: "HTTPClient", Options: map[string]any{"endpoint": "http://localhost:8000/sql"}},
			}, nil)
			So(err, ShouldNotBeNil)
		})
	})
}
