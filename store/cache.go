package store

import (
	"context"
	"time"

	"github.com/coocood/freecache"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Cache 查询结果缓存的存储后端
type Cache interface {
	// Get 未命中时 ok 为 false，err 为 nil
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

type FreeCacheOptions struct {
	// 缓存大小，单位字节，freecache 最小 512KB
	Size int `cfg:"size" def:"33554432"`
}

// FreeCache 进程内缓存
type FreeCache struct {
	cache *freecache.Cache
}

func NewFreeCacheWithOptions(options *FreeCacheOptions) (*FreeCache, error) {
	if options == nil {
		return nil, errors.New("options is nil")
	}
	return &FreeCache{cache: freecache.NewCache(options.Size)}, nil
}

func (c *FreeCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := c.cache.Get([]byte(key))
	if errors.Is(err, freecache.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "freecache.Get failed")
	}
	return value, true, nil
}

func (c *FreeCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	// freecache 的过期时间以秒为单位，不足一秒按一秒处理
	expireSeconds := int(ttl / time.Second)
	if ttl > 0 && expireSeconds == 0 {
		expireSeconds = 1
	}
	if err := c.cache.Set([]byte(key), value, expireSeconds); err != nil {
		return errors.Wrap(err, "freecache.Set failed")
	}
	return nil
}

func (c *FreeCache) Close() error {
	c.cache.Clear()
	return nil
}

type RedisCacheOptions struct {
	// host:port 地址
	Endpoint string `cfg:"endpoint" def:"localhost:6379"`

	// 使用 Redis ACL 时的用户名
	Username string `cfg:"username"`
	Password string `cfg:"password"`

	// 连接到服务器后选择的数据库
	DB int `cfg:"db" def:"0"`

	// 键前缀，多个服务共用一个 redis 时区分
	Prefix string `cfg:"prefix" def:"surrealgate:"`

	DialTimeout  time.Duration `cfg:"dialTimeout" def:"5s"`
	ReadTimeout  time.Duration `cfg:"readTimeout" def:"3s"`
	WriteTimeout time.Duration `cfg:"writeTimeout" def:"3s"`
	PoolSize     int           `cfg:"poolSize"`
}

// RedisCache 多实例共享的缓存
type RedisCache struct {
	client *redis.Client
	prefix string
}

func NewRedisCacheWithOptions(options *RedisCacheOptions) (*RedisCache, error) {
	if options == nil {
		return nil, errors.New("options is nil")
	}

	client := redis.NewClient(&redis.Options{
		Addr:         options.Endpoint,
		Username:     options.Username,
		Password:     options.Password,
		DB:           options.DB,
		DialTimeout:  options.DialTimeout,
		ReadTimeout:  options.ReadTimeout,
		WriteTimeout: options.WriteTimeout,
		PoolSize:     options.PoolSize,
	})

	return &RedisCache{client: client, prefix: options.Prefix}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "redis.Get failed")
	}
	return value, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		return errors.Wrap(err, "redis.Set failed")
	}
	return nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
