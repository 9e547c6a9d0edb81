package store

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/hatlonely/surrealgate/log"
	"github.com/hatlonely/surrealgate/ref"
	"github.com/hatlonely/surrealgate/statement"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

type CachedClientOptions struct {
	// 缓存过期时间，同时也是多实例之间数据不一致的上限
	TTL time.Duration `cfg:"ttl" def:"1m"`

	// 缓存后端，FreeCache / RedisCache
	Cache *ref.TypeOptions `cfg:"cache"`
}

// CachedClient 缓存 select 的结果
// 表上任何修改语句执行后，该表的版本号加一，旧版本的缓存不再命中
type CachedClient struct {
	client Client
	cache  Cache
	ttl    time.Duration
	logger log.Logger

	mu          sync.Mutex
	generations map[string]uint64
}

func NewCachedClient(client Client, cache Cache, ttl time.Duration, logger log.Logger) *CachedClient {
	if logger == nil {
		logger = log.Default()
	}
	return &CachedClient{
		client:      client,
		cache:       cache,
		ttl:         ttl,
		logger:      logger.WithGroup("cache"),
		generations: map[string]uint64{},
	}
}

func NewCachedClientWithOptions(client Client, options *CachedClientOptions, logger log.Logger) (*CachedClient, error) {
	if client == nil {
		return nil, errors.New("client is nil")
	}
	if options == nil {
		return nil, errors.New("options is nil")
	}

	var cacheOptions ref.TypeOptions
	if options.Cache != nil {
		cacheOptions = *options.Cache
	}
	if cacheOptions.Type == "" {
		cacheOptions.Type = "FreeCache"
	}
	if cacheOptions.Namespace == "" {
		cacheOptions.Namespace = Namespace
	}

	obj, err := ref.NewWithOptions(&cacheOptions)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create cache")
	}
	cache, ok := obj.(Cache)
	if !ok {
		return nil, errors.Errorf("%s does not implement Cache interface", cacheOptions.Type)
	}

	return NewCachedClient(client, cache, options.TTL, logger), nil
}

func (c *CachedClient) generation(table string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[table]
}

func (c *CachedClient) invalidate(table string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[table]++
}

func (c *CachedClient) key(stmt statement.Statement) string {
	return stmt.Table + ":" + strconv.FormatUint(c.generation(stmt.Table), 10) + ":" + stmt.Text
}

func (c *CachedClient) Execute(ctx context.Context, stmt statement.Statement) (Result, error) {
	if stmt.Mutating() {
		// 执行失败的语句也可能已经生效
		defer c.invalidate(stmt.Table)
		return c.client.Execute(ctx, stmt)
	}

	key := c.key(stmt)
	if buf, ok, err := c.cache.Get(ctx, key); err != nil {
		c.logger.WarnContext(ctx, "cache get failed", "key", key, "error", err.Error())
	} else if ok {
		var result Result
		err := msgpack.Unmarshal(buf, &result)
		if err == nil {
			return result, nil
		}
		c.logger.WarnContext(ctx, "cache value unmarshal failed", "key", key, "error", err.Error())
	}

	result, err := c.client.Execute(ctx, stmt)
	if err != nil {
		return nil, err
	}

	buf, err := msgpack.Marshal(result)
	if err != nil {
		c.logger.WarnContext(ctx, "cache value marshal failed", "key", key, "error", err.Error())
		return result, nil
	}
	if err := c.cache.Set(ctx, key, buf, c.ttl); err != nil {
		c.logger.WarnContext(ctx, "cache set failed", "key", key, "error", err.Error())
	}

	return result, nil
}

func (c *CachedClient) Close() error {
	cacheErr := c.cache.Close()
	if err := c.client.Close(); err != nil {
		return err
	}
	return cacheErr
}
