package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	apperrors "revenuelens/pkg/errors"
)

// CacheConfig Redis 连接配置
type CacheConfig struct {
	Addr     string
	Password string
	DB       int
}

// CacheService Redis JSON 缓存
type CacheService struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

// NewCacheService 连接 Redis 并检查可用性
func NewCacheService(cfg CacheConfig, logger *zap.Logger) (*CacheService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, apperrors.NewCacheError("failed to connect to Redis", "ping", "", err)
	}

	logger.Info("Redis connected", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
	return NewCacheServiceWithClient(client, logger), nil
}

// NewCacheServiceWithClient 使用已有客户端
func NewCacheServiceWithClient(client *redis.Client, logger *zap.Logger) *CacheService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{client: client, prefix: "revenuelens:", logger: logger}
}

// Get 读取并反序列化；键不存在时返回 false
func (c *CacheService) Get(ctx context.Context, key string, dest any) (bool, error) {
	key = c.prefix + key
	value, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		c.logger.Error("Cache get failed", zap.String("key", key), zap.Error(err))
		return false, apperrors.NewCacheError("get failed", "get", key, err)
	}

	if dest != nil {
		if err := json.Unmarshal([]byte(value), dest); err != nil {
			c.logger.Error("Cache unmarshal failed", zap.String("key", key), zap.Error(err))
			return false, apperrors.NewCacheError("unmarshal failed", "get", key, err)
		}
	}
	return true, nil
}

// Set 序列化为 JSON 写入；ttl <= 0 表示不过期
func (c *CacheService) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	key = c.prefix + key
	data, err := json.Marshal(value)
	if err != nil {
		return apperrors.NewCacheError("marshal failed", "set", key, err)
	}
	if ttl < 0 {
		ttl = 0
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		c.logger.Error("Cache set failed", zap.String("key", key), zap.Error(err))
		return apperrors.NewCacheError("set failed", "set", key, err)
	}
	return nil
}

// Close 关闭连接
func (c *CacheService) Close() error {
	return c.client.Close()
}
