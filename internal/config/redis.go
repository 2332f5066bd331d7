package config

import (
    "context"
    "crypto/tls"
    "os"
    "strconv"
    "time"

    "github.com/redis/go-redis/v9"
    "go.uber.org/zap"
)

// NewRedisClient builds a Redis client from the environment.  REDIS_URL
// wins when set; otherwise REDIS_HOST/REDIS_PORT or REDIS_ADDR,
// REDIS_PASSWORD, REDIS_DB and REDIS_TLS are used.  It returns nil when
// the server cannot be reached, and callers then run without rate
// limiting and caching.
func NewRedisClient(log *zap.Logger) *redis.Client {
    opts, err := redisOptions()
    if err != nil {
        log.Warn("redis disabled: bad configuration", zap.Error(err))
        return nil
    }
    client := redis.NewClient(opts)
    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancel()
    if err := client.Ping(ctx).Err(); err != nil {
        log.Warn("redis disabled: ping failed", zap.String("addr", opts.Addr), zap.Error(err))
        _ = client.Close()
        return nil
    }
    log.Info("redis connected", zap.String("addr", opts.Addr), zap.Int("db", opts.DB))
    return client
}

func redisOptions() (*redis.Options, error) {
    if u := os.Getenv("REDIS_URL"); u != "" {
        return redis.ParseURL(u)
    }
    addr := os.Getenv("REDIS_ADDR")
    if host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT"); host != "" && port != "" {
        addr = host + ":" + port
    }
    if addr == "" {
        addr = "localhost:6379"
    }
    db := 0
    if n, err := strconv.Atoi(os.Getenv("REDIS_DB")); err == nil {
        db = n
    }
    var tlsConf *tls.Config
    if envBool("REDIS_TLS", false) {
        tlsConf = &tls.Config{MinVersion: tls.VersionTLS12}
    }
    return &redis.Options{
        Addr:      addr,
        Password:  os.Getenv("REDIS_PASSWORD"),
        DB:        db,
        TLSConfig: tlsConf,
    }, nil
}
