package views

import (
	"context"
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	Mdb "github.com/i-amankitsingh/chai-backend/Services/Mdb"
)

// View counts are buffered in a Redis hash and drained into the videos table
// on an interval, so a burst of plays costs one HINCRBY per request instead
// of one UPDATE per request.
const (
	pendingKey  = "video_views:pending"
	drainingKey = "video_views:draining"
)

var RDB *redis.Client

func InitRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	RDB = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := RDB.Ping(ctx).Err(); err != nil {
		panic("Failed to ping Redis: " + err.Error())
	}

	zap.S().Info("Redis connected!")
}

// Record buffers one view for videoID. A nil client (Redis not configured)
// means views are simply not counted.
func Record(ctx context.Context, videoID string) error {
	if RDB == nil {
		return nil
	}
	return RDB.HIncrBy(ctx, pendingKey, videoID, 1).Err()
}

// Flusher periodically drains buffered view counts into Postgres
type Flusher struct {
	db       Mdb.PgxIface
	rdb      *redis.Client
	interval time.Duration
	logger   *zap.Logger
}

func NewFlusher(db Mdb.PgxIface, rdb *redis.Client, interval time.Duration, logger *zap.Logger) *Flusher {
	return &Flusher{
		db:       db,
		rdb:      rdb,
		interval: interval,
		logger:   logger,
	}
}

// Start runs the flusher loop until ctx is cancelled, draining once more on
// the way out so buffered counts survive a restart
func (f *Flusher) Start(ctx context.Context) {
	f.logger.Info("View flusher started", zap.Duration("interval", f.interval))

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := f.FlushOnce(flushCtx); err != nil {
				f.logger.Error("Final view flush failed", zap.Error(err))
			}
			cancel()
			f.logger.Info("View flusher shutting down")
			return
		case <-ticker.C:
			if err := f.FlushOnce(ctx); err != nil {
				f.logger.Error("View flush failed", zap.Error(err))
			}
		}
	}
}

// FlushOnce moves the pending hash aside and applies each count to the
// videos table. The RENAME keeps concurrent Record calls from landing in the
// batch being drained.
func (f *Flusher) FlushOnce(ctx context.Context) error {
	err := f.rdb.Rename(ctx, pendingKey, drainingKey).Err()
	if err != nil {
		if isRedisNil(err) {
			return nil // nothing buffered
		}
		return err
	}

	counts, err := f.rdb.HGetAll(ctx, drainingKey).Result()
	if err != nil {
		return err
	}

	for videoID, raw := range counts {
		count, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			f.logger.Error("Malformed view count", zap.String("video_id", videoID), zap.String("raw", raw))
			continue
		}
		_, err = f.db.Exec(ctx,
			"UPDATE videos SET views = views + $1 WHERE video_id = $2",
			count, videoID,
		)
		if err != nil {
			f.logger.Error("Failed to apply view count",
				zap.String("video_id", videoID), zap.Error(err))
			continue
		}
	}

	return f.rdb.Del(ctx, drainingKey).Err()
}

func isRedisNil(err error) bool {
	// RENAME on a missing key reports "no such key"
	return errors.Is(err, redis.Nil) || err.Error() == "ERR no such key"
}
