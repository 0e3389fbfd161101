// 包 history：分析历史（最新在前、定长、超出淘汰最旧），Redis 列表或进程内存两种实现
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"patrio-api/internal/classifier"
	"patrio-api/internal/locate"
	"patrio-api/internal/logger"
)

// 默认配置
const (
	DefaultKey      = "patrio:analysis_history"
	DefaultMaxItems = 50
)

// Entry：一次完成的分析
type Entry struct {
	ID        string            `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	ImageRef  string            `json:"imageUri"`
	Analysis  classifier.Result `json:"analysis"`
	Location  locate.Result     `json:"location"`
	IsOffline bool              `json:"isOffline"`
}

// NewEntry 生成带 ID 与时间戳的条目
func NewEntry(imageRef string, analysis classifier.Result, loc locate.Result) Entry {
	return Entry{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		ImageRef:  imageRef,
		Analysis:  analysis,
		Location:  loc,
		IsOffline: analysis.IsOfflineAnalysis,
	}
}

// Log 历史存储
type Log interface {
	Append(ctx context.Context, e Entry) error
	List(ctx context.Context) ([]Entry, error)
	Clear(ctx context.Context) error
}

// MemoryLog：进程内实现，Redis 不可用时使用
type MemoryLog struct {
	mu    sync.Mutex
	items []Entry
	max   int
}

func NewMemoryLog(max int) *MemoryLog {
	if max <= 0 {
		max = DefaultMaxItems
	}
	return &MemoryLog{max: max}
}

func (m *MemoryLog) Append(_ context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append([]Entry{e}, m.items...)
	if len(m.items) > m.max {
		m.items = m.items[:m.max]
	}
	return nil
}

func (m *MemoryLog) List(_ context.Context) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.items))
	copy(out, m.items)
	return out, nil
}

// RedisLog：LPUSH + LTRIM 维护定长列表
type RedisLog struct {
	rdb *redis.Client
	key string
	max int
}

func NewRedisLog(rdb *redis.Client, key string, max int) *RedisLog {
	if key == "" {
		key = DefaultKey
	}
	if max <= 0 {
		max = DefaultMaxItems
	}
	return &RedisLog{rdb: rdb, key: key, max: max}
}

// 文档注释：追加一条记录
// 约束：LPUSH 与 LTRIM 在同一事务管道内执行，列表长度不超过上限。
func (r *RedisLog) Append(ctx context.Context, e Entry) error {
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("history: encode: %w", err)
	}
	_, err = r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.LPush(ctx, r.key, b)
		p.LTrim(ctx, r.key, 0, int64(r.max-1))
		return nil
	})
	if err != nil {
		return fmt.Errorf("history: append: %w", err)
	}
	return nil
}

// List 最新在前；无法解码的条目跳过
func (r *RedisLog) List(ctx context.Context) ([]Entry, error) {
	raw, err := r.rdb.LRange(ctx, r.key, 0, int64(r.max-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("history: list: %w", err)
	}
	out := make([]Entry, 0, len(raw))
	for _, s := range raw {
		var e Entry
		if err := json.Unmarshal([]byte(s), &e); err != nil {
			logger.L().Warn("history_decode_error", "err", err)
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// Clear 删除全部历史
func (r *RedisLog) Clear(ctx context.Context) error {
	return r.rdb.Del(ctx, r.key).Err()
}

// Clear 删除全部历史
func (m *MemoryLog) Clear(_ context.Context) error {
	m.mu.Lock()
	m.items = nil
	m.mu.Unlock()
	return nil
}
