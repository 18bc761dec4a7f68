package lightlevel

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hvaltia/ldr-platform/pkg/mqtt"
	"github.com/hvaltia/ldr-platform/pkg/redis"
)

// fakeRedis is an in-memory redis.Client covering the operations the
// reading store uses.
type fakeRedis struct {
	mu     sync.Mutex
	zsets  map[string][]redis.ZMember
	hashes map[string]map[string]string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{
		zsets:  make(map[string][]redis.ZMember),
		hashes: make(map[string]map[string]string),
	}
}

func (f *fakeRedis) HSet(ctx context.Context, key string, field string, value interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.hashes[key] == nil {
		f.hashes[key] = make(map[string]string)
	}
	f.hashes[key][field] = fmt.Sprint(value)
	return nil
}

func (f *fakeRedis) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hashes[key], nil
}

func (f *fakeRedis) ZAdd(ctx context.Context, key string, score float64, member interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var s string
	switch m := member.(type) {
	case []byte:
		s = string(m)
	default:
		s = fmt.Sprint(m)
	}
	f.zsets[key] = append(f.zsets[key], redis.ZMember{Score: score, Member: s})
	sort.Slice(f.zsets[key], func(i, j int) bool { return f.zsets[key][i].Score < f.zsets[key][j].Score })
	return nil
}

func (f *fakeRedis) ZRemRangeByScore(ctx context.Context, key string, min, max string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	lo, hi := parseScore(min), parseScore(max)
	kept := f.zsets[key][:0]
	for _, m := range f.zsets[key] {
		if m.Score < lo || m.Score > hi {
			kept = append(kept, m)
		}
	}
	f.zsets[key] = kept
	return nil
}

func parseScore(s string) float64 {
	switch s {
	case "-inf":
		return -1e308
	case "+inf":
		return 1e308
	}
	var v float64
	fmt.Sscanf(s, "%f", &v)
	return v
}

func (f *fakeRedis) ZCard(ctx context.Context, key string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.zsets[key])), nil
}

func (f *fakeRedis) ZRangeByScoreWithScores(ctx context.Context, key string, min, max float64) ([]redis.ZMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []redis.ZMember
	for _, m := range f.zsets[key] {
		if m.Score >= min && m.Score <= max {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeRedis) Keys(ctx context.Context, pattern string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	var keys []string
	for k := range f.zsets {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (f *fakeRedis) Expire(ctx context.Context, key string, ttl time.Duration) error { return nil }
func (f *fakeRedis) Ping(ctx context.Context) error { return nil }
func (f *fakeRedis) Close() error { return nil }

// fakeMQTT records published messages and delivers subscriptions
// synchronously.
type fakeMQTT struct {
	mu        sync.Mutex
	published []fakeMessage
	handlers  map[string]mqtt.MessageHandler
	connected bool
}

type fakeMessage struct {
	topic   string
	payload []byte
}

func (m fakeMessage) Topic() string { return m.topic }
func (m fakeMessage) Payload() []byte { return m.payload }

func newFakeMQTT() *fakeMQTT {
	return &fakeMQTT{handlers: make(map[string]mqtt.MessageHandler)}
}

func (f *fakeMQTT) Connect(ctx context.Context) error {
	f.connected = true
	return nil
}

func (f *fakeMQTT) Disconnect() { f.connected = false }

func (f *fakeMQTT) Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[topic] = handler
	return nil
}

func (f *fakeMQTT) Publish(topic string, qos byte, retained bool, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, fakeMessage{topic: topic, payload: payload})
	return nil
}

func (f *fakeMQTT) IsConnected() bool { return f.connected }

func (f *fakeMQTT) lastPublished() (fakeMessage, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.published) == 0 {
		return fakeMessage{}, false
	}
	return f.published[len(f.published)-1], true
}
