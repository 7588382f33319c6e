package doctag

import (
	"context"
	"log/slog"
	"sync"

	slogctx "github.com/veqryn/slog-context"
	"golang.org/x/sync/singleflight"

	"apidiff/internal/project"
)

// Memo wraps a Tokenizer so each distinct comment is tokenized once per run.
// Concurrent callers asking for the same comment share one underlying call.
type Memo struct {
	next  Tokenizer
	disk  *DiskCache
	group singleflight.Group

	mu    sync.RWMutex
	cache map[project.Digest][]Doc

	hits, misses int
}

// NewMemo builds a memoizing tokenizer. disk may be nil.
func NewMemo(next Tokenizer, disk *DiskCache) *Memo {
	return &Memo{
		next:  next,
		disk:  disk,
		cache: make(map[project.Digest][]Doc),
	}
}

// Tokenize implements Tokenizer.
func (m *Memo) Tokenize(ctx context.Context, comment string) ([]Doc, error) {
	key := project.Sum([]byte(comment))

	m.mu.RLock()
	docs, ok := m.cache[key]
	m.mu.RUnlock()
	if ok {
		m.count(true)
		return docs, nil
	}

	v, err, _ := m.group.Do(string(key[:]), func() (any, error) {
		if docs, ok := m.fromDisk(ctx, key); ok {
			return docs, nil
		}
		docs, err := m.next.Tokenize(ctx, comment)
		if err != nil {
			return nil, err
		}
		if err := m.disk.Put(key, docs); err != nil {
			slogctx.Warn(ctx, "tokenizer cache write failed", slog.Any("error", err))
		}
		return docs, nil
	})
	if err != nil {
		return nil, err
	}
	docs = v.([]Doc)

	m.mu.Lock()
	m.cache[key] = docs
	m.mu.Unlock()
	m.count(false)
	return docs, nil
}

func (m *Memo) fromDisk(ctx context.Context, key project.Digest) ([]Doc, bool) {
	docs, ok, err := m.disk.Get(key)
	if err != nil {
		slogctx.Debug(ctx, "tokenizer cache entry ignored", slog.Any("error", err))
		return nil, false
	}
	return docs, ok
}

func (m *Memo) count(hit bool) {
	m.mu.Lock()
	if hit {
		m.hits++
	} else {
		m.misses++
	}
	m.mu.Unlock()
}

// Stats returns memo hits and misses so far.
func (m *Memo) Stats() (hits, misses int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hits, m.misses
}
