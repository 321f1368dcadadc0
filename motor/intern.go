package motor

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

const internShards = 256

// Interner deduplicates field names. Every result document repeats the
// same few hundred metric tags, and results are parsed concurrently, so
// the table is sharded by xxhash to keep lock contention low.
type Interner struct {
	shards [internShards]internShard
}

type internShard struct {
	mu    sync.RWMutex
	table map[string]string
}

func NewInterner() *Interner {
	in := &Interner{}
	for i := range in.shards {
		in.shards[i].table = make(map[string]string)
	}
	return in
}

// Intern returns the canonical copy of s.
func (in *Interner) Intern(s string) string {
	if s == "" {
		return ""
	}

	shard := &in.shards[xxhash.Sum64String(s)%internShards]

	shard.mu.RLock()
	if interned, exists := shard.table[s]; exists {
		shard.mu.RUnlock()
		return interned
	}
	shard.mu.RUnlock()

	// double-checked: another goroutine may have stored it between locks
	shard.mu.Lock()
	defer shard.mu.Unlock()

	if interned, exists := shard.table[s]; exists {
		return interned
	}

	shard.table[s] = s
	return s
}

// Len returns the number of distinct strings held.
func (in *Interner) Len() int {
	n := 0
	for i := range in.shards {
		in.shards[i].mu.RLock()
		n += len(in.shards[i].table)
		in.shards[i].mu.RUnlock()
	}
	return n
}
