// Package memo 입력 키 기준 계산 결과 캐시
package memo

import "sync"

// Cache 키가 같으면 이전 계산 결과를 돌려준다.
// 데이터셋 ID 를 키에 포함해 업로드가 바뀌면 자연히 무효화된다.
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]V
	limit   int
}

// New limit 을 넘으면 전체를 비운다. limit <= 0 이면 무제한.
func New[K comparable, V any](limit int) *Cache[K, V] {
	return &Cache[K, V]{entries: make(map[K]V), limit: limit}
}

// Get 캐시 적중 시 저장값, 아니면 compute 결과를 저장 후 반환
func (c *Cache[K, V]) Get(key K, compute func() V) V {
	c.mu.Lock()
	if v, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return v
	}
	c.mu.Unlock()

	v := compute()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		c.entries = make(map[K]V)
	}
	if c.limit > 0 && len(c.entries) >= c.limit {
		clear(c.entries)
	}
	c.entries[key] = v
	return v
}

// Len 저장된 항목 수
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Reset 전체 무효화
func (c *Cache[K, V]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}
