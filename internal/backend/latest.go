package backend

import "sync"

// Latest 요청 순번으로 "마지막 응답 우선"을 보장하고 마지막 정상 응답을 보관한다.
// 더 새 요청의 응답이 이미 반영됐다면 오래된 응답은 버린다.
type Latest[T any] struct {
	mu      sync.Mutex
	seq     uint64
	applied uint64
	value   T
	has     bool
}

// Begin 새 요청 순번 발급
func (l *Latest[T]) Begin() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	return l.seq
}

// Commit seq 가 반영된 것보다 새로우면 저장하고 true
func (l *Latest[T]) Commit(seq uint64, v T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if seq <= l.applied {
		return false
	}
	l.applied = seq
	l.value = v
	l.has = true
	return true
}

// Last 마지막 정상 응답
func (l *Latest[T]) Last() (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.value, l.has
}

// Fetch fetch 를 실행해 최신 값을 돌려준다.
// 실패하면 마지막 정상 값을 stale=true 로, 없으면 에러를 돌려준다.
// 더 새 요청이 먼저 반영됐으면 그 값을 돌려준다.
func Fetch[T any](l *Latest[T], fetch func() (T, error)) (v T, stale bool, err error) {
	seq := l.Begin()
	got, err := fetch()
	if err != nil {
		if last, ok := l.Last(); ok {
			return last, true, err
		}
		return got, false, err
	}
	if l.Commit(seq, got) {
		return got, false, nil
	}
	last, _ := l.Last()
	return last, false, nil
}

// Group 키(예: 연월)별 Latest
type Group[K comparable, T any] struct {
	mu sync.Mutex
	m  map[K]*Latest[T]
}

// For 키에 해당하는 Latest, 없으면 생성
func (g *Group[K, T]) For(key K) *Latest[T] {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.m == nil {
		g.m = make(map[K]*Latest[T])
	}
	l, ok := g.m[key]
	if !ok {
		l = &Latest[T]{}
		g.m[key] = l
	}
	return l
}
