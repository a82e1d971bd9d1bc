package ordered

import "iter"

type pair[K comparable, V any] struct {
	key   K
	value V
}

// Pairs is an insertion ordered list of key/value pairs. Unlike a
// map, duplicate keys are allowed; lookups return the first match.
type Pairs[K comparable, V any] struct {
	entries []pair[K, V]
}

func New[K comparable, V any]() *Pairs[K, V] {
	return &Pairs[K, V]{}
}

func (p *Pairs[K, V]) Add(key K, value V) {
	p.entries = append(p.entries, pair[K, V]{key: key, value: value})
}

func (p *Pairs[K, V]) Get(key K) (V, bool) {
	for _, e := range p.entries {
		if e.key == key {
			return e.value, true
		}
	}
	var zero V
	return zero, false
}

func (p *Pairs[K, V]) Len() int {
	if p == nil {
		return 0
	}
	return len(p.entries)
}

func (p *Pairs[K, V]) Range() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if p == nil {
			return
		}
		for _, e := range p.entries {
			if !yield(e.key, e.value) {
				break
			}
		}
	}
}
