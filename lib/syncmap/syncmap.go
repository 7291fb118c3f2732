package syncmap

import "sync"

type SyncMap[K comparable, V any] struct {
	_map *sync.Map
}

func New[K comparable, V any]() SyncMap[K, V] {
	return SyncMap[K, V]{
		_map: &sync.Map{},
	}
}

// LoadOrStore returns the existing value for key if present. Otherwise it stores value.
func (sm SyncMap[K, V]) LoadOrStore(key K, value V) (actual V, loaded bool) {
	v, loaded := sm._map.LoadOrStore(key, value)
	return v.(V), loaded
}

func (sm SyncMap[K, V]) Lookup(key K) (value V, ok bool) {
	v, has := sm._map.Load(key)
	if !has {
		return value, false
	}
	return v.(V), true
}

// LoadAndDelete removes key and returns the value it held.
func (sm SyncMap[K, V]) LoadAndDelete(key K) (value V, ok bool) {
	v, has := sm._map.LoadAndDelete(key)
	if !has {
		return value, false
	}
	return v.(V), true
}

func (sm SyncMap[K, V]) Range(f func(key K, value V) bool) {
	sm._map.Range(func(k, v any) bool {
		return f(k.(K), v.(V))
	})
}
