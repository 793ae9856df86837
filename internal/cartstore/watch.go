package cartstore

import "slices"

type watcher struct {
	fire func(State)
}

// Watch calls listener whenever selector(state) changes value, compared with
// ==. The listener is not called on registration. The returned function
// unregisters it.
//
// Listeners run synchronously after the mutation that changed their slice,
// in mutation order. They may read the store but must not mutate it or
// unregister from inside the callback.
func Watch[T comparable](s *Store, selector func(State) T, listener func(T)) func() {
	return WatchFunc(s, selector, func(a, b T) bool { return a == b }, listener)
}

// WatchFunc is Watch for slices that are not comparable, such as the item
// list; equal decides whether the slice changed.
func WatchFunc[T any](s *Store, selector func(State) T, equal func(a, b T) bool, listener func(T)) func() {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	last := selector(s.State())
	w := watcher{fire: func(st State) {
		v := selector(st)
		if equal(last, v) {
			return
		}
		last = v
		listener(v)
	}}

	id := s.nextID
	s.nextID++
	s.watchers[id] = w

	return func() {
		s.wmu.Lock()
		defer s.wmu.Unlock()
		delete(s.watchers, id)
	}
}

// Items selects the item list. Use it with WatchFunc and ItemsEqual.
func Items(s State) []CartItem {
	return s.Items
}

// ItemsEqual reports whether two item lists hold the same lines in the same order.
func ItemsEqual(a, b []CartItem) bool {
	return slices.Equal(a, b)
}

// notify runs with wmu held.
func (s *Store) notify(st State) {
	for _, w := range s.watchers {
		w.fire(st)
	}
}
