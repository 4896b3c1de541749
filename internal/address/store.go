// Package address implements the address state: the navigable key/value
// parameter set that is the single source of truth for grid state.
//
// Every write is a read-modify-merge-write on the current parameters, so
// independent controls (search box, filter menu, pagination, sort header)
// never drop each other's selections.
package address

import (
	"net/url"
	"sort"
	"sync"
)

// Observer receives a copy of the parameters after every published change.
type Observer func(values url.Values)

// Patch lists the keys an update touches. A nil or empty value removes the key.
type Patch map[string]*string

// Set returns a pointer usable as a Patch value.
func Set(value string) *string {
	return &value
}

// Remove marks a key for removal in a Patch.
var Remove *string

type entry struct {
	path   string
	values url.Values
}

type Store struct {
	mu        sync.Mutex
	history   []entry
	version   uint64
	observers map[int]Observer
	order     []int
	nextID    int
}

// NewStore starts a store on path with the given parameters as its only
// history entry.
func NewStore(path string, initial url.Values) *Store {
	return &Store{
		history:   []entry{{path: path, values: cloneValues(initial)}},
		observers: map[int]Observer{},
	}
}

// ParseLocation builds a store from a "path?query" string.
func ParseLocation(location string) (*Store, error) {
	u, err := url.Parse(location)
	if err != nil {
		return nil, err
	}
	return NewStore(u.Path, u.Query()), nil
}

func (s *Store) current() *entry {
	return &s.history[len(s.history)-1]
}

// Read returns the value for key and whether it is present.
func (s *Store) Read(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	vals, ok := s.current().values[key]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

// Values returns a copy of the current parameters.
func (s *Store) Values() url.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneValues(s.current().values)
}

func (s *Store) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current().path
}

// Location returns "path?query" for the current entry.
func (s *Store) Location() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return location(s.current().path, s.current().values)
}

// Version increases by one for every published change.
func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// HistoryLen is the number of navigation entries; updates never grow it.
func (s *Store) HistoryLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

// Update merges patch into the current parameters, replaces the current
// history entry and notifies observers synchronously. Observers run outside
// the store lock and may read or update the store again.
func (s *Store) Update(patch Patch) {
	s.mu.Lock()
	cur := s.current()
	merged := merge(cur.values, patch)
	cur.values = merged
	s.version++
	snapshot, observers := s.snapshotLocked()
	s.mu.Unlock()

	publish(observers, snapshot)
}

// Preview returns the location Update(patch) would produce, without applying it.
// Hypermedia hosts use it to build links for every control.
func (s *Store) Preview(patch Patch) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.current()
	return location(cur.path, merge(cur.values, patch))
}

// Navigate pushes a new history entry and replaces the state wholesale.
func (s *Store) Navigate(path string, values url.Values) {
	s.mu.Lock()
	s.history = append(s.history, entry{path: path, values: cloneValues(values)})
	s.version++
	snapshot, observers := s.snapshotLocked()
	s.mu.Unlock()

	publish(observers, snapshot)
}

// Back pops the current entry. It reports false when there is nowhere to go.
func (s *Store) Back() bool {
	s.mu.Lock()
	if len(s.history) < 2 {
		s.mu.Unlock()
		return false
	}
	s.history = s.history[:len(s.history)-1]
	s.version++
	snapshot, observers := s.snapshotLocked()
	s.mu.Unlock()

	publish(observers, snapshot)
	return true
}

// Subscribe registers an observer and returns its cancel func.
func (s *Store) Subscribe(o Observer) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.observers[id] = o
	s.order = append(s.order, id)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
		for i, v := range s.order {
			if v == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
}

func (s *Store) snapshotLocked() (url.Values, []Observer) {
	observers := make([]Observer, 0, len(s.order))
	for _, id := range s.order {
		observers = append(observers, s.observers[id])
	}
	return cloneValues(s.current().values), observers
}

func publish(observers []Observer, values url.Values) {
	for _, o := range observers {
		o(cloneValues(values))
	}
}

func merge(base url.Values, patch Patch) url.Values {
	merged := cloneValues(base)
	keys := make([]string, 0, len(patch))
	for k := range patch {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := patch[k]
		if v == nil || *v == "" {
			merged.Del(k)
			continue
		}
		merged.Set(k, *v)
	}
	return merged
}

func location(path string, values url.Values) string {
	encoded := values.Encode()
	if encoded == "" {
		return path
	}
	return path + "?" + encoded
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
