package state

import "sort"

// Cloner is implemented by every entity record stored in a Table. Get and
// Put both clone through it so the table is the sole owner of its storage:
// a caller can never mutate stored state through a returned snapshot, and a
// stored record can never alias a caller's local copy (spec.md §9,
// "Table-copy aliasing").
type Cloner[T any] interface {
	Clone() T
}

// Table is a generic entity store keyed by id, giving O(1) lookup, O(1)
// insertion and O(1) logical deletion (component 4.2 of spec.md).
type Table[K comparable, V Cloner[V]] struct {
	records map[K]V
}

// NewTable returns an empty table.
func NewTable[K comparable, V Cloner[V]]() *Table[K, V] {
	return &Table[K, V]{records: make(map[K]V)}
}

// Get returns an immutable snapshot of the record and whether it existed.
func (t *Table[K, V]) Get(k K) (V, bool) {
	v, ok := t.records[k]
	if !ok {
		var zero V
		return zero, false
	}
	return v.Clone(), true
}

// Put stores a clone of v under k, overwriting any prior record. This is
// the only write path into the table.
func (t *Table[K, V]) Put(k K, v V) {
	t.records[k] = v.Clone()
}

// Delete removes k from the table. Callers are responsible for scrubbing
// k from every secondary index before calling Delete.
func (t *Table[K, V]) Delete(k K) {
	delete(t.records, k)
}

// Has reports whether k is present without cloning the record.
func (t *Table[K, V]) Has(k K) bool {
	_, ok := t.records[k]
	return ok
}

// Len returns the number of records in the table.
func (t *Table[K, V]) Len() int {
	return len(t.records)
}

// Keys returns all keys in unspecified order; callers that need
// determinism must sort the result (see id.Sort).
func (t *Table[K, V]) Keys() []K {
	keys := make([]K, 0, len(t.records))
	for k := range t.records {
		keys = append(keys, k)
	}
	return keys
}

// SortedKeys returns keys ordered by less, the canonical iteration order
// required wherever RNG is consumed or events are accumulated.
func (t *Table[K, V]) SortedKeys(less func(a, b K) bool) []K {
	keys := t.Keys()
	sort.Slice(keys, func(i, j int) bool { return less(keys[i], keys[j]) })
	return keys
}

// All returns cloned snapshots of every record, keyed by id.
func (t *Table[K, V]) All() map[K]V {
	out := make(map[K]V, len(t.records))
	for k, v := range t.records {
		out[k] = v.Clone()
	}
	return out
}

// Clone deep-copies the whole table, used when GameState itself is cloned.
func (t *Table[K, V]) Clone() *Table[K, V] {
	out := NewTable[K, V]()
	for k, v := range t.records {
		out.records[k] = v.Clone()
	}
	return out
}

// Index is a secondary index from a grouping key (owner, location, host)
// to a set of entity ids. It never stores duplicates; GetSorted returns a
// group's ids in a caller-given order, Get in no defined order.
type Index[G comparable, E comparable] struct {
	byGroup map[G]map[E]struct{}
}

// NewIndex returns an empty index.
func NewIndex[G comparable, E comparable]() *Index[G, E] {
	return &Index[G, E]{byGroup: make(map[G]map[E]struct{})}
}

// Add records that entity e belongs to group g.
func (idx *Index[G, E]) Add(g G, e E) {
	set, ok := idx.byGroup[g]
	if !ok {
		set = make(map[E]struct{})
		idx.byGroup[g] = set
	}
	set[e] = struct{}{}
}

// Remove deletes the (g, e) pairing, pruning the group if it becomes empty.
func (idx *Index[G, E]) Remove(g G, e E) {
	set, ok := idx.byGroup[g]
	if !ok {
		return
	}
	delete(set, e)
	if len(set) == 0 {
		delete(idx.byGroup, g)
	}
}

// RemoveEntity scrubs e from every group it might belong to. Used when an
// entity's group membership (e.g. location) is not known at the call site.
func (idx *Index[G, E]) RemoveEntity(e E) {
	for g, set := range idx.byGroup {
		if _, ok := set[e]; ok {
			delete(set, e)
			if len(set) == 0 {
				delete(idx.byGroup, g)
			}
		}
	}
}

// Get returns the unsorted member set for g.
func (idx *Index[G, E]) Get(g G) []E {
	set := idx.byGroup[g]
	out := make([]E, 0, len(set))
	for e := range set {
		out = append(out, e)
	}
	return out
}

// GetSorted returns the member set for g ordered by less.
func (idx *Index[G, E]) GetSorted(g G, less func(a, b E) bool) []E {
	out := idx.Get(g)
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// Clone deep-copies the index.
func (idx *Index[G, E]) Clone() *Index[G, E] {
	out := NewIndex[G, E]()
	for g, set := range idx.byGroup {
		clone := make(map[E]struct{}, len(set))
		for e := range set {
			clone[e] = struct{}{}
		}
		out.byGroup[g] = clone
	}
	return out
}
