// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

// Row is one association-table entry: a secondary entity key and its
// supporting PMIDs.
type Row struct {
	Key   string   `json:"key" yaml:"key"`
	PMIDs []string `json:"pmids" yaml:"pmids"`
}

// Table maps a secondary entity key to its supporting PMIDs. Keys keep
// insertion order, supporting sets are duplicate-free, and contents do not
// depend on the order PMIDs are added for a key (no overwrite, append
// only).
type Table struct {
	keys  []string
	pmids map[string][]string
	seen  map[string]map[string]bool
}

// NewTable returns an empty association table.
func NewTable() *Table {
	return &Table{
		pmids: make(map[string][]string),
		seen:  make(map[string]map[string]bool),
	}
}

// Add appends pmid to key's supporting set if not already present.
func (t *Table) Add(key, pmid string) {
	set, ok := t.seen[key]
	if !ok {
		set = make(map[string]bool)
		t.seen[key] = set
		t.keys = append(t.keys, key)
	}
	if set[pmid] {
		return
	}
	set[pmid] = true
	t.pmids[key] = append(t.pmids[key], pmid)
}

// Len returns the number of keys.
func (t *Table) Len() int {
	return len(t.keys)
}

// Keys returns the table's keys in insertion order.
func (t *Table) Keys() []string {
	return t.keys
}

// PMIDs returns key's supporting PMIDs in first-seen order.
func (t *Table) PMIDs(key string) []string {
	return t.pmids[key]
}

// Rows returns the table's rows in insertion order.
func (t *Table) Rows() []Row {
	rows := make([]Row, len(t.keys))
	for i, k := range t.keys {
		rows[i] = Row{Key: k, PMIDs: t.pmids[k]}
	}
	return rows
}

// orderedSet is a string set preserving first-insertion order, used for
// the auxiliary member lists of cross-reference rows and co-mention
// groups.
type orderedSet struct {
	items []string
	seen  map[string]bool
}

func (s *orderedSet) add(v string) {
	if s.seen == nil {
		s.seen = make(map[string]bool)
	}
	if s.seen[v] {
		return
	}
	s.seen[v] = true
	s.items = append(s.items, v)
}

func (s *orderedSet) addAll(vs []string) {
	for _, v := range vs {
		s.add(v)
	}
}

func (s *orderedSet) values() []string {
	return s.items
}
