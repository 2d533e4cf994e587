package descriptor

import (
	"fmt"
)

// Table is the descriptor symbol table built during Pass 1 and read-only
// during Pass 2. Ids are globally unique across the document and all of
// its includes.
type Table struct {
	byID map[string]*Descriptor
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{byID: make(map[string]*Descriptor)}
}

// Insert adds d under d.ID. It is an error to insert a second descriptor
// under an id already present; the caller is expected to report the
// location of both the new and the original occurrence.
func (t *Table) Insert(d *Descriptor) (*Descriptor, error) {
	if existing, ok := t.byID[d.ID]; ok {
		return existing, fmt.Errorf("duplicate id %q", d.ID)
	}
	t.byID[d.ID] = d
	return nil, nil
}

// Lookup returns the descriptor registered under id.
func (t *Table) Lookup(id string) (*Descriptor, bool) {
	d, ok := t.byID[id]
	return d, ok
}

// ResolveAlias follows d's alias chain to the first non-alias descriptor,
// detecting cycles. If d is not an alias, it is returned unchanged.
func (t *Table) ResolveAlias(id string) (*Descriptor, error) {
	seen := map[string]bool{}
	cur := id
	for {
		if seen[cur] {
			return nil, fmt.Errorf("alias cycle detected starting at %q", id)
		}
		seen[cur] = true

		d, ok := t.byID[cur]
		if !ok {
			return nil, fmt.Errorf("unknown id %q", cur)
		}
		if d.Alias == "" {
			return d, nil
		}
		cur = d.Alias
	}
}

// Len returns the number of descriptors in the table.
func (t *Table) Len() int {
	return len(t.byID)
}

// IDs returns all descriptor ids in the table, in no particular order.
func (t *Table) IDs() []string {
	ids := make([]string, 0, len(t.byID))
	for id := range t.byID {
		ids = append(ids, id)
	}
	return ids
}
