package personrepo

import (
	"sort"
	"strings"

	"github.com/Overland-East-Bay/people-directory/internal/domain"
	"github.com/Overland-East-Bay/people-directory/pkg/personname"
)

type nameEntry struct {
	name personname.PersonName
	id   domain.PersonID
}

// hashIndex serves equality lookups. Buckets are keyed by PersonName.Hash and
// collisions are resolved with personname.Equal.
type hashIndex struct {
	buckets map[uint32][]nameEntry
}

func newHashIndex() *hashIndex {
	return &hashIndex{buckets: make(map[uint32][]nameEntry)}
}

func (h *hashIndex) get(name personname.PersonName) (domain.PersonID, bool) {
	for _, e := range h.buckets[name.Hash()] {
		if personname.Equal(e.name, name) {
			return e.id, true
		}
	}
	return "", false
}

func (h *hashIndex) put(name personname.PersonName, id domain.PersonID) {
	k := name.Hash()
	h.buckets[k] = append(h.buckets[k], nameEntry{name: name, id: id})
}

func (h *hashIndex) remove(name personname.PersonName) {
	k := name.Hash()
	bucket := h.buckets[k]
	for i, e := range bucket {
		if personname.Equal(e.name, name) {
			bucket = append(bucket[:i:i], bucket[i+1:]...)
			break
		}
	}
	if len(bucket) == 0 {
		delete(h.buckets, k)
		return
	}
	h.buckets[k] = bucket
}

// orderedIndex keeps entries sorted by personname.Compare, like a btree over the name column.
type orderedIndex struct {
	entries []nameEntry
}

// lowerBound returns the first position whose name is >= name.
func (o *orderedIndex) lowerBound(name personname.PersonName) int {
	return sort.Search(len(o.entries), func(i int) bool {
		return personname.Compare(o.entries[i].name, name) >= 0
	})
}

func (o *orderedIndex) insert(name personname.PersonName, id domain.PersonID) {
	i := o.lowerBound(name)
	o.entries = append(o.entries, nameEntry{})
	copy(o.entries[i+1:], o.entries[i:])
	o.entries[i] = nameEntry{name: name, id: id}
}

func (o *orderedIndex) remove(name personname.PersonName) {
	i := o.lowerBound(name)
	if i < len(o.entries) && personname.Equal(o.entries[i].name, name) {
		o.entries = append(o.entries[:i], o.entries[i+1:]...)
	}
}

// after returns the ids of entries strictly greater than after, in order.
func (o *orderedIndex) after(after personname.PersonName, limit int) []domain.PersonID {
	start := 0
	if !after.IsZero() {
		start = sort.Search(len(o.entries), func(i int) bool {
			return personname.Greater(o.entries[i].name, after)
		})
	}
	end := len(o.entries)
	if limit > 0 && start+limit < end {
		end = start + limit
	}
	out := make([]domain.PersonID, 0, end-start)
	for _, e := range o.entries[start:end] {
		out = append(out, e.id)
	}
	return out
}

// withFamily range-scans the entries whose canonical form starts with "family,".
// Those entries are contiguous in byte order.
func (o *orderedIndex) withFamily(family string) []domain.PersonID {
	prefix := family + ","
	start := sort.Search(len(o.entries), func(i int) bool {
		return o.entries[i].name.String() >= prefix
	})
	out := make([]domain.PersonID, 0)
	for _, e := range o.entries[start:] {
		if !strings.HasPrefix(e.name.String(), prefix) {
			break
		}
		out = append(out, e.id)
	}
	return out
}
