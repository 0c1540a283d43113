package personrepo

import (
	"context"
	"sync"

	"github.com/Overland-East-Bay/people-directory/internal/domain"
	"github.com/Overland-East-Bay/people-directory/internal/ports/out/personrepo"
	"github.com/Overland-East-Bay/people-directory/pkg/personname"
)

// Repo is an in-memory implementation of personrepo.Repository.
// Names are indexed twice: a hash index for equality lookups and an ordered
// index for listings. It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex

	byID    map[domain.PersonID]personrepo.Person
	byName  *hashIndex
	ordered *orderedIndex
}

func NewRepo() *Repo {
	return &Repo{
		byID:    make(map[domain.PersonID]personrepo.Person),
		byName:  newHashIndex(),
		ordered: &orderedIndex{},
	}
}

func (r *Repo) Create(ctx context.Context, p personrepo.Person) error {
	_ = ctx
	if p.ID == "" {
		return personrepo.ErrAlreadyExists // treat empty ID as invalid; the app layer assigns IDs
	}
	if p.Name.IsZero() {
		return &personname.InvalidFormatError{Input: ""}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[p.ID]; ok {
		return personrepo.ErrAlreadyExists
	}
	if _, ok := r.byName.get(p.Name); ok {
		return personrepo.ErrNameTaken
	}

	r.byID[p.ID] = clonePerson(p)
	r.byName.put(p.Name, p.ID)
	r.ordered.insert(p.Name, p.ID)
	return nil
}

func (r *Repo) Update(ctx context.Context, p personrepo.Person) error {
	_ = ctx
	if p.Name.IsZero() {
		return &personname.InvalidFormatError{Input: ""}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[p.ID]
	if !ok {
		return personrepo.ErrNotFound
	}
	if !personname.Equal(existing.Name, p.Name) {
		if holder, ok := r.byName.get(p.Name); ok && holder != p.ID {
			return personrepo.ErrNameTaken
		}
		r.byName.remove(existing.Name)
		r.ordered.remove(existing.Name)
		r.byName.put(p.Name, p.ID)
		r.ordered.insert(p.Name, p.ID)
	}

	r.byID[p.ID] = clonePerson(p)
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.PersonID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[id]
	if !ok {
		return personrepo.ErrNotFound
	}
	r.byName.remove(existing.Name)
	r.ordered.remove(existing.Name)
	delete(r.byID, id)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.PersonID) (personrepo.Person, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	if !ok {
		return personrepo.Person{}, personrepo.ErrNotFound
	}
	return clonePerson(p), nil
}

func (r *Repo) GetByName(ctx context.Context, name personname.PersonName) (personrepo.Person, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byName.get(name)
	if !ok {
		return personrepo.Person{}, personrepo.ErrNotFound
	}
	p, ok := r.byID[id]
	if !ok {
		return personrepo.Person{}, personrepo.ErrNotFound
	}
	return clonePerson(p), nil
}

func (r *Repo) List(ctx context.Context, after personname.PersonName, limit int) ([]personrepo.Person, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(r.ordered.after(after, limit)), nil
}

func (r *Repo) ListByFamily(ctx context.Context, family string) ([]personrepo.Person, error) {
	_ = ctx
	if family == "" {
		return []personrepo.Person{}, nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(r.ordered.withFamily(family)), nil
}

// collect must be called with r.mu held.
func (r *Repo) collect(ids []domain.PersonID) []personrepo.Person {
	out := make([]personrepo.Person, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.byID[id]; ok {
			out = append(out, clonePerson(p))
		}
	}
	return out
}

func clonePerson(p personrepo.Person) personrepo.Person {
	out := p
	out.Email = cloneStringPtr(p.Email)
	return out
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
