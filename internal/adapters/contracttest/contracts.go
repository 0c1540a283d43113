package contracttest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Overland-East-Bay/people-directory/internal/domain"
	idempotencyport "github.com/Overland-East-Bay/people-directory/internal/ports/out/idempotency"
	personrepoport "github.com/Overland-East-Bay/people-directory/internal/ports/out/personrepo"
	"github.com/Overland-East-Bay/people-directory/pkg/personname"
)

type CleanupFunc = func()

type PersonRepoFactory func(t *testing.T) (personrepoport.Repository, CleanupFunc)
type IdemStoreFactory func(t *testing.T) (idempotencyport.Store, CleanupFunc)

func RunIdempotencyStore(t *testing.T, newStore IdemStoreFactory) {
	t.Helper()
	ctx := context.Background()

	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	fp := idempotencyport.Fingerprint{
		Key:      idempotencyport.Key("k-" + uuid.NewString()),
		Method:   "POST",
		Route:    "/people",
		BodyHash: "hash-abc",
	}
	if _, ok, err := store.Get(ctx, fp); err != nil || ok {
		t.Fatalf("Get before Put: ok=%v err=%v", ok, err)
	}

	rec := idempotencyport.Record{
		StatusCode:  201,
		ContentType: "application/json",
		Body:        []byte(`{"person":{}}`),
		CreatedAt:   time.Unix(123, 0).UTC(),
	}
	if err := store.Put(ctx, fp, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := store.Get(ctx, fp)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true")
	}
	if string(got.Body) != `{"person":{}}` || got.ContentType != "application/json" || got.StatusCode != 201 {
		t.Fatalf("unexpected record: %+v", got)
	}

	// A different body hash is a different fingerprint.
	other := fp
	other.BodyHash = "hash-def"
	if _, ok, err := store.Get(ctx, other); err != nil || ok {
		t.Fatalf("Get(other) ok=%v err=%v, want miss", ok, err)
	}

	// Overwrite semantics.
	rec2 := rec
	rec2.Body = []byte(`{"person":{"id":"x"}}`)
	if err := store.Put(ctx, fp, rec2); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, ok, err = store.Get(ctx, fp)
	if err != nil || !ok || string(got.Body) != `{"person":{"id":"x"}}` {
		t.Fatalf("expected overwritten record, got ok=%v err=%v body=%q", ok, err, string(got.Body))
	}
}

func RunPersonRepo(t *testing.T, newRepo PersonRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(1000, 0).UTC()
	// A random family keeps runs against a shared database independent.
	family := "Fam" + randomLetters()
	mk := func(given string) personrepoport.Person {
		return personrepoport.Person{
			ID:        domain.PersonID(uuid.NewString()),
			Name:      personname.MustParse(family + ", " + given),
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	john := mk("John")
	email := "john@example.com"
	john.Email = &email
	if err := repo.Create(ctx, john); err != nil {
		t.Fatalf("Create john: %v", err)
	}

	got, err := repo.GetByID(ctx, john.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !personname.Equal(got.Name, john.Name) || got.Email == nil || *got.Email != email {
		t.Fatalf("GetByID()=%+v, want %+v", got, john)
	}

	// Equality lookup works for a name parsed from a different spelling.
	byName, err := repo.GetByName(ctx, personname.MustParse(family+",John"))
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}
	if byName.ID != john.ID {
		t.Fatalf("GetByName().ID=%q, want %q", byName.ID, john.ID)
	}

	// Name uniqueness.
	dup := mk("John")
	if err := repo.Create(ctx, dup); !errors.Is(err, personrepoport.ErrNameTaken) {
		t.Fatalf("Create duplicate name err=%v, want %v", err, personrepoport.ErrNameTaken)
	}

	// ID uniqueness.
	sameID := mk("Other")
	sameID.ID = john.ID
	if err := repo.Create(ctx, sameID); !errors.Is(err, personrepoport.ErrAlreadyExists) {
		t.Fatalf("Create duplicate id err=%v, want %v", err, personrepoport.ErrAlreadyExists)
	}

	jane := mk("Jane")
	maryJane := mk("Mary Jane")
	for _, p := range []personrepoport.Person{maryJane, jane} {
		if err := repo.Create(ctx, p); err != nil {
			t.Fatalf("Create %s: %v", p.Name, err)
		}
	}

	// Byte-wise ordering within the family: Jane < John < Mary Jane.
	fam, err := repo.ListByFamily(ctx, family)
	if err != nil {
		t.Fatalf("ListByFamily: %v", err)
	}
	wantOrder := []domain.PersonID{jane.ID, john.ID, maryJane.ID}
	if len(fam) != len(wantOrder) {
		t.Fatalf("ListByFamily len=%d, want %d: %#v", len(fam), len(wantOrder), fam)
	}
	for i, id := range wantOrder {
		if fam[i].ID != id {
			t.Fatalf("ListByFamily()[%d]=%s, want %s", i, fam[i].Name, id)
		}
	}

	// Keyset pagination resumes strictly after the given name.
	page, err := repo.List(ctx, jane.Name, 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page) != 1 || page[0].ID != john.ID {
		t.Fatalf("List(after=jane, 1)=%#v, want [john]", page)
	}
	all, err := repo.List(ctx, personname.PersonName{}, 0)
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	for i := 1; i < len(all); i++ {
		if !personname.Less(all[i-1].Name, all[i].Name) {
			t.Fatalf("List not strictly ordered at %d: %s then %s", i, all[i-1].Name, all[i].Name)
		}
	}

	// Rename onto a taken name fails; rename onto a free name moves the index entry.
	renamed := jane
	renamed.Name = john.Name
	if err := repo.Update(ctx, renamed); !errors.Is(err, personrepoport.ErrNameTaken) {
		t.Fatalf("Update onto taken name err=%v, want %v", err, personrepoport.ErrNameTaken)
	}
	renamed.Name = personname.MustParse(family + ", Janet")
	renamed.UpdatedAt = now.Add(time.Minute)
	if err := repo.Update(ctx, renamed); err != nil {
		t.Fatalf("Update rename: %v", err)
	}
	if _, err := repo.GetByName(ctx, jane.Name); !errors.Is(err, personrepoport.ErrNotFound) {
		t.Fatalf("GetByName(old name) err=%v, want %v", err, personrepoport.ErrNotFound)
	}
	if got, err := repo.GetByName(ctx, renamed.Name); err != nil || got.ID != jane.ID {
		t.Fatalf("GetByName(new name)=%+v err=%v", got, err)
	}

	missing := mk("Ghost")
	if err := repo.Update(ctx, missing); !errors.Is(err, personrepoport.ErrNotFound) {
		t.Fatalf("Update(nonexistent) err=%v, want %v", err, personrepoport.ErrNotFound)
	}

	// Delete frees the name.
	if err := repo.Delete(ctx, john.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, john.ID); !errors.Is(err, personrepoport.ErrNotFound) {
		t.Fatalf("Delete twice err=%v, want %v", err, personrepoport.ErrNotFound)
	}
	if _, err := repo.GetByID(ctx, john.ID); !errors.Is(err, personrepoport.ErrNotFound) {
		t.Fatalf("GetByID after delete err=%v", err)
	}
	if err := repo.Create(ctx, mk("John")); err != nil {
		t.Fatalf("Create after delete: %v", err)
	}
}

func randomLetters() string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	u := uuid.New()
	out := make([]byte, 8)
	for i := range out {
		out[i] = letters[int(u[i])%len(letters)]
	}
	return string(out)
}
