package people

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	memclock "github.com/Overland-East-Bay/people-directory/internal/adapters/memory/clock"
	mempersonrepo "github.com/Overland-East-Bay/people-directory/internal/adapters/memory/personrepo"
	"github.com/Overland-East-Bay/people-directory/internal/domain"
	"github.com/Overland-East-Bay/people-directory/pkg/personname"
)

func newTestService(t *testing.T) (*Service, *memclock.ManualClock) {
	t.Helper()
	clk := memclock.NewManualClock(time.Unix(100, 0).UTC())
	svc := NewService(mempersonrepo.NewRepo(), clk)
	n := 0
	svc.newPersonID = func() domain.PersonID {
		n++
		return domain.PersonID(fmt.Sprintf("p%d", n))
	}
	return svc, clk
}

func wantAppError(t *testing.T, err error, status int, code string) *Error {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error %s", code)
	}
	ae := (*Error)(nil)
	if !errors.As(err, &ae) || ae.Status != status || ae.Code != code {
		t.Fatalf("err=%v (type=%T), want %s %d", err, err, code, status)
	}
	return ae
}

func TestService_RegisterCanonicalizesName(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	p, err := svc.Register(context.Background(), RegisterInput{Name: "Doe, John"})
	if err != nil {
		t.Fatalf("Register err=%v", err)
	}
	if p.Name.String() != "Doe,John" || p.ID != "p1" {
		t.Fatalf("Register()=%+v", p)
	}
	if !p.CreatedAt.Equal(time.Unix(100, 0).UTC()) {
		t.Fatalf("CreatedAt=%v", p.CreatedAt)
	}

	got, err := svc.Lookup(context.Background(), "Doe,John")
	if err != nil {
		t.Fatalf("Lookup err=%v", err)
	}
	if got.ID != p.ID {
		t.Fatalf("Lookup().ID=%q, want %q", got.ID, p.ID)
	}
}

func TestService_RegisterRejectsInvalidName(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	for _, raw := range []string{"Doe,  John", "doe, John", "Doe", ""} {
		_, err := svc.Register(context.Background(), RegisterInput{Name: raw})
		ae := wantAppError(t, err, 422, "INVALID_PERSON_NAME")
		if ae.Details["name"] != raw {
			t.Fatalf("details.name=%v, want %q", ae.Details["name"], raw)
		}
		if !errors.Is(err, personname.ErrInvalidFormat) {
			t.Fatalf("errors.Is(err, ErrInvalidFormat)=false for %q", raw)
		}
	}
}

func TestService_RegisterRejectsEquivalentName(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	if _, err := svc.Register(context.Background(), RegisterInput{Name: "Doe,John"}); err != nil {
		t.Fatalf("Register err=%v", err)
	}
	_, err := svc.Register(context.Background(), RegisterInput{Name: "Doe, John"})
	wantAppError(t, err, 409, "PERSON_NAME_TAKEN")
}

func TestService_RegisterValidatesEmail(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	bad := "John <john@example.com>"
	_, err := svc.Register(context.Background(), RegisterInput{Name: "Doe, John", Email: &bad})
	wantAppError(t, err, 422, "VALIDATION_ERROR")

	good := "  john@example.com "
	p, err := svc.Register(context.Background(), RegisterInput{Name: "Doe, John", Email: &good})
	if err != nil {
		t.Fatalf("Register err=%v", err)
	}
	if p.Email == nil || *p.Email != "john@example.com" {
		t.Fatalf("Email=%v", p.Email)
	}
}

func TestService_GetAndRemove_NotFound(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	_, err := svc.Get(context.Background(), "missing")
	wantAppError(t, err, 404, "PERSON_NOT_FOUND")

	err = svc.Remove(context.Background(), "missing")
	wantAppError(t, err, 404, "PERSON_NOT_FOUND")

	_, err = svc.Lookup(context.Background(), "Roe, Jane")
	wantAppError(t, err, 404, "PERSON_NOT_FOUND")
}

func TestService_UpdateRenamesAndClearsEmail(t *testing.T) {
	t.Parallel()

	svc, clk := newTestService(t)
	email := "john@example.com"
	p, err := svc.Register(context.Background(), RegisterInput{Name: "Doe, John", Email: &email})
	if err != nil {
		t.Fatalf("Register err=%v", err)
	}
	if _, err := svc.Register(context.Background(), RegisterInput{Name: "Roe, Jane"}); err != nil {
		t.Fatalf("Register err=%v", err)
	}

	_, err = svc.Update(context.Background(), p.ID, UpdateInput{Name: Some("Roe,Jane")})
	wantAppError(t, err, 409, "PERSON_NAME_TAKEN")

	_, err = svc.Update(context.Background(), p.ID, UpdateInput{Name: Null[string]()})
	wantAppError(t, err, 422, "VALIDATION_ERROR")

	_, err = svc.Update(context.Background(), p.ID, UpdateInput{Name: Some("Doe,  Johnny")})
	wantAppError(t, err, 422, "INVALID_PERSON_NAME")

	clk.Advance(time.Minute)
	got, err := svc.Update(context.Background(), p.ID, UpdateInput{
		Name:  Some("Doe, Johnny"),
		Email: Null[string](),
	})
	if err != nil {
		t.Fatalf("Update err=%v", err)
	}
	if got.Name.String() != "Doe,Johnny" || got.Email != nil {
		t.Fatalf("Update()=%+v", got)
	}
	if !got.UpdatedAt.Equal(time.Unix(160, 0).UTC()) {
		t.Fatalf("UpdatedAt=%v", got.UpdatedAt)
	}

	// Unspecified fields are left alone.
	got, err = svc.Update(context.Background(), p.ID, UpdateInput{})
	if err != nil {
		t.Fatalf("Update err=%v", err)
	}
	if got.Name.String() != "Doe,Johnny" {
		t.Fatalf("Name=%q", got.Name)
	}
}

func TestService_ListPaginatesInNameOrder(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	svc.ListLimit = 2
	for _, n := range []string{"Smith, Mary Jane", "Doe, John", "Doe, Jane", "Adams, Al", "Zed, Ann"} {
		if _, err := svc.Register(context.Background(), RegisterInput{Name: n}); err != nil {
			t.Fatalf("Register(%q) err=%v", n, err)
		}
	}

	var got []string
	after := ""
	for i := 0; i < 10; i++ {
		page, err := svc.List(context.Background(), after, 100)
		if err != nil {
			t.Fatalf("List err=%v", err)
		}
		if len(page.People) > 2 {
			t.Fatalf("page size=%d exceeds ListLimit", len(page.People))
		}
		for _, p := range page.People {
			got = append(got, p.Name.String())
		}
		if page.NextAfter == "" {
			break
		}
		after = page.NextAfter
	}
	want := []string{"Adams,Al", "Doe,Jane", "Doe,John", "Smith,Mary Jane", "Zed,Ann"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("List pages=%v, want %v", got, want)
	}

	_, err := svc.List(context.Background(), "not a name", 0)
	wantAppError(t, err, 422, "INVALID_PERSON_NAME")
}

func TestService_ListByFamily(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	for _, n := range []string{"Van Der Berg, Jo", "Van Der Berg, Ann", "Van, Kim"} {
		if _, err := svc.Register(context.Background(), RegisterInput{Name: n}); err != nil {
			t.Fatalf("Register(%q) err=%v", n, err)
		}
	}

	got, err := svc.ListByFamily(context.Background(), "  Van   Der Berg ")
	if err != nil {
		t.Fatalf("ListByFamily err=%v", err)
	}
	if len(got) != 2 || got[0].Name.String() != "Van Der Berg,Ann" || got[1].Name.String() != "Van Der Berg,Jo" {
		t.Fatalf("ListByFamily()=%+v", got)
	}

	_, err = svc.ListByFamily(context.Background(), "  ")
	wantAppError(t, err, 422, "VALIDATION_ERROR")
	_, err = svc.ListByFamily(context.Background(), "Doe,John")
	wantAppError(t, err, 422, "VALIDATION_ERROR")
}
