package people

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/Overland-East-Bay/people-directory/internal/domain"
	clockport "github.com/Overland-East-Bay/people-directory/internal/ports/out/clock"
	"github.com/Overland-East-Bay/people-directory/internal/ports/out/personrepo"
	"github.com/Overland-East-Bay/people-directory/pkg/personname"
)

type Service struct {
	repo personrepo.Repository
	clk  clockport.Clock

	newPersonID func() domain.PersonID

	// ListLimit is the default and maximum page size for List.
	ListLimit int
}

func NewService(repo personrepo.Repository, clk clockport.Clock) *Service {
	return &Service{
		repo: repo,
		clk:  clk,
		newPersonID: func() domain.PersonID {
			return domain.PersonID(uuid.NewString())
		},
		ListLimit: 50,
	}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (domain.Person, error) {
	name, err := parseName("name", in.Name)
	if err != nil {
		return domain.Person{}, err
	}
	var email *string
	if in.Email != nil {
		e := strings.TrimSpace(*in.Email)
		if err := validateEmail(e); err != nil {
			return domain.Person{}, invalidEmail(err)
		}
		email = &e
	}

	now := s.clk.Now()
	p := personrepo.Person{
		ID:        s.newPersonID(),
		Name:      name,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, personrepo.ErrNameTaken) {
			return domain.Person{}, nameTaken(name)
		}
		return domain.Person{}, err
	}
	return toDomain(p), nil
}

func (s *Service) Get(ctx context.Context, id domain.PersonID) (domain.Person, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, personrepo.ErrNotFound) {
			return domain.Person{}, notFound()
		}
		return domain.Person{}, err
	}
	return toDomain(p), nil
}

// Lookup finds a person by name. Any accepted spelling works: "Doe, John" finds "Doe,John".
func (s *Service) Lookup(ctx context.Context, rawName string) (domain.Person, error) {
	name, err := parseName("name", rawName)
	if err != nil {
		return domain.Person{}, err
	}
	p, err := s.repo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, personrepo.ErrNotFound) {
			return domain.Person{}, notFound()
		}
		return domain.Person{}, err
	}
	return toDomain(p), nil
}

func (s *Service) Update(ctx context.Context, id domain.PersonID, in UpdateInput) (domain.Person, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, personrepo.ErrNotFound) {
			return domain.Person{}, notFound()
		}
		return domain.Person{}, err
	}

	if in.Name.IsSpecified() {
		if in.Name.IsNull() {
			return domain.Person{}, &Error{
				Status:  422,
				Code:    "VALIDATION_ERROR",
				Message: "invalid name",
				Details: map[string]any{"name": "cannot be null"},
			}
		}
		name, err := parseName("name", in.Name.Value())
		if err != nil {
			return domain.Person{}, err
		}
		p.Name = name
	}

	if in.Email.IsSpecified() {
		if in.Email.IsNull() {
			p.Email = nil
		} else {
			e := strings.TrimSpace(in.Email.Value())
			if err := validateEmail(e); err != nil {
				return domain.Person{}, invalidEmail(err)
			}
			p.Email = &e
		}
	}

	p.UpdatedAt = s.clk.Now()
	if err := s.repo.Update(ctx, p); err != nil {
		switch {
		case errors.Is(err, personrepo.ErrNameTaken):
			return domain.Person{}, nameTaken(p.Name)
		case errors.Is(err, personrepo.ErrNotFound):
			return domain.Person{}, notFound()
		}
		return domain.Person{}, err
	}
	return toDomain(p), nil
}

func (s *Service) Remove(ctx context.Context, id domain.PersonID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, personrepo.ErrNotFound) {
			return notFound()
		}
		return err
	}
	return nil
}

// List returns one page of the directory in name order. afterRaw, when non-empty,
// is parsed like any other name and the page starts strictly after it.
func (s *Service) List(ctx context.Context, afterRaw string, limit int) (Page, error) {
	var after personname.PersonName
	if afterRaw != "" {
		n, err := parseName("after", afterRaw)
		if err != nil {
			return Page{}, err
		}
		after = n
	}
	if limit <= 0 || limit > s.ListLimit {
		limit = s.ListLimit
	}

	ps, err := s.repo.List(ctx, after, limit)
	if err != nil {
		return Page{}, err
	}
	out := Page{People: make([]domain.Person, 0, len(ps))}
	for _, p := range ps {
		out.People = append(out.People, toDomain(p))
	}
	if limit > 0 && len(ps) == limit {
		out.NextAfter = ps[len(ps)-1].Name.String()
	}
	return out, nil
}

// ListByFamily returns everyone sharing the exact family part, in name order.
func (s *Service) ListByFamily(ctx context.Context, family string) ([]domain.Person, error) {
	f := domain.NormalizeFamilyQuery(family)
	if f == "" || strings.ContainsRune(f, ',') {
		return nil, &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "invalid family",
			Details: map[string]any{"family": "must be non-empty and contain no comma"},
		}
	}
	ps, err := s.repo.ListByFamily(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Person, 0, len(ps))
	for _, p := range ps {
		out = append(out, toDomain(p))
	}
	return out, nil
}

func parseName(field, raw string) (personname.PersonName, error) {
	n, err := personname.Parse(raw)
	if err != nil {
		return personname.PersonName{}, &Error{
			Status:  422,
			Code:    "INVALID_PERSON_NAME",
			Message: err.Error(),
			Details: map[string]any{
				field:     raw,
				"grammar": `Family[ Family...], Given[ Given...]; tokens are an uppercase letter followed by letters, "'" or "-"`,
			},
			cause: err,
		}
	}
	return n, nil
}

func validateEmail(email string) error {
	if email == "" {
		return errors.New("must be non-empty")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return err
	}
	// Ensure no "Name <email@x>" format sneaks in.
	if addr.Address != email {
		return errors.New("must be a bare email address")
	}
	return nil
}

func invalidEmail(err error) *Error {
	return &Error{
		Status:  422,
		Code:    "VALIDATION_ERROR",
		Message: "invalid email",
		Details: map[string]any{"email": err.Error()},
	}
}

func nameTaken(name personname.PersonName) *Error {
	return &Error{
		Status:  409,
		Code:    "PERSON_NAME_TAKEN",
		Message: "a person with this name already exists",
		Details: map[string]any{"name": name.String()},
		cause:   personrepo.ErrNameTaken,
	}
}

func notFound() *Error {
	return &Error{
		Status:  404,
		Code:    "PERSON_NOT_FOUND",
		Message: "person not found",
		cause:   personrepo.ErrNotFound,
	}
}

func toDomain(p personrepo.Person) domain.Person {
	return domain.Person{
		ID:        p.ID,
		Name:      p.Name,
		Email:     cloneStringPtr(p.Email),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
