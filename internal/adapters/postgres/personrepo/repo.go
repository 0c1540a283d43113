package personrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/Overland-East-Bay/people-directory/internal/adapters/postgres"
	"github.com/Overland-East-Bay/people-directory/internal/domain"
	"github.com/Overland-East-Bay/people-directory/internal/ports/out/personrepo"
	"github.com/Overland-East-Bay/people-directory/pkg/personname"
)

// Repo is a Postgres implementation of personrepo.Repository.
//
// Names travel as their canonical text: personname.PersonName implements
// driver.Valuer for arguments and sql.Scanner for results, so a stored value
// that no longer validates surfaces as personname.ErrInvalidFormat.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const selectPeople = `
	SELECT
		p.external_id,
		p.name,
		p.email,
		p.created_at,
		p.updated_at
	FROM people p
`

func (r *Repo) Create(ctx context.Context, p personrepo.Person) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(p.ID))
	if err != nil {
		return fmt.Errorf("invalid person id: %w", err)
	}
	if p.Name.IsZero() {
		return &personname.InvalidFormatError{Input: ""}
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO people (
			external_id,
			name,
			email,
			created_at,
			updated_at
		) VALUES ($1, $2::text, $3, $4, $5)
	`,
		id,
		p.Name,
		p.Email,
		p.CreatedAt.UTC(),
		p.UpdatedAt.UTC(),
	)
	if err != nil {
		return mapWriteError(err)
	}
	return nil
}

func (r *Repo) Update(ctx context.Context, p personrepo.Person) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(p.ID))
	if err != nil {
		return personrepo.ErrNotFound
	}
	if p.Name.IsZero() {
		return &personname.InvalidFormatError{Input: ""}
	}

	ct, err := r.pool.Exec(ctx, `
		UPDATE people
		SET name = $2::text,
		    email = $3,
		    updated_at = $4
		WHERE external_id = $1
	`,
		id,
		p.Name,
		p.Email,
		p.UpdatedAt.UTC(),
	)
	if err != nil {
		return mapWriteError(err)
	}
	if ct.RowsAffected() == 0 {
		return personrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.PersonID) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return personrepo.ErrNotFound
	}
	ct, err := r.pool.Exec(ctx, `DELETE FROM people WHERE external_id = $1`, uid)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return personrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.PersonID) (personrepo.Person, error) {
	if r.pool == nil {
		return personrepo.Person{}, errors.New("nil postgres pool")
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return personrepo.Person{}, personrepo.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, selectPeople+`WHERE p.external_id = $1`, uid)
	return scanPerson(row)
}

func (r *Repo) GetByName(ctx context.Context, name personname.PersonName) (personrepo.Person, error) {
	if r.pool == nil {
		return personrepo.Person{}, errors.New("nil postgres pool")
	}
	if name.IsZero() {
		return personrepo.Person{}, personrepo.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, selectPeople+`WHERE p.name = $1::text`, name)
	return scanPerson(row)
}

func (r *Repo) List(ctx context.Context, after personname.PersonName, limit int) ([]personrepo.Person, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	// A zero `after` is sent as NULL (see PersonName.Value).
	q := selectPeople + `
		WHERE ($1::text IS NULL OR p.name > $1::text)
		ORDER BY p.name COLLATE "C" ASC
	`
	if limit > 0 {
		q += fmt.Sprintf(" LIMIT %d ", limit)
	}
	rows, err := r.pool.Query(ctx, q, after)
	if err != nil {
		return nil, err
	}
	return collectPeople(rows)
}

func (r *Repo) ListByFamily(ctx context.Context, family string) ([]personrepo.Person, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	if family == "" {
		return []personrepo.Person{}, nil
	}
	// Names of one family occupy the byte range ["Family,", "Family-"): '-' follows ','.
	rows, err := r.pool.Query(ctx, selectPeople+`
		WHERE p.name >= $1::text AND p.name < $2::text
		ORDER BY p.name COLLATE "C" ASC
	`, family+",", family+"-")
	if err != nil {
		return nil, err
	}
	return collectPeople(rows)
}

// --- helpers ---

func mapWriteError(err error) error {
	pe, ok := postgres.AsPgError(err)
	if !ok {
		return err
	}
	switch pe.Code {
	case postgres.UniqueViolationCode:
		switch pe.ConstraintName {
		case "people_name_unique":
			return personrepo.ErrNameTaken
		case "people_external_id_unique":
			return personrepo.ErrAlreadyExists
		}
	case postgres.CheckViolationCode:
		return fmt.Errorf("%w: %s", personname.ErrInvalidFormat, pe.Message)
	}
	return err
}

func collectPeople(rows pgx.Rows) ([]personrepo.Person, error) {
	defer rows.Close()

	out := make([]personrepo.Person, 0)
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanPerson(row interface {
	Scan(dest ...any) error
}) (personrepo.Person, error) {
	var (
		externalID uuid.UUID
		name       personname.PersonName
		email      *string
		createdAt  time.Time
		updatedAt  time.Time
	)
	if err := row.Scan(
		&externalID,
		&name,
		&email,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return personrepo.Person{}, personrepo.ErrNotFound
		}
		return personrepo.Person{}, err
	}
	return personrepo.Person{
		ID:        domain.PersonID(externalID.String()),
		Name:      name,
		Email:     email,
		CreatedAt: createdAt.UTC(),
		UpdatedAt: updatedAt.UTC(),
	}, nil
}
