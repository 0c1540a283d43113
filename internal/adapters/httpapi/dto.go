package httpapi

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oapi-codegen/nullable"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/Overland-East-Bay/people-directory/internal/domain"
	"github.com/Overland-East-Bay/people-directory/pkg/personname"
)

// NameView is the structural breakdown of one parsed name.
type NameView struct {
	Canonical personname.PersonName `json:"canonical"`
	Family    string                `json:"family"`
	Given     string                `json:"given"`
	Show      string                `json:"show"`
	Hash      uint32                `json:"hash"`
}

type ParseNameRequest struct {
	Name string `json:"name"`
}

type CompareNamesRequest struct {
	A string `json:"a"`
	B string `json:"b"`
}

type CompareNamesResponse struct {
	A   NameView `json:"a"`
	B   NameView `json:"b"`
	Cmp int      `json:"cmp"`
	Eq  bool     `json:"eq"`
	Ne  bool     `json:"ne"`
	Lt  bool     `json:"lt"`
	Le  bool     `json:"le"`
	Gt  bool     `json:"gt"`
	Ge  bool     `json:"ge"`
}

type PersonView struct {
	Id        openapi_types.UUID    `json:"id"`
	Name      personname.PersonName `json:"name"`
	Display   string                `json:"display"`
	Email     *string               `json:"email,omitempty"`
	CreatedAt time.Time             `json:"createdAt"`
	UpdatedAt time.Time             `json:"updatedAt"`
}

type PersonResponse struct {
	Person PersonView `json:"person"`
}

type PeopleResponse struct {
	People    []PersonView `json:"people"`
	NextAfter *string      `json:"nextAfter,omitempty"`
}

type RegisterPersonRequest struct {
	Name  string  `json:"name"`
	Email *string `json:"email,omitempty"`
}

// UpdatePersonRequest distinguishes omitted fields from explicit nulls.
type UpdatePersonRequest struct {
	Name  nullable.Nullable[string] `json:"name,omitempty"`
	Email nullable.Nullable[string] `json:"email,omitempty"`
}

func nameViewFromDomain(n personname.PersonName) (NameView, error) {
	family, err := n.Family()
	if err != nil {
		return NameView{}, err
	}
	given, err := n.Given()
	if err != nil {
		return NameView{}, err
	}
	show, err := n.Show()
	if err != nil {
		return NameView{}, err
	}
	return NameView{
		Canonical: n,
		Family:    family,
		Given:     given,
		Show:      show,
		Hash:      n.Hash(),
	}, nil
}

func personViewFromDomain(p domain.Person) (PersonView, error) {
	id, err := uuid.Parse(string(p.ID))
	if err != nil {
		return PersonView{}, fmt.Errorf("person id %q: %w", p.ID, err)
	}
	display, err := p.Name.Show()
	if err != nil {
		return PersonView{}, err
	}
	return PersonView{
		Id:        id,
		Name:      p.Name,
		Display:   display,
		Email:     p.Email,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}, nil
}
