package httpapi

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Overland-East-Bay/people-directory/internal/app/people"
	"github.com/Overland-East-Bay/people-directory/internal/domain"
	"github.com/Overland-East-Bay/people-directory/internal/ports/out/idempotency"
	"github.com/Overland-East-Bay/people-directory/pkg/personname"
)

const maxBodyBytes = 1 << 16

// Server holds the HTTP handlers. Idem may be nil, which disables replay of
// POST /people.
type Server struct {
	People *people.Service
	Idem   idempotency.Store
}

func NewServer(peopleSvc *people.Service, idem idempotency.Store) *Server {
	return &Server{
		People: peopleSvc,
		Idem:   idem,
	}
}

// ParseName is the stateless view of the value type: canonical form, parts, display and hash.
func (s *Server) ParseName(w http.ResponseWriter, r *http.Request) {
	var req ParseNameRequest
	if !decodeBody(w, r, &req) {
		return
	}
	view, ok := parseNameView(w, r, "name", req.Name)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// CompareNames evaluates the six comparison operators on two names.
func (s *Server) CompareNames(w http.ResponseWriter, r *http.Request) {
	var req CompareNamesRequest
	if !decodeBody(w, r, &req) {
		return
	}
	a, ok := parseNameView(w, r, "a", req.A)
	if !ok {
		return
	}
	b, ok := parseNameView(w, r, "b", req.B)
	if !ok {
		return
	}
	x, y := a.Canonical, b.Canonical
	writeJSON(w, http.StatusOK, CompareNamesResponse{
		A:   a,
		B:   b,
		Cmp: personname.Compare(x, y),
		Eq:  personname.Equal(x, y),
		Ne:  personname.NotEqual(x, y),
		Lt:  personname.Less(x, y),
		Le:  personname.LessOrEqual(x, y),
		Gt:  personname.Greater(x, y),
		Ge:  personname.GreaterOrEqual(x, y),
	})
}

func (s *Server) ListPeople(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid limit", map[string]any{"limit": "must be a non-negative integer"})
			return
		}
		limit = n
	}

	page, err := s.People.List(r.Context(), q.Get("after"), limit)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	s.writePeople(w, r, page.People, page.NextAfter)
}

func (s *Server) ListFamily(w http.ResponseWriter, r *http.Request) {
	ps, err := s.People.ListByFamily(r.Context(), chi.URLParam(r, "family"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	s.writePeople(w, r, ps, "")
}

func (s *Server) LookupPerson(w http.ResponseWriter, r *http.Request) {
	p, err := s.People.Lookup(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	s.writePerson(w, r, http.StatusOK, p)
}

func (s *Server) GetPerson(w http.ResponseWriter, r *http.Request) {
	p, err := s.People.Get(r.Context(), domain.PersonID(chi.URLParam(r, "personId")))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	s.writePerson(w, r, http.StatusOK, p)
}

// RegisterPerson creates a directory entry. With an Idempotency-Key header, a retry
// with the same body replays the first response; reusing the key with another body is a 409.
func (s *Server) RegisterPerson(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "unreadable request body", nil)
		return
	}
	var req RegisterPersonRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "malformed JSON body", nil)
		return
	}

	// Idempotency handling:
	// - Replay if same key+route+bodyHash
	// - Reject if same key+route with a different bodyHash (409)
	idemKey := idempotency.Key(strings.TrimSpace(r.Header.Get("Idempotency-Key")))
	var respFP idempotency.Fingerprint
	if s.Idem != nil && idemKey != "" {
		bodyHash := hashBody(raw)
		metaFP := idempotency.Fingerprint{
			Key:    idemKey,
			Method: http.MethodPost,
			Route:  "/people",
		}
		meta, ok, err := s.Idem.Get(r.Context(), metaFP)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		if ok && string(meta.Body) != bodyHash {
			writeError(w, r, http.StatusConflict, "IDEMPOTENCY_KEY_REUSE", "idempotency key reuse with different payload", nil)
			return
		}
		if !ok {
			if err := s.Idem.Put(r.Context(), metaFP, idempotency.Record{ContentType: "text/plain", Body: []byte(bodyHash)}); err != nil {
				writeAppError(w, r, err)
				return
			}
		}

		respFP = metaFP
		respFP.BodyHash = bodyHash
		rec, ok, err := s.Idem.Get(r.Context(), respFP)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		if ok && rec.StatusCode == http.StatusCreated {
			w.Header().Set("Content-Type", rec.ContentType)
			w.Header().Set("Idempotent-Replayed", "true")
			w.WriteHeader(rec.StatusCode)
			_, _ = w.Write(rec.Body)
			return
		}
	}

	p, err := s.People.Register(r.Context(), people.RegisterInput{Name: req.Name, Email: req.Email})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	view, err := personViewFromDomain(p)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	body, err := json.Marshal(PersonResponse{Person: view})
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	// Store the successful response for replay.
	if s.Idem != nil && idemKey != "" {
		_ = s.Idem.Put(r.Context(), respFP, idempotency.Record{
			StatusCode:  http.StatusCreated,
			ContentType: "application/json",
			Body:        body,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write(append(body, '\n'))
}

func (s *Server) UpdatePerson(w http.ResponseWriter, r *http.Request) {
	var req UpdatePersonRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var in people.UpdateInput
	if req.Name.IsSpecified() {
		if req.Name.IsNull() {
			in.Name = people.Null[string]()
		} else if v, err := req.Name.Get(); err == nil {
			in.Name = people.Some(v)
		}
	}
	if req.Email.IsSpecified() {
		if req.Email.IsNull() {
			in.Email = people.Null[string]()
		} else if v, err := req.Email.Get(); err == nil {
			in.Email = people.Some(v)
		}
	}

	p, err := s.People.Update(r.Context(), domain.PersonID(chi.URLParam(r, "personId")), in)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	s.writePerson(w, r, http.StatusOK, p)
}

func (s *Server) DeletePerson(w http.ResponseWriter, r *http.Request) {
	if err := s.People.Remove(r.Context(), domain.PersonID(chi.URLParam(r, "personId"))); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- helpers ---

func (s *Server) writePerson(w http.ResponseWriter, r *http.Request, status int, p domain.Person) {
	view, err := personViewFromDomain(p)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, status, PersonResponse{Person: view})
}

func (s *Server) writePeople(w http.ResponseWriter, r *http.Request, ps []domain.Person, nextAfter string) {
	out := PeopleResponse{People: make([]PersonView, 0, len(ps))}
	for _, p := range ps {
		view, err := personViewFromDomain(p)
		if err != nil {
			writeAppError(w, r, err)
			return
		}
		out.People = append(out.People, view)
	}
	if nextAfter != "" {
		out.NextAfter = &nextAfter
	}
	writeJSON(w, http.StatusOK, out)
}

func parseNameView(w http.ResponseWriter, r *http.Request, field, raw string) (NameView, bool) {
	n, err := personname.Parse(raw)
	if err == nil {
		var view NameView
		view, err = nameViewFromDomain(n)
		if err == nil {
			return view, true
		}
	}
	writeError(w, r, http.StatusUnprocessableEntity, "INVALID_PERSON_NAME", err.Error(), map[string]any{field: raw})
	return NameView{}, false
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "malformed JSON body", nil)
		return false
	}
	return true
}

func hashBody(raw []byte) string {
	sum := sha256.Sum256(bytes.TrimSpace(raw))
	return hex.EncodeToString(sum[:])
}
