package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterOptions struct {
	// RequestLogging enables chi's request logger (stdlib log output).
	RequestLogging bool
}

// NewRouter constructs the API HTTP router with default options.
func NewRouter(s *Server) http.Handler {
	return NewRouterWithOptions(s, RouterOptions{})
}

func NewRouterWithOptions(s *Server, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	// Baseline production-safe middleware (minimal but useful).
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if opts.RequestLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/names", func(r chi.Router) {
		r.Post("/parse", s.ParseName)
		r.Post("/compare", s.CompareNames)
	})

	r.Route("/people", func(r chi.Router) {
		r.Get("/", s.ListPeople)
		r.Post("/", s.RegisterPerson)
		r.Get("/lookup", s.LookupPerson)
		r.Get("/family/{family}", s.ListFamily)
		r.Get("/{personId}", s.GetPerson)
		r.Patch("/{personId}", s.UpdatePerson)
		r.Delete("/{personId}", s.DeletePerson)
	})

	return r
}
