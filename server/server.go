// Package server assembles the ctxfree HTTP API into a runnable service: it
// wires server/api's handlers, server/middle's middleware, and a
// store.Store-backed server/service.Service behind a chi router.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dekarrin/ctxfree/internal/store"
	"github.com/dekarrin/ctxfree/server/api"
	"github.com/dekarrin/ctxfree/server/middle"
	"github.com/dekarrin/ctxfree/server/service"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Server is a fully wired ctxfree API, ready to be given to an
// *http.Server or served directly via ListenAndServe.
type Server struct {
	router chi.Router
	db     store.Store
}

// New builds a Server from cfg. cfg should already have had FillDefaults
// called on it, and should have passed Validate.
func New(cfg Config) (*Server, error) {
	db, err := cfg.DB.Connect()
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	apiInst := api.API{
		Backend:     service.Service{DB: db},
		UnauthDelay: cfg.UnauthDelay(),
		Secret:      cfg.TokenSecret,
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(RequestID())
	r.Use(middle.DontPanic())

	r.Route(api.PathPrefix, func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middle.OptionalAuth(db.Clients(), apiInst.Secret, apiInst.UnauthDelay))
			r.Get("/info", apiInst.HTTPGetInfo())
		})

		r.Post("/clients", apiInst.HTTPCreateClient())
		r.Post("/login", apiInst.HTTPCreateLogin())

		r.Group(func(r chi.Router) {
			r.Use(middle.RequireAuth(db.Clients(), apiInst.Secret, apiInst.UnauthDelay))

			r.Delete("/login/{id}", apiInst.HTTPDeleteLogin())
			r.Post("/tokens", apiInst.HTTPCreateToken())

			r.Get("/clients", apiInst.HTTPGetAllClients())
			r.Get("/clients/{id}", apiInst.HTTPGetClient())
			r.Delete("/clients/{id}", apiInst.HTTPDeleteClient())

			r.Post("/grammars", apiInst.HTTPCreateGrammar())
			r.Get("/grammars", apiInst.HTTPGetAllGrammars())
			r.Get("/grammars/{id}", apiInst.HTTPGetGrammar())
			r.Delete("/grammars/{id}", apiInst.HTTPDeleteGrammar())
			r.Post("/grammars/{id}/membership", apiInst.HTTPTestGrammarMembership())

			r.Post("/automata", apiInst.HTTPCreateAutomaton())
			r.Get("/automata", apiInst.HTTPGetAllAutomata())
			r.Get("/automata/{id}", apiInst.HTTPGetAutomaton())
			r.Delete("/automata/{id}", apiInst.HTTPDeleteAutomaton())
			r.Post("/automata/{id}/membership", apiInst.HTTPTestAutomatonMembership())
		})
	})

	return &Server{router: r, db: db}, nil
}

// ServeHTTP allows a Server to be used directly as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	s.router.ServeHTTP(w, req)
}

// ListenAndServe starts the server listening on addr (e.g. "localhost:8080")
// and blocks until the context is canceled or an unrecoverable error occurs.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:    addr,
		Handler: s,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return httpSrv.Shutdown(context.Background())
	}
}

// Close releases resources held by the server, including its database
// connection.
func (s *Server) Close() error {
	return s.db.Close()
}
