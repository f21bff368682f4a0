package service

import (
	"context"
	"errors"

	"github.com/dekarrin/ctxfree/internal/cfsyntax"
	"github.com/dekarrin/ctxfree/internal/lts"
	"github.com/dekarrin/ctxfree/internal/store"
	"github.com/dekarrin/ctxfree/server/serr"
	"github.com/google/uuid"
)

// SubmitRegex parses text with cfsyntax, compiles the resulting RE to an
// LTS via the Thompson construction, and persists it under name.
func (svc Service) SubmitRegex(ctx context.Context, name, text string) (store.StoredAutomaton, error) {
	re, err := cfsyntax.ParseRE(text)
	if err != nil {
		return store.StoredAutomaton{}, serr.New(err.Error(), serr.ErrBadArgument)
	}

	l := lts.Compile(re, 0)

	sa, err := svc.DB.Automata().Create(ctx, name, l)
	if err != nil {
		return store.StoredAutomaton{}, serr.WrapDB("could not save automaton", err)
	}
	return sa, nil
}

func (svc Service) GetAutomaton(ctx context.Context, id uuid.UUID) (store.StoredAutomaton, error) {
	sa, err := svc.DB.Automata().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.StoredAutomaton{}, serr.ErrNotFound
		}
		return store.StoredAutomaton{}, serr.WrapDB("could not get automaton", err)
	}
	return sa, nil
}

func (svc Service) GetAllAutomata(ctx context.Context) ([]store.StoredAutomaton, error) {
	all, err := svc.DB.Automata().GetAll(ctx)
	if err != nil {
		return nil, serr.WrapDB("could not get automata", err)
	}
	return all, nil
}

func (svc Service) DeleteAutomaton(ctx context.Context, id uuid.UUID) (store.StoredAutomaton, error) {
	sa, err := svc.DB.Automata().Delete(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.StoredAutomaton{}, serr.ErrNotFound
		}
		return store.StoredAutomaton{}, serr.WrapDB("could not delete automaton", err)
	}
	return sa, nil
}

// TestAutomatonMembership reports whether w is accepted by the LTS stored
// under id.
func (svc Service) TestAutomatonMembership(ctx context.Context, id uuid.UUID, w []string) (bool, error) {
	sa, err := svc.GetAutomaton(ctx, id)
	if err != nil {
		return false, err
	}
	return sa.LTS.Accepts(w), nil
}
