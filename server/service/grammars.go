package service

import (
	"context"
	"errors"

	"github.com/dekarrin/ctxfree/internal/cfsyntax"
	"github.com/dekarrin/ctxfree/internal/descent"
	"github.com/dekarrin/ctxfree/internal/grammar"
	"github.com/dekarrin/ctxfree/internal/store"
	"github.com/dekarrin/ctxfree/server/serr"
	"github.com/google/uuid"
)

// normalize applies the CFG normalization pipeline in the order the
// overview describes: unreachable/unproductive symbols first (so later
// passes never look at dead rules), then ε-elimination, then unit/chain-rule
// elimination, then left-recursion elimination, then left-factoring.
func normalize(g *grammar.Grammar) {
	g.DeleteUnreachable()
	g.DeleteDead()
	g.DeleteVanishings()
	g.DeleteChainRules()
	g.EliminateLeftRecursion()
	g.LeftFactorize()
	g.DeleteExtraNonTerminals()
}

// SubmitGrammar parses text with cfsyntax, normalizes the result, and
// persists it under name. The returned error matches serr.ErrBadArgument if
// text does not parse or the resulting grammar fails validation.
func (svc Service) SubmitGrammar(ctx context.Context, name, text string) (store.StoredGrammar, error) {
	g, err := cfsyntax.ParseGrammar(text)
	if err != nil {
		return store.StoredGrammar{}, serr.New(err.Error(), serr.ErrBadArgument)
	}

	if err := g.Validate(); err != nil {
		return store.StoredGrammar{}, serr.New(err.Error(), serr.ErrBadArgument)
	}

	normalize(g)

	sg, err := svc.DB.Grammars().Create(ctx, name, g)
	if err != nil {
		return store.StoredGrammar{}, serr.WrapDB("could not save grammar", err)
	}
	return sg, nil
}

func (svc Service) GetGrammar(ctx context.Context, id uuid.UUID) (store.StoredGrammar, error) {
	sg, err := svc.DB.Grammars().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.StoredGrammar{}, serr.ErrNotFound
		}
		return store.StoredGrammar{}, serr.WrapDB("could not get grammar", err)
	}
	return sg, nil
}

func (svc Service) GetAllGrammars(ctx context.Context) ([]store.StoredGrammar, error) {
	all, err := svc.DB.Grammars().GetAll(ctx)
	if err != nil {
		return nil, serr.WrapDB("could not get grammars", err)
	}
	return all, nil
}

func (svc Service) DeleteGrammar(ctx context.Context, id uuid.UUID) (store.StoredGrammar, error) {
	sg, err := svc.DB.Grammars().Delete(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.StoredGrammar{}, serr.ErrNotFound
		}
		return store.StoredGrammar{}, serr.WrapDB("could not delete grammar", err)
	}
	return sg, nil
}

// TestGrammarMembership reports whether w is accepted by the grammar stored
// under id, using the recursive-descent tester.
func (svc Service) TestGrammarMembership(ctx context.Context, id uuid.UUID, w []string) (bool, error) {
	sg, err := svc.GetGrammar(ctx, id)
	if err != nil {
		return false, err
	}

	p := descent.New(sg.Grammar)
	return p.IsInLanguage(w), nil
}
