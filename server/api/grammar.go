package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/dekarrin/ctxfree/internal/store"
	"github.com/dekarrin/ctxfree/server/middle"
	"github.com/dekarrin/ctxfree/server/result"
	"github.com/dekarrin/ctxfree/server/serr"
)

func grammarModel(sg store.StoredGrammar) GrammarModel {
	return GrammarModel{
		URI:        PathPrefix + "/grammars/" + sg.ID.String(),
		ID:         sg.ID.String(),
		Name:       sg.Name,
		Normalized: sg.Grammar.String(),
		Created:    sg.Created.Format(time.RFC3339),
		Modified:   sg.Modified.Format(time.RFC3339),
	}
}

// HTTPCreateGrammar returns a HandlerFunc that parses the submitted CFG
// concrete syntax, normalizes it, and saves it.
func (api API) HTTPCreateGrammar() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateGrammar)
}

func (api API) epCreateGrammar(req *http.Request) result.Result {
	client := req.Context().Value(middle.AuthClient).(store.StoredClient)

	var submitReq SubmitTextRequest
	if err := parseJSON(req, &submitReq); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if submitReq.Name == "" {
		return result.BadRequest("name: property is empty or missing from request", "empty name")
	}

	sg, err := api.Backend.SubmitGrammar(req.Context(), submitReq.Name, submitReq.Text)
	if err != nil {
		if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	return result.Created(grammarModel(sg), "client '%s' saved grammar '%s'", client.Name, sg.Name)
}

// HTTPGetAllGrammars returns a HandlerFunc that lists every saved grammar.
func (api API) HTTPGetAllGrammars() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetAllGrammars)
}

func (api API) epGetAllGrammars(req *http.Request) result.Result {
	client := req.Context().Value(middle.AuthClient).(store.StoredClient)

	all, err := api.Backend.GetAllGrammars(req.Context())
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	resp := make([]GrammarModel, len(all))
	for i := range all {
		resp[i] = grammarModel(all[i])
	}

	return result.OK(resp, "client '%s' got all grammars", client.Name)
}

// HTTPGetGrammar returns a HandlerFunc that retrieves a single saved
// grammar's normalized form.
func (api API) HTTPGetGrammar() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetGrammar)
}

func (api API) epGetGrammar(req *http.Request) result.Result {
	id := requireIDParam(req)

	sg, err := api.Backend.GetGrammar(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}

	return result.OK(grammarModel(sg), "got grammar '%s'", sg.Name)
}

// HTTPDeleteGrammar returns a HandlerFunc that deletes a saved grammar.
func (api API) HTTPDeleteGrammar() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epDeleteGrammar)
}

func (api API) epDeleteGrammar(req *http.Request) result.Result {
	id := requireIDParam(req)
	client := req.Context().Value(middle.AuthClient).(store.StoredClient)

	sg, err := api.Backend.DeleteGrammar(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}

	return result.NoContent("client '%s' deleted grammar '%s'", client.Name, sg.Name)
}

// HTTPTestGrammarMembership returns a HandlerFunc that tests whether a word
// is in the language of a saved grammar.
func (api API) HTTPTestGrammarMembership() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epTestGrammarMembership)
}

func (api API) epTestGrammarMembership(req *http.Request) result.Result {
	id := requireIDParam(req)

	var memReq MembershipRequest
	if err := parseJSON(req, &memReq); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	member, err := api.Backend.TestGrammarMembership(req.Context(), id, memReq.Word)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}

	return result.OK(MembershipResponse{Member: member}, "tested membership of word against grammar %s", id)
}
