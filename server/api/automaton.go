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

func automatonModel(sa store.StoredAutomaton) AutomatonModel {
	return AutomatonModel{
		URI:      PathPrefix + "/automata/" + sa.ID.String(),
		ID:       sa.ID.String(),
		Name:     sa.Name,
		Start:    sa.LTS.Start,
		End:      sa.LTS.End,
		States:   sa.LTS.NumStates(),
		Created:  sa.Created.Format(time.RFC3339),
		Modified: sa.Modified.Format(time.RFC3339),
	}
}

// HTTPCreateAutomaton returns a HandlerFunc that parses the submitted RE
// concrete syntax, compiles it to an LTS via the Thompson construction, and
// saves it.
func (api API) HTTPCreateAutomaton() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateAutomaton)
}

func (api API) epCreateAutomaton(req *http.Request) result.Result {
	client := req.Context().Value(middle.AuthClient).(store.StoredClient)

	var submitReq SubmitTextRequest
	if err := parseJSON(req, &submitReq); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if submitReq.Name == "" {
		return result.BadRequest("name: property is empty or missing from request", "empty name")
	}

	sa, err := api.Backend.SubmitRegex(req.Context(), submitReq.Name, submitReq.Text)
	if err != nil {
		if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	return result.Created(automatonModel(sa), "client '%s' saved automaton '%s'", client.Name, sa.Name)
}

// HTTPGetAllAutomata returns a HandlerFunc that lists every saved automaton.
func (api API) HTTPGetAllAutomata() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetAllAutomata)
}

func (api API) epGetAllAutomata(req *http.Request) result.Result {
	client := req.Context().Value(middle.AuthClient).(store.StoredClient)

	all, err := api.Backend.GetAllAutomata(req.Context())
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	resp := make([]AutomatonModel, len(all))
	for i := range all {
		resp[i] = automatonModel(all[i])
	}

	return result.OK(resp, "client '%s' got all automata", client.Name)
}

// HTTPGetAutomaton returns a HandlerFunc that retrieves a single saved
// automaton's metadata.
func (api API) HTTPGetAutomaton() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetAutomaton)
}

func (api API) epGetAutomaton(req *http.Request) result.Result {
	id := requireIDParam(req)

	sa, err := api.Backend.GetAutomaton(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}

	return result.OK(automatonModel(sa), "got automaton '%s'", sa.Name)
}

// HTTPDeleteAutomaton returns a HandlerFunc that deletes a saved automaton.
func (api API) HTTPDeleteAutomaton() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epDeleteAutomaton)
}

func (api API) epDeleteAutomaton(req *http.Request) result.Result {
	id := requireIDParam(req)
	client := req.Context().Value(middle.AuthClient).(store.StoredClient)

	sa, err := api.Backend.DeleteAutomaton(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}

	return result.NoContent("client '%s' deleted automaton '%s'", client.Name, sa.Name)
}

// HTTPTestAutomatonMembership returns a HandlerFunc that tests whether a
// word is accepted by a saved automaton.
func (api API) HTTPTestAutomatonMembership() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epTestAutomatonMembership)
}

func (api API) epTestAutomatonMembership(req *http.Request) result.Result {
	id := requireIDParam(req)

	var memReq MembershipRequest
	if err := parseJSON(req, &memReq); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	member, err := api.Backend.TestAutomatonMembership(req.Context(), id, memReq.Word)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}

	return result.OK(MembershipResponse{Member: member}, "tested membership of word against automaton %s", id)
}
