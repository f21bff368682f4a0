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

func clientModel(c store.StoredClient) ClientModel {
	return ClientModel{
		URI:      PathPrefix + "/clients/" + c.ID.String(),
		ID:       c.ID.String(),
		Name:     c.Name,
		Created:  c.Created.Format(time.RFC3339),
		Modified: c.Modified.Format(time.RFC3339),
	}
}

// HTTPCreateClient returns a HandlerFunc that registers a new API client and
// returns its freshly generated API key. This is the one endpoint that does
// not require prior authentication — it is how a client is onboarded in the
// first place.
func (api API) HTTPCreateClient() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateClient)
}

func (api API) epCreateClient(req *http.Request) result.Result {
	var createReq ClientModel
	err := parseJSON(req, &createReq)
	if err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if createReq.Name == "" {
		return result.BadRequest("name: property is empty or missing from request", "empty name")
	}

	newClient, rawKey, err := api.Backend.CreateClient(req.Context(), createReq.Name)
	if err != nil {
		if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	resp := clientModel(newClient)
	resp.APIKey = rawKey

	return result.Created(resp, "client '%s' (%s) created", resp.Name, resp.ID)
}

// HTTPGetAllClients returns a HandlerFunc that retrieves all registered
// clients. Any authenticated client may call this; API keys are never
// included in the response.
func (api API) HTTPGetAllClients() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetAllClients)
}

func (api API) epGetAllClients(req *http.Request) result.Result {
	client := req.Context().Value(middle.AuthClient).(store.StoredClient)

	clients, err := api.Backend.GetAllClients(req.Context())
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	resp := make([]ClientModel, len(clients))
	for i := range clients {
		resp[i] = clientModel(clients[i])
	}

	return result.OK(resp, "client '%s' got all clients", client.Name)
}

// HTTPGetClient returns a HandlerFunc that gets an existing client's
// metadata.
//
// The handler has requirements for the request context it receives, and if
// the requirements are not met it may return an HTTP-500. The context must
// contain the ID of the client being operated on and the logged-in client of
// the request.
func (api API) HTTPGetClient() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetClient)
}

func (api API) epGetClient(req *http.Request) result.Result {
	id := requireIDParam(req)
	client := req.Context().Value(middle.AuthClient).(store.StoredClient)

	other, err := api.Backend.GetClient(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not get client: " + err.Error())
	}

	return result.OK(clientModel(other), "client '%s' successfully got client '%s'", client.Name, other.Name)
}

// HTTPDeleteClient returns a HandlerFunc that deletes a client entity. A
// client may only delete itself.
//
// The handler has requirements for the request context it receives, and if
// the requirements are not met it may return an HTTP-500. The context must
// contain the ID of the client being deleted and the logged-in client of the
// request.
func (api API) HTTPDeleteClient() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epDeleteClient)
}

func (api API) epDeleteClient(req *http.Request) result.Result {
	id := requireIDParam(req)
	client := req.Context().Value(middle.AuthClient).(store.StoredClient)

	if id != client.ID {
		return result.Forbidden("client '%s' delete client %s: forbidden", client.Name, id)
	}

	deleted, err := api.Backend.DeleteClient(req.Context(), id)
	if err != nil && !errors.Is(err, serr.ErrNotFound) {
		return result.InternalServerError("could not delete client: " + err.Error())
	}

	return result.NoContent("client '%s' successfully deleted self", deleted.Name)
}
