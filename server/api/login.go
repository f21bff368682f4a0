package api

import (
	"errors"
	"net/http"

	"github.com/dekarrin/ctxfree/internal/store"
	"github.com/dekarrin/ctxfree/server/middle"
	"github.com/dekarrin/ctxfree/server/result"
	"github.com/dekarrin/ctxfree/server/serr"
	"github.com/dekarrin/ctxfree/server/token"
)

// HTTPCreateLogin returns a HandlerFunc that exchanges an API key for a
// bearer JWT.
func (api API) HTTPCreateLogin() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateLogin)
}

func (api API) epCreateLogin(req *http.Request) result.Result {
	loginData := LoginRequest{}
	err := parseJSON(req, &loginData)
	if err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	if loginData.APIKey == "" {
		return result.BadRequest("api_key: property is empty or missing from request", "empty API key")
	}

	client, err := api.Backend.Login(req.Context(), loginData.APIKey)
	if err != nil {
		if errors.Is(err, serr.ErrBadCredentials) {
			return result.Unauthorized(serr.ErrBadCredentials.Error(), "client login: %s", err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	tok, err := token.Generate(api.Secret, client)
	if err != nil {
		return result.InternalServerError("could not generate JWT: " + err.Error())
	}

	resp := LoginResponse{
		Token:    tok,
		ClientID: client.ID.String(),
	}
	return result.Created(resp, "client '"+client.Name+"' successfully logged in")
}

// HTTPDeleteLogin returns a HandlerFunc that logs out the calling client,
// invalidating any JWT issued to it before this call.
//
// The handler has requirements for the request context it receives, and if
// the requirements are not met it may return an HTTP-500. The context must
// contain the ID of the client to log out and the logged-in client of the
// request.
func (api API) HTTPDeleteLogin() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epDeleteLogin)
}

func (api API) epDeleteLogin(req *http.Request) result.Result {
	id := requireIDParam(req)
	client := req.Context().Value(middle.AuthClient).(store.StoredClient)

	if id != client.ID {
		return result.Forbidden("client '%s' logout of client %s: forbidden", client.Name, id)
	}

	loggedOut, err := api.Backend.Logout(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not log out client: " + err.Error())
	}

	return result.NoContent("client '%s' successfully logged out", loggedOut.Name)
}
