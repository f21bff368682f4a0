package api

import (
	"net/http"

	"github.com/dekarrin/ctxfree/internal/store"
	"github.com/dekarrin/ctxfree/server/middle"
	"github.com/dekarrin/ctxfree/server/result"
	"github.com/dekarrin/ctxfree/server/token"
)

// HTTPCreateToken returns a HandlerFunc that issues a fresh token for the
// client the caller is already logged in as, without re-sending its API
// key.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the logged-in client of the request.
func (api API) HTTPCreateToken() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateToken)
}

func (api API) epCreateToken(req *http.Request) result.Result {
	client := req.Context().Value(middle.AuthClient).(store.StoredClient)

	tok, err := token.Generate(api.Secret, client)
	if err != nil {
		return result.InternalServerError("could not generate JWT: " + err.Error())
	}

	resp := LoginResponse{
		Token:    tok,
		ClientID: client.ID.String(),
	}
	return result.Created(resp, "client '"+client.Name+"' successfully created new token")
}
