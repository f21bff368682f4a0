package api

import (
	"net/http"

	"github.com/dekarrin/ctxfree/internal/store"
	"github.com/dekarrin/ctxfree/internal/version"
	"github.com/dekarrin/ctxfree/server/middle"
	"github.com/dekarrin/ctxfree/server/result"
)

// InfoModel reports API and build version information.
type InfoModel struct {
	Version struct {
		Server  string `json:"server"`
		Ctxfree string `json:"ctxfree"`
	} `json:"version"`
}

// HTTPGetInfo returns a HandlerFunc that retrieves information on the API and
// server.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// a value denoting whether the client making the request is logged-in.
func (api API) HTTPGetInfo() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetInfo)
}

func (api API) epGetInfo(req *http.Request) result.Result {
	loggedIn := req.Context().Value(middle.AuthLoggedIn).(bool)

	var resp InfoModel
	resp.Version.Server = version.ServerCurrent
	resp.Version.Ctxfree = version.Current

	clientStr := "unauthed client"
	if loggedIn {
		client := req.Context().Value(middle.AuthClient).(store.StoredClient)
		clientStr = "client '" + client.Name + "'"
	}
	return result.OK(resp, "%s got API info", clientStr)
}
