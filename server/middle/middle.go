// Package middle contains middleware for use with the ctxfree server.
package middle

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/dekarrin/ctxfree/internal/store"
	"github.com/dekarrin/ctxfree/server/result"
	"github.com/dekarrin/ctxfree/server/token"
)

type mwFunc http.HandlerFunc

func (sf mwFunc) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	sf(w, req)
}

// Middleware is a function that takes a handler and returns a new handler which
// wraps the given one and provides some additional functionality.
type Middleware func(next http.Handler) http.Handler

// AuthKey is a key in the context of a request populated by an AuthHandler.
type AuthKey int64

const (
	AuthLoggedIn AuthKey = iota
	AuthClient
)

// AuthHandler is middleware that extracts the bearer token used for
// authentication and looks up the store.StoredClient it asserts.
//
// Keys are added to the request context before the request is passed to the
// next step in the chain. AuthClient will contain the logged-in client, and
// AuthLoggedIn reports whether the client is logged in (only meaningful for
// optional auth; for required auth, not being logged in results in an
// HTTP-401 before the request reaches next).
type AuthHandler struct {
	db            store.ClientRepository
	secret        []byte
	required      bool
	unauthedDelay time.Duration
	next          http.Handler
}

func (ah *AuthHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	var loggedIn bool
	var client store.StoredClient

	tok, err := token.Get(req)
	if err != nil {
		// deliberately leaving as embedded if instead of &&
		if ah.required {
			r := result.Unauthorized("", err.Error())
			time.Sleep(ah.unauthedDelay)
			logResult(req, r)
			r.WriteResponse(w)
			return
		}
	} else {
		lookupClient, err := token.Validate(req.Context(), tok, ah.secret, ah.db)
		if err != nil {
			if ah.required {
				r := result.Unauthorized("", err.Error())
				time.Sleep(ah.unauthedDelay)
				logResult(req, r)
				r.WriteResponse(w)
				return
			}
		} else {
			client = lookupClient
			loggedIn = true
		}
	}

	ctx := req.Context()
	ctx = context.WithValue(ctx, AuthLoggedIn, loggedIn)
	ctx = context.WithValue(ctx, AuthClient, client)
	req = req.WithContext(ctx)
	ah.next.ServeHTTP(w, req)
}

func RequireAuth(db store.ClientRepository, secret []byte, unauthDelay time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return &AuthHandler{
			db:            db,
			secret:        secret,
			unauthedDelay: unauthDelay,
			required:      true,
			next:          next,
		}
	}
}

func OptionalAuth(db store.ClientRepository, secret []byte, unauthDelay time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return &AuthHandler{
			db:            db,
			secret:        secret,
			unauthedDelay: unauthDelay,
			required:      false,
			next:          next,
		}
	}
}

// DontPanic returns a Middleware that performs a panic check as it exits. If
// the function is panicking, it will write out an HTTP response with a generic
// message to the client and add it to the log.
func DontPanic() Middleware {
	return func(next http.Handler) http.Handler {
		return mwFunc(func(w http.ResponseWriter, r *http.Request) {
			defer panicTo500(w, r)
			next.ServeHTTP(w, r)
		})
	}
}

func panicTo500(w http.ResponseWriter, req *http.Request) (panicVal interface{}) {
	if panicErr := recover(); panicErr != nil {
		r := result.TextErr(
			http.StatusInternalServerError,
			"An internal server error occurred",
			fmt.Sprintf("panic: %v\nSTACK TRACE: %s", panicErr, string(debug.Stack())),
		)
		logResult(req, r)
		r.WriteResponse(w)
		return true
	}
	return false
}

func logResult(req *http.Request, r result.Result) {
	level := "INFO "
	if r.IsErr {
		level = "ERROR"
	}
	remoteIP := strings.SplitN(req.RemoteAddr, ":", 2)[0]
	log.Printf("%s %s %s %s: HTTP-%d %s", level, remoteIP, req.Method, req.URL.Path, r.Status, r.InternalMsg)
}
