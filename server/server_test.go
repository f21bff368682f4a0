package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/dekarrin/ctxfree/server/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T) *httptest.Server {
	cfg := Config{
		DB: Database{Type: DatabaseSQLite, DataDir: filepath.Join(t.TempDir(), "data")},
	}.FillDefaults()

	srv, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url, token string, body interface{}) *http.Response {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v interface{}) {
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func Test_Server_infoIsUnauthenticated(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Get(ts.URL + api.PathPrefix + "/info")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))

	var info api.InfoModel
	decodeBody(t, resp, &info)
	assert.NotEmpty(t, info.Version.Ctxfree)
}

func Test_Server_clientLifecycleAndAuth(t *testing.T) {
	ts := testServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+api.PathPrefix+"/clients", "", api.ClientModel{Name: "alice"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created api.ClientModel
	decodeBody(t, resp, &created)
	require.NotEmpty(t, created.APIKey)

	resp = doJSON(t, http.MethodGet, ts.URL+api.PathPrefix+"/clients", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, ts.URL+api.PathPrefix+"/login", "", api.LoginRequest{APIKey: created.APIKey})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var login api.LoginResponse
	decodeBody(t, resp, &login)
	require.NotEmpty(t, login.Token)

	resp = doJSON(t, http.MethodGet, ts.URL+api.PathPrefix+"/clients", login.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var all []api.ClientModel
	decodeBody(t, resp, &all)
	assert.Len(t, all, 1)

	resp = doJSON(t, http.MethodDelete, ts.URL+api.PathPrefix+"/login/"+created.ID, login.Token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, ts.URL+api.PathPrefix+"/clients", login.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func Test_Server_grammarMembershipRoundTrip(t *testing.T) {
	ts := testServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+api.PathPrefix+"/clients", "", api.ClientModel{Name: "bob"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created api.ClientModel
	decodeBody(t, resp, &created)

	resp = doJSON(t, http.MethodPost, ts.URL+api.PathPrefix+"/login", "", api.LoginRequest{APIKey: created.APIKey})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var login api.LoginResponse
	decodeBody(t, resp, &login)

	grammarText := "T: ( )\nN: S\nS: S\nS -> ( S ) S |\n"
	resp = doJSON(t, http.MethodPost, ts.URL+api.PathPrefix+"/grammars", login.Token, api.SubmitTextRequest{Name: "balanced-parens", Text: grammarText})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var sg api.GrammarModel
	decodeBody(t, resp, &sg)
	require.NotEmpty(t, sg.ID)

	resp = doJSON(t, http.MethodPost, ts.URL+api.PathPrefix+"/grammars/"+sg.ID+"/membership", login.Token, api.MembershipRequest{Word: []string{"(", ")"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var member api.MembershipResponse
	decodeBody(t, resp, &member)
	assert.True(t, member.Member)

	resp = doJSON(t, http.MethodPost, ts.URL+api.PathPrefix+"/grammars/"+sg.ID+"/membership", login.Token, api.MembershipRequest{Word: []string{"("}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &member)
	assert.False(t, member.Member)

	resp = doJSON(t, http.MethodDelete, ts.URL+api.PathPrefix+"/grammars/"+sg.ID, login.Token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()
}

func Test_Server_automatonMembershipRoundTrip(t *testing.T) {
	ts := testServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+api.PathPrefix+"/clients", "", api.ClientModel{Name: "carol"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created api.ClientModel
	decodeBody(t, resp, &created)

	resp = doJSON(t, http.MethodPost, ts.URL+api.PathPrefix+"/login", "", api.LoginRequest{APIKey: created.APIKey})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var login api.LoginResponse
	decodeBody(t, resp, &login)

	resp = doJSON(t, http.MethodPost, ts.URL+api.PathPrefix+"/automata", login.Token, api.SubmitTextRequest{Name: "ab-star", Text: "(a,b)*"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var sa api.AutomatonModel
	decodeBody(t, resp, &sa)
	require.NotEmpty(t, sa.ID)

	resp = doJSON(t, http.MethodPost, ts.URL+api.PathPrefix+"/automata/"+sa.ID+"/membership", login.Token, api.MembershipRequest{Word: []string{"a", "b", "a", "b"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var member api.MembershipResponse
	decodeBody(t, resp, &member)
	assert.True(t, member.Member)

	resp = doJSON(t, http.MethodGet, ts.URL+api.PathPrefix+"/automata", login.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var all []api.AutomatonModel
	decodeBody(t, resp, &all)
	assert.Len(t, all, 1)
}

func Test_Server_createTokenReusesLogin(t *testing.T) {
	ts := testServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+api.PathPrefix+"/clients", "", api.ClientModel{Name: "dave"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created api.ClientModel
	decodeBody(t, resp, &created)

	resp = doJSON(t, http.MethodPost, ts.URL+api.PathPrefix+"/login", "", api.LoginRequest{APIKey: created.APIKey})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var login api.LoginResponse
	decodeBody(t, resp, &login)

	resp = doJSON(t, http.MethodPost, ts.URL+api.PathPrefix+"/tokens", login.Token, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var reissued api.LoginResponse
	decodeBody(t, resp, &reissued)
	assert.Equal(t, login.ClientID, reissued.ClientID)
	assert.NotEmpty(t, reissued.Token)
}
