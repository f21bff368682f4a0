package api

// LoginRequest is the request body for HTTPCreateLogin: an API key
// exchanged for a bearer JWT.
type LoginRequest struct {
	APIKey string `json:"api_key"`
}

// LoginResponse is the response body for HTTPCreateLogin and
// HTTPCreateToken.
type LoginResponse struct {
	Token    string `json:"token"`
	ClientID string `json:"client_id"`
}

// ClientModel is the JSON representation of a store.StoredClient.
type ClientModel struct {
	URI      string `json:"uri,omitempty"`
	ID       string `json:"id"`
	Name     string `json:"name"`
	Created  string `json:"created"`
	Modified string `json:"modified"`

	// APIKey is only ever populated on the response to creating a new
	// client; it is never persisted and never retrievable afterward.
	APIKey string `json:"api_key,omitempty"`
}

// GrammarModel is the JSON representation of a store.StoredGrammar's
// metadata. The normalized grammar itself is returned as its String() form
// in Normalized.
type GrammarModel struct {
	URI        string `json:"uri,omitempty"`
	ID         string `json:"id"`
	Name       string `json:"name"`
	Normalized string `json:"normalized"`
	Created    string `json:"created"`
	Modified   string `json:"modified"`
}

// AutomatonModel is the JSON representation of a store.StoredAutomaton's
// metadata.
type AutomatonModel struct {
	URI      string `json:"uri,omitempty"`
	ID       string `json:"id"`
	Name     string `json:"name"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	States   int    `json:"num_states"`
	Created  string `json:"created"`
	Modified string `json:"modified"`
}

// SubmitTextRequest is the request body for submitting a grammar or RE as
// concrete-syntax text.
type SubmitTextRequest struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// MembershipRequest is the request body for testing a string against a
// saved grammar or automaton. Word is the already-tokenized symbol
// sequence, not a raw string, since the CORE works over symbol slices.
type MembershipRequest struct {
	Word []string `json:"word"`
}

// MembershipResponse reports the result of a membership test.
type MembershipResponse struct {
	Member bool `json:"member"`
}
