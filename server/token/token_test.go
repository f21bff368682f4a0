package token

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dekarrin/ctxfree/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClientLookup map[uuid.UUID]store.StoredClient

func (f fakeClientLookup) GetByID(ctx context.Context, id uuid.UUID) (store.StoredClient, error) {
	c, ok := f[id]
	if !ok {
		return store.StoredClient{}, store.ErrNotFound
	}
	return c, nil
}

func testClient(t *testing.T) store.StoredClient {
	id, err := uuid.NewRandom()
	require.NoError(t, err)
	return store.StoredClient{
		ID:      id,
		Name:    "tester",
		KeyHash: "some-bcrypt-hash",
	}
}

func Test_GenerateAndValidate(t *testing.T) {
	secret := []byte("super-secret-value-used-for-testing-only")
	c := testClient(t)
	repo := fakeClientLookup{c.ID: c}

	tok, err := Generate(secret, c)
	require.NoError(t, err)
	assert.NotEmpty(t, tok)

	validated, err := Validate(context.Background(), tok, secret, repo)
	require.NoError(t, err)
	assert.Equal(t, c.ID, validated.ID)
}

func Test_Validate_wrongSecretFails(t *testing.T) {
	c := testClient(t)
	repo := fakeClientLookup{c.ID: c}

	tok, err := Generate([]byte("secret-one"), c)
	require.NoError(t, err)

	_, err = Validate(context.Background(), tok, []byte("secret-two"), repo)
	assert.Error(t, err)
}

func Test_Validate_logoutInvalidatesToken(t *testing.T) {
	secret := []byte("super-secret-value-used-for-testing-only")
	c := testClient(t)
	repo := fakeClientLookup{c.ID: c}

	tok, err := Generate(secret, c)
	require.NoError(t, err)

	// simulate a logout bumping LastLogoutTime after the token was issued
	c.LastLogoutTime = time.Now()
	repo[c.ID] = c

	_, err = Validate(context.Background(), tok, secret, repo)
	assert.Error(t, err)
}

func Test_Get(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer abc.def.ghi")

	tok, err := Get(req)
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", tok)
}

func Test_Get_missingHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, err := Get(req)
	assert.Error(t, err)
}

func Test_Get_notBearerScheme(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic abc123")

	_, err := Get(req)
	assert.Error(t, err)
}
