package service

import (
	"context"
	"errors"

	"github.com/dekarrin/ctxfree/internal/store"
	"github.com/dekarrin/ctxfree/server/serr"
	"github.com/google/uuid"
)

// Login verifies rawKey against the persisted clients and returns the
// client it belongs to. The returned error, if non-nil, matches
// serr.ErrBadCredentials if rawKey does not match any client.
func (svc Service) Login(ctx context.Context, rawKey string) (store.StoredClient, error) {
	client, err := svc.DB.Clients().Authenticate(ctx, rawKey)
	if err != nil {
		if errors.Is(err, store.ErrBadCredentials) {
			return store.StoredClient{}, serr.ErrBadCredentials
		}
		return store.StoredClient{}, serr.WrapDB("", err)
	}
	return client, nil
}

// Logout marks the client as having logged out, invalidating any JWT issued
// to it before this call.
func (svc Service) Logout(ctx context.Context, id uuid.UUID) (store.StoredClient, error) {
	client, err := svc.DB.Clients().Logout(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.StoredClient{}, serr.ErrNotFound
		}
		return store.StoredClient{}, serr.WrapDB("could not update client", err)
	}
	return client, nil
}

// CreateClient registers a new API client named name and returns its stored
// record along with the raw API key, which is never retrievable again.
func (svc Service) CreateClient(ctx context.Context, name string) (store.StoredClient, string, error) {
	if name == "" {
		return store.StoredClient{}, "", serr.New("name is required", serr.ErrBadArgument)
	}
	client, rawKey, err := svc.DB.Clients().Create(ctx, name)
	if err != nil {
		return store.StoredClient{}, "", serr.WrapDB("could not create client", err)
	}
	return client, rawKey, nil
}

func (svc Service) GetClient(ctx context.Context, id uuid.UUID) (store.StoredClient, error) {
	client, err := svc.DB.Clients().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.StoredClient{}, serr.ErrNotFound
		}
		return store.StoredClient{}, serr.WrapDB("could not get client", err)
	}
	return client, nil
}

func (svc Service) GetAllClients(ctx context.Context) ([]store.StoredClient, error) {
	clients, err := svc.DB.Clients().GetAll(ctx)
	if err != nil {
		return nil, serr.WrapDB("could not get clients", err)
	}
	return clients, nil
}

func (svc Service) DeleteClient(ctx context.Context, id uuid.UUID) (store.StoredClient, error) {
	client, err := svc.DB.Clients().Delete(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.StoredClient{}, serr.ErrNotFound
		}
		return store.StoredClient{}, serr.WrapDB("could not delete client", err)
	}
	return client, nil
}
