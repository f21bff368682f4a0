package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrBadCredentials is returned by ClientRepository.Authenticate when the
// supplied API key does not match any known client, mirroring
// server/serr.ErrBadCredentials from the auth flow it is grounded on.
var ErrBadCredentials = errors.New("credentials are missing or invalid")

// apiKeyPrefixLen is the number of characters of the generated key's random
// portion that are kept in plaintext and indexed, so Authenticate can locate
// a candidate row with an indexed lookup before paying for a bcrypt compare.
const apiKeyPrefixLen = 12

// StoredClient is an API client's persisted identity. It fills the role
// dao.User fills in the teacher's JWT flow: KeyHash is mixed into the JWT
// signing key exactly as dao.User.Password is in generateJWT, and
// LastLogoutTime lets a reissued key (or an explicit logout) invalidate
// every token signed before it without a revocation list.
type StoredClient struct {
	ID             uuid.UUID
	Name           string
	KeyHash        string
	Created        time.Time
	Modified       time.Time
	LastUsedTime   time.Time
	LastLogoutTime time.Time
}

// ClientRepository persists API clients authenticated by bearer API key, in
// the shape of server/dao's UserRepository.
type ClientRepository interface {
	// Create generates a fresh API key for a new client named name, persists
	// only its bcrypt hash, and returns the stored record together with the
	// raw key. The raw key is never stored and is not retrievable again.
	Create(ctx context.Context, name string) (StoredClient, string, error)
	GetByID(ctx context.Context, id uuid.UUID) (StoredClient, error)
	GetAll(ctx context.Context) ([]StoredClient, error)

	// Authenticate looks up the client whose API key is rawKey. It returns
	// ErrBadCredentials, not ErrNotFound, on any mismatch so callers can't
	// distinguish "no such key" from "wrong key" by error type alone.
	Authenticate(ctx context.Context, rawKey string) (StoredClient, error)

	// Logout sets the client's LastLogoutTime to now, invalidating every JWT
	// issued to it before this call.
	Logout(ctx context.Context, id uuid.UUID) (StoredClient, error)

	Delete(ctx context.Context, id uuid.UUID) (StoredClient, error)
	Close() error
}

// GenerateAPIKey returns a new random API key along with the prefix of its
// random portion that is safe to store and index in plaintext.
func GenerateAPIKey() (rawKey string, prefix string, err error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("could not generate random key material: %w", err)
	}
	secret := base64.RawURLEncoding.EncodeToString(buf)
	rawKey = "cf_" + secret
	prefix = secret[:apiKeyPrefixLen]
	return rawKey, prefix, nil
}

func keyPrefixOf(rawKey string) (string, error) {
	const keyPfx = "cf_"
	if len(rawKey) <= len(keyPfx)+apiKeyPrefixLen {
		return "", fmt.Errorf("%w: malformed API key", ErrBadCredentials)
	}
	if rawKey[:len(keyPfx)] != keyPfx {
		return "", fmt.Errorf("%w: malformed API key", ErrBadCredentials)
	}
	secret := rawKey[len(keyPfx):]
	return secret[:apiKeyPrefixLen], nil
}

// ClientsDB is a ClientRepository backed by a sqlite table, in the shape of
// server/dao/sqlite's UsersDB.
type ClientsDB struct {
	db *sql.DB
}

func (repo *ClientsDB) init() error {
	stmt := `CREATE TABLE IF NOT EXISTS clients (
		id TEXT NOT NULL PRIMARY KEY,
		name TEXT NOT NULL,
		key_prefix TEXT NOT NULL,
		key_hash TEXT NOT NULL,
		created INTEGER NOT NULL,
		modified INTEGER NOT NULL,
		last_used INTEGER NOT NULL,
		last_logout INTEGER NOT NULL
	);`
	_, err := repo.db.Exec(stmt)
	if err != nil {
		return wrapDBError(err)
	}
	_, err = repo.db.Exec(`CREATE INDEX IF NOT EXISTS idx_clients_key_prefix ON clients (key_prefix);`)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *ClientsDB) Create(ctx context.Context, name string) (StoredClient, string, error) {
	rawKey, prefix, err := GenerateAPIKey()
	if err != nil {
		return StoredClient{}, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(rawKey), bcrypt.DefaultCost)
	if err != nil {
		return StoredClient{}, "", fmt.Errorf("could not hash API key: %w", err)
	}

	newUUID, err := uuid.NewRandom()
	if err != nil {
		return StoredClient{}, "", fmt.Errorf("could not generate ID: %w", err)
	}

	now := time.Now()

	_, err = repo.db.ExecContext(ctx,
		`INSERT INTO clients (id, name, key_prefix, key_hash, created, modified, last_used, last_logout) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		convertToDB_UUID(newUUID),
		name,
		prefix,
		string(hash),
		convertToDB_Time(now),
		convertToDB_Time(now),
		convertToDB_Time(now),
		convertToDB_Time(now),
	)
	if err != nil {
		return StoredClient{}, "", wrapDBError(err)
	}

	sc, err := repo.GetByID(ctx, newUUID)
	return sc, rawKey, err
}

func (repo *ClientsDB) scanClient(row interface{ Scan(...any) error }) (StoredClient, error) {
	var sc StoredClient
	var id string
	var created, modified, lastUsed, lastLogout int64

	if err := row.Scan(&id, &sc.Name, &sc.KeyHash, &created, &modified, &lastUsed, &lastLogout); err != nil {
		return sc, wrapDBError(err)
	}
	if err := convertFromDB_UUID(id, &sc.ID); err != nil {
		return sc, err
	}
	if err := convertFromDB_Time(created, &sc.Created); err != nil {
		return sc, err
	}
	if err := convertFromDB_Time(modified, &sc.Modified); err != nil {
		return sc, err
	}
	if err := convertFromDB_Time(lastUsed, &sc.LastUsedTime); err != nil {
		return sc, err
	}
	if err := convertFromDB_Time(lastLogout, &sc.LastLogoutTime); err != nil {
		return sc, err
	}
	return sc, nil
}

func (repo *ClientsDB) GetByID(ctx context.Context, id uuid.UUID) (StoredClient, error) {
	row := repo.db.QueryRowContext(ctx,
		`SELECT id, name, key_hash, created, modified, last_used, last_logout FROM clients WHERE id = ?;`,
		convertToDB_UUID(id),
	)
	return repo.scanClient(row)
}

func (repo *ClientsDB) GetAll(ctx context.Context) ([]StoredClient, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, name, key_hash, created, modified, last_used, last_logout FROM clients;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []StoredClient
	for rows.Next() {
		sc, err := repo.scanClient(rows)
		if err != nil {
			return all, err
		}
		all = append(all, sc)
	}
	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}
	return all, nil
}

func (repo *ClientsDB) Authenticate(ctx context.Context, rawKey string) (StoredClient, error) {
	prefix, err := keyPrefixOf(rawKey)
	if err != nil {
		return StoredClient{}, err
	}

	rows, err := repo.db.QueryContext(ctx,
		`SELECT id, name, key_hash, created, modified, last_used, last_logout FROM clients WHERE key_prefix = ?;`,
		prefix,
	)
	if err != nil {
		return StoredClient{}, wrapDBError(err)
	}
	defer rows.Close()

	for rows.Next() {
		sc, err := repo.scanClient(rows)
		if err != nil {
			return StoredClient{}, err
		}
		if bcrypt.CompareHashAndPassword([]byte(sc.KeyHash), []byte(rawKey)) == nil {
			sc.LastUsedTime = time.Now()
			_, err = repo.db.ExecContext(ctx, `UPDATE clients SET last_used=? WHERE id=?;`,
				convertToDB_Time(sc.LastUsedTime), convertToDB_UUID(sc.ID))
			if err != nil {
				return StoredClient{}, wrapDBError(err)
			}
			return sc, nil
		}
	}
	if err := rows.Err(); err != nil {
		return StoredClient{}, wrapDBError(err)
	}

	return StoredClient{}, ErrBadCredentials
}

func (repo *ClientsDB) Logout(ctx context.Context, id uuid.UUID) (StoredClient, error) {
	existing, err := repo.GetByID(ctx, id)
	if err != nil {
		return existing, err
	}

	now := time.Now()
	_, err = repo.db.ExecContext(ctx, `UPDATE clients SET last_logout=?, modified=? WHERE id=?;`,
		convertToDB_Time(now), convertToDB_Time(now), convertToDB_UUID(id))
	if err != nil {
		return existing, wrapDBError(err)
	}

	return repo.GetByID(ctx, id)
}

func (repo *ClientsDB) Delete(ctx context.Context, id uuid.UUID) (StoredClient, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, convertToDB_UUID(id))
	if err != nil {
		return curVal, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return curVal, wrapDBError(err)
	}
	if rowsAff < 1 {
		return curVal, ErrNotFound
	}

	return curVal, nil
}

func (repo *ClientsDB) Close() error {
	return nil
}
