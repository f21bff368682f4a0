// Package store persists grammar.Grammar and lts.LTS values across process
// restarts. It is grounded on server/dao/sqlite's store/repository split:
// one *sql.DB per logical database, one repository type per entity, a
// wrapDBError that folds sqlite-specific errors into a small sentinel set,
// and REZI as the on-disk encoding for structured values, exactly as
// server/dao/sqlite/sqlite.go encodes game.State with rezi.EncBinary before
// stashing it in a TEXT column.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dekarrin/ctxfree/internal/grammar"
	"github.com/dekarrin/ctxfree/internal/lts"
	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
	"modernc.org/sqlite"
)

var (
	// ErrNotFound is returned when a lookup by ID finds no row, mirroring
	// dao.ErrNotFound.
	ErrNotFound = errors.New("the requested resource was not found")

	// ErrConstraintViolation mirrors dao.ErrConstraintViolation.
	ErrConstraintViolation = errors.New("a uniqueness constraint was violated")

	// ErrDecodingFailure mirrors dao.ErrDecodingFailure: a stored value could
	// not be decoded back into its in-memory form.
	ErrDecodingFailure = errors.New("field could not be decoded from storage format to model format")
)

// Store holds every repository this package provides, in the shape of
// dao.Store.
type Store interface {
	Grammars() GrammarRepository
	Automata() AutomatonRepository
	Clients() ClientRepository
	Close() error
}

// GrammarRepository persists named grammar.Grammar values.
type GrammarRepository interface {
	Create(ctx context.Context, name string, g *grammar.Grammar) (StoredGrammar, error)
	GetByID(ctx context.Context, id uuid.UUID) (StoredGrammar, error)
	GetAll(ctx context.Context) ([]StoredGrammar, error)
	Update(ctx context.Context, id uuid.UUID, g *grammar.Grammar) (StoredGrammar, error)
	Delete(ctx context.Context, id uuid.UUID) (StoredGrammar, error)
	Close() error
}

// AutomatonRepository persists named lts.LTS values, most often the
// compiled output of an internal/rex.RE submitted through internal/cfsyntax.
type AutomatonRepository interface {
	Create(ctx context.Context, name string, l *lts.LTS) (StoredAutomaton, error)
	GetByID(ctx context.Context, id uuid.UUID) (StoredAutomaton, error)
	GetAll(ctx context.Context) ([]StoredAutomaton, error)
	Delete(ctx context.Context, id uuid.UUID) (StoredAutomaton, error)
	Close() error
}

// StoredGrammar is a grammar.Grammar together with its storage metadata.
type StoredGrammar struct {
	ID       uuid.UUID
	Name     string
	Grammar  *grammar.Grammar
	Created  time.Time
	Modified time.Time
}

// StoredAutomaton is an lts.LTS together with its storage metadata.
type StoredAutomaton struct {
	ID       uuid.UUID
	Name     string
	LTS      *lts.LTS
	Created  time.Time
	Modified time.Time
}

type store struct {
	dbFilename string
	db         *sql.DB

	grammars *GrammarsDB
	automata *AutomataDB
	clients  *ClientsDB
}

// NewDatastore opens (creating if absent) a single sqlite database file
// "ctxfree.db" inside storageDir and returns a Store backed by it, in the
// shape of server/dao/sqlite.NewDatastore.
func NewDatastore(storageDir string) (Store, error) {
	st := &store{dbFilename: "ctxfree.db"}

	fileName := filepath.Join(storageDir, st.dbFilename)

	var err error
	st.db, err = sql.Open("sqlite", fileName)
	if err != nil {
		return nil, wrapDBError(err)
	}

	st.grammars = &GrammarsDB{db: st.db}
	if err := st.grammars.init(); err != nil {
		return nil, err
	}

	st.automata = &AutomataDB{db: st.db}
	if err := st.automata.init(); err != nil {
		return nil, err
	}

	st.clients = &ClientsDB{db: st.db}
	if err := st.clients.init(); err != nil {
		return nil, err
	}

	return st, nil
}

func (s *store) Grammars() GrammarRepository   { return s.grammars }
func (s *store) Automata() AutomatonRepository { return s.automata }
func (s *store) Clients() ClientRepository     { return s.clients }

func (s *store) Close() error {
	return s.db.Close()
}

func convertToDB_UUID(u uuid.UUID) string { return u.String() }

func convertFromDB_UUID(s string, target *uuid.UUID) error {
	u, err := uuid.Parse(s)
	if err != nil {
		return fmt.Errorf("%w: stored UUID %q is invalid: %s", ErrDecodingFailure, s, err)
	}
	*target = u
	return nil
}

func convertToDB_Time(t time.Time) int64 { return t.Unix() }

func convertFromDB_Time(i int64, target *time.Time) error {
	*target = time.Unix(i, 0)
	return nil
}

// convertToDB_Grammar REZI-encodes g's exported fields for storage. The
// fresh-symbol counter cache (unexported, and therefore invisible to REZI's
// reflection-based encoding) is not part of the encoding; a reloaded
// Grammar simply restarts that cache at its zero value, which only affects
// how quickly FreshSymbol finds an unused name, never correctness.
func convertToDB_Grammar(g *grammar.Grammar) []byte {
	return rezi.EncBinary(g)
}

func convertFromDB_Grammar(data []byte) (*grammar.Grammar, error) {
	g := &grammar.Grammar{}
	n, err := rezi.DecBinary(data, g)
	if err != nil {
		return nil, fmt.Errorf("%w: REZI decode: %s", ErrDecodingFailure, err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("%w: REZI decoded byte count mismatch; only consumed %d/%d bytes", ErrDecodingFailure, n, len(data))
	}
	return g, nil
}

// convertToDB_LTS REZI-encodes l's exported fields. The (state, label)
// index is unexported and rebuilt by lts.New on load, same reasoning as
// convertToDB_Grammar's treatment of the fresh-symbol cache.
func convertToDB_LTS(l *lts.LTS) []byte {
	return rezi.EncBinary(l)
}

func convertFromDB_LTS(data []byte) (*lts.LTS, error) {
	var decoded lts.LTS
	n, err := rezi.DecBinary(data, &decoded)
	if err != nil {
		return nil, fmt.Errorf("%w: REZI decode: %s", ErrDecodingFailure, err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("%w: REZI decoded byte count mismatch; only consumed %d/%d bytes", ErrDecodingFailure, n, len(data))
	}
	return lts.New(decoded.Start, decoded.End, decoded.States, decoded.Transitions), nil
}

func wrapDBError(err error) error {
	if err == nil {
		return nil
	}
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code() == 19 {
			return ErrConstraintViolation
		}
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	} else if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
