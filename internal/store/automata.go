package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dekarrin/ctxfree/internal/lts"
	"github.com/google/uuid"
)

// AutomataDB is an AutomatonRepository backed by a sqlite table.
type AutomataDB struct {
	db *sql.DB
}

func (repo *AutomataDB) init() error {
	stmt := `CREATE TABLE IF NOT EXISTS automata (
		id TEXT NOT NULL PRIMARY KEY,
		name TEXT NOT NULL,
		data BLOB NOT NULL,
		created INTEGER NOT NULL,
		modified INTEGER NOT NULL
	);`
	_, err := repo.db.Exec(stmt)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *AutomataDB) Create(ctx context.Context, name string, l *lts.LTS) (StoredAutomaton, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return StoredAutomaton{}, fmt.Errorf("could not generate ID: %w", err)
	}

	data := convertToDB_LTS(l)

	now := time.Now()

	_, err = repo.db.ExecContext(ctx,
		`INSERT INTO automata (id, name, data, created, modified) VALUES (?, ?, ?, ?, ?)`,
		convertToDB_UUID(newUUID),
		name,
		data,
		convertToDB_Time(now),
		convertToDB_Time(now),
	)
	if err != nil {
		return StoredAutomaton{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *AutomataDB) GetByID(ctx context.Context, id uuid.UUID) (StoredAutomaton, error) {
	sa := StoredAutomaton{ID: id}
	var data []byte
	var created, modified int64

	row := repo.db.QueryRowContext(ctx,
		`SELECT name, data, created, modified FROM automata WHERE id = ?;`,
		convertToDB_UUID(id),
	)
	if err := row.Scan(&sa.Name, &data, &created, &modified); err != nil {
		return sa, wrapDBError(err)
	}

	l, err := convertFromDB_LTS(data)
	if err != nil {
		return sa, err
	}
	sa.LTS = l

	if err := convertFromDB_Time(created, &sa.Created); err != nil {
		return sa, err
	}
	if err := convertFromDB_Time(modified, &sa.Modified); err != nil {
		return sa, err
	}

	return sa, nil
}

func (repo *AutomataDB) GetAll(ctx context.Context) ([]StoredAutomaton, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, name, data, created, modified FROM automata;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []StoredAutomaton
	for rows.Next() {
		var sa StoredAutomaton
		var id string
		var data []byte
		var created, modified int64

		if err := rows.Scan(&id, &sa.Name, &data, &created, &modified); err != nil {
			return nil, wrapDBError(err)
		}

		if err := convertFromDB_UUID(id, &sa.ID); err != nil {
			return all, err
		}
		l, err := convertFromDB_LTS(data)
		if err != nil {
			return all, err
		}
		sa.LTS = l
		if err := convertFromDB_Time(created, &sa.Created); err != nil {
			return all, err
		}
		if err := convertFromDB_Time(modified, &sa.Modified); err != nil {
			return all, err
		}

		all = append(all, sa)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

func (repo *AutomataDB) Delete(ctx context.Context, id uuid.UUID) (StoredAutomaton, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM automata WHERE id = ?`, convertToDB_UUID(id))
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

func (repo *AutomataDB) Close() error {
	return nil
}
