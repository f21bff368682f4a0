package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dekarrin/ctxfree/internal/grammar"
	"github.com/google/uuid"
)

// GrammarsDB is a GrammarRepository backed by a sqlite table, in the shape
// of server/dao/sqlite's GamesDB.
type GrammarsDB struct {
	db *sql.DB
}

func (repo *GrammarsDB) init() error {
	stmt := `CREATE TABLE IF NOT EXISTS grammars (
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

func (repo *GrammarsDB) Create(ctx context.Context, name string, g *grammar.Grammar) (StoredGrammar, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return StoredGrammar{}, fmt.Errorf("could not generate ID: %w", err)
	}

	data := convertToDB_Grammar(g)

	now := time.Now()

	_, err = repo.db.ExecContext(ctx,
		`INSERT INTO grammars (id, name, data, created, modified) VALUES (?, ?, ?, ?, ?)`,
		convertToDB_UUID(newUUID),
		name,
		data,
		convertToDB_Time(now),
		convertToDB_Time(now),
	)
	if err != nil {
		return StoredGrammar{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *GrammarsDB) GetByID(ctx context.Context, id uuid.UUID) (StoredGrammar, error) {
	sg := StoredGrammar{ID: id}
	var data []byte
	var created, modified int64

	row := repo.db.QueryRowContext(ctx,
		`SELECT name, data, created, modified FROM grammars WHERE id = ?;`,
		convertToDB_UUID(id),
	)
	if err := row.Scan(&sg.Name, &data, &created, &modified); err != nil {
		return sg, wrapDBError(err)
	}

	g, err := convertFromDB_Grammar(data)
	if err != nil {
		return sg, err
	}
	sg.Grammar = g

	if err := convertFromDB_Time(created, &sg.Created); err != nil {
		return sg, err
	}
	if err := convertFromDB_Time(modified, &sg.Modified); err != nil {
		return sg, err
	}

	return sg, nil
}

func (repo *GrammarsDB) GetAll(ctx context.Context) ([]StoredGrammar, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, name, data, created, modified FROM grammars;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []StoredGrammar
	for rows.Next() {
		var sg StoredGrammar
		var id string
		var data []byte
		var created, modified int64

		if err := rows.Scan(&id, &sg.Name, &data, &created, &modified); err != nil {
			return nil, wrapDBError(err)
		}

		if err := convertFromDB_UUID(id, &sg.ID); err != nil {
			return all, err
		}
		g, err := convertFromDB_Grammar(data)
		if err != nil {
			return all, err
		}
		sg.Grammar = g
		if err := convertFromDB_Time(created, &sg.Created); err != nil {
			return all, err
		}
		if err := convertFromDB_Time(modified, &sg.Modified); err != nil {
			return all, err
		}

		all = append(all, sg)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

func (repo *GrammarsDB) Update(ctx context.Context, id uuid.UUID, g *grammar.Grammar) (StoredGrammar, error) {
	data := convertToDB_Grammar(g)

	res, err := repo.db.ExecContext(ctx,
		`UPDATE grammars SET data=?, modified=? WHERE id=?;`,
		data,
		convertToDB_Time(time.Now()),
		convertToDB_UUID(id),
	)
	if err != nil {
		return StoredGrammar{}, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return StoredGrammar{}, wrapDBError(err)
	}
	if rowsAff < 1 {
		return StoredGrammar{}, ErrNotFound
	}

	return repo.GetByID(ctx, id)
}

func (repo *GrammarsDB) Delete(ctx context.Context, id uuid.UUID) (StoredGrammar, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM grammars WHERE id = ?`, convertToDB_UUID(id))
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

func (repo *GrammarsDB) Close() error {
	return nil
}
