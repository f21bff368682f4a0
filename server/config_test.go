package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ParseDBType(t *testing.T) {
	dbt, err := ParseDBType("sqlite")
	require.NoError(t, err)
	assert.Equal(t, DatabaseSQLite, dbt)

	_, err = ParseDBType("postgres")
	assert.Error(t, err)
}

func Test_ParseDBConnString(t *testing.T) {
	db, err := ParseDBConnString("sqlite:/var/data/ctxfree")
	require.NoError(t, err)
	assert.Equal(t, DatabaseSQLite, db.Type)
	assert.Equal(t, "/var/data/ctxfree", db.DataDir)

	_, err = ParseDBConnString("sqlite:")
	assert.Error(t, err)

	_, err = ParseDBConnString("none:whatever")
	assert.Error(t, err)
}

func Test_LoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := `
unauth_delay_ms = 500

[db]
type = "sqlite"
data_dir = "./data"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.UnauthDelayMillis)
	assert.Equal(t, DatabaseSQLite, cfg.DB.Type)
	assert.Equal(t, "./data", cfg.DB.DataDir)
	assert.Nil(t, cfg.TokenSecret)
}

func Test_Config_FillDefaults(t *testing.T) {
	cfg := Config{}.FillDefaults()

	assert.NotEmpty(t, cfg.TokenSecret)
	assert.Equal(t, DatabaseSQLite, cfg.DB.Type)
	assert.Equal(t, 1000, cfg.UnauthDelayMillis)
}

func Test_Config_Validate(t *testing.T) {
	cfg := Config{
		TokenSecret: []byte("0123456789012345678901234567890123"),
		DB:          Database{Type: DatabaseSQLite, DataDir: "./data"},
	}
	assert.NoError(t, cfg.Validate())

	badSecret := cfg
	badSecret.TokenSecret = []byte("tooshort")
	assert.Error(t, badSecret.Validate())

	badDB := cfg
	badDB.DB = Database{Type: DatabaseSQLite}
	assert.Error(t, badDB.Validate())
}

func Test_Config_UnauthDelay(t *testing.T) {
	cfg := Config{UnauthDelayMillis: 250}
	assert.Equal(t, 250000000, int(cfg.UnauthDelay()))

	disabled := Config{UnauthDelayMillis: -1}
	assert.Equal(t, 0, int(disabled.UnauthDelay()))
}
