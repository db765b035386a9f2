package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/pkg/config"
)

func TestNewPoolConfig(t *testing.T) {
	cfg := config.DBConfig{
		Host: "db.local", Port: 5433, User: "ledger", Password: "p@ss:word",
		DBName: "stock", SSLMode: "disable", MaxConns: 8,
	}
	pc, err := newPoolConfig(cfg, "stock-ledger")
	require.NoError(t, err)
	assert.Equal(t, "db.local", pc.ConnConfig.Host)
	assert.EqualValues(t, 5433, pc.ConnConfig.Port)
	assert.Equal(t, "p@ss:word", pc.ConnConfig.Password)
	assert.EqualValues(t, 8, pc.MaxConns)
	assert.EqualValues(t, 2, pc.MinConns)
	assert.Equal(t, "UTC", pc.ConnConfig.RuntimeParams["timezone"])
	assert.Equal(t, "stock-ledger", pc.ConnConfig.RuntimeParams["application_name"])
	assert.NotNil(t, pc.AfterConnect)
}

func TestNewPoolConfig_DatabaseURLTienePrioridad(t *testing.T) {
	pc, err := newPoolConfig(config.DBConfig{
		DatabaseURL: "postgres://u:p@other:5432/x?sslmode=disable",
		Host:        "ignored",
		MaxConns:    1,
	}, "")
	require.NoError(t, err)
	assert.Equal(t, "other", pc.ConnConfig.Host)
	assert.EqualValues(t, 1, pc.MinConns)
	_, ok := pc.ConnConfig.RuntimeParams["application_name"]
	assert.False(t, ok)
}

func TestNewPoolConfig_DSNInvalido(t *testing.T) {
	_, err := newPoolConfig(config.DBConfig{DatabaseURL: "postgres://%zz"}, "x")
	assert.Error(t, err)
}
