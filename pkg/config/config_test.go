package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/pkg/config"
)

func TestLoad_DefectosYMonedaNormalizada(t *testing.T) {
	t.Setenv("LEDGER_DEFAULT_CURRENCY", "usd")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "USD", cfg.Ledger.DefaultCurrency, "la moneda se normaliza a mayúsculas")
	assert.Equal(t, int32(4), cfg.Ledger.QuantityPrecision)
	assert.Equal(t, int32(2), cfg.Ledger.MoneyPrecision)
	assert.Equal(t, 8080, cfg.HTTP.Port)
}

func TestLoad_PrecisionDesdeEntorno(t *testing.T) {
	t.Setenv("LEDGER_QUANTITY_PRECISION", "3")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, int32(3), cfg.Ledger.QuantityPrecision)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
}

func TestLoad_PrecisionFueraDeRango(t *testing.T) {
	t.Setenv("LEDGER_MONEY_PRECISION", "9")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSN_EscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "ledger", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/ledger?sslmode=disable", c.DSN())
	assert.Equal(t, c.DSN(), c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}

func TestLoad_AutoMigrate(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.True(t, cfg.DB.AutoMigrate, "por defecto se migra al arrancar")

	t.Setenv("DB_AUTO_MIGRATE", "false")
	cfg, err = config.Load()
	require.NoError(t, err)
	assert.False(t, cfg.DB.AutoMigrate)
}
