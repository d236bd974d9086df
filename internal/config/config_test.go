package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9090\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "data/sentinel.db", cfg.Database.Path)
	assert.Equal(t, "migrations", cfg.Database.MigrationsDir)
	assert.Equal(t, 0.05, cfg.Finance.TaxTolerance)
	assert.Equal(t, 0.21, cfg.Workflow.AssumedTaxRate)
	assert.Equal(t, 10000.0, cfg.Workflow.LargeTxnThreshold)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestLoad_FullFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8081
workflow:
  assumed_tax_rate: 0.19
  large_txn_threshold: 5000
finance:
  tax_tolerance: 0.1
refdata:
  dir: "refdata"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.19, cfg.Workflow.AssumedTaxRate)
	assert.Equal(t, 5000.0, cfg.Workflow.LargeTxnThreshold)
	assert.Equal(t, 0.1, cfg.Finance.TaxTolerance)
	assert.Equal(t, "refdata", cfg.RefData.Dir)
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, true},
		{"missing db path", func(c *Config) { c.Database.Path = "" }, true},
		{"negative tolerance", func(c *Config) { c.Finance.TaxTolerance = -1 }, true},
		{"rate too high", func(c *Config) { c.Workflow.AssumedTaxRate = 1.5 }, true},
		{"zero threshold", func(c *Config) { c.Workflow.LargeTxnThreshold = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Server:   ServerConfig{Port: 8080},
				Database: DatabaseConfig{Path: "data/sentinel.db"},
				Finance:  FinanceConfig{TaxTolerance: 0.05},
				Workflow: WorkflowConfig{AssumedTaxRate: 0.21, LargeTxnThreshold: 10000},
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
