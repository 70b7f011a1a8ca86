package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"shop-backend/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("ENV_FILE", filepath.Join(dir, "missing.env"))
	t.Setenv("CONFIG_FILE", "")
	return dir
}

func TestLoadConfig_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.BatchSize)
	assert.Equal(t, 5*time.Second, cfg.BatchTimeout)
	assert.Equal(t, 60*time.Second, cfg.PresignTTL)
	assert.Equal(t, "uploaded/", cfg.IncomingPrefix)
	assert.Equal(t, "parsed/", cfg.ProcessedPrefix)
	assert.Equal(t, config.QueueBackendSQS, cfg.QueueBackend)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadConfig_SourcePrecedence(t *testing.T) {
	dir := isolate(t)

	yamlPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(
		"products_table: yaml-products\nstock_table: yaml-stock\nbatch_size: 8\nbatch_timeout: 3s\n",
	), 0o600))
	envPath := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envPath, []byte("STOCK_TABLE=dotenv-stock\nBATCH_SIZE=9\n"), 0o600))

	t.Setenv("CONFIG_FILE", yamlPath)
	t.Setenv("ENV_FILE", envPath)
	t.Setenv("BATCH_SIZE", "2")
	t.Cleanup(func() { os.Unsetenv("STOCK_TABLE") })

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "yaml-products", cfg.ProductsTable)
	assert.Equal(t, "dotenv-stock", cfg.StockTable)
	assert.Equal(t, 2, cfg.BatchSize)
	assert.Equal(t, 3*time.Second, cfg.BatchTimeout)
}

func TestLoadConfig_DurationFormats(t *testing.T) {
	isolate(t)
	t.Setenv("BATCH_TIMEOUT", "7")
	t.Setenv("PRESIGN_TTL", "2m")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 7*time.Second, cfg.BatchTimeout)
	assert.Equal(t, 2*time.Minute, cfg.PresignTTL)
}

func TestLoadConfig_BadYAML(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("batch_size: [oops"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	_, err := config.LoadConfig()
	assert.Error(t, err)
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*config.Config) {}},
		{name: "batch size zero", mutate: func(c *config.Config) { c.BatchSize = 0 }, wantErr: "BATCH_SIZE"},
		{name: "batch size above queue limit", mutate: func(c *config.Config) { c.BatchSize = 11 }, wantErr: "BATCH_SIZE"},
		{name: "non-positive timeout", mutate: func(c *config.Config) { c.BatchTimeout = 0 }, wantErr: "BATCH_TIMEOUT"},
		{name: "same prefixes", mutate: func(c *config.Config) { c.ProcessedPrefix = c.IncomingPrefix }, wantErr: "INCOMING_PREFIX"},
		{name: "unknown queue backend", mutate: func(c *config.Config) { c.QueueBackend = "kafka" }, wantErr: "QUEUE_BACKEND"},
		{name: "asynq without redis", mutate: func(c *config.Config) { c.QueueBackend = config.QueueBackendAsynq }, wantErr: "REDIS_URL"},
		{name: "minio without endpoint", mutate: func(c *config.Config) { c.BlobBackend = config.BlobBackendMinIO }, wantErr: "MINIO_ENDPOINT"},
		{name: "unknown notify backend", mutate: func(c *config.Config) { c.NotifyBackend = "email" }, wantErr: "NOTIFY_BACKEND"},
		{
			name: "production requires queue url",
			mutate: func(c *config.Config) {
				c.Environment = "production"
				c.TopicARN = "arn"
				c.Credentials = "u=p"
			},
			wantErr: "SQS_URL",
		},
		{
			name: "complete production config",
			mutate: func(c *config.Config) {
				c.Environment = "production"
				c.QueueURL = "https://sqs"
				c.TopicARN = "arn"
				c.Credentials = "u=p"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
