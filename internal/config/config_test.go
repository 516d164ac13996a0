package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validConfig = `
[server]
http_port = 8080

[database]
host = "localhost"
port = 5432
user = "booking"
password = "secret"
dbname = "booking_service"

[logs]
file = "logs/app.log"
level = "info"

[metrics]
enabled = true
path = "/metrics"
service_name = "booking-service"

[catalog_service]
url = "http://localhost:8081"
timeout = 3

[client_service]
url = "http://localhost:8082"

[widget]
session_ttl_minutes = 45
`

func TestLoad(t *testing.T) {
	path := writeConfigFile(t, validConfig)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "booking_service", cfg.Database.DBName)
	assert.Equal(t, "http://localhost:8081", cfg.CatalogService.URL)
	assert.Equal(t, 3, cfg.CatalogService.Timeout)
	assert.Equal(t, 45, cfg.Widget.SessionTTLMinutes)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, validConfig)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Server.ReadTimeout)
	assert.Equal(t, 10, cfg.Server.WriteTimeout)
	assert.Equal(t, 60, cfg.Server.IdleTimeout)
	assert.Equal(t, 15, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5, cfg.Database.MaxIdleConns)
	assert.Equal(t, 300, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 5, cfg.ClientService.Timeout)
}

func TestLoad_WidgetTTLDefault(t *testing.T) {
	content := `
[server]
http_port = 8080

[database]
host = "localhost"
dbname = "booking_service"

[catalog_service]
url = "http://localhost:8081"

[client_service]
url = "http://localhost:8082"
`
	path := writeConfigFile(t, content)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Widget.SessionTTLMinutes)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, ErrReadConfig)
}

func TestLoad_MalformedTOML(t *testing.T) {
	path := writeConfigFile(t, "[server\nhttp_port = 8080")

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrReadConfig)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  string
		wantErr string
	}{
		{
			name: "missing http port",
			mutate: `
[database]
host = "localhost"
dbname = "booking_service"

[catalog_service]
url = "http://localhost:8081"

[client_service]
url = "http://localhost:8082"
`,
			wantErr: "http_port",
		},
		{
			name: "missing database host",
			mutate: `
[server]
http_port = 8080

[database]
dbname = "booking_service"

[catalog_service]
url = "http://localhost:8081"

[client_service]
url = "http://localhost:8082"
`,
			wantErr: "database.host",
		},
		{
			name: "missing catalog service url",
			mutate: `
[server]
http_port = 8080

[database]
host = "localhost"
dbname = "booking_service"

[client_service]
url = "http://localhost:8082"
`,
			wantErr: "catalog_service.url",
		},
		{
			name: "metrics enabled without path",
			mutate: `
[server]
http_port = 8080

[database]
host = "localhost"
dbname = "booking_service"

[metrics]
enabled = true

[catalog_service]
url = "http://localhost:8081"

[client_service]
url = "http://localhost:8082"
`,
			wantErr: "metrics.path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.mutate)

			_, err := Load(path)
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "booking",
		Password: "secret",
		DBName:   "booking_service",
		SSLMode:  "require",
	}

	dsn := cfg.DSN()
	assert.Equal(t, "host=db.internal port=5432 user=booking password=secret dbname=booking_service sslmode=require", dsn)
}

func TestDatabaseConfig_DSN_DefaultSSLMode(t *testing.T) {
	cfg := DatabaseConfig{Host: "localhost", Port: 5432, User: "u", Password: "p", DBName: "d"}

	assert.Contains(t, cfg.DSN(), "sslmode=disable")
}
