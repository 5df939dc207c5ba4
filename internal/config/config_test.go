package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoad_WithDefaults(t *testing.T) {
	clearConfigEnvVars(t)

	// JWT_SECRET has no default
	t.Setenv("JWT_SECRET", "dev-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Expected port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.Env != "development" {
		t.Errorf("Expected env development, got %s", cfg.Server.Env)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("Expected read timeout 15s, got %s", cfg.Server.ReadTimeout)
	}
	if cfg.Store.Driver != DriverMemory {
		t.Errorf("Expected memory driver, got %s", cfg.Store.Driver)
	}
	if cfg.Database.Name != "recoltecheck" {
		t.Errorf("Expected db name recoltecheck, got %s", cfg.Database.Name)
	}
	if cfg.Database.PoolMin != 2 {
		t.Errorf("Expected pool min 2, got %d", cfg.Database.PoolMin)
	}
	if cfg.Database.PoolMax != 10 {
		t.Errorf("Expected pool max 10, got %d", cfg.Database.PoolMax)
	}
	if cfg.SQLite.Path != "data/recoltecheck.db" {
		t.Errorf("Expected sqlite path data/recoltecheck.db, got %s", cfg.SQLite.Path)
	}
	if len(cfg.CORS.Origins) != 2 {
		t.Errorf("Expected 2 CORS origins, got %d", len(cfg.CORS.Origins))
	}
	if cfg.Auth.JWTIssuer != "recoltecheck" {
		t.Errorf("Expected issuer recoltecheck, got %s", cfg.Auth.JWTIssuer)
	}
	if cfg.Auth.TokenTTL != 168*time.Hour {
		t.Errorf("Expected token ttl 168h, got %s", cfg.Auth.TokenTTL)
	}
	if cfg.Auth.MinPassword != 6 {
		t.Errorf("Expected min password 6, got %d", cfg.Auth.MinPassword)
	}
	if cfg.Records.DeleteCascade {
		t.Error("Expected cascading deletes to be off by default")
	}
	if !cfg.IsDevelopment() {
		t.Error("Expected development mode")
	}
}

func TestLoad_WithEnvironmentVariables(t *testing.T) {
	clearConfigEnvVars(t)

	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_NAME", "testdb")
	t.Setenv("DB_USER", "testuser")
	t.Setenv("DB_PASSWORD", "testpass")
	t.Setenv("DB_POOL_MIN", "5")
	t.Setenv("DB_POOL_MAX", "20")
	t.Setenv("CORS_ORIGINS", "http://example.com,https://app.example.com")
	t.Setenv("JWT_SECRET", strings.Repeat("s", 32))
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("DELETE_CASCADE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Server.Env != "production" {
		t.Errorf("Expected env production, got %s", cfg.Server.Env)
	}
	if cfg.Store.Driver != DriverPostgres {
		t.Errorf("Expected postgres driver, got %s", cfg.Store.Driver)
	}
	if cfg.Database.Host != "db" {
		t.Errorf("Expected host db, got %s", cfg.Database.Host)
	}
	if cfg.Database.Password != "testpass" {
		t.Errorf("Expected password testpass, got %s", cfg.Database.Password)
	}
	if cfg.Database.PoolMax != 20 {
		t.Errorf("Expected pool max 20, got %d", cfg.Database.PoolMax)
	}
	if cfg.CORS.Origins[0] != "http://example.com" {
		t.Errorf("Expected first origin http://example.com, got %s", cfg.CORS.Origins[0])
	}
	if cfg.Auth.TokenTTL != 2*time.Hour {
		t.Errorf("Expected token ttl 2h, got %s", cfg.Auth.TokenTTL)
	}
	if !cfg.Records.DeleteCascade {
		t.Error("Expected cascading deletes to be on")
	}
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	clearConfigEnvVars(t)

	_, err := Load()
	if err == nil {
		t.Error("Expected error when JWT_SECRET is missing")
	}
}

func TestLoad_PostgresRequiresPassword(t *testing.T) {
	clearConfigEnvVars(t)
	t.Setenv("JWT_SECRET", "dev-secret")
	t.Setenv("STORE_DRIVER", "postgres")

	_, err := Load()
	if err == nil {
		t.Error("Expected error when DB_PASSWORD is missing for postgres")
	}
}

func TestValidate_StoreDriver(t *testing.T) {
	tests := []struct {
		name    string
		driver  string
		sqlite  string
		wantErr bool
	}{
		{name: "memory", driver: DriverMemory},
		{name: "sqlite with path", driver: DriverSQLite, sqlite: "data/test.db"},
		{name: "sqlite without path", driver: DriverSQLite, wantErr: true},
		{name: "unknown driver", driver: "mongo", wantErr: true},
		{name: "postgres without database config", driver: DriverPostgres, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Store.Driver = tt.driver
			cfg.SQLite.Path = tt.sqlite

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_InvalidPoolSizes(t *testing.T) {
	tests := []struct {
		name    string
		poolMin int
		poolMax int
		wantErr bool
	}{
		{name: "negative pool min", poolMin: -1, poolMax: 10, wantErr: true},
		{name: "zero pool max", poolMin: 0, poolMax: 0, wantErr: true},
		{name: "pool min greater than max", poolMin: 15, poolMax: 10, wantErr: true},
		{name: "valid pool sizes", poolMin: 2, poolMax: 10, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Store.Driver = DriverPostgres
			cfg.Database = DatabaseConfig{
				Host:     "localhost",
				Port:     "5432",
				Name:     "recoltecheck",
				User:     "postgres",
				Password: "postgres",
				PoolMin:  tt.poolMin,
				PoolMax:  tt.poolMax,
			}

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_Auth(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing secret", func(c *Config) { c.Auth.JWTSecret = "" }},
		{"short secret in production", func(c *Config) { c.Server.Env = "production" }},
		{"zero ttl", func(c *Config) { c.Auth.TokenTTL = 0 }},
		{"zero rate limit", func(c *Config) { c.Auth.RateLimit = 0 }},
		{"zero burst", func(c *Config) { c.Auth.RateBurst = 0 }},
		{"zero min password", func(c *Config) { c.Auth.MinPassword = 0 }},
		{"missing port", func(c *Config) { c.Server.Port = "" }},
		{"missing CORS origins", func(c *Config) { c.CORS.Origins = []string{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error but got none")
			}
		})
	}
}

func TestParseOrigins(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect []string
	}{
		{name: "single origin", input: "http://localhost:8081", expect: []string{"http://localhost:8081"}},
		{
			name:   "origins with spaces",
			input:  " http://localhost:8081 , http://localhost:19006 ",
			expect: []string{"http://localhost:8081", "http://localhost:19006"},
		},
		{name: "empty string", input: "", expect: []string{}},
		{name: "only commas", input: ",,,", expect: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseOrigins(tt.input)
			if len(result) != len(tt.expect) {
				t.Errorf("Expected %d origins, got %d", len(tt.expect), len(result))
				return
			}
			for i, origin := range result {
				if origin != tt.expect[i] {
					t.Errorf("Expected origin %s at index %d, got %s", tt.expect[i], i, origin)
				}
			}
		})
	}
}

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080", Env: "development"},
		Store:  StoreConfig{Driver: DriverMemory},
		CORS:   CORSConfig{Origins: []string{"http://localhost:8081"}},
		Auth: AuthConfig{
			JWTSecret:   "dev-secret",
			JWTIssuer:   "recoltecheck",
			TokenTTL:    time.Hour,
			RateLimit:   20,
			RateBurst:   5,
			MinPassword: 6,
		},
	}
}

// clearConfigEnvVars unsets every config variable for the duration of the test.
func clearConfigEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "ENV", "HTTP_READ_TIMEOUT", "HTTP_WRITE_TIMEOUT", "STORE_DRIVER",
		"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD", "DB_POOL_MIN", "DB_POOL_MAX",
		"SQLITE_PATH", "CORS_ORIGINS", "JWT_SECRET", "JWT_ISSUER", "JWT_TTL",
		"AUTH_RATE_LIMIT", "AUTH_RATE_BURST", "AUTH_MIN_PASSWORD", "DELETE_CASCADE",
	} {
		// Setenv registers restoration of the original value; unset afterwards.
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}
