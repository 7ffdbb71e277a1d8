package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearRequired(t *testing.T) {
	t.Helper()
	for _, key := range append(append([]string{"STORE_DRIVER", "S3_BUCKET", "S3_ENDPOINT", "S3_ACCESS_KEY"}, RequiredEnvVars...), RequiredPostgresEnvVars...) {
		if value, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, value) })
		}
		os.Unsetenv(key)
	}
}

func TestValidateEnv_SchemaVersion(t *testing.T) {
	clearRequired(t)

	err := ValidateEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ENV_SCHEMA_VERSION is not set")

	t.Setenv("ENV_SCHEMA_VERSION", "0.9")
	err = ValidateEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 1.0, got 0.9")
}

func TestValidateEnv_RequiredByDriver(t *testing.T) {
	tests := []struct {
		name        string
		driver      string
		wantMissing []string
	}{
		{"postgres needs database settings", "", []string{"API_KEY", "DB_USER", "DB_NAME"}},
		{"memory needs only the api key", "memory", []string{"API_KEY"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// ARRANGE
			clearRequired(t)
			t.Setenv("ENV_SCHEMA_VERSION", ExpectedEnvSchemaVersion)
			if tt.driver != "" {
				t.Setenv("STORE_DRIVER", tt.driver)
			}

			// ACT
			err := ValidateEnv()

			// ASSERT
			require.Error(t, err)
			for _, key := range tt.wantMissing {
				assert.Contains(t, err.Error(), key)
			}
			if tt.driver == "memory" {
				assert.NotContains(t, err.Error(), "DB_USER")
			}
		})
	}
}

func TestValidateEnvWithWarnings_InsecureDefaults(t *testing.T) {
	// ARRANGE
	clearRequired(t)
	t.Setenv("ENV_SCHEMA_VERSION", ExpectedEnvSchemaVersion)
	for _, key := range RequiredPostgresEnvVars {
		t.Setenv(key, "value")
	}
	t.Setenv("DB_PASSWORD", "change_this_secure_password")
	t.Setenv("API_KEY", "generate_with_openssl_rand_hex_32")
	t.Setenv("S3_BUCKET", "evidence")

	// ACT
	warnings, err := ValidateEnvWithWarnings()

	// ASSERT
	require.NoError(t, err)
	require.Len(t, warnings, 3)
	assert.Contains(t, warnings[0], "DB_PASSWORD")
	assert.Contains(t, warnings[1], "API_KEY")
	assert.Contains(t, warnings[2], "S3_ACCESS_KEY")
}
