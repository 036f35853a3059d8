package secrets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vaultTestConfig(addr string) VaultConfig {
	return VaultConfig{
		Enabled:   true,
		Addr:      addr,
		Token:     "test-token",
		Mount:     "secret",
		Path:      "emernav/api",
		KVVersion: 2,
		Timeout:   2 * time.Second,
	}
}

func TestApplyVaultSecrets_Disabled(t *testing.T) {
	result, err := ApplyVaultSecrets(context.Background(), VaultConfig{Enabled: false})

	require.NoError(t, err)
	assert.False(t, result.Enabled)
}

func TestApplyVaultSecrets_LoadsAllowedKeys(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-token", r.Header.Get("X-Vault-Token"))
		assert.Equal(t, "/v1/secret/data/emernav/api", r.URL.Path)
		w.Write([]byte(`{
			"data": {
				"data": {
					"OPENAI_API_KEY": "sk-from-vault",
					"SERVER_PORT": "9999"
				}
			}
		}`))
	}))
	defer server.Close()

	os.Unsetenv("OPENAI_API_KEY")
	t.Cleanup(func() { os.Unsetenv("OPENAI_API_KEY") })

	result, err := ApplyVaultSecrets(context.Background(), vaultTestConfig(server.URL))

	require.NoError(t, err)
	assert.Equal(t, 1, result.Loaded)
	assert.Equal(t, 1, result.Skipped, "non-credential keys must be ignored")
	assert.Equal(t, "sk-from-vault", os.Getenv("OPENAI_API_KEY"))
	assert.Empty(t, os.Getenv("SERVER_PORT"))
}

func TestApplyVaultSecrets_EnvironmentWinsWithoutOverwrite(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data":{"data":{"OPENAI_API_KEY":"sk-from-vault"}}}`))
	}))
	defer server.Close()

	os.Setenv("OPENAI_API_KEY", "sk-from-env")
	t.Cleanup(func() { os.Unsetenv("OPENAI_API_KEY") })

	result, err := ApplyVaultSecrets(context.Background(), vaultTestConfig(server.URL))

	require.NoError(t, err)
	assert.Equal(t, 0, result.Loaded)
	assert.Equal(t, "sk-from-env", os.Getenv("OPENAI_API_KEY"))
}

func TestApplyVaultSecrets_MissingAddr(t *testing.T) {
	cfg := vaultTestConfig("")
	cfg.Addr = ""

	_, err := ApplyVaultSecrets(context.Background(), cfg)

	assert.Error(t, err)
}

func TestApplyVaultSecrets_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := ApplyVaultSecrets(context.Background(), vaultTestConfig(server.URL))

	assert.Error(t, err)
}

func TestBuildVaultURL_KVVersions(t *testing.T) {
	v2, err := buildVaultURL("http://vault:8200", "secret", "emernav/api", 2)
	require.NoError(t, err)
	assert.Equal(t, "http://vault:8200/v1/secret/data/emernav/api", v2)

	v1, err := buildVaultURL("http://vault:8200", "secret", "emernav/api", 1)
	require.NoError(t, err)
	assert.Equal(t, "http://vault:8200/v1/secret/emernav/api", v1)
}
