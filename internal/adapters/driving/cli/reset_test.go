package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recall/internal/core/domain"
)

func TestResetCmd_WithFlag(t *testing.T) {
	ts := setupTestServices(t)

	out, err := execute(t, "reset", "--api-key", "secret")

	require.NoError(t, err)
	assert.Equal(t, "secret", ts.admin.apiKey)
	assert.Contains(t, out, "All data has been reset.")
}

func TestResetCmd_PromptsForKey(t *testing.T) {
	ts := setupTestServices(t)
	rootCmd.SetIn(strings.NewReader("secret\n"))

	out, err := execute(t, "reset")

	require.NoError(t, err)
	assert.Contains(t, out, "Admin API key:")
	assert.Equal(t, "secret", ts.admin.apiKey)
}

func TestResetCmd_EmptyKey(t *testing.T) {
	ts := setupTestServices(t)
	rootCmd.SetIn(strings.NewReader("\n"))

	_, err := execute(t, "reset")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "admin API key is required")
	assert.Empty(t, ts.admin.apiKey)
}

func TestResetCmd_WrongKey(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "reset", "--api-key", "wrong")

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
