package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Git-Cosmo/CloudOps/internal/domain/config"
)

func TestRootCmd_Flags(t *testing.T) {
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("json-logs"))
	assert.True(t, rootCmd.SilenceErrors)
	assert.True(t, rootCmd.SilenceUsage)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}
	assert.True(t, names["run"])
	assert.True(t, names["version"])
}

func TestFormatError(t *testing.T) {
	t.Run("plain error passes through", func(t *testing.T) {
		assert.Equal(t, "boom", formatError(errors.New("boom")))
	})

	t.Run("user error shows message and suggestion", func(t *testing.T) {
		err := config.NewUserError(config.ErrCodeConfigInvalid, "bad input").
			WithContext("tf_path").
			WithSuggestion("set the tf_path input")

		out := formatError(err)
		assert.Contains(t, out, "bad input (at tf_path)")
		assert.Contains(t, out, "Suggestion: set the tf_path input")
		assert.NotContains(t, out, "Technical details")
	})

	t.Run("verbose includes underlying error", func(t *testing.T) {
		verbose = true
		defer func() { verbose = false }()

		err := config.NewUserError(config.ErrCodeLoginFailed, "azure login failed").
			WithUnderlying(errors.New("exit status 1"))

		out := formatError(err)
		assert.Contains(t, out, "Technical details: exit status 1")
	})
}

func TestPrintErrorTo(t *testing.T) {
	var buf bytes.Buffer
	printErrorTo(&buf, errors.New("boom"))
	require.Equal(t, "Error: boom\n", buf.String())
}
