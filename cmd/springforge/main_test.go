package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/springforge"
)

const userDoc = `module:
  name: test
  package: com.example
entities:
  - name: User
    properties:
      - name: username
        type: string
        required: true
        unique: true
`

func TestRun(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(in, "user.yaml"), []byte(userDoc), 0o644))

	err := run([]string{"--output", out, "--log-level", "error", "--no-color", "--services=false", in})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(out, "com", "example", "User.java"))
	assert.FileExists(t, filepath.Join(out, "com", "example", "repo", "UserRepository.java"))
	assert.NoFileExists(t, filepath.Join(out, "com", "example", "service", "UserService.java"))
}

func TestRunConfigFile(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(in, "user.yaml"), []byte(userDoc), 0o644))
	cfg := filepath.Join(t.TempDir(), "springforge.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("input: "+in+"\noutput: "+out+"\ntarget: go\nmodule: example.com/app\nlog:\n  level: error\n"), 0o644))

	require.NoError(t, run([]string{"-c", cfg}))
	assert.FileExists(t, filepath.Join(out, "com", "example", "user.go"))
}

func TestRunErrors(t *testing.T) {
	t.Run("too many arguments", func(t *testing.T) {
		require.Error(t, run([]string{"a", "b"}))
	})

	t.Run("missing output", func(t *testing.T) {
		err := run([]string{"--log-level", "error", t.TempDir()})
		require.Error(t, err)
		assert.True(t, springforge.IsConfigError(err))
	})

	t.Run("unknown flag", func(t *testing.T) {
		require.Error(t, run([]string{"--bogus"}))
	})

	t.Run("version", func(t *testing.T) {
		require.NoError(t, run([]string{"--version"}))
	})
}
