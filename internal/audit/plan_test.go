package audit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calebmoore/hostaudit/internal/errors"
)

func TestDefaultPlan(t *testing.T) {
	plan := DefaultPlan()

	artifacts := make(map[string]bool)
	for _, op := range plan.Commands {
		assert.NotEmpty(t, op.Name)
		assert.NotEmpty(t, op.Command)
		assert.False(t, artifacts[op.Artifact], "artifact %q duplicated", op.Artifact)
		artifacts[op.Artifact] = true
	}

	for _, want := range []string{"listening_ports", "lsblk", "df", "top_cpu", "top_mem", "services_running"} {
		assert.True(t, artifacts[want], "missing default operation %q", want)
	}

	assert.Contains(t, plan.ConfigPaths, "/etc/os-release")
	assert.Contains(t, plan.ConfigPaths, "/etc/ssh/sshd_config")
}

func TestLoadPlanFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	content := `commands:
  - name: uptime
    artifact: uptime
    command: uptime
  - artifact: who
    command: who
configs:
  - /etc/nginx/nginx.conf
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	plan, err := LoadPlanFile(path)
	require.NoError(t, err)
	require.Len(t, plan.Commands, 2)
	assert.Equal(t, "uptime", plan.Commands[0].Name)
	assert.Equal(t, "who", plan.Commands[1].Name, "name defaults to artifact")
	assert.Equal(t, []string{"/etc/nginx/nginx.conf"}, plan.ConfigPaths)
}

func TestLoadPlanFileErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadPlanFile(filepath.Join(dir, "nope.yaml"))
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrConfig))
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("commands: [\n"), 0644))
		_, err := LoadPlanFile(path)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrConfig))
	})

	t.Run("missing command", func(t *testing.T) {
		path := filepath.Join(dir, "incomplete.yaml")
		require.NoError(t, os.WriteFile(path, []byte("commands:\n  - name: x\n    artifact: x\n"), 0644))
		_, err := LoadPlanFile(path)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrConfig))
	})
}

func TestExtend(t *testing.T) {
	plan := DefaultPlan()
	baseCommands := len(plan.Commands)
	baseConfigs := len(plan.ConfigPaths)

	plan.Extend(&Plan{
		Commands:    []Operation{{Name: "uptime", Artifact: "uptime", Command: "uptime"}},
		ConfigPaths: []string{"/etc/nginx/nginx.conf"},
	})

	assert.Len(t, plan.Commands, baseCommands+1)
	assert.Len(t, plan.ConfigPaths, baseConfigs+1)
	assert.Equal(t, "uptime", plan.Commands[baseCommands].Artifact, "extras run after the built-in sequence")

	plan.Extend(nil) // must not panic
}
