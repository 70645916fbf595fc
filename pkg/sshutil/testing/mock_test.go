package testing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calebmoore/hostaudit/pkg/sshutil"
)

// Compile-time check that MockClient satisfies the interface.
var _ sshutil.SSHClient = (*MockClient)(nil)

func TestMockClientCannedResponses(t *testing.T) {
	m := NewMockClient("testhost")

	m.SetOutput("uname -r", "5.15.0-generic\n")
	m.SetResponse("^ss ", CommandResponse{Stdout: []byte("LISTEN 0 128\n")})

	stdout, _, exitCode, err := m.Exec("uname -r")
	require.NoError(t, err)
	assert.Equal(t, 0, exitCode)
	assert.Equal(t, "5.15.0-generic\n", string(stdout))

	stdout, _, exitCode, err = m.Exec("ss -tulpn")
	require.NoError(t, err)
	assert.Equal(t, 0, exitCode)
	assert.Equal(t, "LISTEN 0 128\n", string(stdout))
}

func TestMockClientUnknownCommand(t *testing.T) {
	m := NewMockClient("testhost")

	_, stderr, exitCode, err := m.Exec("no-such-binary")
	require.NoError(t, err)
	assert.Equal(t, 127, exitCode)
	assert.Contains(t, string(stderr), "command not found")
}

func TestMockClientFiles(t *testing.T) {
	m := NewMockClient("testhost")
	m.AddFile("/etc/hostname", []byte("web1\n"))

	ok, err := m.FileExists("/etc/hostname", 0)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = m.FileExists("/etc/missing", 0)
	require.NoError(t, err)
	assert.False(t, ok)

	content, err := m.ReadFile("/etc/hostname", 0)
	require.NoError(t, err)
	assert.Equal(t, "web1\n", string(content))

	_, err = m.ReadFile("/etc/missing", 0)
	assert.Error(t, err)
}

func TestMockClientClosed(t *testing.T) {
	m := NewMockClient("testhost")
	require.NoError(t, m.Close())

	_, _, _, err := m.Exec("uname")
	assert.Error(t, err)

	_, err = m.ReadFile("/etc/hostname", 0)
	assert.Error(t, err)
}

func TestMockClientRecordsExecutionOrder(t *testing.T) {
	m := NewMockClient("testhost")
	m.SetOutput("first", "1")
	m.SetOutput("second", "2")

	m.Exec("first")
	m.Exec("second")

	assert.Equal(t, []string{"first", "second"}, m.Executed())
}

func TestMockClientRecordsTimeouts(t *testing.T) {
	m := NewMockClient("testhost")
	m.SetOutput("uname", "Linux\n")

	m.ExecTimeout("uname", 5*time.Second)
	m.Exec("uname")

	assert.Equal(t, []time.Duration{5 * time.Second, 0}, m.Timeouts())
}

func TestMockClientDelayedResponseTimesOut(t *testing.T) {
	m := NewMockClient("testhost")
	m.SetResponse("slow", CommandResponse{Stdout: []byte("never\n"), Delay: time.Minute})

	// A timeout shorter than the delay turns into a timeout error.
	_, _, exitCode, err := m.ExecTimeout("slow", 5*time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
	assert.Equal(t, -1, exitCode)

	// No timeout lets the response through.
	stdout, _, exitCode, err := m.ExecTimeout("slow", 0)
	require.NoError(t, err)
	assert.Equal(t, 0, exitCode)
	assert.Equal(t, "never\n", string(stdout))
}
