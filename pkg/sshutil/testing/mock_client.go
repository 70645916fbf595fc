// Package testing provides a mock SSH client for exercising audit logic
// without a live connection.
package testing

import (
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/calebmoore/hostaudit/internal/util"
)

// CommandResponse defines a canned response for a specific command pattern.
// Delay is the simulated runtime: a response whose Delay meets or exceeds
// the caller's timeout is answered with a timeout error instead.
type CommandResponse struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Error    error
	Delay    time.Duration
}

// MockClient simulates an SSH connection for testing. Commands are answered
// from canned responses (exact match first, then regex patterns), and fetch
// operations are served from a virtual file map.
type MockClient struct {
	mu       sync.Mutex
	host     string
	address  string
	closed   bool
	commands map[string]CommandResponse // pattern -> response
	files    map[string][]byte          // remote path -> content
	executed []string                   // commands in execution order
	timeouts []time.Duration            // timeout passed with each exec
}

// NewMockClient creates a new mock SSH client with no canned responses.
// Unmatched commands return exit code 127 (command not found).
func NewMockClient(host string) *MockClient {
	return &MockClient{
		host:     host,
		address:  host + ":22",
		commands: make(map[string]CommandResponse),
		files:    make(map[string][]byte),
	}
}

// SetResponse registers a canned response for a command pattern.
// The pattern can be an exact string or a regex pattern.
func (m *MockClient) SetResponse(pattern string, resp CommandResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commands[pattern] = resp
}

// SetOutput registers a successful canned response with the given stdout.
func (m *MockClient) SetOutput(pattern, stdout string) {
	m.SetResponse(pattern, CommandResponse{Stdout: []byte(stdout)})
}

// AddFile places a file into the virtual remote filesystem.
func (m *MockClient) AddFile(path string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = content
}

// Executed returns the commands run so far, in order.
func (m *MockClient) Executed() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.executed))
	copy(out, m.executed)
	return out
}

// Timeouts returns the timeout value passed with each executed command,
// in order.
func (m *MockClient) Timeouts() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]time.Duration, len(m.timeouts))
	copy(out, m.timeouts)
	return out
}

// Exec answers a command from the canned responses.
func (m *MockClient) Exec(cmd string) (stdout, stderr []byte, exitCode int, err error) {
	return m.ExecTimeout(cmd, 0)
}

// ExecTimeout answers a command from the canned responses. A response whose
// Delay reaches a positive timeout is answered as a timed-out command.
func (m *MockClient) ExecTimeout(cmd string, timeout time.Duration) (stdout, stderr []byte, exitCode int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, nil, -1, errors.New("connection closed")
	}
	m.executed = append(m.executed, cmd)
	m.timeouts = append(m.timeouts, timeout)

	if resp, ok := m.commands[cmd]; ok {
		return m.answer(cmd, resp, timeout)
	}

	for pattern, resp := range m.commands {
		if matched, _ := regexp.MatchString(pattern, cmd); matched {
			return m.answer(cmd, resp, timeout)
		}
	}

	return nil, []byte(fmt.Sprintf("sh: %s: command not found\n", cmd)), 127, nil
}

func (m *MockClient) answer(cmd string, resp CommandResponse, timeout time.Duration) ([]byte, []byte, int, error) {
	if timeout > 0 && resp.Delay >= timeout {
		return nil, nil, -1, fmt.Errorf("command timed out after %s: %s", timeout, cmd)
	}
	return resp.Stdout, resp.Stderr, resp.ExitCode, resp.Error
}

// FileExists checks the virtual filesystem.
func (m *MockClient) FileExists(path string, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return false, errors.New("connection closed")
	}
	m.executed = append(m.executed, "test -f "+util.ShellQuote(path))
	_, ok := m.files[path]
	return ok, nil
}

// ReadFile reads from the virtual filesystem.
func (m *MockClient) ReadFile(path string, _ time.Duration) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, errors.New("connection closed")
	}
	m.executed = append(m.executed, "cat "+util.ShellQuote(path))
	content, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("cat: %s: No such file or directory", path)
	}
	return content, nil
}

// Close marks the connection as closed.
func (m *MockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// GetHost returns the host name.
func (m *MockClient) GetHost() string {
	return m.host
}

// GetAddress returns the host:port address.
func (m *MockClient) GetAddress() string {
	return m.address
}
