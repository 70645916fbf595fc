package sshutil

import "time"

// SSHClient defines the interface for remote command execution and file
// retrieval. Both the real Client and mock implementations satisfy it.
//
// This interface enables testing of SSH-dependent code without requiring
// actual SSH connections.
type SSHClient interface {
	// Exec runs a command and returns stdout, stderr, and exit code.
	// Exit code is -1 if the command couldn't be executed at all.
	// A non-zero exit code with nil error means the command ran but failed.
	Exec(cmd string) (stdout, stderr []byte, exitCode int, err error)

	// ExecTimeout is Exec with an upper bound on execution time.
	// A timeout of zero means no limit.
	ExecTimeout(cmd string, timeout time.Duration) (stdout, stderr []byte, exitCode int, err error)

	// FileExists reports whether a regular file exists at the remote path.
	FileExists(path string, timeout time.Duration) (bool, error)

	// ReadFile returns the bytes of a remote file.
	ReadFile(path string, timeout time.Duration) ([]byte, error)

	// Close closes the SSH connection.
	Close() error

	// GetHost returns the original host/alias used to connect.
	GetHost() string

	// GetAddress returns the resolved host:port address.
	GetAddress() string
}

// Compile-time check that the real client satisfies the interface.
var _ SSHClient = (*Client)(nil)
