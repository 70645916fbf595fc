package sshutil

import (
	"fmt"
	"time"

	"github.com/calebmoore/hostaudit/internal/errors"
	"github.com/calebmoore/hostaudit/internal/util"
)

// FileExists reports whether a regular file exists at the remote path.
// The check itself failing (dead session) is returned as an error so the
// caller can distinguish "absent" from "couldn't check".
func (c *Client) FileExists(path string, timeout time.Duration) (bool, error) {
	_, _, exitCode, err := c.ExecTimeout("test -f "+util.ShellQuote(path), timeout)
	if err != nil {
		return false, err
	}
	return exitCode == 0, nil
}

// ReadFile returns the bytes of a remote file. The caller is expected to
// have checked existence first; a read failure here is an EXEC error.
func (c *Client) ReadFile(path string, timeout time.Duration) ([]byte, error) {
	stdout, stderr, exitCode, err := c.ExecTimeout("cat "+util.ShellQuote(path), timeout)
	if err != nil {
		return nil, err
	}
	if exitCode != 0 {
		return nil, errors.New(errors.ErrExec,
			fmt.Sprintf("Couldn't read remote file %s", path),
			firstLine(stderr))
	}
	return stdout, nil
}

func firstLine(b []byte) string {
	for i, c := range b {
		if c == '\n' {
			return string(b[:i])
		}
	}
	return string(b)
}
