package sshutil

import (
	"bytes"
	"fmt"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/calebmoore/hostaudit/internal/errors"
)

// Exec runs a command on the remote host and returns the output.
// Returns stdout, stderr, exit code, and any error.
// Exit code is -1 if the command couldn't be executed at all.
// A non-zero exit code with nil error means the command ran but failed.
func (c *Client) Exec(cmd string) (stdout, stderr []byte, exitCode int, err error) {
	return c.ExecTimeout(cmd, 0)
}

// ExecTimeout runs a command with an upper bound on its execution time.
// A timeout of zero means no limit. On timeout the session is torn down and
// an EXEC error is returned; the connection itself stays usable.
func (c *Client) ExecTimeout(cmd string, timeout time.Duration) (stdout, stderr []byte, exitCode int, err error) {
	session, err := c.Client.NewSession()
	if err != nil {
		return nil, nil, -1, errors.WrapWithCode(err, errors.ErrSSH,
			"Failed to create SSH session",
			"Connection may have been closed. Try reconnecting.")
	}
	defer session.Close()

	var stdoutBuf, stderrBuf bytes.Buffer
	session.Stdout = &stdoutBuf
	session.Stderr = &stderrBuf

	if timeout <= 0 {
		err = session.Run(cmd)
		return finishExec(cmd, &stdoutBuf, &stderrBuf, err)
	}

	done := make(chan error, 1)
	go func() {
		done <- session.Run(cmd)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err = <-done:
		return finishExec(cmd, &stdoutBuf, &stderrBuf, err)
	case <-timer.C:
		// Closing the session unblocks the Run goroutine.
		session.Close()
		return nil, nil, -1, errors.New(errors.ErrExec,
			fmt.Sprintf("Command timed out after %s: %s", timeout, cmd),
			"The remote command hung. Increase --command-timeout if it legitimately needs longer.")
	}
}

// finishExec maps a session.Run result to the (stdout, stderr, exit, err) contract.
func finishExec(cmd string, stdoutBuf, stderrBuf *bytes.Buffer, runErr error) ([]byte, []byte, int, error) {
	exitCode := 0
	if runErr != nil {
		if exitErr, ok := runErr.(*ssh.ExitError); ok {
			exitCode = exitErr.ExitStatus()
		} else {
			return nil, nil, -1, errors.WrapWithCode(runErr, errors.ErrExec,
				fmt.Sprintf("Failed to execute command: %s", cmd),
				"Check if the command exists on the remote host.")
		}
	}
	return stdoutBuf.Bytes(), stderrBuf.Bytes(), exitCode, nil
}
