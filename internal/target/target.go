// Package target models the single remote host an audit run operates on.
package target

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/calebmoore/hostaudit/internal/errors"
)

// DefaultPort is the SSH port used when neither the CLI nor ~/.ssh/config
// specifies one.
const DefaultPort = 22

// Target identifies the remote host being audited. It is constructed once
// from CLI input and is immutable for the run.
type Target struct {
	// User is the SSH login name. Empty means "resolve from ssh config or $USER".
	User string

	// Host is the address or ssh config alias from the positional argument.
	Host string

	// Port is the SSH port. Zero means "resolve from ssh config or default 22".
	Port int

	// KeyPath is an optional private key file (-i flag).
	KeyPath string

	// Password is an optional password collected with --ask-pass.
	// Never persisted and never logged.
	Password string
}

// Parse builds a Target from the positional user@host argument and the
// optional port/key flags. Validation failures are usage or config errors,
// reported before any network activity.
func Parse(arg string, port int, keyPath string) (*Target, error) {
	if strings.TrimSpace(arg) == "" {
		return nil, errors.NewUsage("Missing target argument")
	}

	t := &Target{Host: arg, Port: port, KeyPath: keyPath}

	if atIdx := strings.Index(arg, "@"); atIdx != -1 {
		t.User = arg[:atIdx]
		t.Host = arg[atIdx+1:]
		if t.User == "" {
			return nil, errors.NewUsage(fmt.Sprintf("'%s' has an empty user before the @", arg))
		}
	}

	if t.Host == "" {
		return nil, errors.NewUsage(fmt.Sprintf("'%s' has no host part", arg))
	}
	if strings.ContainsAny(t.Host, " \t") {
		return nil, errors.NewUsage(fmt.Sprintf("'%s' doesn't look like a host name", t.Host))
	}

	// Accept host:port shorthand, but an explicit -p flag wins.
	// SplitHostPort rejects bare IPv6 addresses like ::1, which must pass
	// through untouched; with a port they take the [::1]:2022 bracket form.
	if host, portStr, err := net.SplitHostPort(t.Host); err == nil {
		if parsed, perr := strconv.Atoi(portStr); perr == nil {
			if t.Port == 0 {
				t.Port = parsed
			}
			t.Host = host
		}
	}

	if t.Port < 0 || t.Port > 65535 {
		return nil, errors.NewUsage(fmt.Sprintf("Port %d is out of range (1-65535)", t.Port))
	}

	if t.KeyPath != "" {
		if _, err := os.Stat(t.KeyPath); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("Can't read the identity file '%s'", t.KeyPath),
				"Check the path given with -i exists and is readable")
		}
	}

	return t, nil
}

// String renders the target as user@host for display. The password is never
// included.
func (t *Target) String() string {
	if t.User == "" {
		return t.Host
	}
	return t.User + "@" + t.Host
}
