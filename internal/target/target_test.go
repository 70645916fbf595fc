package target

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calebmoore/hostaudit/internal/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		arg      string
		port     int
		wantUser string
		wantHost string
		wantPort int
	}{
		{
			name:     "user at host",
			arg:      "root@10.0.0.5",
			wantUser: "root",
			wantHost: "10.0.0.5",
		},
		{
			name:     "bare host",
			arg:      "web1.example.com",
			wantHost: "web1.example.com",
		},
		{
			name:     "explicit port flag",
			arg:      "admin@host.example",
			port:     2222,
			wantUser: "admin",
			wantHost: "host.example",
			wantPort: 2222,
		},
		{
			name:     "host colon port shorthand",
			arg:      "root@10.0.0.5:2200",
			wantUser: "root",
			wantHost: "10.0.0.5",
			wantPort: 2200,
		},
		{
			name:     "flag wins over shorthand",
			arg:      "root@10.0.0.5:2200",
			port:     2222,
			wantUser: "root",
			wantHost: "10.0.0.5",
			wantPort: 2222,
		},
		{
			name:     "bare ipv6 host is not split",
			arg:      "root@::1",
			wantUser: "root",
			wantHost: "::1",
		},
		{
			name:     "bracketed ipv6 with port",
			arg:      "root@[fe80::1]:2022",
			wantUser: "root",
			wantHost: "fe80::1",
			wantPort: 2022,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tgt, err := Parse(tt.arg, tt.port, "")
			require.NoError(t, err)
			assert.Equal(t, tt.wantUser, tgt.User)
			assert.Equal(t, tt.wantHost, tgt.Host)
			assert.Equal(t, tt.wantPort, tgt.Port)
		})
	}
}

func TestParseUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		arg  string
		port int
	}{
		{name: "empty argument", arg: ""},
		{name: "whitespace argument", arg: "   "},
		{name: "empty user", arg: "@host"},
		{name: "empty host", arg: "root@"},
		{name: "host with spaces", arg: "root@bad host"},
		{name: "port out of range", arg: "root@host", port: 70000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.arg, tt.port, "")
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrUsage), "expected a usage error, got: %v", err)
		})
	}
}

func TestParseKeyPath(t *testing.T) {
	dir := t.TempDir()
	keyPath := filepath.Join(dir, "id_ed25519")
	require.NoError(t, os.WriteFile(keyPath, []byte("not a real key"), 0600))

	tgt, err := Parse("root@10.0.0.5", 0, keyPath)
	require.NoError(t, err)
	assert.Equal(t, keyPath, tgt.KeyPath)

	_, err = Parse("root@10.0.0.5", 0, filepath.Join(dir, "missing"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestString(t *testing.T) {
	tgt := &Target{User: "root", Host: "10.0.0.5", Password: "secret"}
	assert.Equal(t, "root@10.0.0.5", tgt.String())
	assert.NotContains(t, tgt.String(), "secret")

	bare := &Target{Host: "web1"}
	assert.Equal(t, "web1", bare.String())
}
