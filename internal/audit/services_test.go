package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseServiceList(t *testing.T) {
	out := `ssh.service                                enabled         enabled
cron.service                               enabled         -
systemd-networkd.service                   disabled        enabled
getty@.service                             static          -
`
	services := ParseServiceList(out)

	require.Len(t, services, 4)
	assert.Equal(t, "enabled", services["ssh.service"].State)
	assert.Equal(t, "enabled", services["ssh.service"].Preset)
	assert.Empty(t, services["cron.service"].Preset, "dash preset is dropped")
	assert.Equal(t, "disabled", services["systemd-networkd.service"].State)
}

func TestParseServiceListOldSystemd(t *testing.T) {
	// Pre-240 systemd has no preset column.
	out := "ssh.service enabled\ncron.service enabled\n"
	services := ParseServiceList(out)

	require.Len(t, services, 2)
	assert.Equal(t, "enabled", services["ssh.service"].State)
	assert.Empty(t, services["ssh.service"].Preset)
}

func TestParseServiceListEmpty(t *testing.T) {
	assert.Empty(t, ParseServiceList(""))
	assert.Empty(t, ParseServiceList("\n \n"))
}
