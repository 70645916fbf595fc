package audit

import (
	"bufio"
	"strings"
)

// ServiceState holds the state metadata for one systemd unit.
type ServiceState struct {
	State  string `json:"state"`
	Preset string `json:"preset,omitempty"`
}

// Services maps unit name to its state metadata.
type Services map[string]ServiceState

// servicesCmd lists all service unit files with their enablement state.
const servicesCmd = "systemctl list-unit-files --type=service --no-pager --no-legend 2>/dev/null"

// ParseServiceList parses `systemctl list-unit-files` output:
//
//	ssh.service     enabled enabled
//	cron.service    enabled -
//
// Older systemd omits the preset column; both shapes are accepted.
func ParseServiceList(out string) Services {
	services := make(Services)
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		state := ServiceState{State: fields[1]}
		if len(fields) > 2 && fields[2] != "-" {
			state.Preset = fields[2]
		}
		services[fields[0]] = state
	}
	return services
}
