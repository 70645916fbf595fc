// Package audit runs the fixed sequence of read-only collection operations
// against one remote host and hands every result to the report sink.
package audit

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/calebmoore/hostaudit/internal/errors"
)

// Family is the detected OS family, derived from /etc/os-release. It selects
// which package-listing branch runs; at most one branch executes per run.
type Family string

const (
	FamilyDebian  Family = "debian"
	FamilyRHEL    Family = "rhel"
	FamilyUnknown Family = "unknown"
)

// Operation is one remote command whose raw output becomes a text artifact.
// Operations are data, not control flow: the runner consumes them in order
// and never aborts on failure.
type Operation struct {
	// Name identifies the operation in progress output.
	Name string `yaml:"name"`

	// Artifact is the output file stem (<artifact>_<host>.txt).
	Artifact string `yaml:"artifact"`

	// Command is the remote shell command to capture.
	Command string `yaml:"command"`
}

// Plan is the ordered work of one audit run. Facts, packages, and services
// are fixed structured steps; Commands and ConfigPaths extend the raw
// collection.
type Plan struct {
	// Commands are raw-text collection operations, run in order.
	Commands []Operation `yaml:"commands"`

	// ConfigPaths are remote files to fetch into configs/. Absent paths are
	// skipped silently.
	ConfigPaths []string `yaml:"configs"`
}

// DefaultPlan returns the built-in collection sequence.
func DefaultPlan() *Plan {
	return &Plan{
		Commands: []Operation{
			{
				Name:     "listening ports",
				Artifact: "listening_ports",
				Command:  "ss -tulpn 2>/dev/null || netstat -tulpn 2>/dev/null",
			},
			{
				Name:     "block devices",
				Artifact: "lsblk",
				Command:  "lsblk",
			},
			{
				Name:     "disk usage",
				Artifact: "df",
				Command:  "df -h",
			},
			{
				Name:     "top processes by cpu",
				Artifact: "top_cpu",
				Command:  "ps aux --sort=-%cpu | head -n 15",
			},
			{
				Name:     "top processes by memory",
				Artifact: "top_mem",
				Command:  "ps aux --sort=-%mem | head -n 15",
			},
			{
				Name:     "running services",
				Artifact: "services_running",
				Command:  "systemctl list-units --type=service --state=running --no-pager --no-legend 2>/dev/null",
			},
		},
		ConfigPaths: []string{
			"/etc/os-release",
			"/etc/hostname",
			"/etc/hosts",
			"/etc/fstab",
			"/etc/resolv.conf",
			"/etc/ssh/sshd_config",
			"/etc/passwd",
			"/etc/group",
			"/etc/crontab",
			"/etc/sysctl.conf",
			"/etc/selinux/config",
		},
	}
}

// LoadPlanFile parses a YAML plan extension file. Its commands and config
// paths are appended after the built-in sequence.
func LoadPlanFile(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Can't read the plan file '%s'", path),
			"Check the path given with --plan exists and is readable")
	}

	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("The plan file '%s' isn't valid YAML", path),
			"Expected keys: commands (name/artifact/command) and configs (paths)")
	}

	for i, op := range plan.Commands {
		if op.Command == "" || op.Artifact == "" {
			return nil, errors.New(errors.ErrConfig,
				fmt.Sprintf("Plan command %d is missing a command or artifact", i+1),
				"Every entry under commands needs both an artifact and a command")
		}
		if op.Name == "" {
			plan.Commands[i].Name = op.Artifact
		}
	}

	return &plan, nil
}

// Extend appends another plan's commands and config paths to this one.
func (p *Plan) Extend(extra *Plan) {
	if extra == nil {
		return
	}
	p.Commands = append(p.Commands, extra.Commands...)
	p.ConfigPaths = append(p.ConfigPaths, extra.ConfigPaths...)
}
