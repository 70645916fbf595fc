package audit

import (
	"bufio"
	"strconv"
	"strings"
)

// Facts is the nested key/value structure written to facts_<host>.json.
type Facts map[string]interface{}

// factCommand pairs a fact group with the remote command that produces it.
// Commands that fail simply leave their group out of the result.
type factCommand struct {
	group   string
	command string
	parse   func(out string) interface{}
}

// factCommands is the fixed batch of fact-gathering commands.
var factCommands = []factCommand{
	{
		group:   "os",
		command: "cat /etc/os-release 2>/dev/null",
		parse:   func(out string) interface{} { return ParseOSRelease(out) },
	},
	{
		group:   "kernel",
		command: "uname -s -r -m",
		parse:   func(out string) interface{} { return parseUname(out) },
	},
	{
		group:   "hostname",
		command: "hostname -f 2>/dev/null || hostname",
		parse:   func(out string) interface{} { return strings.TrimSpace(out) },
	},
	{
		group:   "cpu",
		command: "nproc 2>/dev/null",
		parse:   func(out string) interface{} { return parseCPUCount(out) },
	},
	{
		group:   "memory",
		command: "cat /proc/meminfo 2>/dev/null",
		parse:   func(out string) interface{} { return ParseMemInfo(out) },
	},
	{
		group:   "network",
		command: "ip -o addr show 2>/dev/null",
		parse:   func(out string) interface{} { return ParseIPAddr(out) },
	},
	{
		group:   "uptime",
		command: "uptime -p 2>/dev/null || uptime",
		parse:   func(out string) interface{} { return strings.TrimSpace(out) },
	},
}

// ParseOSRelease parses /etc/os-release content into a flat map.
// Values may be double-quoted; quotes are stripped.
func ParseOSRelease(out string) map[string]string {
	fields := make(map[string]string)
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		fields[key] = strings.Trim(value, `"`)
	}
	return fields
}

// DetectFamily maps os-release ID/ID_LIKE fields onto a package-manager
// family. Unrecognized distributions yield FamilyUnknown, which skips both
// package-listing branches.
func DetectFamily(osRelease map[string]string) Family {
	ids := []string{strings.ToLower(osRelease["ID"])}
	ids = append(ids, strings.Fields(strings.ToLower(osRelease["ID_LIKE"]))...)

	for _, id := range ids {
		switch id {
		case "debian", "ubuntu", "raspbian", "linuxmint":
			return FamilyDebian
		case "rhel", "centos", "fedora", "rocky", "almalinux", "ol", "amzn":
			return FamilyRHEL
		}
	}
	return FamilyUnknown
}

// parseUname splits "Linux 5.15.0-91-generic x86_64" into its parts.
func parseUname(out string) map[string]string {
	fields := strings.Fields(strings.TrimSpace(out))
	u := make(map[string]string)
	if len(fields) > 0 {
		u["system"] = fields[0]
	}
	if len(fields) > 1 {
		u["release"] = fields[1]
	}
	if len(fields) > 2 {
		u["machine"] = fields[2]
	}
	return u
}

func parseCPUCount(out string) map[string]interface{} {
	cpu := make(map[string]interface{})
	if n, err := strconv.Atoi(strings.TrimSpace(out)); err == nil {
		cpu["count"] = n
	}
	return cpu
}

// ParseMemInfo extracts the interesting fields from /proc/meminfo.
// Values in the file are in kB and are reported as such.
func ParseMemInfo(out string) map[string]int64 {
	mem := make(map[string]int64)
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		parts := strings.Fields(scanner.Text())
		if len(parts) < 2 {
			continue
		}
		key := strings.TrimSuffix(parts[0], ":")
		switch key {
		case "MemTotal", "MemFree", "MemAvailable", "SwapTotal", "SwapFree":
			if val, err := strconv.ParseInt(parts[1], 10, 64); err == nil {
				mem[key+"_kb"] = val
			}
		}
	}
	return mem
}

// ParseIPAddr parses `ip -o addr show` output into interface -> addresses.
//
//	2: eth0    inet 10.0.0.5/24 brd 10.0.0.255 scope global eth0 ...
func ParseIPAddr(out string) map[string][]string {
	addrs := make(map[string][]string)
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		// idx, iface, family, address, ...
		if len(fields) < 4 {
			continue
		}
		iface := strings.TrimSuffix(fields[1], ":")
		family := fields[2]
		if family != "inet" && family != "inet6" {
			continue
		}
		addrs[iface] = append(addrs[iface], fields[3])
	}
	return addrs
}
