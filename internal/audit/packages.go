package audit

import (
	"bufio"
	"strings"
)

// PackageEntry is one installed version of a package.
type PackageEntry struct {
	Version      string `json:"version"`
	Architecture string `json:"arch,omitempty"`
}

// Packages maps package name to its installed entries. Multi-arch and
// multi-version installs produce more than one entry per name.
type Packages map[string][]PackageEntry

// packageBranch describes one OS family's package listing: a structured
// query parsed into Packages, and a raw listing written verbatim.
type packageBranch struct {
	queryCmd    string
	rawCmd      string
	rawArtifact string
}

var packageBranches = map[Family]packageBranch{
	FamilyDebian: {
		queryCmd:    `dpkg-query -W -f='${Package}\t${Version}\t${Architecture}\n' 2>/dev/null`,
		rawCmd:      "dpkg -l 2>/dev/null",
		rawArtifact: "packages_dpkg",
	},
	FamilyRHEL: {
		queryCmd:    `rpm -qa --qf '%{NAME}\t%{VERSION}-%{RELEASE}\t%{ARCH}\n' 2>/dev/null`,
		rawCmd:      "rpm -qa 2>/dev/null",
		rawArtifact: "packages_rpm",
	},
}

// ParsePackageList parses tab-separated name/version/arch lines as produced
// by the dpkg-query and rpm query commands. Malformed lines are skipped.
func ParsePackageList(out string) Packages {
	pkgs := make(Packages)
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			continue
		}
		entry := PackageEntry{Version: fields[1]}
		if len(fields) > 2 {
			entry.Architecture = fields[2]
		}
		name := fields[0]
		pkgs[name] = append(pkgs[name], entry)
	}
	return pkgs
}
