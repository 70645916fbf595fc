package audit

import (
	"fmt"
	"time"

	"github.com/calebmoore/hostaudit/internal/logger"
	"github.com/calebmoore/hostaudit/internal/report"
	"github.com/calebmoore/hostaudit/pkg/sshutil"
)

// Status is the outcome of one operation, reported through the progress hook.
type Status int

const (
	StatusOK Status = iota
	StatusFailed
	StatusSkipped
)

// ProgressFunc receives one line per completed operation.
type ProgressFunc func(name string, status Status, detail string)

// DefaultCommandTimeout bounds each remote operation. The legacy behavior of
// letting a hung command block the run forever was an accident, not a
// feature.
const DefaultCommandTimeout = 60 * time.Second

// Summary aggregates the outcome of a run. Individual failures never abort
// the sequence, so the summary is the only place they are counted.
type Summary struct {
	Family    Family
	Succeeded int
	Failed    int
	Skipped   int
}

// Runner executes a plan strictly sequentially over one SSH connection,
// writing each result to the sink as it completes.
type Runner struct {
	client         sshutil.SSHClient
	sink           *report.Sink
	log            logger.Logger
	commandTimeout time.Duration
	progress       ProgressFunc
}

// NewRunner creates a runner over an established connection.
func NewRunner(client sshutil.SSHClient, sink *report.Sink, log logger.Logger) *Runner {
	return &Runner{
		client:         client,
		sink:           sink,
		log:            log,
		commandTimeout: DefaultCommandTimeout,
		progress:       func(string, Status, string) {},
	}
}

// SetCommandTimeout overrides the per-operation timeout. Zero disables it.
func (r *Runner) SetCommandTimeout(d time.Duration) {
	r.commandTimeout = d
}

// SetProgress installs a progress hook for per-operation status lines.
func (r *Runner) SetProgress(fn ProgressFunc) {
	if fn != nil {
		r.progress = fn
	}
}

// Run executes the plan: facts first (the OS family gathered there gates the
// package branch), then packages, services, raw commands, and config
// fetches. Every result is written independently; a failed operation is
// recorded and the run continues.
func (r *Runner) Run(plan *Plan) *Summary {
	sum := &Summary{Family: FamilyUnknown}

	r.runFacts(sum)
	r.runPackages(sum)
	r.runServices(sum)

	for _, op := range plan.Commands {
		r.runCommand(op, sum)
	}
	for _, path := range plan.ConfigPaths {
		r.runFetch(path, sum)
	}

	return sum
}

// runFacts gathers the structured fact batch and detects the OS family.
// Commands that fail leave their group out; the facts file is written with
// whatever was collected.
func (r *Runner) runFacts(sum *Summary) {
	facts := make(Facts)

	for _, fc := range factCommands {
		stdout, _, exitCode, err := r.client.ExecTimeout(fc.command, r.commandTimeout)
		if err != nil || exitCode != 0 {
			r.log.Debug("fact group %s unavailable (exit %d): %v", fc.group, exitCode, err)
			continue
		}
		facts[fc.group] = fc.parse(string(stdout))
	}

	if osFields, ok := facts["os"].(map[string]string); ok {
		sum.Family = DetectFamily(osFields)
	}
	facts["family"] = string(sum.Family)

	if err := r.sink.WriteJSON("facts", facts); err != nil {
		r.fail(sum, "system facts", err.Error())
		return
	}
	r.ok(sum, "system facts")
}

// runPackages executes at most one package-listing branch, selected by the
// detected family. The structured JSON is written for every run; the raw
// listing only for a recognized family.
func (r *Runner) runPackages(sum *Summary) {
	branch, known := packageBranches[sum.Family]
	if !known {
		// Unrecognized family: an empty mapping still documents that the
		// host was queried.
		if err := r.sink.WriteJSON("packages", make(Packages)); err != nil {
			r.fail(sum, "installed packages", err.Error())
			return
		}
		r.skip(sum, "installed packages", fmt.Sprintf("unrecognized OS family %q", sum.Family))
		return
	}

	stdout, _, exitCode, err := r.client.ExecTimeout(branch.queryCmd, r.commandTimeout)
	queryOK := err == nil && exitCode == 0
	if !queryOK {
		r.log.Debug("package query failed (exit %d): %v", exitCode, err)
		stdout = nil
	}
	switch werr := r.sink.WriteJSON("packages", ParsePackageList(string(stdout))); {
	case werr != nil:
		r.fail(sum, "installed packages", werr.Error())
	case !queryOK:
		r.fail(sum, "installed packages", "query failed")
	default:
		r.ok(sum, "installed packages")
	}

	rawOut, _, rawExit, rawErr := r.client.ExecTimeout(branch.rawCmd, r.commandTimeout)
	rawOK := rawErr == nil && rawExit == 0
	if !rawOK {
		r.log.Debug("raw package listing failed (exit %d): %v", rawExit, rawErr)
		rawOut = nil
	}
	switch werr := r.sink.WriteText(branch.rawArtifact, rawOut); {
	case werr != nil:
		r.fail(sum, "raw package listing", werr.Error())
	case !rawOK:
		r.fail(sum, "raw package listing", "listing failed")
	default:
		r.ok(sum, "raw package listing")
	}
}

// runServices gathers unit file states into services_<host>.json.
func (r *Runner) runServices(sum *Summary) {
	stdout, _, exitCode, err := r.client.ExecTimeout(servicesCmd, r.commandTimeout)
	queryOK := err == nil && exitCode == 0
	if !queryOK {
		r.log.Debug("service listing failed (exit %d): %v", exitCode, err)
		stdout = nil
	}
	switch werr := r.sink.WriteJSON("services", ParseServiceList(string(stdout))); {
	case werr != nil:
		r.fail(sum, "service states", werr.Error())
	case !queryOK:
		r.fail(sum, "service states", "query failed")
	default:
		r.ok(sum, "service states")
	}
}

// runCommand captures one raw-text operation. Output is written as-is,
// including the empty string when the command produced nothing.
func (r *Runner) runCommand(op Operation, sum *Summary) {
	stdout, stderr, exitCode, err := r.client.ExecTimeout(op.Command, r.commandTimeout)
	if err != nil {
		r.log.Debug("operation %s failed: %v", op.Name, err)
		if werr := r.sink.WriteText(op.Artifact, nil); werr != nil {
			r.log.Error("writing empty %s result: %v", op.Artifact, werr)
		}
		r.fail(sum, op.Name, "command failed")
		return
	}

	if werr := r.sink.WriteText(op.Artifact, stdout); werr != nil {
		r.fail(sum, op.Name, werr.Error())
		return
	}
	if exitCode != 0 {
		r.log.Debug("operation %s exited %d: %s", op.Name, exitCode, firstLine(stderr))
		r.fail(sum, op.Name, fmt.Sprintf("exit status %d", exitCode))
		return
	}
	r.ok(sum, op.Name)
}

// runFetch copies one remote config file if it exists. Absence is not an
// error and produces no local file.
func (r *Runner) runFetch(path string, sum *Summary) {
	name := "fetch " + path

	exists, err := r.client.FileExists(path, r.commandTimeout)
	if err != nil {
		r.log.Debug("existence check for %s failed: %v", path, err)
		r.fail(sum, name, "check failed")
		return
	}
	if !exists {
		r.skip(sum, name, "not present")
		return
	}

	data, err := r.client.ReadFile(path, r.commandTimeout)
	if err != nil {
		r.log.Debug("reading %s failed: %v", path, err)
		r.fail(sum, name, "read failed")
		return
	}

	if err := r.sink.WriteConfig(path, data); err != nil {
		r.fail(sum, name, err.Error())
		return
	}
	r.ok(sum, name)
}

func (r *Runner) ok(sum *Summary, name string) {
	sum.Succeeded++
	r.progress(name, StatusOK, "")
}

func (r *Runner) fail(sum *Summary, name, detail string) {
	sum.Failed++
	r.progress(name, StatusFailed, detail)
}

func (r *Runner) skip(sum *Summary, name, detail string) {
	sum.Skipped++
	r.progress(name, StatusSkipped, detail)
}

func firstLine(b []byte) string {
	for i, c := range b {
		if c == '\n' {
			return string(b[:i])
		}
	}
	return string(b)
}
