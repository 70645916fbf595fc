// Package report writes audit results to the run's output directory.
//
// Layout per run:
//
//	<prefix>_<host>_<timestamp>/
//	  report/
//	    facts_<host>.json
//	    packages_<host>.json
//	    listening_ports_<host>.txt
//	    ...
//	    configs/<basename>
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/calebmoore/hostaudit/internal/errors"
)

// ConfigsDirName is the subdirectory for fetched remote config files.
const ConfigsDirName = "configs"

// timestampLayout embeds second precision in the run directory name.
// Two runs against the same host within the same second collide; that is
// accepted.
const timestampLayout = "20060102-150405"

// RunDir describes where one audit run writes its output.
type RunDir struct {
	// Root is the timestamped per-run directory.
	Root string

	// Report is the directory results are written to. Normally Root/report,
	// but an override (HOSTAUDIT_REPORT_DIR) can redirect it elsewhere.
	Report string
}

// NewRunDir computes and creates the output directories for a run.
// reportOverride, when non-empty, redirects the report directory; the
// timestamped root is still created so the run remains discoverable.
func NewRunDir(base, prefix, host string, now time.Time, reportOverride string) (*RunDir, error) {
	root := filepath.Join(base, fmt.Sprintf("%s_%s_%s", prefix, host, now.Format(timestampLayout)))

	report := filepath.Join(root, "report")
	if reportOverride != "" {
		report = reportOverride
	}

	for _, dir := range []string{root, report, filepath.Join(report, ConfigsDirName)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrReport,
				fmt.Sprintf("Can't create the output directory %s", dir),
				"Check write permissions in the output directory")
		}
	}

	return &RunDir{Root: root, Report: report}, nil
}

// Sink writes individual operation results into a run's report directory.
// Every result is written independently; a write failure for one artifact
// does not affect others.
type Sink struct {
	dir  string
	host string
}

// NewSink creates a sink writing into the given report directory for host.
func NewSink(dir, host string) *Sink {
	return &Sink{dir: dir, host: host}
}

// WriteJSON serializes v with two-space indentation to <artifact>_<host>.json.
func (s *Sink) WriteJSON(artifact string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrReport,
			fmt.Sprintf("Couldn't serialize %s results", artifact),
			"")
	}
	return s.write(s.fileName(artifact, "json"), append(data, '\n'))
}

// WriteText writes raw captured output to <artifact>_<host>.txt.
// Empty output still produces an (empty) file, so a present-but-empty file
// distinguishes "command produced nothing" from "operation never ran".
func (s *Sink) WriteText(artifact string, text []byte) error {
	return s.write(s.fileName(artifact, "txt"), text)
}

// WriteConfig writes a fetched remote file under configs/ using its base name.
func (s *Sink) WriteConfig(remotePath string, data []byte) error {
	base := filepath.Base(filepath.Clean(remotePath))
	if base == "." || base == "/" || base == ".." {
		return errors.New(errors.ErrReport,
			fmt.Sprintf("Refusing to store config with unusable name from %s", remotePath),
			"")
	}
	return s.write(filepath.Join(ConfigsDirName, base), data)
}

// Files returns the relative paths of everything written so far, sorted.
func (s *Sink) Files() ([]string, error) {
	var files []string
	err := filepath.Walk(s.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.dir, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrReport,
			"Couldn't list the report directory", "")
	}
	sort.Strings(files)
	return files, nil
}

// Dir returns the report directory path.
func (s *Sink) Dir() string {
	return s.dir
}

func (s *Sink) fileName(artifact, ext string) string {
	return fmt.Sprintf("%s_%s.%s", artifact, sanitizeHost(s.host), ext)
}

func (s *Sink) write(name string, data []byte) error {
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.WrapWithCode(err, errors.ErrReport,
			fmt.Sprintf("Couldn't write %s", name),
			"Check write permissions in the report directory")
	}
	return nil
}

// sanitizeHost makes a host safe for use inside a file name.
func sanitizeHost(host string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':':
			return '_'
		}
		return r
	}, host)
}
