package cli

import (
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/calebmoore/hostaudit/internal/audit"
	"github.com/calebmoore/hostaudit/internal/config"
	"github.com/calebmoore/hostaudit/internal/errors"
	"github.com/calebmoore/hostaudit/internal/logger"
	"github.com/calebmoore/hostaudit/internal/report"
	"github.com/calebmoore/hostaudit/internal/target"
	"github.com/calebmoore/hostaudit/internal/ui"
	"github.com/calebmoore/hostaudit/pkg/sshutil"
)

// ReportDirEnv redirects where the report directory is created. The value is
// read once here and passed down explicitly.
const ReportDirEnv = "HOSTAUDIT_REPORT_DIR"

// auditCommand is the whole run: parse target, prepare directories, connect,
// execute the plan, print the summary.
func auditCommand(cmd *cobra.Command, arg string) error {
	cfg, err := config.LoadOrDefault(configFlag)
	if err != nil {
		return err
	}

	tgt, err := target.Parse(arg, portFlag, identityFlag)
	if err != nil {
		return err
	}

	if askPassFlag {
		password, err := promptPassword(tgt.String())
		if err != nil {
			return err
		}
		tgt.Password = password
	}

	plan := audit.DefaultPlan()
	plan.Extend(&audit.Plan{ConfigPaths: cfg.Configs})
	if planFlag != "" {
		extra, err := audit.LoadPlanFile(planFlag)
		if err != nil {
			return err
		}
		plan.Extend(extra)
	}

	base := cfg.Output
	if outputFlag != "" {
		base = outputFlag
	}
	runDir, err := report.NewRunDir(base, cfg.Prefix, tgt.Host, time.Now(), os.Getenv(ReportDirEnv))
	if err != nil {
		return err
	}

	connectTimeout := cfg.Timeout
	if timeoutFlag > 0 {
		connectTimeout = timeoutFlag
	}

	client, err := sshutil.Dial(sshutil.Options{
		Host:            tgt.Host,
		User:            tgt.User,
		Port:            tgt.Port,
		KeyPath:         tgt.KeyPath,
		Password:        tgt.Password,
		Timeout:         connectTimeout,
		InsecureHostKey: insecureFlag,
	})
	if err != nil {
		return err
	}
	defer client.Close()
	defer sshutil.CloseAgent()

	sink := report.NewSink(runDir.Report, tgt.Host)
	runner := audit.NewRunner(client, sink, logger.NewEnvLogger("[audit]"))

	runner.SetCommandTimeout(resolveCommandTimeout(
		cmd.Flags().Changed("command-timeout"), commandTimeoutFlag, cfg.CommandTimeout))

	progress := ui.NewProgressDisplay(os.Stdout)
	progress.SetQuiet(quietFlag)
	runner.SetProgress(func(name string, status audit.Status, detail string) {
		switch status {
		case audit.StatusOK:
			progress.Success(name)
		case audit.StatusFailed:
			progress.Fail(name, detail)
		case audit.StatusSkipped:
			progress.Skip(name, detail)
		}
	})

	sum := runner.Run(plan)

	files, err := sink.Files()
	if err != nil {
		return err
	}

	ui.RenderSummary(os.Stdout, ui.RunSummary{
		Host:      tgt.Host,
		Directory: runDir.Report,
		Files:     files,
		Succeeded: sum.Succeeded,
		Failed:    sum.Failed,
		Skipped:   sum.Skipped,
	})

	return nil
}

// resolveCommandTimeout picks the per-operation timeout. A flag the user set
// always wins, including an explicit 0 meaning "no limit"; an untouched flag
// defers to the config value.
func resolveCommandTimeout(flagSet bool, flagValue, configValue time.Duration) time.Duration {
	if flagSet {
		return flagValue
	}
	return configValue
}

// promptPassword reads a password from the terminal without echo.
func promptPassword(who string) (string, error) {
	fmt.Fprintf(os.Stderr, "%s's password: ", who)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't read the password",
			"--ask-pass needs an interactive terminal")
	}
	return string(password), nil
}
