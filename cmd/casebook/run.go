package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	casebook "github.com/edcworks/go-casebook"
	"github.com/edcworks/go-casebook/internal/config"
	"github.com/edcworks/go-casebook/internal/dateutil"
	"github.com/edcworks/go-casebook/internal/manifest"
)

// ErrNoManifest indicates that no manifest file could be located.
var ErrNoManifest = errors.New("no manifest found")

// Runner is the interface for the capture service.
type Runner interface {
	Run(ctx context.Context, input casebook.Input) (*casebook.RunReport, error)
	Close() error
}

// Compile-time interface implementation check.
var _ Runner = (*casebook.Service)(nil)

// newRunner creates the production service. Replaced in tests.
var newRunner = func(opts ...casebook.Option) Runner {
	return casebook.New(opts...)
}

// run wires config, credentials, and manifest into a single capture run and
// prints the report.
func run(env *Environment, flags *runFlags) (*casebook.RunReport, error) {
	warnUnknownEnvVars(env.Stderr)
	envCfg := loadEnvConfig()

	cfg, err := resolveConfig(flags, envCfg)
	if err != nil {
		return nil, err
	}
	applyEnvConfig(envCfg, cfg)

	creds, err := config.LoadCredentials(flags.credentials)
	if err != nil {
		return nil, err
	}

	entries, err := loadEntries(flags, cfg)
	if err != nil {
		return nil, err
	}

	opts, err := serviceOptions(env, flags, cfg)
	if err != nil {
		return nil, err
	}

	svc := newRunner(opts...)
	defer func() { _ = svc.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	casebookName := flags.casebookName
	if casebookName == "" {
		casebookName = cfg.Output.CasebookName
	}

	input := casebook.Input{
		Credentials:  casebook.Credentials{Username: creds.Username, Password: creds.Password},
		Entries:      entries,
		OutputDir:    resolveOutputDir(env.Now(), flags, cfg),
		CasebookName: casebookName,
	}

	fmt.Fprintf(env.Stdout, "Capturing %d CRF pages into %s\n", len(entries), input.OutputDir)

	report, err := svc.Run(ctx, input)
	if report != nil {
		printReport(env, report)
	}
	return report, err
}

// resolveConfig loads the YAML config named by flag or env, or returns
// defaults when neither is set.
func resolveConfig(flags *runFlags, envCfg *envConfig) (*config.Config, error) {
	name := flags.config
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}
	return config.LoadConfig(name)
}

// loadEntries reads the manifest and converts rows to entries.
func loadEntries(flags *runFlags, cfg *config.Config) ([]casebook.Entry, error) {
	path := flags.manifest
	if path == "" {
		path = cfg.Manifest.Path
	}
	if path == "" {
		path = config.DefaultManifestPath
	}

	rows, err := manifest.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoManifest, err)
	}

	entries := make([]casebook.Entry, len(rows))
	for i, row := range rows {
		entries[i] = casebook.Entry{Label: row.Label, URL: row.URL}
	}
	return entries, nil
}

// resolveOutputDir picks the run directory: flag > env/config base dir +
// date-stamped name.
func resolveOutputDir(now time.Time, flags *runFlags, cfg *config.Config) string {
	if flags.outputDir != "" {
		return flags.outputDir
	}
	return filepath.Join(cfg.Output.BaseDir, dateutil.OutputDirName(now))
}

// serviceOptions maps flags and config onto library options.
func serviceOptions(env *Environment, flags *runFlags, cfg *config.Config) ([]casebook.Option, error) {
	var opts []casebook.Option

	timeoutField := flags.timeout
	if timeoutField == "" {
		timeoutField = cfg.Session.Timeout
	}
	timeout, err := config.ParseTimeout(timeoutField, 30*time.Second)
	if err != nil {
		return nil, err
	}
	opts = append(opts, casebook.WithTimeout(timeout))

	loginWait, err := config.ParseTimeout(cfg.Session.LoginWait, 60*time.Second)
	if err != nil {
		return nil, err
	}
	opts = append(opts, casebook.WithLoginWait(loginWait))

	settleField := flags.settleDelay
	if settleField == "" {
		settleField = cfg.Capture.SettleDelay
	}
	settle, err := config.ParseTimeout(settleField, 3*time.Second)
	if err != nil {
		return nil, err
	}
	opts = append(opts, casebook.WithSettleDelay(settle))

	settings := casebook.SessionSettings{
		LoginURL:             cfg.Session.LoginURL,
		UsernameSelector:     cfg.Session.UsernameSelector,
		PasswordSelector:     cfg.Session.PasswordSelector,
		SignInSelector:       cfg.Session.SignInSelector,
		LandingSelector:      cfg.Session.LandingSelector,
		StripSelectors:       cfg.Capture.StripSelectors,
		SkipSelectAnnotation: flags.noAnnotate || !cfg.Capture.AnnotateSelects,
		ViewportWidth:        cfg.Capture.ViewportWidth,
		ViewportHeight:       cfg.Capture.ViewportHeight,
	}
	opts = append(opts, casebook.WithSessionSettings(settings))

	if flags.keepImages || cfg.Output.KeepImages {
		opts = append(opts, casebook.WithKeepImages())
	}
	if flags.keepPages || cfg.Output.KeepPagePDFs {
		opts = append(opts, casebook.WithKeepPagePDFs())
	}
	if !flags.nonInteractive {
		opts = append(opts, casebook.WithInteractivePrompt(env.Stdin))
	}

	if flags.verbose {
		opts = append(opts, casebook.WithProgress(func(res casebook.EntryResult) {
			switch res.Status {
			case casebook.StatusSkipped:
				fmt.Fprintf(env.Stderr, "skipped %s: %v\n", res.Entry.Label, res.Err)
			case casebook.StatusReused:
				fmt.Fprintf(env.Stderr, "reused %s\n", res.Entry.Label)
			default:
				fmt.Fprintf(env.Stderr, "captured %s\n", res.Entry.Label)
			}
		}))
	}

	return opts, nil
}

// printReport writes the run summary: per-entry outcomes for skipped pages
// and the casebook path when produced.
func printReport(env *Environment, report *casebook.RunReport) {
	fmt.Fprintf(env.Stdout, "Captured %d, reused %d, skipped %d\n",
		report.Captured(), report.Reused(), report.Skipped())

	for _, res := range report.Results {
		if res.Status == casebook.StatusSkipped {
			fmt.Fprintf(env.Stdout, "  skipped %s: %v\n", res.Entry.Label, res.Err)
		}
	}

	if report.CasebookPath != "" {
		fmt.Fprintf(env.Stdout, "Casebook: %s\n", report.CasebookPath)
	}
}
