package main

import (
	flag "github.com/spf13/pflag"
)

// runFlags holds all CLI flags. Every flag has a sensible default so a bare
// `casebook` invocation works with just URLs.xlsx and credentials.env in the
// working directory.
type runFlags struct {
	config         string
	manifest       string
	credentials    string
	outputDir      string
	casebookName   string
	timeout        string
	settleDelay    string
	keepImages     bool
	keepPages      bool
	noAnnotate     bool
	nonInteractive bool
	verbose        bool
	version        bool
}

// parseFlags parses CLI arguments into runFlags.
func parseFlags(args []string) (*runFlags, error) {
	flags := &runFlags{}

	fs := flag.NewFlagSet("casebook", flag.ContinueOnError)
	fs.StringVarP(&flags.config, "config", "c", "", "config name or YAML file path")
	fs.StringVarP(&flags.manifest, "manifest", "m", "", "CRF manifest file (.xlsx or .csv)")
	fs.StringVar(&flags.credentials, "credentials", "", "credentials env file (default credentials.env)")
	fs.StringVarP(&flags.outputDir, "output-dir", "o", "", "run directory (default output_<DDMonYYYY>)")
	fs.StringVar(&flags.casebookName, "casebook-name", "", "merged PDF file name")
	fs.StringVar(&flags.timeout, "timeout", "", "per-navigation timeout (e.g. 45s)")
	fs.StringVar(&flags.settleDelay, "settle-delay", "", "post-load wait before capture (e.g. 3s)")
	fs.BoolVar(&flags.keepImages, "keep-images", false, "retain PNG screenshots")
	fs.BoolVar(&flags.keepPages, "keep-pages", false, "retain per-page PDFs after merge")
	fs.BoolVar(&flags.noAnnotate, "no-annotate", false, "do not annotate dropdowns with option texts")
	fs.BoolVar(&flags.nonInteractive, "non-interactive", false, "fail instead of prompting on a 2FA challenge")
	fs.BoolVarP(&flags.verbose, "verbose", "v", false, "verbose progress output")
	fs.BoolVar(&flags.version, "version", false, "print version and exit")

	if err := fs.Parse(args[1:]); err != nil {
		return nil, err
	}

	return flags, nil
}
