// Command ward is the CLI surface of §6: it turns translation-unit
// paths and config files on disk into the Config and CallMap values the
// core packages consume, drives the pipeline of §2 end to end, and
// renders the resulting diagnostics or call graph.
//
// Everything in this file is the "external collaborator" territory §1
// carves out of the core: argument parsing, invoking the preprocessor,
// config-file and source-file I/O, and output rendering. The core
// packages (cast, callseq, namemap, callmap, analyzer) never import
// this package or know it exists.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/wardcheck/ward/analyzer"
	"github.com/wardcheck/ward/callmap"
	"github.com/wardcheck/ward/config"
	"github.com/wardcheck/ward/cparse"
	"github.com/wardcheck/ward/diagnose"
	"github.com/wardcheck/ward/graph"
	"github.com/wardcheck/ward/ident"
	"github.com/wardcheck/ward/namemap"
)

// Exit codes (§7 "exit non-zero iff at least one Error entry was
// emitted... parse/config errors exit with a distinct non-zero code").
const (
	exitOK         = 0
	exitAnalysis   = 1
	exitSetupError = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	configPaths  []string
	preprocessor string
	ppFlags      []string
	mode         string
	action       string
	paths        []string
}

func parseOptions(args []string) (*options, error) {
	flagSet := pflag.NewFlagSet("ward", pflag.ContinueOnError)
	opts := &options{}
	flagSet.StringArrayVar(&opts.configPaths, "config", nil, "config file to merge into the declared policy (repeatable)")
	flagSet.StringVar(&opts.preprocessor, "preprocessor", "gcc", "preprocessor executable")
	flagSet.StringArrayVarP(&opts.ppFlags, "preprocessor-flag", "P", nil, "flag to pass through to the preprocessor, without its leading '-'")
	flagSet.StringVar(&opts.mode, "mode", "compiler", "output format: compiler|html")
	flagSet.StringVar(&opts.action, "action", "analysis", "analysis|graph: run the analyzer, or dump the call graph and exit")
	if err := flagSet.Parse(args); err != nil {
		return nil, err
	}
	opts.paths = flagSet.Args()
	if opts.mode != "compiler" && opts.mode != "html" {
		return nil, fmt.Errorf("--mode must be compiler or html, got %q", opts.mode)
	}
	if opts.action != "analysis" && opts.action != "graph" {
		return nil, fmt.Errorf("--action must be analysis or graph, got %q", opts.action)
	}
	if len(opts.paths) == 0 {
		return nil, fmt.Errorf("no translation-unit paths given")
	}
	return opts, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseOptions(args)
	if err != nil {
		fmt.Fprintf(stderr, "ward: %v\n", err)
		return exitSetupError
	}

	policy, err := loadPolicy(opts.configPaths)
	if err != nil {
		fmt.Fprintf(stderr, "ward: %v\n", err)
		return exitSetupError
	}

	cm, warnings, err := buildCallMap(opts)
	if err != nil {
		fmt.Fprintf(stderr, "ward: %v\n", err)
		return exitSetupError
	}

	if opts.action == "graph" {
		data, err := graph.Dump(cm)
		if err != nil {
			fmt.Fprintf(stderr, "ward: %v\n", err)
			return exitSetupError
		}
		stdout.Write(data)
		fmt.Fprintln(stdout)
		return exitOK
	}

	sink := diagnose.NewSink()
	go func() {
		for _, w := range warnings {
			sink.Emit(w)
		}
		result := analyzer.Analyze(cm, analyzer.Config{Policy: policy})
		for _, e := range result.Diagnostics {
			sink.Emit(e)
		}
		sink.Close()
	}()

	var summary diagnose.Summary
	switch opts.mode {
	case "html":
		summary = diagnose.DrainHTML(stdout, sink, newSourceCache().lookup)
	default:
		summary = diagnose.DrainColor(stdout, sink)
	}

	if summary.Errors > 0 {
		return exitAnalysis
	}
	return exitOK
}

func loadPolicy(paths []string) (*config.Config, error) {
	policy := config.New()
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config %q: %w", path, err)
		}
		parsed, err := config.Parse(string(data))
		if err != nil {
			return nil, fmt.Errorf("parsing config %q: %w", path, err)
		}
		policy = config.Merge(policy, parsed)
	}
	return policy, nil
}

// buildCallMap ingests every positional path — preprocessing and
// parsing C sources, or parsing call-graph JSON documents by extension
// — and folds the results into one CallMap (§2 steps 1-3, plus the
// graph-document alternate input path of §6).
func buildCallMap(opts *options) (callmap.CallMap, []diagnose.Entry, error) {
	var units []ident.Unit
	var graphMaps []callmap.CallMap
	for _, path := range opts.paths {
		if strings.EqualFold(filepath.Ext(path), ".json") {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, nil, fmt.Errorf("reading call-graph document %q: %w", path, err)
			}
			gm, err := graph.Parse(data)
			if err != nil {
				return nil, nil, fmt.Errorf("parsing call-graph document %q: %w", path, err)
			}
			graphMaps = append(graphMaps, gm)
			continue
		}
		preprocessed, err := preprocess(opts.preprocessor, opts.ppFlags, path)
		if err != nil {
			return nil, nil, err
		}
		tu, err := cparse.Parse(path, preprocessed)
		if err != nil {
			return nil, nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		units = append(units, ident.Unit{Path: path, AST: tu})
	}

	nm, permWarnings, err := namemap.BuildFromUnits(units)
	if err != nil {
		return nil, nil, err
	}
	cm, seqWarnings := callmap.Lower(nm)

	for _, gm := range graphMaps {
		cm, err = callmap.Merge(cm, gm)
		if err != nil {
			return nil, nil, err
		}
	}

	var diags []diagnose.Entry
	for _, w := range permWarnings {
		diags = append(diags, diagnose.Entry{Kind: diagnose.Warning, Position: w.Position, Text: w.Text})
	}
	for _, w := range seqWarnings {
		diags = append(diags, diagnose.Entry{Kind: diagnose.Warning, Position: w.Position, Text: w.Text})
	}
	return cm, diags, nil
}

// preprocess runs the configured preprocessor over path with -E,
// passing every ppFlag through re-prefixed with a single '-' (§6 "-P<flag>
// or similar: flags passed through to the preprocessor").
func preprocess(preprocessor string, ppFlags []string, path string) ([]byte, error) {
	args := []string{"-E"}
	for _, f := range ppFlags {
		args = append(args, "-"+f)
	}
	args = append(args, path)
	cmd := exec.Command(preprocessor, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("running %s on %q: %w: %s", preprocessor, path, err, stderr.String())
	}
	return out, nil
}

// sourceCache lazily reads and line-splits source files for DrainHTML's
// SourceLookup. A failed read just yields no context line; it never
// turns into an error the rest of the pipeline has to propagate.
type sourceCache struct {
	lines map[string][]string
}

func newSourceCache() *sourceCache {
	return &sourceCache{lines: make(map[string][]string)}
}

func (c *sourceCache) lookup(filename string, line int) string {
	if filename == "" || line <= 0 {
		return ""
	}
	lines, ok := c.lines[filename]
	if !ok {
		lines = readLines(filename)
		c.lines[filename] = lines
	}
	if line > len(lines) {
		return ""
	}
	return lines[line-1]
}

func readLines(filename string) []string {
	f, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer f.Close()
	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines
}
