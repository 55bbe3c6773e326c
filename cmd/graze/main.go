// Command graze is a thin demonstration front-end over the graze search
// library. It owns flag parsing and result rendering only; the search
// logic itself lives entirely in the graze package.
package main

import (
	"context"
	"fmt"
	"os/signal"
	"runtime/debug"
	"sort"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/nullptr-dev/graze"
	"github.com/nullptr-dev/graze/internal/diag"
)

var version = "dev" // overridden by -ldflags "-X main.version=..."

func versionInfo() string {
	if version != "dev" {
		return version
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "dev"
	}
	var revision string
	var modified bool
	for _, kv := range info.Settings {
		switch kv.Key {
		case "vcs.revision":
			revision = kv.Value
		case "vcs.modified":
			modified = kv.Value == "true"
		}
	}
	if revision == "" {
		return "dev"
	}
	v := "dev-" + revision[:min(12, len(revision))]
	if modified {
		v += "-dirty"
	}
	return v
}

// VersionFlag implements kong's BeforeApply hook to print version and exit.
type VersionFlag bool

func (v VersionFlag) BeforeApply(app *kong.Kong, vars kong.Vars) error {
	fmt.Println(vars["version"])
	app.Exit(0)
	return nil
}

// CLI mirrors the public Request fields as flags, plus the usual
// version/verbosity conveniences.
type CLI struct {
	Version VersionFlag `help:"Print version and exit." short:"v" name:"version"`

	Pattern string `arg:"" optional:"" help:"Regular expression to search for."`
	Path    string `arg:"" optional:"" default:"." help:"Root path to search."`

	Glob    string   `help:"Glob filter, matched against the relative path or basename." short:"g" env:"GRAZE_GLOB"`
	Type    []string `help:"File type filter, repeatable (e.g. py, js, rust)." short:"t" env:"GRAZE_TYPE"`
	Mode    string   `help:"Output shape." enum:"content,files_with_matches,count,files" default:"files_with_matches" name:"output-mode" env:"GRAZE_OUTPUT_MODE"`
	Before  int      `help:"Lines of context before each match." short:"B" name:"before"`
	After   int      `help:"Lines of context after each match." short:"A" name:"after"`
	Context int      `help:"Lines of context on both sides; overridden by --before/--after." short:"C" name:"context"`

	LineNumbers bool `help:"Prefix content lines with their line number." short:"n" name:"line-number"`
	IgnoreCase  bool `help:"Case-insensitive matching." short:"i"`
	Multiline   bool `help:"Let . match newlines and evaluate the pattern across line boundaries." short:"U"`

	HeadLimit int     `help:"Cap the number of emitted output items." name:"head-limit"`
	Timeout   float64 `help:"Abort and report a timeout after this many seconds." env:"GRAZE_TIMEOUT"`

	Verbose bool `help:"Emit diagnostic logging to stderr." env:"GRAZE_VERBOSE"`
}

func main() {
	var cli CLI
	parser := kong.Parse(&cli,
		kong.Name("graze"),
		kong.Description("Recursive regex file search."),
		kong.Vars{"version": versionInfo()},
		kong.UsageOnError(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var logger diag.Logger = diag.DevNull
	if cli.Verbose {
		logger = diag.NewSlog(diag.LevelDebug)
	}

	req := graze.Request{
		Pattern:         cli.Pattern,
		Path:            cli.Path,
		Glob:            cli.Glob,
		Types:           cli.Type,
		OutputMode:      graze.OutputMode(cli.Mode),
		Before:          cli.Before,
		After:           cli.After,
		Context:         cli.Context,
		ShowLineNumbers: cli.LineNumbers,
		CaseInsensitive: cli.IgnoreCase,
		Multiline:       cli.Multiline,
		HeadLimit:       cli.HeadLimit,
		TimeoutSeconds:  cli.Timeout,
		Logger:          logger,
	}

	result, err := graze.Search(ctx, req)
	if err != nil {
		parser.FatalIfErrorf(err)
		return
	}

	render(result)
}

func render(result *graze.Result) {
	switch result.Mode {
	case graze.ModeContent:
		for _, line := range result.Lines {
			fmt.Println(line)
		}
	case graze.ModeCount:
		paths := make([]string, 0, len(result.Count))
		for p := range result.Count {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		for _, p := range paths {
			fmt.Printf("%s:%d\n", p, result.Count[p])
		}
	default:
		for _, p := range result.Files {
			fmt.Println(p)
		}
	}
}