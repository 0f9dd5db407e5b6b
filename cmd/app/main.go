package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"lox"
	"lox/internal/diag"
	"lox/internal/lexer"
	"lox/internal/log"
	"lox/internal/parser"
	"lox/internal/repl"
	"lox/internal/util"
)

var (
	// Version is stamped on release builds through -ldflags.
	Version   = "dev"
	BuildDate = "unknown"
	Commit    = "unknown"

	help    bool
	version bool
	// logging
	logLevel string
	logFile  string
	// pipeline config
	configPath   string
	debugTxtAST  bool
	debugJsonAST bool
	checkOnly    bool
	expression   string
)

func init() {
	flag.BoolVar(&help, "help", false, "Display help information and exit")
	flag.BoolVar(&help, "h", false, "Display help information and exit")
	flag.BoolVar(&version, "version", false, "Display version information and exit")
	flag.BoolVar(&version, "v", false, "Display version information and exit")
	// pipeline config
	flag.StringVar(&configPath, "config", "", "Load settings from a TOML file (explicit flags win)")
	flag.BoolVar(&debugTxtAST, "debug-ast", false, "Write the parsed AST next to the script as text")
	flag.BoolVar(&debugJsonAST, "debug-ast-json", false, "Write the parsed AST next to the script as JSON")
	flag.BoolVar(&checkOnly, "check", false, "Scan, parse and resolve the script without running it")
	flag.StringVar(&expression, "e", "", "Parse a single expression and print its rendered form")
	// log config
	flag.StringVar(&logLevel, "log-level", "none", "Log level: trace, debug, info, warn, error, none")
	flag.StringVar(&logFile, "log-file", "", "Log file path (if not set, logs to stderr)")
}

func main() {

	flag.Parse()

	config := resolveConfiguration()

	logOutput := log.Open(config.LogFile)
	defer logOutput.Close()
	loggerOptions := &slog.HandlerOptions{
		AddSource: false,
		Level:     log.ParseLevel(config.LogLevel),
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(logOutput, loggerOptions)))

	if version {
		printVersion()
		return
	}

	if help {
		printHelp()
		return
	}

	console := &repl.Console{Out: os.Stdout}

	switch {
	case expression != "":
		lox.ParseExpression(console, expression)
	case flag.NArg() == 0:
		repl.Start(os.Stdin, os.Stdout)
		return
	case flag.NArg() == 1:
		runFile(console, flag.Arg(0), config)
	default:
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [script]\n", os.Args[0])
		os.Exit(64)
	}

	if console.HasDiagnostics() {
		os.Exit(70)
	}
}

// resolveConfiguration merges the optional TOML configuration file with
// the command line. The file supplies defaults; flags given explicitly
// override it.
func resolveConfiguration() util.Configuration {
	config := util.Configuration{
		Version:      Version,
		BuildDate:    BuildDate,
		Commit:       Commit,
		LogLevel:     logLevel,
		LogFile:      logFile,
		DebugTxtAST:  debugTxtAST,
		DebugJsonAST: debugJsonAST,
		CheckOnly:    checkOnly,
	}
	if configPath == "" {
		return config
	}

	if err := util.LoadConfiguration(configPath, &config); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config file '%s': %v\n", configPath, err)
		os.Exit(64)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log-level":
			config.LogLevel = logLevel
		case "log-file":
			config.LogFile = logFile
		case "debug-ast":
			config.DebugTxtAST = debugTxtAST
		case "debug-ast-json":
			config.DebugJsonAST = debugJsonAST
		}
	})
	return config
}

func runFile(console *repl.Console, path string, config util.Configuration) {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	src := string(source)

	if config.DebugTxtAST || config.DebugJsonAST {
		writeASTDumps(path, src, config)
	}

	if config.CheckOnly {
		lox.Resolve(console, src)
	} else {
		lox.Run(console, src)
	}

	for _, d := range console.Diagnostics {
		slog.Debug("diagnostic",
			slog.String("message", d.Message),
			slog.String("context", util.ContextLines(src, diag.Span{Start: d.Start, End: d.End})),
		)
	}
}

// writeASTDumps parses the script on its own and renders the AST next
// to it as <path>.ast.txt and <path>.ast.json. Scan or parse errors
// are left for the run itself to report.
func writeASTDumps(path, src string, config util.Configuration) {
	sink := diag.NewSink()
	tokens := lexer.Scan(src, sink)
	if sink.HasDiagnostics() {
		return
	}
	program := parser.New(sink, tokens).ParseProgram()
	if sink.HasDiagnostics() {
		return
	}

	if config.DebugJsonAST {
		rendered, err := parser.RenderASTAsJSON(program)
		if err != nil {
			slog.Error("Failed to render AST as JSON",
				slog.Any("error", err))
		} else if err := os.WriteFile(path+".ast.json", []byte(rendered), 0644); err != nil {
			slog.Error("Failed to write AST as JSON",
				slog.Any("error", err))
		}
	}
	if config.DebugTxtAST {
		if err := os.WriteFile(path+".ast.txt", []byte(parser.RenderProgram(program)), 0644); err != nil {
			slog.Error("Failed to write AST as text",
				slog.Any("error", err))
		}
	}
}

func printVersion() {

	fmt.Printf("lox version 'v%s' %s %s\n", Version, BuildDate, Commit)
}

func printHelp() {
	fmt.Printf(`Usage: lox [options] [script]

Options:
  -e <expression>    Parse a single expression and print its rendered form.
  -check             Scan, parse and resolve the script without running it.
  -debug-ast         Write the parsed AST next to the script as text.
  -debug-ast-json    Write the parsed AST next to the script as JSON.
  -config <path>     Load settings from a TOML file. Explicit flags win.
  -help              Display this help information and exit.
  -version           Display version information and exit.
  -log-level <level> Set the log level: trace, debug, info, warn, error, none. Default is 'none'.
  -log-file <path>   Specify a log file to write logs. Default is stderr.

Details:
With a script path the file runs top to bottom; messages and
diagnostics print to standard output and the exit status is 70 when
any diagnostics were produced. With no script an interactive prompt
starts: every line runs as a complete program, and a blank line ends
the session.

Examples:
  lox script.lox                Run the script
  lox -check script.lox         Report diagnostics without running
  lox -e "1 + 2 * 3"            Show the parsed form of one expression
  lox -log-level=debug          Start the prompt with debug logging

Version Information:
  Version:    %s
  Build Date: %s
  Commit:     %s
`, Version, BuildDate, Commit)
}
