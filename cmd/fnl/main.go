package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	functional "github.com/klmr/functional"
)

const (
	appName     = "fnl"
	historyFile = ".fnl_history"
	promptMain  = "==> "
	promptCont  = "... "
)

var banner = fmt.Sprintf("functional %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.", functional.Version)

const helpText = `
REPL commands:
  :quit       Exit the REPL
  :help       Show this help
  :doc NAME   Show the docstring of a builtin
`

func red(s string) string  { return "\x1b[31m" + s + "\x1b[0m" }
func blue(s string) string { return "\x1b[94m" + s + "\x1b[0m" }

func main() {
	if len(os.Args) < 2 {
		os.Exit(cmdRepl(nil))
	}
	switch cmd := os.Args[1]; cmd {
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "version":
		fmt.Println(functional.Version)
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`Usage: %s [command]

Commands:
  repl           Start an interactive session (default)
  run FILE       Evaluate a source file
  version        Print the library version
`, appName)
}

func cmdRun(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "run expects exactly one file")
		return 2
	}
	src, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return 1
	}
	ip := functional.NewRuntime()
	if _, err := ip.EvalPersistentSource(string(src)); err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return 1
	}
	return 0
}

// readByParseProbe accumulates lines until the input parses, or fails with a
// hard (non-incomplete) error, and returns the collected source.
func readByParseProbe(ln *liner.State) (string, bool) {
	var buf strings.Builder
	prompt := promptMain
	for {
		line, err := ln.Prompt(prompt)
		if err != nil {
			return "", false
		}
		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(line)
		code := buf.String()
		if strings.HasPrefix(strings.TrimSpace(code), ":") {
			return code, true
		}
		if _, perr := functional.ParseSExprInteractive(code); functional.IsIncomplete(perr) {
			prompt = promptCont
			continue
		}
		return code, true
	}
}

func cmdRepl(_ []string) int {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	ip := functional.NewRuntime()

	for {
		code, ok := readByParseProbe(ln)
		if !ok {
			fmt.Println()
			break
		}
		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, ":") {
			fields := strings.Fields(trimmed)
			switch fields[0] {
			case ":quit":
				return 0
			case ":help":
				fmt.Print(helpText)
			case ":doc":
				if len(fields) != 2 {
					fmt.Println("usage: :doc NAME")
					continue
				}
				showDoc(ip, fields[1])
			default:
				fmt.Println("unknown command. Type :help for commands.")
			}
			continue
		}

		v, err := ip.EvalPersistentSource(code)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			continue
		}
		fmt.Println(blue(functional.FormatValue(v)))
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}
	return 0
}

func showDoc(ip *functional.Interp, name string) {
	v, err := ip.Global.Get(name)
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	if meta, ok := ip.FunMeta(v); ok && meta.Doc() != "" {
		fmt.Println(meta.Doc())
		return
	}
	fmt.Printf("no documentation for %s\n", name)
}
