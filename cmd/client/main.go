package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/chzyer/readline"

	"github.com/tuannm99/novaparse/internal"
	"github.com/tuannm99/novaparse/internal/shell"
	"github.com/tuannm99/novaparse/sqlclient"
)

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".novaparse_history"
	}
	return filepath.Join(home, ".novaparse_history")
}

func main() {
	var (
		cfgPath    = flag.String("config", "", "YAML config file (reloaded on change)")
		addr       = flag.String("addr", "", "parse server address; empty parses locally")
		timeout    = flag.Duration("timeout", 3*time.Second, "dial and request timeout")
		histPath   = flag.String("history", defaultHistoryPath(), "history file path")
		histMax    = flag.Int("history-max", 2000, "max history lines loaded into memory")
		format     = flag.String("format", "tree", "output format: tree, sql, json, yaml")
		oneShotSQL = flag.String("c", "", "parse one statement and exit (must end with ';')")
	)
	flag.Parse()

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	// the interactive shell, once built; config reloads apply to it
	var live atomic.Pointer[shell.Shell]

	cfg := internal.DefaultConfig()
	if *cfgPath != "" {
		var err error
		cfg, err = internal.WatchConfig(*cfgPath, func(c *internal.Config) {
			if sh := live.Load(); sh != nil {
				applyConfig(sh, c, set["format"])
			}
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
			os.Exit(1)
		}
		if !set["format"] {
			*format = cfg.Shell.Format
		}
		if !set["history"] && cfg.Shell.History != "" {
			*histPath = cfg.Shell.History
		}
		if !set["history-max"] {
			*histMax = cfg.Shell.HistoryMax
		}
	}
	setupLogging(cfg.Log.Level)

	f, err := shell.ParseFormat(*format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	backend, closeBackend, err := openBackend(*addr, *timeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dial: %v\n", err)
		os.Exit(1)
	}
	defer closeBackend()

	ctx := context.Background()

	// one-shot mode
	if strings.TrimSpace(*oneShotSQL) != "" {
		sh := shell.New(backend, os.Stdout, nil)
		sh.SetFormat(f)
		if err := sh.Exec(ctx, strings.TrimSpace(*oneShotSQL)); err != nil {
			closeBackend()
			os.Exit(1)
		}
		return
	}

	h := shell.NewHistory(*histPath, *histMax)
	_ = h.Load()

	sh := shell.New(backend, os.Stdout, h)
	sh.SetFormat(f)
	if cfg.Shell.Prompt != "" {
		sh.SetPrompt(cfg.Shell.Prompt)
	}
	live.Store(sh)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          sh.Prompt(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "readline: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = rl.Close() }()

	// preload history into readline so up-arrow works immediately
	for _, line := range h.Lines() {
		_ = rl.SaveHistory(line)
	}
	sh.OnExecute = func(stmt string) {
		_ = rl.SaveHistory(strings.Join(strings.Fields(stmt), " "))
	}

	if *addr != "" {
		fmt.Printf("connected to %s\n", *addr)
	}
	fmt.Println("type \\help for help")

	for {
		rl.SetPrompt(sh.Prompt())
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			// Ctrl+C clears the current buffer
			if !sh.Interrupt() {
				fmt.Println("^C")
			}
			continue
		}
		if err != nil {
			// EOF
			fmt.Println()
			return
		}

		if sh.Feed(ctx, line) == shell.StatusQuit {
			return
		}
	}
}

func openBackend(addr string, timeout time.Duration) (shell.Backend, func(), error) {
	if addr == "" {
		return shell.Local{}, func() {}, nil
	}
	cli, err := sqlclient.Dial(addr, timeout)
	if err != nil {
		return nil, nil, err
	}
	cli.SetRWTimeout(timeout)
	return cli, func() { _ = cli.Close() }, nil
}

// applyConfig updates a running shell. An explicit -format flag wins over
// the file.
func applyConfig(sh *shell.Shell, c *internal.Config, formatFlag bool) {
	if f, err := shell.ParseFormat(c.Shell.Format); err == nil && !formatFlag {
		sh.SetFormat(f)
	}
	if c.Shell.Prompt != "" {
		sh.SetPrompt(c.Shell.Prompt)
	}
}

func setupLogging(level string) {
	lvl, err := internal.ParseLogLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}
