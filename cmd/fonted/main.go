// Command fonted allows you to view and edit bitmap fonts for character
// displays and printers, and to export them as hex arrays for firmware.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/rusq/fonted/internal/config"
	"github.com/rusq/fonted/internal/editor"
	"github.com/rusq/fonted/internal/store"
)

var params = struct {
	store   string
	path    string
	key     string
	display string
	verbose bool
}{}

func init() {
	flag.Usage = usage
	flag.StringVar(&params.store, "store", "", "storage backend, bolt or sqlite (default $FONTED_STORE or bolt)")
	flag.StringVar(&params.path, "path", "", "storage file (default $FONTED_STORE_PATH or fonted.db)")
	flag.StringVar(&params.key, "key", "", "storage key (default $FONTED_STORE_KEY or working-font)")
	flag.StringVar(&params.display, "disp", ".#", "two characters used to show off and on pixels")
	flag.BoolVar(&params.verbose, "v", os.Getenv("DEBUG") == "1", "enable verbose logging")
}

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		config.Exitf("Error: %v", err)
	}
	if params.store != "" {
		cfg.Store = params.store
	}
	if params.path != "" {
		cfg.Path = params.path
	}
	if params.key != "" {
		cfg.Key = params.key
	}
	if params.verbose || cfg.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()
	if err := run(ctx, cfg, flag.Args(), os.Stdin, os.Stdout); err != nil {
		config.Exitf("Error: %v", err)
	}
}

func run(ctx context.Context, cfg config.Config, args []string, stdin io.Reader, stdout io.Writer) (err error) {
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("unknown command %q, run with -h for help", args[0])
	}
	if n := len(args) - 1; n < cmd.minArgs || n > cmd.maxArgs {
		return fmt.Errorf("usage: %s %s", args[0], cmd.usage)
	}
	disp, err := parseDisplay(params.display)
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.Store, cfg.Path)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	sess, err := editor.Open(ctx, st, cfg.Key, cfg.Debounce)
	if err != nil {
		return err
	}
	defer func() {
		// pending changes are written here.
		if cerr := sess.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("failed to save: %w", cerr))
		}
	}()

	e := &env{sess: sess, stdin: stdin, stdout: stdout, disp: disp}
	if err := cmd.fn(ctx, e, args[1:]); err != nil {
		return err
	}
	slog.Debug("done", "command", args[0], "store", cfg.Store, "path", cfg.Path, "key", cfg.Key)
	return nil
}

func parseDisplay(s string) ([2]rune, error) {
	r := []rune(s)
	if len(r) != 2 {
		return [2]rune{}, fmt.Errorf("-disp must be exactly two characters, got %q", s)
	}
	return [2]rune{r[0], r[1]}, nil
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "fonted - bitmap font editor for 5x8 and 9x16 character glyphs.\n\n")
	fmt.Fprintf(out, "The font is kept in a store (a BoltDB or SQLite database file) and every\n")
	fmt.Fprintf(out, "change is saved automatically. Characters may be given as themselves\n")
	fmt.Fprintf(out, "(A), or as a code (0x41, 65). Sizes are 5x8 or 9x16.\n\n")
	fmt.Fprintf(out, "Usage: %s [flags] <command> [args]\n\n", os.Args[0])
	fmt.Fprintf(out, "Commands:\n")
	for _, name := range commandNames() {
		fmt.Fprintf(out, "  %-13s %s\n", name, commands[name].usage)
	}
	fmt.Fprintf(out, "\nFlags:\n")
	flag.PrintDefaults()
}
