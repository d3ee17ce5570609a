// Package main is the entry point for the reklamacije CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hotelops/reklamacije/internal/app"
	"github.com/hotelops/reklamacije/internal/cli"
	"github.com/hotelops/reklamacije/internal/domain"
)

// version is set at build time using -ldflags.
var version = "dev"

// closeTimeout bounds how long pending notifications may delay exit.
const closeTimeout = 10 * time.Second

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, cli.ExitMessage(err))
		os.Exit(1)
	}
}

func run(args []string) error {
	dataDir, err := dataDirFromArgs(args)
	if err != nil {
		return err
	}

	container, err := app.New(dataDir)
	if err != nil {
		// Help and version still work when the store cannot be opened.
		if canRunWithoutContainer(args) {
			return cli.NewRootCommand(nil, version).Execute()
		}
		return fmt.Errorf("failed to initialize: %w", err)
	}

	ctx := context.Background()
	container.Start(ctx)
	defer func() {
		closeCtx, cancel := context.WithTimeout(ctx, closeTimeout)
		defer cancel()
		if cerr := container.Close(closeCtx); cerr != nil {
			fmt.Fprintln(os.Stderr, "Warning: "+cerr.Error())
		}
	}()

	rootCmd := cli.NewRootCommand(container, version)
	return rootCmd.ExecuteContext(ctx)
}

// dataDirFromArgs returns the --data-dir value, or .reklamacije under the
// working directory. The container is built before cobra parses flags.
func dataDirFromArgs(args []string) (string, error) {
	for i, arg := range args {
		if arg == "--" {
			break
		}
		if v, ok := strings.CutPrefix(arg, "--data-dir="); ok {
			return filepath.Abs(v)
		}
		if arg == "--data-dir" && i+1 < len(args) {
			return filepath.Abs(args[i+1])
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	return domain.DataDir(cwd), nil
}

func canRunWithoutContainer(args []string) bool {
	if len(args) == 0 {
		return true
	}
	if args[0] == "help" {
		return true
	}
	for _, arg := range args {
		if arg == "--version" || arg == "-v" || arg == "--help" || arg == "-h" {
			return true
		}
	}
	return false
}
