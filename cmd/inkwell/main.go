// cmd/inkwell/main.go
package main

import (
	"flag"
	"fmt"
	"io"
	stlog "log" // standard log for fatal errors before the logger is ready
	"os"

	"github.com/bethropolis/inkwell/internal/app"
	"github.com/bethropolis/inkwell/internal/config"
	"github.com/bethropolis/inkwell/internal/logger"
)

const version = "0.1.0"

func main() {
	// --- Argument & Flag Parsing ---
	var flags config.Flags
	args, err := flags.ParseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	if *flags.Version {
		fmt.Printf("%s %s\n", config.AppName, version)
		return
	}
	var filePath string
	if len(args) > 0 {
		filePath = args[0]
	}

	// --- Configuration ---
	cfg, unknownKeys, cfgErr := config.LoadConfig(*flags.ConfigFilePath, &flags)

	// --- Logger Initialization ---
	var output io.Writer
	closeLog := func() error { return nil }
	if cfg.Logger.LogFilePath != "" {
		output, closeLog, err = logger.OpenOutput(cfg.Logger)
		if err != nil {
			stlog.Fatalf("Failed to open log output: %v", err)
		}
	}
	logger.Init(cfg.Logger, output)
	defer closeLog()

	if cfgErr != nil {
		logger.Warnf("Config: %v, using defaults", cfgErr)
	}
	for _, key := range unknownKeys {
		logger.Warnf("Config: unknown key '%s'", key)
	}
	logger.Infof("Starting %s %s", config.AppName, version)
	if filePath != "" {
		logger.Debugf("File path specified: %s", filePath)
	} else {
		logger.Debugf("No file specified, starting empty.")
	}

	// --- Headless ---
	if *flags.Dump {
		if err := app.Dump(cfg, filePath, flags.Commands(), os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", config.AppName, err)
			closeLog()
			os.Exit(1)
		}
		return
	}

	// --- Create and Run App ---
	inkwell, err := app.NewApp(cfg, filePath, nil)
	if err != nil {
		logger.Errorf("Error initializing application: %v", err)
		fmt.Fprintf(os.Stderr, "%s: %v\n", config.AppName, err)
		closeLog()
		os.Exit(1)
	}
	if err := inkwell.Run(); err != nil {
		logger.Errorf("Application exited with error: %v", err)
		closeLog()
		os.Exit(1)
	}
	logger.Infof("%s finished.", config.AppName)
}
