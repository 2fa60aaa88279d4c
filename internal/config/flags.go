package config

import (
	"flag"
	"fmt"
	"strings"
	"time"
)

// Flags holds values parsed from command-line flags.
// Use pointers to distinguish between unset flags and zero-value flags.
type Flags struct {
	set *flag.FlagSet

	ConfigFilePath *string
	Version        *bool
	LogLevel       *string
	LogFilePath    *string
	EnableTags     *string
	DisableTags    *string
	EnablePkgs     *string
	DisablePkgs    *string
	EnableFiles    *string
	DisableFiles   *string

	Debounce        *time.Duration
	HistoryLimit    *int
	SystemClipboard *bool
	Autosave        *bool
	Theme           *string

	// Headless mode
	Dump *bool
	Exec *string
}

// DefineFlags registers the command-line flags on fs.
func (f *Flags) DefineFlags(fs *flag.FlagSet) {
	f.set = fs
	f.ConfigFilePath = fs.String("config", "", fmt.Sprintf("Path to TOML configuration file (default ~/.config/%s/%s)", ConfigDirName, DefaultConfigFileName))
	f.Version = fs.Bool("version", false, "Show version information and exit")
	f.LogLevel = fs.String("loglevel", "", "Log level (debug, info, warn, error) - Overrides config file")
	f.LogFilePath = fs.String("logfile", "", "Path to write log file (use '-' for stderr) - Overrides config file")
	f.EnableTags = fs.String("log-tags", "", "Comma-separated list of tags to enable - Overrides config file")
	f.DisableTags = fs.String("log-disable-tags", "", "Comma-separated list of tags to disable - Overrides config file")
	f.EnablePkgs = fs.String("log-packages", "", "Comma-separated list of packages to enable - Overrides config file")
	f.DisablePkgs = fs.String("log-disable-packages", "", "Comma-separated list of packages to disable - Overrides config file")
	f.EnableFiles = fs.String("log-files", "", "Comma-separated list of files to enable - Overrides config file")
	f.DisableFiles = fs.String("log-disable-files", "", "Comma-separated list of files to disable - Overrides config file")
	f.Debounce = fs.Duration("debounce", 0, "Quiet time before typing becomes one undo step - Overrides config file")
	f.HistoryLimit = fs.Int("history", -1, "Maximum undo steps, 0 for unlimited - Overrides config file")
	f.SystemClipboard = fs.Bool("system-clipboard", false, "Use the system clipboard for copy and paste")
	f.Autosave = fs.Bool("autosave", false, "Write the document periodically while it has unsaved changes")
	f.Theme = fs.String("theme", "", "Theme name or path to a theme TOML file")
	f.Dump = fs.Bool("dump", false, "Print the document HTML and exit instead of starting the editor")
	f.Exec = fs.String("exec", "", "Comma-separated toolbar commands to run on the whole document before -dump (e.g. bold,h2)")
}

// ParseFlags defines the flags on fs, parses args and returns the remaining
// non-flag arguments (e.g., the file path).
func (f *Flags) ParseFlags(fs *flag.FlagSet, args []string) ([]string, error) {
	f.DefineFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return fs.Args(), nil
}

// Commands returns the -exec tokens.
func (f *Flags) Commands() []string {
	if f.Exec == nil {
		return nil
	}
	return splitCommaList(*f.Exec)
}

// ApplyOverrides updates the Config struct with values from flags *if* they were set.
func (f *Flags) ApplyOverrides(cfg *Config) {
	if f.set == nil {
		return
	}
	f.set.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "loglevel":
			if *f.LogLevel != "" {
				cfg.Logger.LogLevel = *f.LogLevel
			}
		case "logfile":
			cfg.Logger.LogFilePath = *f.LogFilePath
		case "log-tags":
			cfg.Logger.EnabledTags = splitCommaList(*f.EnableTags)
		case "log-disable-tags":
			cfg.Logger.DisabledTags = splitCommaList(*f.DisableTags)
		case "log-packages":
			cfg.Logger.EnabledPackages = splitCommaList(*f.EnablePkgs)
		case "log-disable-packages":
			cfg.Logger.DisabledPackages = splitCommaList(*f.DisablePkgs)
		case "log-files":
			cfg.Logger.EnabledFiles = splitCommaList(*f.EnableFiles)
		case "log-disable-files":
			cfg.Logger.DisabledFiles = splitCommaList(*f.DisableFiles)
		case "debounce":
			if *f.Debounce > 0 {
				cfg.Editor.Debounce = *f.Debounce
			}
		case "history":
			if *f.HistoryLimit >= 0 {
				cfg.Editor.HistoryLimit = *f.HistoryLimit
			}
		case "system-clipboard":
			cfg.Editor.SystemClipboard = *f.SystemClipboard
		case "autosave":
			cfg.Editor.Autosave = *f.Autosave
		case "theme":
			cfg.Editor.Theme = *f.Theme
		}
	})
}

func splitCommaList(list string) []string {
	if list == "" {
		return nil
	}
	items := strings.Split(list, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
