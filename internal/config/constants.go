package config

import "time"

// Base application details
const AppName = "inkwell"
const ConfigDirName = "inkwell"
const ThemesDirName = "themes"
const DefaultThemeFileName = "theme.toml"
const DefaultConfigFileName = "config.toml"
const DefaultLogFileName = "inkwell.log"

// UI Layout
const StatusBarHeight = 1

// Status Bar
const MessageTimeout = 4 * time.Second

// Editing
const DefaultDebounce = 100 * time.Millisecond
const DefaultHistoryLimit = 500
const DefaultPlaceholder = "\u200b"
const SystemClipboard = true

// Autosave
const DefaultAutosaveInterval = 30 * time.Second
const MinAutosaveInterval = time.Second
