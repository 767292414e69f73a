// Package config loads textcmd settings.
//
// Settings are resolved in order, later sources winning:
//
//  1. Built-in defaults (Default)
//  2. A TOML file (Load / LoadFile)
//  3. TEXTCMD_* environment variables (ApplyEnv)
//
// Example file:
//
//	[editor]
//	initial_text = "hello"
//	selection_policy = "checked"   # or "unchecked"
//	read_only = false
//
//	[history]
//	max_entries = 0                # 0 = unlimited
//
//	[log]
//	level = "info"
//	file = "/tmp/textcmd.log"
//
// A Watcher reloads the file when it changes on disk.
package config
