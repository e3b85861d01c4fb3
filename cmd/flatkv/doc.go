// Package main provides the entry point for the flatkv CLI.
//
// The CLI tool provides command-line access to a flatkv store for:
//
//   - Reading and writing entries (get, set, del)
//   - Inspecting the store (keys, count)
//   - Backup and retention (backup --keep)
//   - Following external changes (watch)
//   - Removing the backing file (destroy)
//
// Usage:
//
//	flatkv [command] [flags]
//	flatkv --dir /var/lib/flatkv set user:1 '{"name":"ada"}'
//	flatkv --encrypt get user:1
//
// Configuration comes from flags, FLATKV_* environment variables and
// an optional YAML file, in that order of priority.
package main
