package main

import (
	"provision-machine/cmd" // CLI commands and execution logic
)

// main is the program entry point; it delegates to cmd.Execute().
//
// provision-machine bootstraps a developer workstation from a declarative
// YAML catalog of applications. For each catalog entry it first detects
// whether the application is already present (install paths, PATH lookup,
// package manager listings), installs it through the configured backend
// (scoop, winget, direct download, or a custom command) only when it is
// not, and re-detects afterwards to verify the result. Every entry is
// processed even when earlier ones fail; the run ends with a summary
// report of successes and failures.
//
// Beyond provisioning it can generate an SSH key and dotfile symlinks
// once the version control tool is in place, and purge configured
// cache/temp directories via the clean subcommand.
func main() {
	cmd.Execute()
}
