//go:build mage

package main

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

// run invokes the built pubharvest binary with the given subcommand.
func run(args ...string) error {
	cmd := exec.Command(filepath.Join(binDir, binName), args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// Search discovers PMIDs for the configured keywords and date range.
func Search() error {
	mg.Deps(Build)
	return run("search")
}

// Harvest fetches records for the discovered PMIDs and exports the dataset.
func Harvest() error {
	mg.Deps(Build)
	return run("harvest")
}

// Export re-runs classification and rendering on the harvested dataset.
func Export() error {
	mg.Deps(Build)
	return run("export")
}

// Index loads the harvested dataset into the SQLite archive.
func Index() error {
	mg.Deps(Build)
	return run("index")
}
