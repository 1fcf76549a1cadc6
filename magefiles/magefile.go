// Package main provides build targets for the tally library using Mage.
//
// Usage:
//
//	mage build    Compile all packages
//	mage test     Run all tests
//	mage lint     Run golangci-lint
//	mage cover    Run tests with coverage report
//	mage clean    Remove build artifacts

//go:build mage

package main

import (
	"os"

	"github.com/magefile/mage/sh"
)

const coverProfile = "cover.out"

// pkgs lists the library packages; the magefiles themselves are excluded.
var pkgs = []string{"./pkg/...", "./internal/..."}

// Build compiles every library package.
func Build() error {
	return sh.RunV("go", append([]string{"build"}, pkgs...)...)
}

// Test runs all tests.
func Test() error {
	return sh.RunV("go", append([]string{"test"}, pkgs...)...)
}

// Lint runs golangci-lint over the module.
func Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Cover runs tests with coverage and prints the per-function summary.
func Cover() error {
	args := append([]string{"test", "-coverprofile=" + coverProfile}, pkgs...)
	if err := sh.RunV("go", args...); err != nil {
		return err
	}
	return sh.RunV("go", "tool", "cover", "-func="+coverProfile)
}

// Clean removes build artifacts.
func Clean() error {
	return os.RemoveAll(coverProfile)
}
