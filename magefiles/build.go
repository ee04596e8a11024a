// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build mage

// Package main provides build targets for the inspector project using Mage.
//
// Usage:
//
//	mage build       Compile the inspector binary to bin/
//	mage test:all    Run all tests
//	mage test:race   Run all tests with the race detector
//	mage test:cover  Write a coverage profile to bin/coverage.out
//	mage lint        Run golangci-lint
//	mage demo        Build, then write the sample database to bin/sample.db
//	mage clean       Remove build artifacts
//	mage install     Install inspector to GOPATH/bin
//	mage stats       Print Go lines of code per package
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "inspector"
	binaryDir  = "bin"
	cmdDir     = "./cmd/inspector"
	sampleDB   = "sample.db"
)

// Build compiles the inspector binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Demo writes the sample database to bin/sample.db and lists its tables.
func Demo() error {
	mg.Deps(Build)
	bin := filepath.Join(binaryDir, binaryName)
	db := filepath.Join(binaryDir, sampleDB)
	if err := sh.RunV(bin, "demo", db); err != nil {
		return err
	}
	return sh.RunV(bin, "--database", db, "tables")
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}
