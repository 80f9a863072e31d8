//go:build mage

package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binary  = "hirefunnel"
	mainPkg = "./cmd/hirefunnel"
)

func ldflags() string {
	return "-s -w"
}

// Build builds HireFunnel for Linux with Green Tea GC
func Build() error {
	fmt.Println("Building HireFunnel for Linux with Go 1.25 + Green Tea GC...")
	env := map[string]string{
		"GOOS":         "linux",
		"GOARCH":       "amd64",
		"GOEXPERIMENT": "greenteagc",
	}
	return sh.RunWith(env, "go", "build", "-ldflags", ldflags(), "-o", binary+"-linux-amd64", mainPkg)
}

// BuildDocker builds the container variant (no self-upgrade, trusted proxy)
func BuildDocker() error {
	fmt.Println("Building HireFunnel for containers...")
	env := map[string]string{
		"GOOS":        "linux",
		"CGO_ENABLED": "0",
	}
	return sh.RunWith(env, "go", "build", "-tags", "docker", "-ldflags", ldflags(), "-o", binary+"-docker", mainPkg)
}

// BuildLocal builds HireFunnel for current platform
func BuildLocal() error {
	fmt.Printf("Building HireFunnel for %s/%s...\n", runtime.GOOS, runtime.GOARCH)
	return sh.Run("go", "build", "-o", binary, mainPkg)
}

// Test runs tests
func Test() error {
	fmt.Println("Running tests...")
	return sh.Run("go", "test", "-race", "./...")
}

// TestDocker runs tests with the docker build tag
func TestDocker() error {
	fmt.Println("Running tests (docker tag)...")
	return sh.Run("go", "test", "-tags", "docker", "./...")
}

// Clean removes build artifacts
func Clean() error {
	fmt.Println("Cleaning build artifacts...")
	for _, f := range []string{binary, binary + "-linux-amd64", binary + "-docker"} {
		if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// Fmt runs gofmt on all Go files
func Fmt() error {
	fmt.Println("Formatting code...")
	return sh.Run("go", "fmt", "./...")
}

// Vet runs go vet on all Go files
func Vet() error {
	fmt.Println("Vetting code...")
	return sh.Run("go", "vet", "./...")
}

// Bench runs benchmarks
func Bench() error {
	fmt.Println("Running benchmarks...")
	return sh.Run("go", "test", "-run=^$", "-bench=.", "./internal/funnel/...")
}

// Tidy tidies go.mod
func Tidy() error {
	fmt.Println("Tidying go.mod...")
	return sh.Run("go", "mod", "tidy")
}

// CI runs all checks for continuous integration
func CI() error {
	mg.SerialDeps(Fmt, Vet, Test, TestDocker)
	fmt.Println("All CI checks passed!")
	return nil
}
