package main

import (
	_ "embed"
	"strings"

	"go.uber.org/zap"

	"github.com/seuros/hirefunnel/internal/cli"
	"github.com/seuros/hirefunnel/internal/logging"
)

//go:embed VERSION
var versionFile string

//go:embed dashboard.html
var dashboardTemplate []byte

var executeCLI = cli.Execute

func run() error {
	version := strings.TrimSpace(versionFile)
	return executeCLI(version, dashboardTemplate)
}

func main() {
	if err := run(); err != nil {
		logging.Fatal("hirefunnel execution failed", zap.Error(err))
	}
}
