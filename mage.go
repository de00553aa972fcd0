//go:build mage

package main

import (
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	jetBotOutput          = "bot/gen"
	sqliteBotFileLocation = "bot.sqlite"
	serverBin             = "./bin/server"
	certgenBin            = "./bin/certgen"
)

const (
	toolsDir     = "tools/"
	toolsModfile = toolsDir + "go.mod"
	toolsBinDir  = toolsDir + "bin/"
	lintTool     = toolsBinDir + "golangci-lint"
	jetTool      = toolsBinDir + "jet"
	migrateTool  = toolsBinDir + "migrate"
)

const (
	serverConfigPath     = "configs/server.toml"
	botConfigPath        = "configs/bot.toml"
	testServerConfigPath = "../test_configs/server.toml"
	testBotConfigPath    = "../test_configs/bot.toml"
)

func goModDownload() error {
	return sh.Run("go", "mod", "download")
}

// Build builds the server binary
func Build() error {
	mg.Deps(goModDownload)
	return sh.RunWith(map[string]string{
		"CGO_ENABLED": "1",
	}, "go", "build", "-o", serverBin, "./cmd")
}

// Certgen builds the certificate generator and issues a dev certificate
func Certgen() error {
	if err := sh.Run("go", "build", "-o", certgenBin, "./cmd/certgen"); err != nil {
		return err
	}
	return sh.Run(certgenBin)
}

// Run starts the server
func Run() error {
	mg.Deps(Build)
	return sh.Run(serverBin, "-server-config", serverConfigPath, "-bot-config", botConfigPath)
}

// Test runs the unit tests
func Test() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// GenJet regenerates the go-jet models of the bot database
func GenJet() error {
	mg.Deps(buildJetTool, migrateBotDB)
	return sh.Run(jetTool, "-source", "sqlite", "-dsn", sqliteBotFileLocation, "-path", jetBotOutput)
}

func buildJetTool() error {
	return sh.RunWith(map[string]string{
		"CGO_ENABLED": "1",
	}, "go", "build", "-modfile", toolsModfile, "-o", jetTool, "github.com/go-jet/jet/v2/cmd/jet")
}

func migrateBotDB() error {
	mg.Deps(buildMigrateTool)
	return sh.Run(migrateTool, "-path", "bot/migrations", "-database", "sqlite3://"+sqliteBotFileLocation, "up")
}

func buildMigrateTool() error {
	return sh.RunWith(map[string]string{
		"CGO_ENABLED": "1",
	}, "go", "build", "-modfile", toolsModfile, "-tags", "sqlite3", "-o", migrateTool,
		"github.com/golang-migrate/migrate/v4/cmd/migrate")
}

func Lint() error {
	mg.Deps(buildLintTool)
	return sh.Run(lintTool, "run", "./...")
}

func buildLintTool() error {
	return sh.Run(
		"go", "build",
		"-modfile", toolsModfile,
		"-o", lintTool,
		"github.com/golangci/golangci-lint/cmd/golangci-lint",
	)
}

// AutoTest builds the server and drives it with the browser suite
func AutoTest() error {
	mg.Deps(Build)
	if err := os.Chdir("tests"); err != nil {
		return err
	}
	return sh.RunV(
		"go", "test", "-v", "-tags", "e2e", ".",
		"-server-config", testServerConfigPath,
		"-bot-config", testBotConfigPath,
	)
}
