// Package cli implements the strategy-engine CLI commands.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/socialmize/strategy-engine/internal/llm"
	"github.com/socialmize/strategy-engine/internal/store"
	"github.com/spf13/cobra"
)

var (
	dbPath     string
	formatFlag string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "strategy-engine",
	Short: "AI content-strategy generation",
	Long:  "Generates, parses and manages AI content-strategy plans. SQLite-backed, single binary.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $STRATEGY_ENGINE_DB or ~/.strategy-engine/strategy.db)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
}

func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	if env := os.Getenv("STRATEGY_ENGINE_DB"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".strategy-engine", "strategy.db")
}

func openStore() (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(getDBPath())
}

// newGenerator picks the text-generation provider from STRATEGY_ENGINE_LLM
// (openai or mock; default openai) and STRATEGY_ENGINE_MODEL.
func newGenerator() (llm.Generator, error) {
	switch os.Getenv("STRATEGY_ENGINE_LLM") {
	case "mock":
		return llm.MockGenerator{}, nil
	case "", "openai":
		return llm.NewOpenAIGenerator(os.Getenv("STRATEGY_ENGINE_MODEL"))
	default:
		return nil, fmt.Errorf("unknown provider %q (want openai or mock)", os.Getenv("STRATEGY_ENGINE_LLM"))
	}
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
