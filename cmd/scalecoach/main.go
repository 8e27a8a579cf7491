package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"scalecoach/internal/client"
	"scalecoach/internal/config"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "scalecoach",
		Short:   "ScaleCoach - piano scale practice tracker",
		Version: Version,
	}

	// Add subcommands
	rootCmd.AddCommand(logCmd())
	rootCmd.AddCommand(recentCmd())
	rootCmd.AddCommand(allCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(bestCmd())
	rootCmd.AddCommand(scalesCmd())
	rootCmd.AddCommand(dailyCmd())
	rootCmd.AddCommand(clearCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newFacade builds the client façade from the environment configuration
func newFacade() (*client.Facade, error) {
	cfg := config.Load()
	return client.New(client.Config{
		ServerURL:  cfg.ServerURL,
		StaticMode: cfg.StaticMode,
		Timeout:    cfg.RequestTimeout,
		CacheDir:   cfg.CacheDir,
	})
}
