package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/uKV/cmd/kv"
	"github.com/ValentinKolb/uKV/cmd/serve"
	"github.com/spf13/cobra"
)

const (
	Version = "0.3.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "ukv",
		Short: "udp key-value store",
		Long: fmt.Sprintf(`uKV (v%s)

A small key-value store reachable over a single UDP socket.
Clients send plain text commands (CREATE, READ, UPDATE, DELETE,
APPEND, REMOVE), the data is kept as one JSON snapshot on disk.`, Version),
		SilenceUsage: true,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of uKV",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("uKV v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(kv.KeyValueCommands)
	RootCmd.AddCommand(versionCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
