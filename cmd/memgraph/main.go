// Package main provides the memgraph binary: a small command line front end
// that edits a graph document on disk and moves it to and from snapshot stores.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const appName = "memgraph"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type app struct {
	v   *viper.Viper
	log *log.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New(), log: log.Default()}

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Inspect and edit an undirected graph document",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := log.InfoLevel
			if a.v.GetBool("verbose") {
				level = log.DebugLevel
			}
			a.log = log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
				Prefix: appName,
				Level:  level,
			})
			// the snapshot stores log through the package level logger
			log.SetDefault(a.log)
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringP("file", "f", "graph.json", "graph document to read and write")
	flags.String("format", "", "document format, json or yaml (default: from the file extension)")
	flags.Bool("verbose", false, "enable debug logging")
	flags.String("backend", "redis", "snapshot store for push and pull, redis or badger")
	flags.String("redis-addr", "localhost:6379", "redis address")
	flags.Int("redis-db", 0, "redis database")
	flags.String("badger-dir", "", "badger database directory")
	_ = a.v.BindPFlags(flags)

	a.v.SetEnvPrefix(strings.ToUpper(appName))
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	cmd.AddCommand(
		a.addNodeCmd(),
		a.addEdgeCmd(),
		a.queryCmd(),
		a.pushCmd(),
		a.pullCmd(),
		a.listCmd(),
		a.deleteCmd(),
	)
	return cmd
}
