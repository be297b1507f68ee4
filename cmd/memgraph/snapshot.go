package main

import (
	"errors"
	"fmt"

	"github.com/abstract-base-method/memgraph"
	badgerstore "github.com/abstract-base-method/memgraph/badger"
	redisstore "github.com/abstract-base-method/memgraph/redis"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

type snapshotBackend interface {
	memgraph.SnapshotStore
	Close() error
}

func (a *app) openStore() (snapshotBackend, error) {
	switch backend := a.v.GetString("backend"); backend {
	case "redis":
		return redisstore.NewSnapshotStore(&redis.Options{
			Addr: a.v.GetString("redis-addr"),
			DB:   a.v.GetInt("redis-db"),
		})
	case "badger":
		dir := a.v.GetString("badger-dir")
		if dir == "" {
			return nil, errors.New("--badger-dir is required for the badger backend")
		}
		return badgerstore.Open(badgerstore.Config{
			Path:       dir,
			SyncWrites: true,
			Logger:     a.log.With("backend", backend),
		})
	default:
		return nil, fmt.Errorf("unknown snapshot backend %q", backend)
	}
}

func (a *app) pushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "push NAME",
		Short: "Store the graph document as a named snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.openGraph()
			if err != nil {
				return err
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Save(cmd.Context(), args[0], g); err != nil {
				return err
			}
			a.log.Info("pushed snapshot", "name", args[0], "nodes", g.Len())
			return nil
		},
	}
}

func (a *app) pullCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pull NAME",
		Short: "Replace the graph document with a named snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.newGraph()
			if err != nil {
				return err
			}
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Load(cmd.Context(), args[0], g); err != nil {
				return err
			}
			if err := g.SaveFile(a.v.GetString("file")); err != nil {
				return err
			}
			a.log.Info("pulled snapshot", "name", args[0], "nodes", g.Len())
			return nil
		},
	}
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List snapshot names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			names, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a named snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()
			return store.Delete(cmd.Context(), args[0])
		},
	}
}
