package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/abstract-base-method/memgraph"
	"github.com/spf13/cobra"
)

type graph = memgraph.MemoryGraph[string, any]

// newGraph returns an empty graph in the configured document format.
func (a *app) newGraph() (*graph, error) {
	name := a.v.GetString("format")
	if name == "" {
		name = filepath.Ext(a.v.GetString("file"))
	}
	format, err := memgraph.ParseFormat(name)
	if err != nil {
		return nil, err
	}
	return memgraph.NewMemoryGraph[string, any](&memgraph.Options{Logger: a.log, Format: format})
}

// openGraph loads the configured document, or starts an empty graph when the
// file does not exist yet.
func (a *app) openGraph() (*graph, error) {
	g, err := a.newGraph()
	if err != nil {
		return nil, err
	}
	if err := g.LoadFile(a.v.GetString("file")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return g, nil
}

func (a *app) addNodeCmd() *cobra.Command {
	var id, data string
	cmd := &cobra.Command{
		Use:   "add-node",
		Short: "Add a node; an existing id is left untouched",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var payload any
			if err := json.Unmarshal([]byte(data), &payload); err != nil {
				return fmt.Errorf("--data must be JSON: %w", err)
			}
			g, err := a.openGraph()
			if err != nil {
				return err
			}
			if id == "" {
				id = memgraph.NewID()
			}
			if !g.AddNode(id, payload) {
				a.log.Warn("node already present, data not replaced", "id", id)
			}
			if err := g.SaveFile(a.v.GetString("file")); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "node id (default: a new uuid)")
	cmd.Flags().StringVar(&data, "data", "{}", "node data as JSON")
	return cmd
}

func (a *app) addEdgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-edge A B",
		Short: "Connect two existing nodes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.openGraph()
			if err != nil {
				return err
			}
			if err := g.AddEdge(args[0], args[1]); err != nil {
				return err
			}
			return g.SaveFile(a.v.GetString("file"))
		},
	}
}

func (a *app) queryCmd() *cobra.Command {
	var id string
	var where []string
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Print the whole graph, the nodes matching --where, or the neighborhood of --id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			match, err := parseWhere(where)
			if err != nil {
				return err
			}
			g, err := a.openGraph()
			if err != nil {
				return err
			}

			query := memgraph.Query[string, any]{Match: match}
			if cmd.Flags().Changed("id") {
				query.ID = &id
			}
			result := g.Query(query)

			var out []byte
			switch {
			case query.ID != nil && result.Neighborhood == nil:
				a.log.Info("no such node", "id", id)
				out = []byte("null\n")
			case query.ID != nil:
				if out, err = json.MarshalIndent(result.Neighborhood, "", "  "); err != nil {
					return err
				}
				out = append(out, '\n')
			default:
				if out, err = (memgraph.JSONCodec[string, any]{Indent: "  "}).Encode(result.Nodes); err != nil {
					return err
				}
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "node to expand with its neighbors and mutual neighbors")
	cmd.Flags().StringArrayVar(&where, "where", nil, "keep nodes whose data has key=value (repeatable)")
	return cmd
}

// parseWhere turns key=value pairs into a predicate over object data. All
// pairs must match.
func parseWhere(pairs []string) (memgraph.Predicate[any], error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	want := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("--where %q: expected key=value", pair)
		}
		want[key] = value
	}
	return func(data any) bool {
		fields, ok := data.(map[string]any)
		if !ok {
			return false
		}
		for key, value := range want {
			got, exists := fields[key]
			if !exists || fmt.Sprint(got) != value {
				return false
			}
		}
		return true
	}, nil
}
