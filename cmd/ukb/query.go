package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PaulHuygen/ukb"
	"github.com/PaulHuygen/ukb/graph"
	"github.com/PaulHuygen/ukb/traverse"
)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print graph statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kb, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			return kb.DisplayInfo(cmd.OutOrStdout())
		},
	}
}

func newDumpCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print every vertex and its out-edges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kb, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			return kb.DumpGraph(cmd.OutOrStdout())
		},
	}
}

func newRankCmd(a *app) *cobra.Command {
	var (
		top       int
		useWeight bool
	)
	cmd := &cobra.Command{
		Use:   "rank word...",
		Short: "Rank concepts by personalized PageRank over a context",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			kb, err := a.load(ctx)
			if err != nil {
				return err
			}
			restart, hits := kb.ContextRestart(args)
			if hits == 0 {
				return fmt.Errorf("rank: none of %q is in the graph: %w", args, ukb.ErrVertexNotFound)
			}
			if !cmd.Flags().Changed("weight") {
				useWeight = a.cfg.Rank.UseWeight
			}
			res := kb.PageRankPPV(ctx, restart, useWeight)
			out := cmd.OutOrStdout()
			for _, r := range kb.TopConcepts(res.Ranks, top) {
				fmt.Fprintf(out, "%s\t%.6g\n", r.Name, r.Rank)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&top, "top", "k", 10, "number of concepts to print (0 for all)")
	cmd.Flags().BoolVar(&useWeight, "weight", false, "use edge weights (default: rank.use_weight)")
	return cmd
}

func relationOptions(kb *ukb.KB, labels []string) ([]traverse.Option, error) {
	if len(labels) == 0 {
		return nil, nil
	}
	mask, err := kb.Graph().Relations().Encode(labels...)
	if err != nil {
		return nil, err
	}
	return []traverse.Option{traverse.WithRelationMask(mask)}, nil
}

func newPathCmd(a *app) *cobra.Command {
	var labels []string
	cmd := &cobra.Command{
		Use:   "path source target",
		Short: "Print the shortest weighted path between two vertices",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			kb, err := a.load(ctx)
			if err != nil {
				return err
			}
			src, err := kb.Lookup(args[0])
			if err != nil {
				return err
			}
			dst, err := kb.Lookup(args[1])
			if err != nil {
				return err
			}
			opts, err := relationOptions(kb, labels)
			if err != nil {
				return err
			}
			sp, ok := kb.Dijkstra(ctx, src, opts...)
			if !ok {
				return fmt.Errorf("path: source is not a vertex")
			}
			if !sp.Reached(dst) {
				fmt.Fprintf(cmd.OutOrStdout(), "no path from %s to %s\n", args[0], args[1])
				return nil
			}
			var names []string
			for _, v := range sp.PathTo(dst) {
				names = append(names, kb.Graph().Name(v))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%g\n", strings.Join(names, " -> "), sp.Dist[dst])
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&labels, "relations", nil, "follow only edges carrying one of these labels")
	return cmd
}

func newReachCmd(a *app) *cobra.Command {
	var (
		labels []string
		list   bool
	)
	cmd := &cobra.Command{
		Use:   "reach source",
		Short: "Count the vertices reachable from a vertex",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			kb, err := a.load(ctx)
			if err != nil {
				return err
			}
			src, err := kb.Lookup(args[0])
			if err != nil {
				return err
			}
			opts, err := relationOptions(kb, labels)
			if err != nil {
				return err
			}
			ok, order := kb.BFS(ctx, src, opts...)
			if !ok {
				return fmt.Errorf("reach: source is not a vertex")
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d reachable\n", len(order))
			if list {
				g := kb.Graph()
				for _, v := range order {
					fmt.Fprintf(out, "%s\t%s\n", g.Name(v), kindOf(g, v))
				}
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&labels, "relations", nil, "follow only edges carrying one of these labels")
	cmd.Flags().BoolVar(&list, "list", false, "print each reachable vertex")
	return cmd
}

func kindOf(g *graph.Store, v graph.VertexID) string {
	return g.Kind(v).String()
}
