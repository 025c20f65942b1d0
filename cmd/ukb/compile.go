package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/PaulHuygen/ukb"
	"github.com/PaulHuygen/ukb/config"
	"github.com/PaulHuygen/ukb/relfile"
	"github.com/PaulHuygen/ukb/snapshot"
)

func newCompileCmd(a *app) *cobra.Command {
	var (
		output      string
		publish     string
		sources     []string
		dictPath    string
		noWeight    bool
		compression string
		comments    []string
	)
	cmd := &cobra.Command{
		Use:   "compile [flags] relations...",
		Short: "Compile relation files into a graph snapshot",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" && publish == "" {
				return fmt.Errorf("compile: one of --output or --publish is required")
			}
			opts := a.opts
			if compression != "" {
				c, err := snapshot.ParseCompression(compression)
				if err != nil {
					return err
				}
				opts = append(opts, ukb.WithCompression(c))
			}
			if len(sources) == 0 {
				sources = a.cfg.Sources
			}
			if len(sources) == 0 {
				sources = []string{ukb.AnySource}
			}

			ctx := cmd.Context()
			kb := ukb.New(opts...)
			for _, s := range sources {
				kb.AddRelationSource(s)
			}
			for _, path := range args {
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				stats, err := kb.AddFromTxt(ctx, relfile.ReadRelations(f))
				f.Close()
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				kb.AddComment(fmt.Sprintf("%s: %d relations, %d dropped", path, stats.Applied, stats.Dropped))
			}

			if dictPath != "" {
				f, err := os.Open(dictPath)
				if err != nil {
					return err
				}
				dict, err := relfile.ReadDictionary(f)
				f.Close()
				if err != nil {
					return fmt.Errorf("%s: %w", dictPath, err)
				}
				if _, err := kb.AddDictionary(ctx, dict, !noWeight); err != nil {
					return err
				}
				kb.AddComment("dictionary: " + dictPath)
			}
			for _, c := range comments {
				kb.AddComment(c)
			}

			if output != "" {
				if err := kb.WriteToBinfile(output); err != nil {
					return err
				}
			}
			if publish != "" {
				store, err := a.cfg.OpenStore(ctx)
				if err != nil {
					return err
				}
				if err := kb.Publish(ctx, store, publish); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "compiled %d vertices, %d edges\n", kb.Size(), kb.NumEdges())
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&output, "output", "o", "", "write the snapshot to this file")
	f.StringVar(&publish, "publish", "", "store the snapshot under this name and make it CURRENT")
	f.StringSliceVar(&sources, "sources", nil, "accepted relation origins (default: config sources, or all)")
	f.StringVar(&dictPath, "dict", "", "dictionary file linking words to concepts")
	f.BoolVar(&noWeight, "no-dict-weight", false, "ignore dictionary counts")
	f.StringVar(&compression, "compression", "", "snapshot codec: none, lz4 or zstd")
	f.StringArrayVar(&comments, "comment", nil, "annotation stored with the snapshot")
	return cmd
}

func newInitConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-config [path]",
		Short: "Write the default configuration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return yaml.NewEncoder(cmd.OutOrStdout()).Encode(config.Default())
			}
			return config.WriteDefault(args[0])
		},
	}
}
