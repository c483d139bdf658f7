package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ForestMars/DrZONST"
	"github.com/spf13/cobra"
)

// defaultSchema marks a bare --schema flag: derive the path from the output.
const defaultSchema = "auto"

var (
	generateOutput string
	generateSchema string
	generateWatch  bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <prd|glob>...",
	Short: "Generate domain notation from requirement documents",
	Long: `Generate parses each requirements document, infers the domain model and
writes it as domain notation next to the input (<name>_domain_model.csl).

Inputs may be paths or glob patterns such as 'docs/**/*.prd.md'. Several
inputs are converted in parallel. With --schema the notation is also
transpiled; pass --schema=<path> to choose where. Outputs starting with
s3:// are uploaded to object storage.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		req := drzonst.GenerateRequest{
			Inputs: args,
			Output: generateOutput,
		}
		if generateSchema != "" {
			req.Schema = true
			if generateSchema != defaultSchema {
				req.SchemaOutput = generateSchema
			}
		}

		opts := options(args[0])

		if generateWatch {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintln(os.Stderr, "Watching for changes (Ctrl+C to stop)...")
			if err := drzonst.Watch(ctx, req, opts...); err != nil {
				fatal("Watch failed", err)
			}
			return
		}

		results, err := drzonst.GenerateFiles(cmd.Context(), req, opts...)
		if err != nil {
			fatal("Generate failed", err)
		}
		for _, r := range results {
			fmt.Printf("%s -> %s\n", r.Input, r.Output)
			if r.SchemaOutput != "" {
				fmt.Printf("%s -> %s\n", r.Output, r.SchemaOutput)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Notation output path or s3://bucket/key (single input only)")
	generateCmd.Flags().StringVar(&generateSchema, "schema", "", "Also write the TypeSpec schema, optionally to the given path")
	generateCmd.Flags().Lookup("schema").NoOptDefVal = defaultSchema
	generateCmd.Flags().BoolVarP(&generateWatch, "watch", "w", false, "Regenerate whenever an input changes")
}
