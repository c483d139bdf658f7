package main

import (
	"os"

	"github.com/ForestMars/DrZONST"
	"github.com/spf13/cobra"
)

var (
	parseFormat string
	parseOutput string
)

var parseCmd = &cobra.Command{
	Use:   "parse <prd>",
	Short: "Dump the parsed document tree",
	Long: `Parse reads a requirements document and prints the structure the parser
recognized, as JSON (default) or YAML. With -o the dump is written to the
given path instead; its extension picks the format unless --format is set.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		data, err := drzonst.DumpFile(cmd.Context(), args[0], parseOutput, parseFormat, options(args[0])...)
		if err != nil {
			fatal("Parse failed", err)
		}
		if parseOutput == "" {
			os.Stdout.Write(data)
		}
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", "", "Output format: json or yaml (default json)")
	parseCmd.Flags().StringVarP(&parseOutput, "output", "o", "", "Write the dump to a path or s3://bucket/key")
}
