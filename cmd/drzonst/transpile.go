package main

import (
	"fmt"

	"github.com/ForestMars/DrZONST"
	"github.com/spf13/cobra"
)

var transpileOutput string

var transpileCmd = &cobra.Command{
	Use:   "transpile <csl>",
	Short: "Transpile domain notation into a TypeSpec schema",
	Long:  `Transpile reads a domain notation file and writes the TypeSpec schema next to it (<name>.tsp) unless -o is given.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		out, err := drzonst.TranspileFile(cmd.Context(), args[0], transpileOutput, options(args[0])...)
		if err != nil {
			fatal("Transpile failed", err)
		}
		fmt.Printf("%s -> %s\n", args[0], out)
	},
}

func init() {
	rootCmd.AddCommand(transpileCmd)
	transpileCmd.Flags().StringVarP(&transpileOutput, "output", "o", "", "Schema output path or s3://bucket/key")
}
