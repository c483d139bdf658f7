package main

import (
	"fmt"
	"strings"

	"github.com/ForestMars/DrZONST"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of drzonst",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("drzonst version %s\n", strings.TrimSpace(drzonst.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
