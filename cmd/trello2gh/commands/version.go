// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("trello2gh %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
