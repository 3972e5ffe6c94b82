// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-15

// Package main is the entry point for the trello2gh CLI.
package main

import (
	"os"

	"github.com/similigh/trello2gh/cmd/trello2gh/commands"
)

func main() {
	os.Exit(commands.Execute())
}
