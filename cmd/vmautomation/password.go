package main

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// readPassword reads a password without echoing. Returns empty string on error.
func readPassword(prompt string) string {
	fmt.Printf("%s: ", prompt)
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return ""
	}
	return string(pw)
}
