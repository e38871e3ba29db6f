package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// confirm asks a yes/no question until the answer starts with y or n.
// A closed input counts as no.
func confirm(prompt string, in io.Reader, out io.Writer) bool {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprintf(out, "%s (y/n): ", prompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return false
		}
		answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
		switch {
		case strings.HasPrefix(answer, "y"):
			return true
		case strings.HasPrefix(answer, "n"):
			return false
		}
		fmt.Fprintln(out, "Invalid response. Please enter 'yes' or 'no'.")
	}
}
