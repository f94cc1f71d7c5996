package cli

import (
	"strings"

	"github.com/pkordes/contactbook/internal/middleware"
)

// parseLine splits a raw input line into a command. The name is lower-cased;
// arguments keep their case. ok is false for a blank line.
func parseLine(line string) (cmd middleware.Command, ok bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return middleware.Command{}, false
	}
	return middleware.Command{Name: strings.ToLower(fields[0]), Args: fields[1:]}, true
}
