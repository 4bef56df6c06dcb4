// keypath - query and update YAML or JSON documents with path expressions.
//
// Usage:
//
//	keypath get 'users[%1].name' 0 -f users.yaml
//	keypath set 'config.debug' true -f config.json
//	keypath has 'users[0].email?' -f users.yaml
//	keypath keys 'services' --match '^api-' -f compose.yaml
//	keypath tokens 'a.b[1..3]'
//	keypath ast 'a[b, c]{d}'
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// version is set by GoReleaser at build time via -ldflags.
// For development builds, it will be "dev".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr, os.Exit)
	switch {
	case err == nil:
	case errors.Is(err, errAbsent):
		os.Exit(1)
	default:
		errorExit(err)
	}
}

func versionString() string {
	return fmt.Sprintf("keypath version %s (commit %s, built %s)", version, commit, date)
}

// errorExit prints error and exits with code 2
func errorExit(err error) {
	fmt.Fprintf(os.Stderr, "keypath: %v\n", err)
	os.Exit(2)
}
