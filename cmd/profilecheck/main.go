// Profilecheck validates governance profile documents. It prints the topics of each valid document
// and exits 1 on the first invalid one.
//
// Usage: profilecheck [path ...]   (default: $GOVERNANCE_CONFIG_PATH or governance.yaml)
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"loggov/internal/config"
	"loggov/internal/governance/profile"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	paths := args
	if len(paths) == 0 {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
		paths = []string{cfg.GovernanceConfigPath}
	}
	for _, p := range paths {
		store, err := profile.Load(ctx, p)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		g := store.Globals()
		fmt.Fprintf(stdout, "%s: ok (enabled=%t fallback=%q suppress=%t) topics: %s\n",
			p, g.Enabled, g.FallbackTopic, g.SuppressOnViolation, strings.Join(store.Topics(), ", "))
	}
	return 0
}
