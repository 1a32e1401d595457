package main

import (
	"os"
	"strings"

	"tasklist-cli/internal/cli"
	"tasklist-cli/internal/store"
)

// rewriteDirectTaskLookupArgs turns `tasklist <task-id>` into `tasklist tasks show <task-id>`.
//
// Cobra treats the first non-flag token as a subcommand, so argv is rewritten before parsing.
// Persistent flags may come first (`tasklist --dir ... <task-id>`), so the first positional
// token is located rather than assuming argv[1].
func rewriteDirectTaskLookupArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--dir":        true,
		"--backend":    true,
		"--redis-addr": true,
		"--format":     true,
		"--log-level":  true,
	}

	showAt := func(i int) []string {
		out := make([]string, 0, len(argv)+2)
		out = append(out, argv[:i]...)
		out = append(out, "tasks", "show")
		out = append(out, argv[i:]...)
		return out
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && store.IsTaskID(argv[i+1]) {
				return showAt(i + 1)
			}
			return argv
		}
		if strings.HasPrefix(a, "-") {
			// Unknown flags are skipped without consuming a value so the id is never swallowed.
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}
		if store.IsTaskID(a) {
			return showAt(i)
		}
		return argv
	}
	return argv
}

func main() {
	os.Args = rewriteDirectTaskLookupArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
