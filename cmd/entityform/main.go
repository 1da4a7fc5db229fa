// Command entityform edits MQTT entity specs from the terminal: it loads the
// schema of a kind, prompts for every field and submits the sanitized spec.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
)

type command struct {
	summary string
	run     func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"kinds":      {summary: "list entity kinds by category", run: runKinds},
	"fields":     {summary: "show the sections and fields of a kind", run: runFields},
	"edit":       {summary: "create or edit a resource interactively", run: runEdit},
	"render":     {summary: "render a static HTML form", run: runRender},
	"preview":    {summary: "validate a spec file and print the resource YAML", run: runPreview},
	"list":       {summary: "list stored resources", run: runList},
	"delete":     {summary: "delete a resource", run: runDelete},
	"namespaces": {summary: "list namespaces", run: runNamespaces},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], nil, os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "%s: %v\n", filepath.Base(os.Args[0]), err)
		}
		os.Exit(1)
	}
}

// run executes one command. environ replaces the process environment when
// non-nil.
func run(ctx context.Context, args []string, environ map[string]string, stdout, stderr io.Writer) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		usage(stderr)
		return flag.ErrHelp
	}
	cmd, ok := commands[args[0]]
	if !ok {
		usage(stderr)
		return fmt.Errorf("unknown command %q", args[0])
	}
	a, err := newApp(environ, stdout, stderr)
	if err != nil {
		return err
	}
	return cmd.run(ctx, a, args[1:])
}

func usage(w io.Writer) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("Usage: entityform <command> [flags]\n\nCommands:\n")
	for _, name := range names {
		fmt.Fprintf(&b, "  %-11s %s\n", name, commands[name].summary)
	}
	b.WriteString("\nEnvironment: ENTITYFORM_API_URL, ENTITYFORM_REGISTRY_URL, ENTITYFORM_TIMEOUT,\nENTITYFORM_NAMESPACE, ENTITYFORM_CRD_DIR, ENTITYFORM_LOG_LEVEL, ENTITYFORM_LOG_FORMAT\n")
	fmt.Fprint(w, b.String())
}
