// Package flagx splits the process arguments between independent parsers:
// the configuration loader consumes its own flags and the command tree
// receives whatever is left.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// ConfigFileFlags are the flags that select a JSON configuration file.
var ConfigFileFlags = []string{"-c", "-config", "--config"}

// FilterArgs returns a slice of command-line arguments that only contains
// the allowed flags (and their values) specified in allowedFlags.
//
// Supported formats:
//  1. Flag and value as separate arguments:  -c conf.json
//  2. Flag and value combined with '=':      --config=conf.json
func FilterArgs(args []string, allowedFlags []string) []string {
	filtered := make([]string, 0, len(args))
	walk(args, allowedFlags, func(arg string, allowed bool) {
		if allowed {
			filtered = append(filtered, arg)
		}
	})
	return filtered
}

// StripArgs is the complement of FilterArgs: it drops the listed flags
// together with their values and keeps everything else in order.
func StripArgs(args []string, flags []string) []string {
	rest := make([]string, 0, len(args))
	walk(args, flags, func(arg string, matched bool) {
		if !matched {
			rest = append(rest, arg)
		}
	})
	return rest
}

// walk visits every argument and reports whether it belongs to one of
// names, either as the flag itself or as the value that follows it.
func walk(args []string, names []string, visit func(arg string, matched bool)) {
	set := make(map[string]struct{}, len(names))
	for _, f := range names {
		set[f] = struct{}{}
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			_, ok := set[name]
			visit(arg, ok)
			continue
		}

		if _, ok := set[arg]; ok {
			visit(arg, true)
			// the next token is the value unless it looks like another flag
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				visit(args[i+1], true)
				i++
			}
			continue
		}

		visit(arg, false)
	}
}

// JsonConfigFlags inspects command-line arguments and extracts the config file
// path provided via the -c or -config flags. If neither is present, an empty
// string is returned.
func JsonConfigFlags() string {
	var config string

	args := FilterArgs(os.Args[1:], ConfigFileFlags)

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&config, "config", "", "Path to config file")
	fs.StringVar(&config, "c", "", "Path to config file (short)")
	_ = fs.Parse(args)

	return config
}
