// Package flagx lets each config layer parse only the flags it owns.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs keeps only allowed flags from args together with their values.
// Both "-f value" and "-f=value" forms are recognised; a following argument
// that starts with "-" is not taken as a value.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name, _, _ := strings.Cut(arg, "=")
			if _, ok := allowed[name]; ok {
				out = append(out, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; !ok {
			continue
		}
		out = append(out, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, args[i+1])
			i++
		}
	}
	return out
}

// ConfigPath returns the value of -c / -config found in args, or "".
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(discard{})
	fs.StringVar(&path, "config", "", "path to JSON config file")
	fs.StringVar(&path, "c", "", "path to JSON config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}))

	return path
}

// JsonConfigFlags is ConfigPath applied to the process arguments.
func JsonConfigFlags() string {
	return ConfigPath(os.Args[1:])
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
