package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// positionalNegatives inserts "--" before the first argument that is a
// negative number and not the value of a preceding flag, so records like
// "-11.35 155.31" reach the root command as positionals. Subcommand
// invocations are returned untouched.
func positionalNegatives(root *cobra.Command, args []string) []string {
	flags := root.PersistentFlags()
	for i, arg := range args {
		if arg == "--" {
			return args
		}
		if !strings.HasPrefix(arg, "-") {
			if isSubcommand(root, arg) {
				return args
			}
			continue
		}
		if !isNumber(arg) {
			continue
		}
		if i > 0 && takesValue(flags, args[i-1]) {
			continue
		}
		out := make([]string, 0, len(args)+1)
		out = append(out, args[:i]...)
		out = append(out, "--")
		return append(out, args[i:]...)
	}
	return args
}

func isSubcommand(root *cobra.Command, name string) bool {
	if name == "help" {
		return true
	}
	for _, c := range root.Commands() {
		if c.Name() == name || c.HasAlias(name) {
			return true
		}
	}
	return false
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// takesValue reports whether arg is a flag without an inline value whose
// next argument is consumed as its value
func takesValue(fs *pflag.FlagSet, arg string) bool {
	var f *pflag.Flag
	switch {
	case strings.HasPrefix(arg, "--"):
		name := arg[2:]
		if strings.Contains(name, "=") {
			return false
		}
		f = fs.Lookup(name)
	case len(arg) == 2 && arg[0] == '-':
		f = fs.ShorthandLookup(arg[1:])
	}
	return f != nil && f.NoOptDefVal == ""
}
