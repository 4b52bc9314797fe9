package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Serve  *ServeCommand
	Status *StatusCommand
	Query  *QueryCommand
	Render *RenderCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "launchdash"
	parser.LongDescription = "Interactive dashboard of SpaceX launch outcomes by site and payload mass."

	cmds := &commands{
		Serve:  &ServeCommand{globals: &globals, version: version},
		Status: &StatusCommand{globals: &globals, version: version},
		Query:  &QueryCommand{globals: &globals, version: version},
		Render: &RenderCommand{globals: &globals, version: version},
	}

	parser.AddCommand("serve", "Start the dashboard web server", "Load the launch dataset and serve the interactive dashboard over HTTP.", cmds.Serve)
	parser.AddCommand("status", "Show dataset summary", "Show row counts, payload bounds, and per-site outcome statistics.", cmds.Status)
	parser.AddCommand("query", "Evaluate the dashboard once", "Apply a site and payload selection and print both chart specifications.", cmds.Query)
	parser.AddCommand("render", "Write a chart image", "Render the proportion or scatter chart for a selection to an SVG or PNG file.", cmds.Render)

	return parser, &globals, cmds
}

// Run is the main entry point for the launchdash CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// go-flags requires a subcommand, but --version is valid without one.
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("launchdash %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
