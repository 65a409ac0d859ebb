package main

import (
	"os"

	"nikand.dev/go/cli"
)

func main() {
	checkCmd := &cli.Command{
		Name:        "check",
		Description: "decode and check program trees, printing diagnostics",
		Action:      checkAct,
		Args:        cli.Args{},
		Flags:       commonFlags(),
	}

	compileCmd := &cli.Command{
		Name:        "compile",
		Description: "check program trees and write one unit file per class",
		Action:      compileAct,
		Args:        cli.Args{},
		Flags: append(commonFlags(),
			cli.NewFlag("out", "", "output directory (overrides the project file)"),
			cli.NewFlag("cache", "", "sqlite build cache path (overrides the project file)"),
		),
	}

	runCmd := &cli.Command{
		Name:        "run",
		Description: "compile a program tree and execute it with the reference interpreter",
		Action:      runAct,
		Args:        cli.Args{},
		Flags: append(commonFlags(),
			cli.NewFlag("trace", false, "log a listing of every method before running"),
		),
	}

	disasmCmd := &cli.Command{
		Name:        "disasm",
		Description: "compile a program tree and print the rendered units",
		Action:      disasmAct,
		Args:        cli.Args{},
		Flags:       commonFlags(),
	}

	printCmd := &cli.Command{
		Name:        "print",
		Description: "decode program trees and print them as source text",
		Action:      printAct,
		Args:        cli.Args{},
	}

	app := &cli.Command{
		Name:        "sophia",
		Description: "sophia checks class-based programs and generates stack machine units",
		Commands: []*cli.Command{
			checkCmd,
			compileCmd,
			runCmd,
			disasmCmd,
			printCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func commonFlags() []*cli.Flag {
	return []*cli.Flag{
		cli.NewFlag("config", "", "project file (default: sophia.yaml next to the tree or above)"),
		cli.NewFlag("entry", "", "entry class (overrides the project file)"),
		cli.NewFlag("color", "", "diagnostic colors: auto, always or never"),
		cli.NewFlag("v", "", "verbose log topics, e.g. codegen,cache"),
		cli.HelpFlag,
	}
}
