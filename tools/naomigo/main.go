package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/clktmr/naomi/tools/texture"
	"github.com/clktmr/naomi/tools/view"
)

const usageString = `naomigo is a tool for development of NAOMI graphics code.

Usage:

	%s <command> [arguments]

The commands are:

	texture  convert images to texture files
	view     run the simulated display in a window
`

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), usageString, os.Args[0])
	flag.PrintDefaults()
}

func main() {
	log.Default().SetFlags(0)
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	switch flag.Arg(0) {
	case "texture":
		texture.Main(flag.Args())
	case "view":
		view.Main(flag.Args())
	default:
		fmt.Fprintf(flag.CommandLine.Output(), "unknown command: %s\n", flag.Arg(0))
		flag.Usage()
		os.Exit(1)
	}
}
