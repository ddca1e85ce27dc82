package main

import (
	"fmt"
	"os"

	"github.com/pborman/getopt"

	zeebasic "go.zeebasic.dev/pkg"
)

func main() {
	var outPath string
	var buildPath string
	var ccBin string
	var help bool

	getopt.StringVarLong(&outPath, "out", 'o', "path to write the generated C file", "PATH")
	getopt.StringVarLong(&buildPath, "build", 'b', "also invoke a C compiler to produce a native binary at PATH", "PATH")
	getopt.StringVarLong(&ccBin, "cc", 0, "C compiler to invoke with --build (default \"cc\")", "CC")
	getopt.BoolVarLong(&help, "help", '?', "display help")
	getopt.SetParameters("SOURCE")

	getopt.Parse()
	args := getopt.Args()

	if help || len(args) != 1 {
		getopt.PrintUsage(os.Stderr)
		if help {
			os.Exit(0)
		}
		os.Exit(2)
	}

	source := args[0]
	if outPath == "" {
		outPath = withExtension(source, ".c")
	}

	err := zeebasic.Compile(zeebasic.Options{
		InputPath:  source,
		OutputPath: outPath,
		BuildPath:  buildPath,
		CC:         ccBin,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withExtension replaces path's extension (if any) with ext.
func withExtension(path, ext string) string {
	for i := len(path) - 1; i >= 0 && path[i] != '/'; i-- {
		if path[i] == '.' {
			return path[:i] + ext
		}
	}

	return path + ext
}
