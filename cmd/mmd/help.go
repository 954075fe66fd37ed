package main

import (
	"fmt"
	"path/filepath"

	"oss.terrastruct.com/util-go/xmain"

	"oss.terrastruct.com/mmd/lib/version"
)

func help(ms *xmain.State) {
	fmt.Fprintf(ms.Stdout, `%[1]s %[2]s
Usage:
  %[1]s [--watch=false] [--ast] [--validate] file.mmd

%[1]s detects the diagram type of file.mmd and parses it, printing a short
summary of the diagram, or the full syntax tree as JSON with --ast.

Use - to have %[1]s read from stdin.

Flags:
%[3]s
`, filepath.Base(ms.Name), version.Version, ms.Opts.Defaults())
}
