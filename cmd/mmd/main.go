package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/pflag"

	"oss.terrastruct.com/util-go/go2"
	"oss.terrastruct.com/util-go/xjson"
	"oss.terrastruct.com/util-go/xmain"

	"oss.terrastruct.com/mmd"
	"oss.terrastruct.com/mmd/lib/version"
	"oss.terrastruct.com/mmd/mmdast"
	"oss.terrastruct.com/mmd/mmdcompiler"
	"oss.terrastruct.com/mmd/mmdparser"
	"oss.terrastruct.com/mmd/mmdvisitor"
)

func main() {
	xmain.Main(run)
}

type parseOpts struct {
	ast      bool
	validate bool
	recover  bool
	format   string
}

func run(ctx context.Context, ms *xmain.State) error {
	watchFlag, err := ms.Opts.Bool("MMD_WATCH", "watch", "w", false, "watch the input file and re-parse on every change")
	if err != nil {
		return err
	}
	astFlag, err := ms.Opts.Bool("", "ast", "a", false, "print the parsed syntax tree as JSON")
	if err != nil {
		return err
	}
	validateFlag, err := ms.Opts.Bool("", "validate", "", false, "run semantic validation after parsing")
	if err != nil {
		return err
	}
	recoverFlag, err := ms.Opts.Bool("", "recover", "r", false, "collect every syntax error instead of stopping at the first")
	if err != nil {
		return err
	}
	formatFlag := ms.Opts.String("MMD_FORMAT", "format", "f", "text", "output format of the parse summary: text or json")
	debugFlag, err := ms.Opts.Bool("DEBUG", "debug", "d", false, "print debug logs.")
	if err != nil {
		return err
	}
	versionFlag, err := ms.Opts.Bool("", "version", "v", false, "get the version")
	if err != nil {
		return err
	}

	err = ms.Opts.Flags.Parse(ms.Opts.Args)
	if !errors.Is(err, pflag.ErrHelp) && err != nil {
		return xmain.UsageErrorf("failed to parse flags: %v", err)
	}
	if errors.Is(err, pflag.ErrHelp) {
		help(ms)
		return nil
	}

	if *debugFlag {
		ms.Env.Setenv("DEBUG", "1")
	}

	if len(ms.Opts.Flags.Args()) == 0 {
		if *versionFlag {
			fmt.Println(version.Version)
			return nil
		}
		help(ms)
		return nil
	} else if len(ms.Opts.Flags.Args()) > 1 {
		return xmain.UsageErrorf("too many arguments passed")
	}

	if !go2.Contains([]string{"text", "json"}, *formatFlag) {
		return xmain.UsageErrorf("-f[ormat] must be text or json, not %q", *formatFlag)
	}

	inputPath := ms.Opts.Flags.Arg(0)
	opts := parseOpts{
		ast:      *astFlag,
		validate: *validateFlag,
		recover:  *recoverFlag,
		format:   *formatFlag,
	}

	if *watchFlag {
		if inputPath == "-" {
			return xmain.UsageErrorf("-w[atch] cannot be combined with reading input from stdin")
		}
		ms.Log.SetTS(true)
		w, err := newWatcher(ctx, ms, inputPath, opts)
		if err != nil {
			return err
		}
		return w.run()
	}

	return process(ctx, ms, inputPath, opts)
}

func process(ctx context.Context, ms *xmain.State, inputPath string, opts parseOpts) error {
	input, err := ms.ReadPath(inputPath)
	if err != nil {
		return err
	}

	var d mmdast.Diagram
	if opts.recover {
		var pe *mmdparser.ParseError
		d, pe = mmd.ParseWithRecovery(string(input))
		if !pe.Empty() {
			for _, err := range pe.Errors {
				printDiagnostic(ms, err)
			}
			if d == nil {
				return xmain.ExitErrorf(1, "failed to parse %v", inputPath)
			}
		}
	} else {
		d, err = mmd.Parse(string(input))
		if err != nil {
			printDiagnostic(ms, err)
			return xmain.ExitErrorf(1, "failed to parse %v", inputPath)
		}
	}

	if opts.validate {
		if err := mmdcompiler.Validate(d); err != nil {
			printDiagnostic(ms, err)
			return xmain.ExitErrorf(1, "%v failed validation", inputPath)
		}
	}

	if opts.ast || opts.format == "json" {
		fmt.Fprintln(ms.Stdout, string(xjson.Marshal(d)))
		return nil
	}

	var counter mmdvisitor.NodeCounter
	if err := mmdvisitor.Walk(d, &counter); err != nil {
		return err
	}
	ms.Log.Success.Printf("parsed %v diagram from %v (%d nodes, %d edges)",
		d.Kind(), inputPath, counter.Nodes, counter.Edges)
	return nil
}
