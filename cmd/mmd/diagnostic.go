package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"

	"oss.terrastruct.com/util-go/xmain"

	"oss.terrastruct.com/mmd/mmdast"
	"oss.terrastruct.com/mmd/mmdparser"
)

var (
	errColor     = color.New(color.FgRed, color.Bold)
	snippetColor = color.New(color.FgHiBlack)
	noteColor    = color.New(color.FgYellow)
	helpColor    = color.New(color.FgCyan)
)

// printDiagnostic renders one parse or validation error to stderr. Enhanced
// syntax errors get their snippet and suggestions on separate styled lines;
// everything else is a single line.
func printDiagnostic(ms *xmain.State, err error) {
	var pe *mmdparser.ParseError
	if errors.As(err, &pe) {
		for _, err := range pe.Errors {
			printDiagnostic(ms, err)
		}
		return
	}

	var enh *mmdast.EnhancedSyntaxError
	if errors.As(err, &enh) {
		errColor.Fprintf(ms.Stderr, "error: %s\n", enh.SyntaxError.Error())
		if enh.Snippet != "" {
			snippetColor.Fprintln(ms.Stderr, enh.Snippet)
		}
		for _, s := range enh.Suggestions {
			if strings.HasPrefix(s, "See ") {
				helpColor.Fprintf(ms.Stderr, " = help: %s\n", s)
			} else {
				noteColor.Fprintf(ms.Stderr, " = note: %s\n", s)
			}
		}
		return
	}

	errColor.Fprint(ms.Stderr, "error: ")
	fmt.Fprintln(ms.Stderr, err.Error())
}
