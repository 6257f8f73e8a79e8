// Command hwpcat is a minimal demo CLI over this module: dump a
// document's plain text and tables, run its structural checks, or
// convert an HWP5 file to HWPX. It is not the full CLI surface spec §6
// describes (no JSON shaping, no flag-driven edit operations) — just
// enough to exercise document/edit/validate/convert end to end.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hanpama/hwped/convert"
	"github.com/hanpama/hwped/edit"
	"github.com/hanpama/hwped/internal/diag"
	"github.com/hanpama/hwped/internal/render"
	"github.com/hanpama/hwped/internal/validate"
)

func main() {
	flag.Usage = usage
	flag.Parse()
	args := flag.Args()
	if len(args) < 1 {
		usage()
		os.Exit(1)
	}

	var err error
	switch args[0] {
	case "dump":
		err = runDump(args[1:])
	case "validate":
		err = runValidate(args[1:])
	case "convert":
		err = runConvert(args[1:])
	default:
		// No recognized subcommand: treat the first argument itself as a
		// file path and dump it, the common case of `hwpcat doc.hwp`.
		err = runDump(args)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "hwpcat: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <dump|validate|convert> <file> [out-file]\n", os.Args[0])
}

func runDump(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("dump requires a file path")
	}
	doc, err := edit.Open(args[0])
	if err != nil {
		return err
	}
	for _, sec := range doc.Model().Sections {
		if err := render.RenderSection(sec, os.Stdout); err != nil {
			return err
		}
	}
	return nil
}

func runValidate(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("validate requires a file path")
	}
	doc, err := edit.Open(args[0])
	if err != nil {
		return err
	}

	p := diag.NewPrinter(os.Stdout, nil)
	res := doc.Validate()
	for _, f := range res.Failures {
		p.Fail("%s: %s", f.Kind, f.Message)
	}
	p.Info("word count: %d", validate.WordCount(doc.Model()))
	if !res.Valid() {
		return fmt.Errorf("%d check(s) failed", len(res.Failures))
	}
	return nil
}

func runConvert(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("convert requires an input HWP path and an output HWPX path")
	}
	in, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(args[1])
	if err != nil {
		return err
	}
	defer out.Close()

	return convert.ToHWPX(in, out)
}
