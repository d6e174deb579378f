package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/subcommands"

	"github.com/mmynk/billsplit/internal/session"
)

type parseCmd struct {
	file string
	out  string
}

func (*parseCmd) Name() string     { return "parse" }
func (*parseCmd) Synopsis() string { return "parse pasted bill text into a new session file" }
func (*parseCmd) Usage() string {
	return `billsplit parse [-f <bill.txt>] [-o <session.json>]

  Reads bill text (stdin by default) and recognizes lines such as

    Paneer Tikka 2 250 500
    Paneer Tikka 2 x 250 = 500
    Paneer Tikka 2 @ 250 = 500

  along with the first "tax ... N%" line. The session snapshot is written to
  -o, or to stdout.
`
}

func (c *parseCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "", "Bill text file to read instead of stdin.")
	f.StringVar(&c.out, "o", "", "Session file to write instead of stdout.")
}

func (c *parseCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var in io.Reader = stdin
	if c.file != "" {
		fh, err := os.Open(c.file)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return subcommands.ExitFailure
		}
		defer fh.Close()
		in = fh
	}
	text, err := io.ReadAll(in)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return subcommands.ExitFailure
	}

	sess := session.New()
	res, err := sess.ApplyParse(string(text))
	if err != nil {
		fmt.Fprintf(stderr, "%v. Please check the format.\n", err)
		return subcommands.ExitFailure
	}
	slog.Debug("Bill parsed", "items", len(res.Items), "tax_found", res.TaxRate != nil)

	if err := saveSession(c.out, sess); err != nil {
		fmt.Fprintln(stderr, err)
		return subcommands.ExitFailure
	}
	if c.out != "" {
		fmt.Fprintf(stdout, "Parsed %d items into %s\n", len(res.Items), c.out)
	}
	return subcommands.ExitSuccess
}
