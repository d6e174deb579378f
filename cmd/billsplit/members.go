package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"
)

type membersCmd struct {
	file string
}

func (*membersCmd) Name() string     { return "members" }
func (*membersCmd) Synopsis() string { return "add members to a session" }
func (*membersCmd) Usage() string {
	return `billsplit members -s <session.json> <names>...

  Adds members to the session. Names may be separated by commas, tabs or
  newlines; names already in the session are skipped.
`
}

func (c *membersCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "s", "", "Session file to update.")
}

func (c *membersCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(stderr, "no member names given")
		return subcommands.ExitUsageError
	}
	sess, err := loadSession(c.file)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return subcommands.ExitFailure
	}

	added := sess.AddMembers(strings.Join(f.Args(), ","))
	if err := saveSession(c.file, sess); err != nil {
		fmt.Fprintln(stderr, err)
		return subcommands.ExitFailure
	}

	if len(added) == 0 {
		fmt.Fprintln(stdout, "No new members added")
	} else {
		fmt.Fprintf(stdout, "Added %s\n", strings.Join(added, ", "))
	}
	return subcommands.ExitSuccess
}
