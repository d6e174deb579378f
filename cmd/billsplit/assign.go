package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type assignCmd struct {
	file   string
	item   int
	member string
	qty    string
}

func (*assignCmd) Name() string     { return "assign" }
func (*assignCmd) Synopsis() string { return "set how much of an item a member had" }
func (*assignCmd) Usage() string {
	return `billsplit assign -s <session.json> -item <id> -member <name> -qty <quantity>

  Sets a member's quantity of an item. Fractional quantities are allowed
  (0.5 for half a dish); 0 removes the member from the item.
`
}

func (c *assignCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "s", "", "Session file to update.")
	f.IntVar(&c.item, "item", 0, "Item id.")
	f.StringVar(&c.member, "member", "", "Member name.")
	f.StringVar(&c.qty, "qty", "1", "Quantity the member had.")
}

func (c *assignCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sess, err := loadSession(c.file)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return subcommands.ExitFailure
	}

	if err := sess.SetAssignment(c.item, c.member, c.qty); err != nil {
		fmt.Fprintln(stderr, err)
		return subcommands.ExitFailure
	}
	if err := saveSession(c.file, sess); err != nil {
		fmt.Fprintln(stderr, err)
		return subcommands.ExitFailure
	}

	v, err := sess.Validate(c.item)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "%s has %g of item %d (%g assigned)\n",
		c.member, sess.Assignment(c.item)[c.member], c.item, v.AssignedQuantity)
	return subcommands.ExitSuccess
}
