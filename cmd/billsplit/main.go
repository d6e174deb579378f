// Command billsplit splits a restaurant bill from the terminal.
//
// A session is kept in a JSON snapshot file that the subcommands read and
// update in place:
//
//	billsplit parse -f receipt.txt -o dinner.json
//	billsplit members -s dinner.json "Asha, Ben, Chen"
//	billsplit assign -s dinner.json -item 1 -member Asha -qty 2
//	billsplit summary -s dinner.json -round -payer Asha
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"

	"github.com/mmynk/billsplit/pkg/logging"
)

func main() {
	logging.Setup()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// register adds every billsplit subcommand to c.
func register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")

	c.Register(&parseCmd{}, "session")
	c.Register(&membersCmd{}, "session")
	c.Register(&assignCmd{}, "session")
	c.Register(&summaryCmd{}, "report")
}
