package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/subcommands"

	"github.com/mmynk/billsplit/internal/calculator"
	"github.com/mmynk/billsplit/internal/money"
	"github.com/mmynk/billsplit/internal/session"
)

type summaryCmd struct {
	file     string
	round    bool
	tax      string
	payer    string
	currency string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "print what every member owes" }
func (*summaryCmd) Usage() string {
	return `billsplit summary -s <session.json> [-round] [-tax <rate>] [-payer <name>] [-currency <code>]

  Prints the payment summary: every member's items, tax and round-off, and
  which items are not fully assigned yet. With -payer, also lists who pays
  the payer back.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "s", "", "Session file to read.")
	f.BoolVar(&c.round, "round", false, "Round the grand total to the nearest whole amount.")
	f.StringVar(&c.tax, "tax", "", "Tax rate in percent, overriding the session's.")
	f.StringVar(&c.payer, "payer", "", "Member who paid the bill.")
	f.StringVar(&c.currency, "currency", money.DefaultCurrency, "Currency code used to display amounts.")
}

func (c *summaryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sess, err := loadSession(c.file)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return subcommands.ExitFailure
	}
	if c.tax != "" {
		sess.SetTaxRate(c.tax)
	}
	if c.round {
		sess.SetRoundOff(true)
	}
	if !money.Known(c.currency) {
		fmt.Fprintf(stderr, "unknown currency %q\n", c.currency)
		return subcommands.ExitUsageError
	}

	settlement := sess.Settle()
	if err := writeSummary(stdout, sess, settlement, c.currency); err != nil {
		fmt.Fprintln(stderr, err)
		return subcommands.ExitFailure
	}

	if c.payer != "" {
		transfers, err := calculator.Transfers(c.payer, settlement)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(stdout, "\nPay %s\n", c.payer)
		for _, t := range transfers {
			fmt.Fprintf(stdout, "  %s pays %s\n", t.From, money.Format(t.Amount, c.currency))
		}
	}
	return subcommands.ExitSuccess
}

func writeSummary(w io.Writer, sess *session.Session, s calculator.Settlement, currency string) error {
	format := func(v float64) string { return money.Format(v, currency) }
	var b strings.Builder

	fmt.Fprintf(&b, "Subtotal     %s\n", format(s.Subtotal))
	fmt.Fprintf(&b, "Tax (%s%%)   %s\n", strconv.FormatFloat(s.TaxRate, 'f', -1, 64), format(s.TaxAmount))
	if s.RoundOffAmount != 0 {
		fmt.Fprintf(&b, "Round-off    %s\n", format(s.RoundOffAmount))
	}
	fmt.Fprintf(&b, "Grand total  %s\n", format(s.GrandTotal))

	b.WriteString("\nPayment summary\n")
	for _, share := range s.Shares {
		fmt.Fprintf(&b, "\n%s: %s\n", share.Member, format(share.Total))
		for _, o := range share.Orders {
			fmt.Fprintf(&b, "  %s × %g @ %s = %s\n", o.Name, o.Quantity, money.Fixed(o.UnitPrice), money.Fixed(o.LineTotal))
		}
		fmt.Fprintf(&b, "  Items %s, Tax %s", money.Fixed(share.Breakdown.ItemsTotal), money.Fixed(share.Breakdown.Tax))
		if s.RoundOffAmount != 0 {
			fmt.Fprintf(&b, ", Round-off %s", money.Fixed(share.Breakdown.RoundOff))
		}
		b.WriteString("\n")
	}

	var incomplete []string
	for _, v := range sess.Validations() {
		if !v.IsComplete {
			incomplete = append(incomplete, fmt.Sprintf("  %s: %g of %g assigned", v.Name, v.AssignedQuantity, v.Required))
		}
	}
	if len(incomplete) > 0 {
		b.WriteString("\nNot fully assigned\n")
		b.WriteString(strings.Join(incomplete, "\n"))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
