// Command pricetable builds the wide price table once and prints it as text.
//
//	pricetable -days 30 -company Apple -company Tesla
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"stock_dashboard/internal/app/di"
	"stock_dashboard/internal/feature/prices/domain"
	"stock_dashboard/internal/feature/prices/domain/entity"
	"stock_dashboard/internal/platform/config"
	"stock_dashboard/internal/platform/logging"
)

// companyFlag collects repeated -company values.
type companyFlag []string

func (f *companyFlag) String() string { return strings.Join(*f, ",") }

func (f *companyFlag) Set(v string) error {
	*f = append(*f, v)
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, domain.UserMessage(err))
		slog.Error("pricetable failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	config.LoadDotEnv()
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return err
	}
	logging.Setup(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	var companies companyFlag
	fs := flag.NewFlagSet("pricetable", flag.ContinueOnError)
	days := fs.Int("days", cfg.Controls.DefaultDays, "number of calendar days to show")
	missing := fs.String("missing", "omit", "missing-value policy for the long rows (omit|null)")
	long := fs.Bool("long", false, "print long-form rows instead of the wide table")
	fs.Var(&companies, "company", "company name to include (repeatable, default: configured selection)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	policy, err := entity.ParseMissingPolicy(*missing)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidParameter, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	c, err := di.NewContainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			slog.Warn("failed to release resources", "error", err)
		}
	}()

	q := c.Dashboard.DefaultQuery()
	q.Days = *days
	q.Missing = policy
	if len(companies) > 0 {
		q.Companies = companies
	}

	d, err := c.Dashboard.Render(ctx, q)
	if err != nil {
		return err
	}
	if *long {
		return writeRows(out, d.Selection.Rows)
	}
	return writeTable(out, d.Selection.Table)
}

// writeTable prints the wide table: one row per company, one column per date.
func writeTable(w io.Writer, t *entity.WideTable) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	labels := t.Labels()

	fmt.Fprint(tw, "Name\t")
	for _, l := range labels {
		fmt.Fprintf(tw, "%s\t", l)
	}
	fmt.Fprintln(tw)

	for _, r := range t.Rows {
		fmt.Fprintf(tw, "%s\t", r.Name)
		for _, l := range labels {
			if p, ok := r.Prices[l]; ok {
				fmt.Fprintf(tw, "%s\t", strconv.FormatFloat(p, 'f', 2, 64))
			} else {
				fmt.Fprint(tw, "\t")
			}
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

// writeRows prints the long-form rows as Date, Name, price.
func writeRows(w io.Writer, rows []entity.TidyRow) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Date\tName\tStock Prices(USD)\t")
	for _, r := range rows {
		price := ""
		if r.Price != nil {
			price = strconv.FormatFloat(*r.Price, 'f', 2, 64)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", r.Date.Format("2006-01-02"), r.Name, price)
	}
	return tw.Flush()
}
