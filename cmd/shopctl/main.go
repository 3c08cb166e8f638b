// Command shopctl is the terminal front end for the shoplite core: it maps
// subcommands onto service operations and prints their results. All
// validation, persistence and aggregation live below it.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appkg "github.com/xenking/shoplite/internal/app"
	"github.com/xenking/shoplite/internal/domain/order"
	"github.com/xenking/shoplite/internal/storage/sqlite"
)

func main() {
	app.Run(func(ctx context.Context, lg *zap.Logger, _ *app.Telemetry) error {
		cfg, err := appkg.LoadConfig()
		if err != nil {
			return err
		}
		return run(ctx, lg, cfg, os.Args[1:])
	})
}

type command struct {
	usage string
	run   func(ctx context.Context, svc *appkg.Service, cfg *appkg.Config, args []string) error
}

var commands = map[string]command{
	"add-customer":    {"add-customer -name NAME [-email EMAIL] [-phone PHONE]", cmdAddCustomer},
	"add-product":     {"add-product -title TITLE -price PRICE", cmdAddProduct},
	"add-order":       {"add-order -customer ID -item PRODUCT_ID:QTY [-item ...]", cmdAddOrder},
	"list-customers":  {"list-customers [-name FILTER]", cmdListCustomers},
	"list-products":   {"list-products", cmdListProducts},
	"list-orders":     {"list-orders [-sort id|created_at|total] [-desc]", cmdListOrders},
	"order-items":     {"order-items -order ID", cmdOrderItems},
	"delete-customer": {"delete-customer -id ID", cmdDeleteCustomer},
	"delete-order":    {"delete-order -id ID", cmdDeleteOrder},
	"delete-product":  {"delete-product -id ID", cmdDeleteProduct},
	"reports":         {"reports [-dir DIR]", cmdReports},
	"export":          {"export -out FILE[.gz]", cmdExport},
	"import":          {"import -in FILE[.gz] [-clear]", cmdImport},
	"export-csv":      {"export-csv -dir DIR", cmdExportCSV},
}

func run(ctx context.Context, lg *zap.Logger, cfg *appkg.Config, args []string) error {
	if len(args) == 0 {
		printUsage()
		return errors.New("no command given")
	}

	cmd, ok := commands[args[0]]
	if !ok {
		printUsage()
		return errors.Errorf("unknown command %q", args[0])
	}

	store, err := sqlite.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	svc := appkg.NewService(store, lg)
	return cmd.run(ctx, svc, cfg, args[1:])
}

func printUsage() {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(os.Stderr, "usage: shopctl COMMAND [flags]")
	for _, name := range names {
		fmt.Fprintf(os.Stderr, "  %s\n", commands[name].usage)
	}
}

func cmdAddCustomer(ctx context.Context, svc *appkg.Service, _ *appkg.Config, args []string) error {
	fs := flag.NewFlagSet("add-customer", flag.ContinueOnError)
	name := fs.String("name", "", "customer name")
	email := fs.String("email", "", "customer email (optional)")
	phone := fs.String("phone", "", "customer phone (optional)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := svc.CreateCustomer(ctx, *name, *email, *phone)
	if err != nil {
		return err
	}
	fmt.Printf("customer %d created\n", c.ID)
	return nil
}

func cmdAddProduct(ctx context.Context, svc *appkg.Service, _ *appkg.Config, args []string) error {
	fs := flag.NewFlagSet("add-product", flag.ContinueOnError)
	title := fs.String("title", "", "product title")
	price := fs.String("price", "0", "product price")
	if err := fs.Parse(args); err != nil {
		return err
	}

	value, err := decimal.NewFromString(*price)
	if err != nil {
		return errors.Wrapf(err, "price %q", *price)
	}

	p, err := svc.CreateProduct(ctx, *title, value)
	if err != nil {
		return err
	}
	fmt.Printf("product %d created\n", p.ID)
	return nil
}

// itemFlags collects repeated -item PRODUCT_ID:QTY values.
type itemFlags []appkg.OrderLine

func (f *itemFlags) String() string { return fmt.Sprint(*f) }

func (f *itemFlags) Set(v string) error {
	var line appkg.OrderLine
	if _, err := fmt.Sscanf(v, "%d:%d", &line.ProductID, &line.Quantity); err != nil {
		return errors.Errorf("item %q: want PRODUCT_ID:QTY", v)
	}
	*f = append(*f, line)
	return nil
}

func cmdAddOrder(ctx context.Context, svc *appkg.Service, _ *appkg.Config, args []string) error {
	fs := flag.NewFlagSet("add-order", flag.ContinueOnError)
	customerID := fs.Int64("customer", 0, "customer id")
	var items itemFlags
	fs.Var(&items, "item", "order line as PRODUCT_ID:QTY (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	o, err := svc.CreateOrder(ctx, *customerID, items)
	if err != nil {
		return err
	}
	fmt.Printf("order %d created, total %s\n", o.ID, o.Total().StringFixed(2))
	return nil
}

func cmdListCustomers(ctx context.Context, svc *appkg.Service, _ *appkg.Config, args []string) error {
	fs := flag.NewFlagSet("list-customers", flag.ContinueOnError)
	filter := fs.String("name", "", "filter by name substring")
	if err := fs.Parse(args); err != nil {
		return err
	}

	customers, err := svc.ListCustomers(ctx, *filter)
	if err != nil {
		return err
	}

	w := newTable()
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tPHONE")
	for _, c := range customers {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", c.ID, c.Name(), c.Email(), c.Phone())
	}
	return w.Flush()
}

func cmdListProducts(ctx context.Context, svc *appkg.Service, _ *appkg.Config, args []string) error {
	if err := parseNoFlags("list-products", args); err != nil {
		return err
	}

	products, err := svc.ListProducts(ctx)
	if err != nil {
		return err
	}

	w := newTable()
	fmt.Fprintln(w, "ID\tTITLE\tPRICE")
	for _, p := range products {
		fmt.Fprintf(w, "%d\t%s\t%s\n", p.ID, p.Title(), p.Price().StringFixed(2))
	}
	return w.Flush()
}

func cmdListOrders(ctx context.Context, svc *appkg.Service, _ *appkg.Config, args []string) error {
	fs := flag.NewFlagSet("list-orders", flag.ContinueOnError)
	sortKey := fs.String("sort", "", "sort key: id, created_at or total")
	desc := fs.Bool("desc", false, "sort descending")
	if err := fs.Parse(args); err != nil {
		return err
	}

	summaries, err := svc.ListOrders(ctx, *sortKey, *desc)
	if err != nil {
		return err
	}

	w := newTable()
	fmt.Fprintln(w, "ID\tCUSTOMER\tCREATED\tTOTAL")
	for _, sum := range summaries {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
			sum.ID, sum.CustomerName, sum.CreatedAt.Format(order.TimeLayout), sum.Total.StringFixed(2))
	}
	return w.Flush()
}

func cmdOrderItems(ctx context.Context, svc *appkg.Service, _ *appkg.Config, args []string) error {
	fs := flag.NewFlagSet("order-items", flag.ContinueOnError)
	orderID := fs.Int64("order", 0, "order id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	items, err := svc.GetOrderItems(ctx, *orderID)
	if err != nil {
		return err
	}

	w := newTable()
	fmt.Fprintln(w, "ID\tPRODUCT\tTITLE\tUNIT PRICE\tQTY\tLINE TOTAL")
	for _, row := range items {
		it := row.Item
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%d\t%s\n",
			it.ID, it.ProductID(), row.CurrentTitle, it.UnitPrice().StringFixed(2), it.Quantity(), it.LineTotal().StringFixed(2))
	}
	return w.Flush()
}

func cmdDeleteCustomer(ctx context.Context, svc *appkg.Service, _ *appkg.Config, args []string) error {
	return deleteByID("delete-customer", args, func(id int64) error {
		return svc.DeleteCustomer(ctx, id)
	})
}

func cmdDeleteOrder(ctx context.Context, svc *appkg.Service, _ *appkg.Config, args []string) error {
	return deleteByID("delete-order", args, func(id int64) error {
		return svc.DeleteOrder(ctx, id)
	})
}

func cmdDeleteProduct(ctx context.Context, svc *appkg.Service, _ *appkg.Config, args []string) error {
	return deleteByID("delete-product", args, func(id int64) error {
		return svc.DeleteProduct(ctx, id)
	})
}

func cmdReports(ctx context.Context, svc *appkg.Service, cfg *appkg.Config, args []string) error {
	fs := flag.NewFlagSet("reports", flag.ContinueOnError)
	dir := fs.String("dir", cfg.ReportsDir, "output directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := svc.GenerateReports(ctx, *dir); err != nil {
		return err
	}
	fmt.Printf("reports written to %s\n", *dir)
	return nil
}

func cmdExport(ctx context.Context, svc *appkg.Service, _ *appkg.Config, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	out := fs.String("out", "", "output file, .gz compresses")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *out == "" {
		return errors.New("export: -out is required")
	}
	return svc.ExportFull(ctx, *out)
}

func cmdImport(ctx context.Context, svc *appkg.Service, _ *appkg.Config, args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	in := fs.String("in", "", "input file, .gz decompresses")
	clear := fs.Bool("clear", false, "empty the store before importing")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return errors.New("import: -in is required")
	}
	return svc.ImportFull(ctx, *in, *clear)
}

func cmdExportCSV(ctx context.Context, svc *appkg.Service, _ *appkg.Config, args []string) error {
	fs := flag.NewFlagSet("export-csv", flag.ContinueOnError)
	dir := fs.String("dir", "", "output directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dir == "" {
		return errors.New("export-csv: -dir is required")
	}
	return svc.ExportTabular(ctx, *dir)
}

func deleteByID(name string, args []string, del func(id int64) error) error {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	id := fs.Int64("id", 0, "entity id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := del(*id); err != nil {
		return err
	}
	fmt.Printf("%s: %d deleted\n", strings.TrimPrefix(name, "delete-"), *id)
	return nil
}

func parseNoFlags(name string, args []string) error {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	return fs.Parse(args)
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
}
