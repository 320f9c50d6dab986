package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/jhoicas/invent-cli/internal/application/dto"
	"github.com/jhoicas/invent-cli/internal/domain"
	"github.com/jhoicas/invent-cli/pkg/metrics"
)

func (inv *invocation) commands() []subcommands.Command {
	return []subcommands.Command{
		&importCSVCmd{inv: inv},
		&listSalesCmd{inv: inv},
		&addSalesCmd{inv: inv},
		&deleteSalesCmd{inv: inv},
		&getProfitCmd{inv: inv},
		&getMostProfitCmd{inv: inv},
	}
}

// noFlags los verbos solo reciben un argumento posicional.
type noFlags struct{}

func (noFlags) SetFlags(*flag.FlagSet) {}

// ──────────────────────────────────────────────────────────────────────────────
// import-csv
// ──────────────────────────────────────────────────────────────────────────────

type importCSVCmd struct {
	inv *invocation
	noFlags
}

func (*importCSVCmd) Name() string { return "import-csv" }
func (*importCSVCmd) Synopsis() string {
	return "import products, stores and inventory sales from the configured CSV files"
}
func (*importCSVCmd) Usage() string { return "import-csv\n" }

func (c *importCSVCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	summary, err := c.inv.importer.ImportFiles(ctx, c.inv.paths)
	if err != nil {
		return c.inv.fail(c.Name(), err)
	}
	c.inv.metrics.AddImported("products", summary.Products)
	c.inv.metrics.AddImported("stores", summary.Stores)
	c.inv.metrics.AddImported("inventory_sales", summary.Sales)
	c.inv.log.Info().
		Int("products", summary.Products).
		Int("stores", summary.Stores).
		Int("sales", summary.Sales).
		Msg("importación completada")
	fmt.Fprintln(c.inv.stdout, MsgImported)
	return subcommands.ExitSuccess
}

// ──────────────────────────────────────────────────────────────────────────────
// list-sales
// ──────────────────────────────────────────────────────────────────────────────

type listSalesCmd struct {
	inv *invocation
	noFlags
}

func (*listSalesCmd) Name() string     { return "list-sales" }
func (*listSalesCmd) Synopsis() string { return "list the sales records of the given products" }
func (*listSalesCmd) Usage() string    { return "list-sales <productIds>\n" }

func (c *listSalesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	arg, ok := c.inv.requireArg(f, "Usage: --list-sales <productIds>")
	if !ok {
		return subcommands.ExitSuccess
	}
	ids, err := dto.ParseIDList(c.Name(), arg)
	if err != nil {
		return c.inv.fail(c.Name(), err)
	}
	rows, err := c.inv.ledger.ListSales(ctx, ids)
	if err != nil {
		return c.inv.fail(c.Name(), err)
	}
	if err := writeSaleRows(c.inv.stdout, rows); err != nil {
		return c.inv.fail(c.Name(), err)
	}
	return subcommands.ExitSuccess
}

// ──────────────────────────────────────────────────────────────────────────────
// add-sales
// ──────────────────────────────────────────────────────────────────────────────

type addSalesCmd struct {
	inv *invocation
	noFlags
}

func (*addSalesCmd) Name() string     { return "add-sales" }
func (*addSalesCmd) Synopsis() string { return "record a sale against an existing inventory row" }
func (*addSalesCmd) Usage() string    { return "add-sales <productId,storeId,date,quantity>\n" }

func (c *addSalesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	arg, ok := c.inv.requireArg(f, "Usage: --add-sales <salesData>")
	if !ok {
		return subcommands.ExitSuccess
	}
	req, err := dto.ParseAddSalesRequest(arg)
	if err != nil {
		return c.inv.fail(c.Name(), err)
	}
	err = c.inv.ledger.AddSales(ctx, req)
	switch {
	case err == nil:
		fmt.Fprintln(c.inv.stdout, MsgSaleUpdated)
	case errors.Is(err, domain.ErrNotFound):
		c.inv.outcome = metrics.OutcomeNotFound
		fmt.Fprintln(c.inv.stdout, MsgSaleNotFound)
	case errors.Is(err, domain.ErrInsufficientStock):
		c.inv.outcome = metrics.OutcomeInsufficientStock
		fmt.Fprintln(c.inv.stdout, MsgInsufficientStock)
	default:
		return c.inv.fail(c.Name(), err)
	}
	return subcommands.ExitSuccess
}

// ──────────────────────────────────────────────────────────────────────────────
// delete-sales
// ──────────────────────────────────────────────────────────────────────────────

type deleteSalesCmd struct {
	inv *invocation
	noFlags
}

func (*deleteSalesCmd) Name() string     { return "delete-sales" }
func (*deleteSalesCmd) Synopsis() string { return "delete an inventory row by product, store and date" }
func (*deleteSalesCmd) Usage() string    { return "delete-sales <productId,storeId,date>\n" }

func (c *deleteSalesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	arg, ok := c.inv.requireArg(f, "Usage: --delete-sales <salesData>")
	if !ok {
		return subcommands.ExitSuccess
	}
	req, err := dto.ParseDeleteSalesRequest(arg)
	if err != nil {
		return c.inv.fail(c.Name(), err)
	}
	err = c.inv.ledger.DeleteSales(ctx, req)
	switch {
	case err == nil:
		fmt.Fprintln(c.inv.stdout, MsgSaleDeleted)
	case errors.Is(err, domain.ErrNotFound):
		c.inv.outcome = metrics.OutcomeNotFound
		fmt.Fprintln(c.inv.stdout, MsgSaleNotFound)
	default:
		return c.inv.fail(c.Name(), err)
	}
	return subcommands.ExitSuccess
}

// ──────────────────────────────────────────────────────────────────────────────
// get-profit / get-most-profit
// ──────────────────────────────────────────────────────────────────────────────

type getProfitCmd struct {
	inv *invocation
	noFlags
}

func (*getProfitCmd) Name() string     { return "get-profit" }
func (*getProfitCmd) Synopsis() string { return "print the profit of each given store that has sales" }
func (*getProfitCmd) Usage() string    { return "get-profit <storeIds>\n" }

func (c *getProfitCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	arg, ok := c.inv.requireArg(f, "Usage: --get-profit <storeIds>")
	if !ok {
		return subcommands.ExitSuccess
	}
	ids, err := dto.ParseIDList(c.Name(), arg)
	if err != nil {
		return c.inv.fail(c.Name(), err)
	}
	profits, err := c.inv.ledger.GetProfit(ctx, ids)
	if err != nil {
		return c.inv.fail(c.Name(), err)
	}
	if err := writeProfits(c.inv.stdout, profits); err != nil {
		return c.inv.fail(c.Name(), err)
	}
	return subcommands.ExitSuccess
}

type getMostProfitCmd struct {
	inv *invocation
	noFlags
}

func (*getMostProfitCmd) Name() string     { return "get-most-profit" }
func (*getMostProfitCmd) Synopsis() string { return "print the name of the most profitable store" }
func (*getMostProfitCmd) Usage() string    { return "get-most-profit\n" }

func (c *getMostProfitCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	best, err := c.inv.ledger.GetMostProfit(ctx)
	if err != nil {
		return c.inv.fail(c.Name(), err)
	}
	if err := writeMostProfitable(c.inv.stdout, best); err != nil {
		return c.inv.fail(c.Name(), err)
	}
	return subcommands.ExitSuccess
}
