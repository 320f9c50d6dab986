// Package cli traduce los verbos de la línea de comandos a llamadas de los casos de uso
// y escribe los resultados como CSV en la salida estándar.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/subcommands"

	"github.com/jhoicas/invent-cli/internal/application/importer"
	"github.com/jhoicas/invent-cli/pkg/logger"
	"github.com/jhoicas/invent-cli/pkg/metrics"
)

// Mensajes para el operador.
const (
	MsgNoArguments       = "No arguments provided."
	MsgUnknownCommand    = "Unknown command."
	MsgImported          = "CSV data imported successfully."
	MsgSaleUpdated       = "Sales record updated."
	MsgSaleDeleted       = "Sales record deleted."
	MsgSaleNotFound      = "Sales record not found."
	MsgInsufficientStock = "Insufficient stock."
)

// Dispatcher ejecuta un verbo por invocación.
type Dispatcher struct {
	ledger   SalesLedger
	importer CSVImporter
	paths    importer.Paths
	log      *logger.Logger
	metrics  *metrics.CommandMetrics
}

// NewDispatcher construye el dispatcher. metrics puede ser nil.
func NewDispatcher(
	ledger SalesLedger,
	csvImporter CSVImporter,
	paths importer.Paths,
	log *logger.Logger,
	m *metrics.CommandMetrics,
) *Dispatcher {
	return &Dispatcher{
		ledger:   ledger,
		importer: csvImporter,
		paths:    paths,
		log:      log,
		metrics:  m,
	}
}

// invocation estado de una ejecución: destinos de salida y resultado para métricas.
type invocation struct {
	*Dispatcher
	stdout  io.Writer
	stderr  io.Writer
	outcome string
}

// Run ejecuta args (sin el nombre del programa) y devuelve el código de salida del proceso.
// Los verbos se aceptan con o sin el prefijo "--".
func (d *Dispatcher) Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stdout, MsgNoArguments)
		return int(subcommands.ExitSuccess)
	}
	verb := strings.TrimPrefix(args[0], "--")
	// "--" corta el parseo de flags: los argumentos posicionales pueden empezar con "-" (ids negativos).
	args = append([]string{verb, "--"}, args[1:]...)

	inv := &invocation{Dispatcher: d, stdout: stdout, stderr: stderr, outcome: metrics.OutcomeOK}
	top := flag.NewFlagSet("invent", flag.ContinueOnError)
	top.SetOutput(stderr)
	commander := subcommands.NewCommander(top, "invent")
	commander.Output = stdout
	commander.Error = stderr
	for _, c := range inv.commands() {
		commander.Register(c, "sales")
	}
	commander.Register(commander.HelpCommand(), "")

	if !isRegistered(commander, verb) {
		fmt.Fprintln(stdout, MsgUnknownCommand)
		d.log.Warn().Str("verb", verb).Msg("verbo desconocido")
		return int(subcommands.ExitSuccess)
	}
	if err := top.Parse(args); err != nil {
		return int(subcommands.ExitUsageError)
	}

	start := time.Now()
	status := commander.Execute(ctx)
	elapsed := time.Since(start)
	if status != subcommands.ExitSuccess && inv.outcome == metrics.OutcomeOK {
		inv.outcome = metrics.OutcomeError
	}
	d.metrics.ObserveCommand(verb, inv.outcome, elapsed)
	d.log.Info().
		Str("verb", verb).
		Str("outcome", inv.outcome).
		Dur("elapsed", elapsed).
		Int("status", int(status)).
		Msg("comando ejecutado")
	return int(status)
}

func isRegistered(commander *subcommands.Commander, name string) bool {
	found := false
	commander.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		if c.Name() == name {
			found = true
		}
	})
	return found
}

// requireArg devuelve el primer argumento posicional; si falta imprime el uso del verbo.
func (inv *invocation) requireArg(f *flag.FlagSet, usage string) (string, bool) {
	arg := strings.TrimSpace(f.Arg(0))
	if arg == "" {
		fmt.Fprintln(inv.stdout, usage)
		inv.outcome = metrics.OutcomeUsage
		return "", false
	}
	return arg, true
}

// fail reporta un error fatal de la invocación: mensaje en stderr, log y ExitFailure.
func (inv *invocation) fail(verb string, err error) subcommands.ExitStatus {
	fmt.Fprintf(inv.stderr, "Error: %v\n", err)
	inv.log.Error().Err(err).Str("verb", verb).Msg("comando fallido")
	inv.outcome = metrics.OutcomeError
	return subcommands.ExitFailure
}
