// Package metrics registra métricas de cada invocación de la CLI y las envía a un Pushgateway.
// Un proceso de corta vida no puede ser scrapeado, por eso se usa push al terminar.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Resultados posibles de un comando (etiqueta outcome).
const (
	OutcomeOK                = "ok"
	OutcomeNotFound          = "not_found"
	OutcomeInsufficientStock = "insufficient_stock"
	OutcomeUsage             = "usage"
	OutcomeError             = "error"
)

// CommandMetrics contadores e histograma de los comandos.
type CommandMetrics struct {
	registry *prometheus.Registry
	commands *prometheus.CounterVec
	duration *prometheus.HistogramVec
	imported *prometheus.CounterVec
}

// New crea las métricas sobre un registro propio.
func New() *CommandMetrics {
	reg := prometheus.NewRegistry()
	commands := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "invent_commands_total",
		Help: "Commands executed, by verb and outcome.",
	}, []string{"verb", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "invent_command_duration_seconds",
		Help:    "Duration of commands in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"verb"})
	imported := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "invent_imported_rows_total",
		Help: "Rows inserted by import-csv, by entity.",
	}, []string{"entity"})
	reg.MustRegister(commands, duration, imported)
	return &CommandMetrics{registry: reg, commands: commands, duration: duration, imported: imported}
}

// ObserveCommand registra el resultado y la duración de un comando.
func (m *CommandMetrics) ObserveCommand(verb, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	verb = normalizeLabel(verb)
	m.commands.WithLabelValues(verb, normalizeLabel(outcome)).Inc()
	m.duration.WithLabelValues(verb).Observe(elapsed.Seconds())
}

// AddImported suma filas importadas de una entidad (products, stores, inventory_sales).
func (m *CommandMetrics) AddImported(entity string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.imported.WithLabelValues(normalizeLabel(entity)).Add(float64(n))
}

// Registry expone el registro, para tests o para servir /metrics.
func (m *CommandMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Push envía el registro al Pushgateway bajo el job indicado. url vacía no hace nada.
func (m *CommandMetrics) Push(ctx context.Context, url, job string) error {
	if m == nil || url == "" {
		return nil
	}
	if err := push.New(url, job).Gatherer(m.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}

func normalizeLabel(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
