package metrics_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invent-cli/pkg/metrics"
)

func TestObserveCommand_CuentaPorVerboYResultado(t *testing.T) {
	m := metrics.New()

	m.ObserveCommand("add-sales", metrics.OutcomeOK, 10*time.Millisecond)
	m.ObserveCommand("add-sales", metrics.OutcomeInsufficientStock, time.Millisecond)
	m.ObserveCommand("add-sales", metrics.OutcomeOK, time.Millisecond)

	n, err := testutil.GatherAndCount(m.Registry(), "invent_commands_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	n, err = testutil.GatherAndCount(m.Registry(), "invent_command_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestAddImported_IgnoraCeros(t *testing.T) {
	m := metrics.New()

	m.AddImported("products", 3)
	m.AddImported("stores", 0)

	n, err := testutil.GatherAndCount(m.Registry(), "invent_imported_rows_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNil_NoPanic(t *testing.T) {
	var m *metrics.CommandMetrics
	assert.NotPanics(t, func() {
		m.ObserveCommand("list-sales", metrics.OutcomeOK, time.Second)
		m.AddImported("products", 1)
	})
	assert.NoError(t, m.Push(context.Background(), "http://ignored", "invent"))
}

func TestPush_EnviaAlPushgateway(t *testing.T) {
	var gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := metrics.New()
	m.ObserveCommand("get-profit", metrics.OutcomeOK, time.Millisecond)

	require.NoError(t, m.Push(context.Background(), srv.URL, "invent"))
	assert.Equal(t, "/metrics/job/invent", gotPath)
	assert.NotEmpty(t, gotBody)
}

func TestPush_SinURLNoHaceNada(t *testing.T) {
	assert.NoError(t, metrics.New().Push(context.Background(), "", "invent"))
}
