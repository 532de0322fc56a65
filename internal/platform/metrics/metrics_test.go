package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/SscSPs/ledger_engine/internal/platform/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Counts(t *testing.T) {
	r := metrics.NewRecorder()
	r.TransactionCreated("JOURNAL_ENTRY")
	r.TransactionPosted("JOURNAL_ENTRY")
	r.Rejected("unbalanced")
	r.FXRecorded("UNREALIZED", 3)
	r.RevaluationRun()

	expected := `
# HELP ledger_fx_records_total FX gain/loss records written, by FX type.
# TYPE ledger_fx_records_total counter
ledger_fx_records_total{fx_type="UNREALIZED"} 3
`
	require.NoError(t, testutil.GatherAndCompare(r.Registry(), strings.NewReader(expected), "ledger_fx_records_total"))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `ledger_submissions_rejected_total{reason="unbalanced"} 1`)
	assert.Contains(t, rec.Body.String(), "ledger_revaluation_runs_total 1")
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *metrics.Recorder
	assert.NotPanics(t, func() {
		r.TransactionCreated("INVOICE")
		r.TransactionPosted("INVOICE")
		r.TransactionReversed("INVOICE")
		r.Rejected("x")
		r.FXRecorded("REALIZED", 1)
		r.RevaluationRun()
	})
}
