package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorders(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordImport("success", "paste", 20*time.Millisecond)
	m.RecordRowAccepted("paste", "brand_say_social")
	m.RecordRowAccepted("paste", "brand_say_social")
	m.RecordRowRejected("file", "total row")
	m.RecordShellsBuilt(3)
	m.SetShellsStored(3)
	m.RecordSinkCall("success", time.Second)
	m.RecordRowsExported(7)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ImportsTotal.WithLabelValues("success", "paste")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RowsAccepted.WithLabelValues("paste", "brand_say_social")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RowsRejected.WithLabelValues("file", "total row")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ShellsBuilt))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ShellsStored))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SinkCalls.WithLabelValues("success")))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.RowsExported))
}

func TestSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}

func TestInFlightGauges(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncImportsInProgress()
	m.IncImportsInProgress()
	m.DecImportsInProgress()
	m.IncHTTPRequestsInFlight()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ImportsInProgress))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsInFlight))
}
