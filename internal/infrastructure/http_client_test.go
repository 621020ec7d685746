package infrastructure

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chartgo/internal/domain"
	"chartgo/pkg/logger"
	"chartgo/pkg/metrics"
)

func TestSinkClientExport(t *testing.T) {
	var (
		gotBody      []byte
		gotSignature string
		gotRequestID string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		gotSignature = r.Header.Get(SignatureHeader)
		gotRequestID = r.Header.Get("X-Request-ID")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	m := metrics.New(prometheus.NewRegistry())
	client := NewSinkClient(server.URL, "s3cret", 5*time.Second, 10, testLogger(), m)

	rows := []domain.ExportRow{
		{CampaignID: "shell-1", CampaignName: "Paid Social Reels", AudienceName: "Moms"},
		{CampaignID: "shell-2", CampaignName: "Digital Video Skippable"},
	}
	ctx := logger.ContextWithRequestID(context.Background(), "req-9")

	require.NoError(t, client.Export(ctx, rows))

	var sent []domain.ExportRow
	require.NoError(t, json.Unmarshal(gotBody, &sent))
	assert.Equal(t, rows, sent)
	assert.Equal(t, Sign("s3cret", gotBody), gotSignature)
	assert.Equal(t, "req-9", gotRequestID)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SinkCalls.WithLabelValues("success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RowsExported))
}

func TestSinkClientErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get(SignatureHeader))
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	m := metrics.New(prometheus.NewRegistry())

	unsigned := NewSinkClient(server.URL, "", time.Second, 10, testLogger(), m)
	err := unsigned.Export(context.Background(), []domain.ExportRow{{CampaignID: "x"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SinkCalls.WithLabelValues("error_502")))

	unconfigured := NewSinkClient("", "", time.Second, 10, testLogger(), m)
	assert.ErrorIs(t, unconfigured.Export(context.Background(), nil), domain.ErrSinkNotConfigured)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, unsigned.Export(ctx, nil))
}

func TestSign(t *testing.T) {
	assert.Len(t, Sign("key", []byte("[]")), 64)
	assert.Equal(t, Sign("key", []byte("a")), Sign("key", []byte("a")))
	assert.NotEqual(t, Sign("key", []byte("a")), Sign("other", []byte("a")))
}
