package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/imrishuroy/go-sales-ingest/internal/config"
	"github.com/imrishuroy/go-sales-ingest/internal/middlewares"
	"github.com/imrishuroy/go-sales-ingest/internal/warehouse"
)

const validBody = `{"order_id":"ORD-1234","customer_id":"CUST-001","order_date":"2025-05-26T12:34:56Z",` +
	`"source":"web","items":[],` +
	`"shipping_address":{"line1":"123 Street","city":"City","state":"State","postal_code":"12345","country":"Country"},` +
	`"payment_method":"card","total_amount":20.0}`

func init() {
	gin.SetMode(gin.TestMode)
}

type stubInserter struct{ err error }

func (s stubInserter) InsertRow(context.Context, string, map[string]any) error { return s.err }

type fakeRecorder struct {
	mu       sync.Mutex
	outcomes []string
	done     chan struct{}
}

func (f *fakeRecorder) Record(_ context.Context, outcome string) error {
	f.mu.Lock()
	f.outcomes = append(f.outcomes, outcome)
	f.mu.Unlock()
	f.done <- struct{}{}
	return nil
}

func testConfig() config.Config {
	return config.Config{Host: "127.0.0.1", Port: 0, Table: config.DefaultTable}
}

func newTestServer(t *testing.T, deps Deps) *Server {
	t.Helper()
	if deps.Destination == nil {
		deps.Destination = &warehouse.Destination{Name: "BigQuery", Inserter: stubInserter{}}
	}
	s, err := New(testConfig(), deps)
	require.NoError(t, err)
	return s
}

func TestNew_RequiresDestination(t *testing.T) {
	_, err := New(testConfig(), Deps{})
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, Deps{})

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get(middlewares.RequestIDHeader))
}

func TestIngestRoute(t *testing.T) {
	s := newTestServer(t, Deps{
		Destination: &warehouse.Destination{Name: "PostgreSQL", Inserter: stubInserter{}},
	})

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(validBody)))

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "Validated, transformed, and loaded to PostgreSQL", gjson.Get(rr.Body.String(), "message").String())
	assert.Equal(t, 22.0, gjson.Get(rr.Body.String(), "data.final_amount").Float())
}

func TestMetricsRecorded(t *testing.T) {
	rec := &fakeRecorder{done: make(chan struct{}, 2)}
	s := newTestServer(t, Deps{Metrics: rec})

	for _, body := range []string{validBody, `{}`} {
		rr := httptest.NewRecorder()
		s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	}

	for i := 0; i < 2; i++ {
		select {
		case <-rec.done:
		case <-time.After(2 * time.Second):
			t.Fatal("metrics not recorded")
		}
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.ElementsMatch(t, []string{"loaded", "rejected"}, rec.outcomes)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	s := newTestServer(t, Deps{})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRun_ReturnsListenError(t *testing.T) {
	cfg := testConfig()
	cfg.Port = -1
	s, err := New(cfg, Deps{Destination: &warehouse.Destination{Name: "BigQuery", Inserter: stubInserter{}}})
	require.NoError(t, err)

	err = s.Run(context.Background())
	assert.Error(t, err)
}
