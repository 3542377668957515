package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/imrishuroy/go-sales-ingest/internal/ingest"
	"github.com/imrishuroy/go-sales-ingest/internal/logger"
	"github.com/imrishuroy/go-sales-ingest/internal/middlewares"
	"github.com/imrishuroy/go-sales-ingest/internal/transform"
	"github.com/imrishuroy/go-sales-ingest/internal/validation"
	"github.com/imrishuroy/go-sales-ingest/internal/warehouse"
)

// DefaultStoreName labels responses when HandlerConfig.StoreName is empty.
const DefaultStoreName = "BigQuery"

// HandlerConfig groups dependencies for the ingest handler.
type HandlerConfig struct {
	Inserter  warehouse.RowInserter
	Table     string
	StoreName string
	Logger    *zap.SugaredLogger
	// Now overrides the processed_at clock. Nil means time.Now.
	Now func() time.Time
}

// ErrorResponse is the body of every 4xx/5xx reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// SuccessResponse is the body of a 200 reply.
type SuccessResponse struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

//go:generate mockgen -destination=mock_inserter_test.go -package=handlers github.com/imrishuroy/go-sales-ingest/internal/warehouse RowInserter

// RegisterIngestRoutes registers the ingestion endpoint.
func RegisterIngestRoutes(r gin.IRouter, cfg HandlerConfig) {
	r.POST("/", NewIngestHandler(cfg))
}

// NewIngestHandler validates, enriches and forwards one sales transaction.
func NewIngestHandler(cfg HandlerConfig) gin.HandlerFunc {
	store := cfg.StoreName
	if store == "" {
		store = DefaultStoreName
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	t := transform.New()
	if cfg.Now != nil {
		t = transform.NewWithClock(cfg.Now)
	}
	pipeline := ingest.New(validation.New(), t, cfg.Inserter, cfg.Table)

	return func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON", Details: err.Error()})
			return
		}

		out := pipeline.Process(c.Request.Context(), body)
		reqID := middlewares.RequestIDFrom(c)

		switch out.Kind {
		case ingest.KindValidation:
			log.Infow("payload rejected", "request_id", reqID, "details", out.Detail)
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON", Details: out.Detail})
		case ingest.KindForwarding:
			log.Errorw("insert failed", "request_id", reqID, "store", store, "table", cfg.Table, "error", out.Err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to insert to " + store, Details: out.Detail})
		default:
			log.Infow("payload loaded", "request_id", reqID, "store", store,
				"tax_amount", out.Enrichment.TaxAmount, "final_amount", out.Enrichment.FinalAmount)
			c.JSON(http.StatusOK, SuccessResponse{
				Message: "Validated, transformed, and loaded to " + store,
				Data:    out.Record,
			})
		}
	}
}
