// Package server exposes the quote service over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/ananda-quote/internal/config"
	"github.com/iwvelando/ananda-quote/internal/inventory"
	"github.com/iwvelando/ananda-quote/internal/quote"
	"github.com/iwvelando/ananda-quote/pkg/constants"
	"github.com/iwvelando/ananda-quote/pkg/output"
	"github.com/iwvelando/ananda-quote/pkg/pricing"
	"go.uber.org/zap"
)

// Quoter issues quotes against an inventory.
type Quoter interface {
	Quote(ctx context.Context, req config.QuoteRequest) (pricing.Quote, error)
	Inventory() *inventory.Inventory
	Engine() *pricing.Engine
}

// Options tune the handler.
type Options struct {
	MaxBodySize int64
	Version     string
	RateLimit   RateLimitConfig
	// Defaults fill the fields a request leaves out.
	Defaults config.QuoteRequest
}

type handler struct {
	logger      *zap.Logger
	quoter      Quoter
	maxBodySize int64
	version     string
	defaults    config.QuoteRequest
}

// NewHandler constructs the HTTP handler that serves the quote API.
func NewHandler(logger *zap.Logger, quoter Quoter, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	maxBodySize := opts.MaxBodySize
	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	version := strings.TrimSpace(opts.Version)
	if version == "" {
		version = "dev"
	}

	h := &handler{
		logger:      logger,
		quoter:      quoter,
		maxBodySize: maxBodySize,
		version:     version,
		defaults:    opts.Defaults,
	}

	mux := http.NewServeMux()

	// Quote computation
	mux.HandleFunc("/api/quote", h.handleQuote)

	// Printable quote document (text or CSV)
	mux.HandleFunc("/api/quote/export", h.handleQuoteExport)

	// Inventory browsing
	mux.HandleFunc("/api/lots", h.handleLots)
	mux.HandleFunc("/api/lots/{number}", h.handleLot)

	// Discount table for agents
	mux.HandleFunc("/api/discounts", h.handleDiscounts)

	// Version endpoint for client metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	return rateLimit(logger, opts.RateLimit, mux)
}

type quoteResponse struct {
	output.Document
	CSV      string `json:"csv"`
	Duration string `json:"duration"`
}

type lotsResponse struct {
	Lots      []pricing.Lot `json:"lots"`
	Total     int           `json:"total"`
	Available int           `json:"available"`
}

type discountRow struct {
	TermMonths int                    `json:"termMonths"`
	Bands      []pricing.DiscountBand `json:"bands"`
}

func (h *handler) handleQuote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	doc, ok := h.computeQuote(w, r, "server.handleQuote")
	if !ok {
		return
	}
	elapsed := time.Since(start)

	h.logger.Info("quote computed",
		zap.String("op", "server.handleQuote"),
		zap.Int("lot", doc.Quote.LotNumber),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, quoteResponse{
		Document: doc,
		CSV:      output.CsvString(doc),
		Duration: elapsed.String(),
	})
}

func (h *handler) handleQuoteExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	doc, ok := h.computeQuote(w, r, "server.handleQuoteExport")
	if !ok {
		return
	}

	var body, contentType, ext string
	switch r.URL.Query().Get("format") {
	case "", constants.OutputFormatPretty:
		body, contentType, ext = output.PrettyString(doc), "text/plain; charset=utf-8", "txt"
	case constants.OutputFormatCSV:
		body, contentType, ext = output.CsvString(doc), "text/csv; charset=utf-8", "csv"
	default:
		h.respondError(w, http.StatusBadRequest, "unsupported export format", "server.handleQuoteExport")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="quote-lot-%d.%s"`, doc.Quote.LotNumber, ext))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(body)); err != nil {
		h.logger.Warn("failed to write export",
			zap.String("op", "server.handleQuoteExport"),
			zap.Error(err),
		)
	}
}

// computeQuote decodes a request onto the configured defaults and quotes it.
// It writes the error response itself and reports false on failure.
func (h *handler) computeQuote(w http.ResponseWriter, r *http.Request, op string) (output.Document, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

	req, err := decodeQuoteRequest(r.Body, h.defaults)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxBodySize), op)
			return output.Document{}, false
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to decode quote request: %v", err), op)
		return output.Document{}, false
	}

	q, err := h.quoter.Quote(r.Context(), req)
	if err != nil {
		h.respondError(w, statusForError(err), err.Error(), op)
		return output.Document{}, false
	}

	lot, _ := h.quoter.Inventory().Lot(q.LotNumber)
	return output.NewDocument(lot, q), true
}

// rentalInputs records which occupancy input a request body sets.
type rentalInputs struct {
	OccupancyPct  *float64 `json:"occupancyPct"`
	NightsPerYear *int     `json:"nightsPerYear"`
}

// decodeQuoteRequest merges a JSON body over defaults. Occupancy and nights
// are alternatives, so a body that sets only one of them clears the other
// default.
func decodeQuoteRequest(body io.Reader, defaults config.QuoteRequest) (config.QuoteRequest, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return config.QuoteRequest{}, err
	}

	req := defaults
	if err := json.Unmarshal(raw, &req); err != nil {
		return config.QuoteRequest{}, err
	}

	var set rentalInputs
	if err := json.Unmarshal(raw, &set); err != nil {
		return config.QuoteRequest{}, err
	}
	switch {
	case set.NightsPerYear != nil && set.OccupancyPct == nil:
		req.OccupancyPct = 0
	case set.OccupancyPct != nil && set.NightsPerYear == nil:
		req.NightsPerYear = 0
	}

	return req, nil
}

func statusForError(err error) int {
	var invalid *pricing.InvalidConfigurationError
	var missing *pricing.MissingReferencePriceError
	switch {
	case errors.Is(err, quote.ErrLotNotFound):
		return http.StatusNotFound
	case errors.Is(err, quote.ErrLotUnavailable):
		return http.StatusConflict
	case errors.As(err, &invalid):
		return http.StatusBadRequest
	case errors.As(err, &missing):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *handler) handleLots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	inv := h.quoter.Inventory()
	lots := inv.Lots()
	if r.URL.Query().Get("available") == "true" {
		filtered := lots[:0]
		for _, lot := range lots {
			if lot.Available() {
				filtered = append(filtered, lot)
			}
		}
		lots = filtered
	}

	h.writeJSON(w, http.StatusOK, lotsResponse{
		Lots:      lots,
		Total:     inv.Len(),
		Available: inv.AvailableCount(),
	})
}

func (h *handler) handleLot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	number, err := strconv.Atoi(r.PathValue("number"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid lot number", "server.handleLot")
		return
	}

	lot, ok := h.quoter.Inventory().Lot(number)
	if !ok {
		h.respondError(w, http.StatusNotFound, fmt.Sprintf("lot %d not found", number), "server.handleLot")
		return
	}
	h.writeJSON(w, http.StatusOK, lot)
}

func (h *handler) handleDiscounts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	table := h.quoter.Engine().DiscountTable()
	rows := make([]discountRow, 0)
	for _, term := range table.Terms() {
		rows = append(rows, discountRow{TermMonths: term, Bands: table.Bands(term)})
	}
	h.writeJSON(w, http.StatusOK, rows)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("quote request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response",
			zap.String("op", "server.writeJSON"),
			zap.Error(err),
		)
	}
}
