package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/dirham-statement-importer/internal/engine"
	"github.com/insightdelivered/dirham-statement-importer/internal/extractor"
	"github.com/insightdelivered/dirham-statement-importer/internal/logger"
	"github.com/insightdelivered/dirham-statement-importer/internal/models"
	"github.com/insightdelivered/dirham-statement-importer/internal/parser"
	"github.com/insightdelivered/dirham-statement-importer/internal/writer"
)

// StatementResponse is the JSON body of /api/import and /api/parse.
type StatementResponse struct {
	Success     bool                       `json:"success"`
	Error       string                     `json:"error,omitempty"`
	ImportID    string                     `json:"importId,omitempty"`
	Bank        string                     `json:"bank,omitempty"`
	Period      string                     `json:"period,omitempty"`
	Records     []models.TransactionRecord `json:"records"`
	Count       int                        `json:"count"`
	Added       int                        `json:"added"`
	Total       int                        `json:"total,omitempty"`
	Duplicate   bool                       `json:"duplicate"`
	FailedLines int                        `json:"failedLines"`
	TotalDebit  decimal.Decimal            `json:"totalDebit"`
	TotalCredit decimal.Decimal            `json:"totalCredit"`
	CSV         string                     `json:"csv,omitempty"`
	Lines       []models.LineResult        `json:"lines,omitempty"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	Engine    *engine.Engine
	Logger    zerolog.Logger
	Version   string
	StaticDir string

	// importMu keeps the list/merge/replace cycle single-writer.
	importMu sync.Mutex
}

// NewApp builds a fiber app with the routes registered.
func NewApp(h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "dirham-statement-importer",
		BodyLimit:             int(h.Engine.Limits().MaxInputBytes) + 1<<20,
		DisableStartupMessage: true,
	})
	h.RegisterRoutes(app)
	return app
}

// RegisterRoutes sets up the HTTP routes.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/api/health", h.HandleHealth)
	app.Post("/api/import", h.HandleImport)
	app.Post("/api/parse", h.HandleParse)
	app.Get("/api/transactions", h.HandleTransactions)

	if h.StaticDir != "" {
		app.Static("/", h.StaticDir)
	}
}

func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": h.Version,
	})
}

// HandleImport parses the uploaded statement and merges it into the store.
func (h *Handler) HandleImport(c *fiber.Ctx) error {
	data, opts, ferr := h.readUpload(c)
	if ferr != nil {
		return writeError(c, ferr.Code, ferr.Message)
	}
	ctx := h.requestContext(c)

	h.importMu.Lock()
	res, err := h.Engine.Import(ctx, data, opts)
	h.importMu.Unlock()
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).Msg("import failed")
		return writeError(c, statusFor(err), err.Error())
	}

	resp, err := h.statementResponse(c, res.Statement)
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, err.Error())
	}
	resp.ImportID = res.ID.String()
	resp.Added = res.Added
	resp.Total = res.Total
	resp.Duplicate = res.Duplicate()
	return c.JSON(resp)
}

// HandleParse parses the uploaded statement without storing anything.
func (h *Handler) HandleParse(c *fiber.Ctx) error {
	data, opts, ferr := h.readUpload(c)
	if ferr != nil {
		return writeError(c, ferr.Code, ferr.Message)
	}
	ctx := h.requestContext(c)

	st, err := h.Engine.Parse(ctx, data, opts)
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).Msg("parse failed")
		return writeError(c, statusFor(err), err.Error())
	}

	resp, err := h.statementResponse(c, st)
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(resp)
}

// HandleTransactions lists the accumulated records, as JSON or with ?format=csv.
func (h *Handler) HandleTransactions(c *fiber.Ctx) error {
	records, err := h.Engine.Store().List(h.requestContext(c))
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("listing records: %v", err))
	}

	if c.Query("format") == "csv" {
		var buf bytes.Buffer
		w := &writer.CSVWriter{}
		if err := w.Write(&buf, &models.Statement{Records: records}); err != nil {
			return writeError(c, fiber.StatusInternalServerError, err.Error())
		}
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		return c.Send(buf.Bytes())
	}

	return c.JSON(fiber.Map{
		"records": records,
		"count":   len(records),
	})
}

// readUpload returns the uploaded file and the optional bank override.
func (h *Handler) readUpload(c *fiber.Ctx) ([]byte, engine.Options, *fiber.Error) {
	var opts engine.Options

	fh, err := c.FormFile("file")
	if err != nil {
		return nil, opts, fiber.NewError(fiber.StatusBadRequest, "No file uploaded. Use form field 'file'.")
	}
	if !strings.HasSuffix(strings.ToLower(fh.Filename), ".pdf") {
		return nil, opts, fiber.NewError(fiber.StatusBadRequest, "Only PDF files are supported.")
	}

	limit := h.Engine.Limits().MaxInputBytes
	if fh.Size > limit {
		return nil, opts, fiber.NewError(fiber.StatusRequestEntityTooLarge,
			fmt.Sprintf("%v: %d bytes exceeds %d", engine.ErrInputTooLarge, fh.Size, limit))
	}

	if bank := c.FormValue("bank"); bank != "" {
		v, err := models.ParseBankVariant(bank)
		if err != nil {
			return nil, opts, fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		opts.Variant = v
	}

	f, err := fh.Open()
	if err != nil {
		return nil, opts, fiber.NewError(fiber.StatusInternalServerError, "Failed to read uploaded file.")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, opts, fiber.NewError(fiber.StatusInternalServerError, "Failed to read uploaded file.")
	}
	return data, opts, nil
}

func (h *Handler) requestContext(c *fiber.Ctx) context.Context {
	l := h.Logger.With().Str("request_id", uuid.NewString()).Str("path", c.Path()).Logger()
	return logger.WithContext(c.UserContext(), l)
}

func (h *Handler) statementResponse(c *fiber.Ctx, st *models.Statement) (StatementResponse, error) {
	var csvBuf bytes.Buffer
	w := &writer.CSVWriter{IncludeHeader: c.FormValue("header") != "false"}
	if err := w.Write(&csvBuf, st); err != nil {
		return StatementResponse{}, fmt.Errorf("CSV generation failed: %w", err)
	}

	totalDebit, totalCredit := decimal.Zero, decimal.Zero
	for _, r := range st.Records {
		if r.Direction == models.Credit {
			totalCredit = totalCredit.Add(r.Amount)
		} else {
			totalDebit = totalDebit.Add(r.Amount.Abs())
		}
	}

	resp := StatementResponse{
		Success:     true,
		Bank:        string(st.Variant),
		Period:      st.Period.String(),
		Records:     st.Records,
		Count:       len(st.Records),
		FailedLines: st.FailedLines,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
		CSV:         csvBuf.String(),
	}
	if c.FormValue("debug") == "true" {
		resp.Lines = st.Lines
	}
	return resp, nil
}

// statusFor maps engine failures onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrInputTooLarge):
		return fiber.StatusRequestEntityTooLarge
	case errors.Is(err, extractor.ErrDecodeTimeout):
		return fiber.StatusGatewayTimeout
	case errors.Is(err, extractor.ErrOpen),
		errors.Is(err, parser.ErrNoPeriodAnchor),
		errors.Is(err, parser.ErrNoTransactions),
		errors.Is(err, parser.ErrPeriodConsistency):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(StatementResponse{
		Success: false,
		Error:   msg,
	})
}
