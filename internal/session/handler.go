package session

import (
	"strconv"
	"strings"
	"time"

	"github.com/ginjaninja78/challan-generator/internal/apperror"
	"github.com/ginjaninja78/challan-generator/internal/ledger"
	"github.com/ginjaninja78/challan-generator/internal/period"
	"github.com/ginjaninja78/challan-generator/internal/receipt"
	"github.com/ginjaninja78/challan-generator/internal/render"
	"github.com/ginjaninja78/challan-generator/internal/tabular"
	"github.com/ginjaninja78/challan-generator/internal/types"
	"github.com/ginjaninja78/challan-generator/internal/validation"
	"github.com/ginjaninja78/challan-generator/pkg/logger"
)

// =============================================================================
// REQUESTS AND RESPONSES
// =============================================================================

// ConfigureRequest carries the batch settings.
type ConfigureRequest struct {
	StartNumber  int
	PaymentDate  string
	KeepDecimals bool
	OnlySuffix   bool
}

// SearchRequest identifies a consumer and a period. To is optional; when
// set the period is the inclusive range From..To.
type SearchRequest struct {
	ConsumerNumber string
	From           string
	To             string
}

// SearchResponse is the preview of what a receipt would bill.
type SearchResponse struct {
	Resolution period.Resolution

	// Due is false when the consumer owes nothing for the period.
	Due bool

	// Display and Words render the total under the session's policy.
	Display string
	Words   string
}

// AddRequest is a search plus the payment instrument of the receipt.
type AddRequest struct {
	SearchRequest

	InstrumentType   string
	InstrumentNumber string
	InstrumentDate   string
	BankName         string

	// PaymentDate overrides the session's payment date for this receipt.
	PaymentDate string
}

// Document is a rendered batch.
type Document struct {
	Data      []byte
	Extension string
	Records   int

	// Schema is set when the renderer describes its output with a schema
	// file, such as the XSD of the XML export.
	Schema          []byte
	SchemaExtension string
}

// =============================================================================
// HANDLER
// =============================================================================

// Handler serves session requests against one loaded data source. It holds
// no batch state of its own; every request names the session explicitly and
// either applies completely or leaves it untouched.
type Handler struct {
	source    period.Source
	validator *validation.Validator
	renderer  render.Renderer
	log       *logger.Logger
}

// NewHandler creates a Handler. A nil log discards output.
func NewHandler(source period.Source, renderer render.Renderer, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{
		source:    source,
		validator: validation.New(),
		renderer:  renderer,
		log:       log.WithComponent("session"),
	}
}

// Configure locks the batch settings and opens an empty ledger.
func (h *Handler) Configure(s *Session, req ConfigureRequest) error {
	if err := s.require("setup", StateNew); err != nil {
		return err
	}

	var violations []apperror.Violation
	if req.StartNumber < 1 {
		violations = append(violations, apperror.Violation{
			Field:   "start_number",
			Rule:    "min",
			Value:   strconv.Itoa(req.StartNumber),
			Message: "start number must be at least 1",
		})
	}
	paymentDate, err := validation.ParseDate(req.PaymentDate)
	if err != nil {
		violations = append(violations, apperror.Violation{
			Field:   "payment_date",
			Rule:    "date",
			Value:   req.PaymentDate,
			Message: err.Error(),
		})
	}
	if len(violations) > 0 {
		return apperror.NewValidation("session settings are invalid", violations...)
	}

	cfg := Config{
		StartNumber:  req.StartNumber,
		PaymentDate:  paymentDate,
		KeepDecimals: req.KeepDecimals,
		OnlySuffix:   req.OnlySuffix,
	}
	s.config, s.ledger, s.state = cfg, ledger.New(cfg.StartNumber, cfg.Formatter()), StateConfigured

	h.log.Infow("session configured",
		"session", s.ID,
		"start_number", cfg.StartNumber,
		"payment_date", validation.FormatDate(cfg.PaymentDate),
		"keep_decimals", cfg.KeepDecimals)
	return nil
}

// Search resolves the amount a consumer owes for a period.
func (h *Handler) Search(s *Session, req SearchRequest) (SearchResponse, error) {
	if err := s.require("search", StateConfigured, StateActive); err != nil {
		return SearchResponse{}, err
	}

	res, err := h.resolve(req)
	if err != nil {
		return SearchResponse{}, err
	}

	resp := SearchResponse{Resolution: res}
	rendered, err := s.config.Formatter().Render(res.Total)
	if err != nil {
		return SearchResponse{}, err
	}
	resp.Display, resp.Words = rendered.Display, rendered.Words
	resp.Due = res.Due() && rendered.Amount.IsPositive()

	h.log.Debugw("consumer resolved",
		"session", s.ID,
		"consumer", res.ConsumerNumber,
		"period", res.Period.String(),
		"total", res.Total.String(),
		"missing_periods", len(res.MissingPeriods))
	return resp, nil
}

// Add validates the instrument, assembles the receipt and appends it.
func (h *Handler) Add(s *Session, req AddRequest) (types.ReceiptRecord, error) {
	if err := s.require("add", StateConfigured, StateActive); err != nil {
		return types.ReceiptRecord{}, err
	}

	res, err := h.resolve(req.SearchRequest)
	if err != nil {
		return types.ReceiptRecord{}, err
	}

	inst, err := h.validator.Validate(validation.Input{
		ConsumerNumber:   res.ConsumerNumber,
		InstrumentType:   req.InstrumentType,
		InstrumentNumber: req.InstrumentNumber,
		InstrumentDate:   req.InstrumentDate,
		BankName:         req.BankName,
	})
	if err != nil {
		return types.ReceiptRecord{}, err
	}

	var override time.Time
	if strings.TrimSpace(req.PaymentDate) != "" {
		override, err = validation.ParseDate(req.PaymentDate)
		if err != nil {
			return types.ReceiptRecord{}, apperror.NewValidation("payment date is invalid", apperror.Violation{
				Field:   "payment_date",
				Rule:    "date",
				Value:   req.PaymentDate,
				Message: err.Error(),
			})
		}
	}

	record, err := receipt.Assemble(receipt.Parts{
		Resolution:          res,
		Instrument:          inst,
		Formatter:           s.config.Formatter(),
		PaymentDate:         s.config.PaymentDate,
		PaymentDateOverride: override,
		Serial:              s.ledger.NextSerial(),
	})
	if err != nil {
		return types.ReceiptRecord{}, err
	}

	record = s.ledger.Append(record)
	s.state = StateActive

	h.log.Infow("receipt added",
		"session", s.ID,
		"serial", record.Serial,
		"consumer", record.ConsumerNumber,
		"amount", record.AmountDisplay)
	return record, nil
}

// EditAmount replaces the amount of a record; display and words follow.
func (h *Handler) EditAmount(s *Session, id, raw string) (types.ReceiptRecord, error) {
	if err := s.require("edit", StateActive); err != nil {
		return types.ReceiptRecord{}, err
	}

	record, err := s.ledger.EditAmount(id, raw)
	if err != nil {
		return types.ReceiptRecord{}, err
	}

	h.log.Infow("receipt amount edited",
		"session", s.ID,
		"serial", record.Serial,
		"amount", record.AmountDisplay)
	return record, nil
}

// Delete removes a record and renumbers the rest.
func (h *Handler) Delete(s *Session, id string) error {
	if err := s.require("delete", StateActive); err != nil {
		return err
	}

	if err := s.ledger.Delete(id); err != nil {
		return err
	}
	if s.ledger.Len() == 0 {
		s.state = StateConfigured
	}

	h.log.Infow("receipt deleted", "session", s.ID, "id", id, "remaining", s.ledger.Len())
	return nil
}

// Records returns the batch in serial order.
func (h *Handler) Records(s *Session) ([]types.ReceiptRecord, error) {
	if err := s.require("list", StateNew, StateConfigured, StateActive); err != nil {
		return nil, err
	}
	if s.ledger == nil {
		return nil, nil
	}
	return s.ledger.All(), nil
}

// Finalize renders the whole batch. The session stays active, so the
// operator may keep editing and finalize again.
func (h *Handler) Finalize(s *Session) (Document, error) {
	if err := s.require("finalize", StateActive); err != nil {
		return Document{}, err
	}

	records := s.ledger.All()
	data, err := h.renderer.Render(records)
	if err != nil {
		return Document{}, err
	}

	h.log.Infow("batch finalized",
		"session", s.ID,
		"records", len(records),
		"first_serial", records[0].Serial,
		"last_serial", records[len(records)-1].Serial)
	doc := Document{Data: data, Extension: h.renderer.Extension(), Records: len(records)}
	if provider, ok := h.renderer.(render.SchemaProvider); ok {
		doc.Schema, doc.SchemaExtension = provider.Schema()
	}
	return doc, nil
}

// Reset clears settings and ledger together and returns the session to New.
func (h *Handler) Reset(s *Session) error {
	if err := s.require("reset", StateNew, StateConfigured, StateActive); err != nil {
		return err
	}

	dropped := s.Len()
	s.config, s.ledger, s.state = Config{}, nil, StateNew

	h.log.Infow("session reset", "session", s.ID, "dropped_records", dropped)
	return nil
}

// Discard ends the session. Every later request fails.
func (h *Handler) Discard(s *Session) error {
	if err := s.require("discard", StateNew, StateConfigured, StateActive); err != nil {
		return err
	}

	dropped := s.Len()
	s.config, s.ledger, s.state = Config{}, nil, StateDiscarded

	h.log.Infow("session discarded", "session", s.ID, "dropped_records", dropped)
	return nil
}

// resolve normalizes the consumer number, parses the period and looks it up.
func (h *Handler) resolve(req SearchRequest) (period.Resolution, error) {
	consumer := tabular.NormalizeConsumerNumber(req.ConsumerNumber)
	if consumer == "" {
		return period.Resolution{}, apperror.NewValidation("consumer number is required", apperror.Violation{
			Field:   "consumer_number",
			Rule:    "required",
			Message: "consumer_number is required",
		})
	}

	p, err := period.Parse(req.From, req.To)
	if err != nil {
		return period.Resolution{}, apperror.NewValidation("period is invalid", apperror.Violation{
			Field:   "period",
			Rule:    "period",
			Value:   strings.TrimSpace(req.From + " " + req.To),
			Message: err.Error(),
		})
	}

	res, err := period.Resolve(h.source, consumer, p)
	if err != nil {
		return period.Resolution{}, err
	}
	if err := res.Unreadable(); err != nil {
		h.log.Warnw("amount cell is not a number",
			"consumer", consumer,
			"period", p.String(),
			"cells", len(res.InvalidCells))
		return period.Resolution{}, err
	}
	return res, nil
}
