package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gheinze-sandbox/accounted4/internal/loanterm"
	"github.com/gheinze-sandbox/accounted4/internal/midtier"
	"github.com/gheinze-sandbox/accounted4/internal/party"
	"github.com/gheinze-sandbox/accounted4/pkg/constants"
	"github.com/gheinze-sandbox/accounted4/pkg/datetime"
	"github.com/gheinze-sandbox/accounted4/pkg/validation"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const documentPathPrefix = "/api/amortization/schedule/pdf/"

// Calculator is the part of the amortization service the API relies on.
// *midtier.Client implements it.
type Calculator interface {
	MonthlyPayment(ctx context.Context, req loanterm.Request) (decimal.Decimal, error)
	Schedule(ctx context.Context, req loanterm.Request) ([]midtier.ScheduledPayment, error)
	PrepareSchedule(ctx context.Context, req loanterm.Request) (midtier.DocumentID, error)
	ScheduleDocumentURL(id midtier.DocumentID) string
	FetchScheduleDocument(ctx context.Context, id midtier.DocumentID, w io.Writer) error
}

// Options tune the handler. Zero values select the defaults.
type Options struct {
	MaxBodySize int64
	Version     string
	Defaults    *loanterm.Defaults
	Location    *time.Location
	Now         func() time.Time
}

type handler struct {
	logger      *zap.Logger
	calc        Calculator
	validate    *validator.Validate
	maxBodySize int64
	version     string
	defaults    loanterm.Defaults
	location    *time.Location
	now         func() time.Time
}

// NewHandler constructs the HTTP handler that serves the loan-term and party API.
func NewHandler(logger *zap.Logger, calc Calculator, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	h := &handler{
		logger:      logger,
		calc:        calc,
		validate:    validation.NewValidator(),
		maxBodySize: opts.MaxBodySize,
		version:     strings.TrimSpace(opts.Version),
		defaults:    loanterm.StandardDefaults(),
		location:    opts.Location,
		now:         opts.Now,
	}
	if h.maxBodySize <= 0 {
		h.maxBodySize = constants.DefaultMaxUploadSizeBytes
	}
	if h.version == "" {
		h.version = "dev"
	}
	if opts.Defaults != nil {
		h.defaults = *opts.Defaults
	}
	if h.location == nil {
		h.location = time.Local
	}
	if h.now == nil {
		h.now = time.Now
	}

	mux := http.NewServeMux()

	// Loan-term form
	mux.HandleFunc("/api/amortization/form", h.handleForm)
	mux.HandleFunc("/api/amortization/adjustment-date", h.handleAdjustmentDate)
	mux.HandleFunc("/api/amortization/request", h.handleRequest)

	// Calls forwarded to the amortization service
	mux.HandleFunc("/api/amortization/monthly-payment", h.handleMonthlyPayment)
	mux.HandleFunc("/api/amortization/schedule", h.handleSchedule)
	mux.HandleFunc("/api/amortization/schedule/prepare", h.handlePrepareSchedule)
	mux.HandleFunc(documentPathPrefix, h.handleScheduleDocument)

	// Party form
	mux.HandleFunc("/api/party/display-name", h.handlePartyDisplayName)

	mux.HandleFunc("/api/version", h.handleVersion)

	return mux
}

// formPayload is the loan-term form as exchanged with the presentation layer.
type formPayload struct {
	StartDate                string          `json:"startDate" validate:"required"`
	TermInMonths             int             `json:"termInMonths" validate:"min=1,max=360"`
	InterestOnly             bool            `json:"interestOnly"`
	AmortizationPeriodYears  int             `json:"amortizationPeriodYears" validate:"min=0,max=30"`
	AmortizationPeriodMonths int             `json:"amortizationPeriodMonths" validate:"min=0,max=11"`
	CompoundingPeriod        string          `json:"compoundingPeriod" validate:"required,compounding"`
	LoanAmount               loanterm.Amount `json:"loanAmount" validate:"required,decimal"`
	InterestRate             float64         `json:"interestRate" validate:"gte=0,lte=25"`
	RegularPayment           string          `json:"regularPayment"`
}

type formView struct {
	formPayload
	AdjustmentDate string `json:"adjustmentDate"`
}

type compoundingOption struct {
	Name           string `json:"name"`
	PeriodsPerYear int    `json:"periodsPerYear"`
	Comment        string `json:"comment"`
}

type formLimits struct {
	MaxTermInMonths      int     `json:"maxTermInMonths"`
	MaxAmortizationYears int     `json:"maxAmortizationYears"`
	MaxInterestRate      float64 `json:"maxInterestRate"`
	InterestRateStep     float64 `json:"interestRateStep"`
}

type formResponse struct {
	Form               formView            `json:"form"`
	CompoundingPeriods []compoundingOption `json:"compoundingPeriods"`
	Limits             formLimits          `json:"limits"`
}

type scheduleResponse struct {
	Rows []midtier.ScheduledPayment `json:"rows"`
}

type prepareResponse struct {
	ID         midtier.DocumentID `json:"id"`
	URL        string             `json:"url"`
	ServiceURL string             `json:"serviceUrl"`
}

func viewOf(state loanterm.FormState) formView {
	return formView{
		formPayload: formPayload{
			StartDate:                datetime.FormatDate(state.StartDate),
			TermInMonths:             state.TermInMonths,
			InterestOnly:             state.InterestOnly,
			AmortizationPeriodYears:  state.AmortizationPeriodYears,
			AmortizationPeriodMonths: state.AmortizationPeriodMonths,
			CompoundingPeriod:        state.CompoundingPeriod.String(),
			LoanAmount:               state.LoanAmount,
			InterestRate:             state.InterestRate,
			RegularPayment:           state.RegularPayment,
		},
		AdjustmentDate: datetime.FormatDate(state.AdjustmentDate),
	}
}

func (h *handler) today() time.Time {
	return h.now().In(h.location)
}

func (h *handler) handleForm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	state := loanterm.NewFormStateWithFixedTime(h.defaults, h.today())

	options := make([]compoundingOption, 0, len(loanterm.CompoundingPeriods()))
	for _, p := range loanterm.CompoundingPeriods() {
		options = append(options, compoundingOption{
			Name:           p.String(),
			PeriodsPerYear: p.PeriodsPerYear(),
			Comment:        p.Comment(),
		})
	}

	h.writeJSON(w, http.StatusOK, formResponse{
		Form:               viewOf(state),
		CompoundingPeriods: options,
		Limits: formLimits{
			MaxTermInMonths:      constants.MaxTermInMonths,
			MaxAmortizationYears: constants.MaxAmortizationYears,
			MaxInterestRate:      constants.MaxInterestRate,
			InterestRateStep:     constants.InterestRateStep,
		},
	})
}

func (h *handler) handleAdjustmentDate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAdjustmentDate"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var payload struct {
		StartDate string `json:"startDate"`
	}
	if status, err := h.decodeJSON(w, r, &payload); err != nil {
		h.respondErrorWithOp(w, status, err.Error(), op)
		return
	}

	start, err := datetime.ParseDate(payload.StartDate, h.location)
	if err != nil {
		// An unusable start date falls back to today, like a blank one.
		h.logger.Debug("substituting today for invalid start date",
			zap.String("op", op),
			zap.String("startDate", payload.StartDate),
		)
		start = time.Time{}
	}

	adjustment := loanterm.AdjustmentDateWithFixedTime(start, h.today())
	h.writeJSON(w, http.StatusOK, map[string]string{
		"adjustmentDate": datetime.FormatDate(adjustment),
	})
}

func (h *handler) handleRequest(w http.ResponseWriter, r *http.Request) {
	req, ok := h.submission(w, r, "server.handleRequest")
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, req)
}

func (h *handler) handleMonthlyPayment(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleMonthlyPayment"
	req, ok := h.submission(w, r, op)
	if !ok {
		return
	}

	amount, err := h.calc.MonthlyPayment(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, err, op)
		return
	}

	h.logger.Info("monthly payment computed",
		zap.String("op", op),
		zap.String("amount", amount.String()),
	)
	h.writeJSON(w, http.StatusOK, map[string]decimal.Decimal{"amount": amount})
}

func (h *handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSchedule"
	req, ok := h.submission(w, r, op)
	if !ok {
		return
	}

	start := time.Now()
	rows, err := h.calc.Schedule(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, err, op)
		return
	}
	if rows == nil {
		rows = []midtier.ScheduledPayment{}
	}

	h.logger.Info("schedule computed",
		zap.String("op", op),
		zap.Int("rows", len(rows)),
		zap.Duration("duration", time.Since(start)),
	)
	h.writeJSON(w, http.StatusOK, scheduleResponse{Rows: rows})
}

func (h *handler) handlePrepareSchedule(w http.ResponseWriter, r *http.Request) {
	const op = "server.handlePrepareSchedule"
	req, ok := h.submission(w, r, op)
	if !ok {
		return
	}

	id, err := h.calc.PrepareSchedule(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, err, op)
		return
	}

	h.writeJSON(w, http.StatusOK, prepareResponse{
		ID:         id,
		URL:        documentPathPrefix + url.PathEscape(string(id)),
		ServiceURL: h.calc.ScheduleDocumentURL(id),
	})
}

func (h *handler) handleScheduleDocument(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleScheduleDocument"
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	id, err := url.PathUnescape(strings.TrimPrefix(r.URL.EscapedPath(), documentPathPrefix))
	if err != nil || strings.TrimSpace(id) == "" || strings.Contains(id, "/") {
		h.respondErrorWithOp(w, http.StatusNotFound, "unknown schedule document", op)
		return
	}

	// Buffer the document so a failure can still be reported as JSON.
	var buf bytes.Buffer
	if err := h.calc.FetchScheduleDocument(r.Context(), midtier.DocumentID(id), &buf); err != nil {
		h.respondServiceError(w, err, op)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", "amortization-schedule.pdf"))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("failed to write schedule document",
			zap.String("op", op),
			zap.Error(err),
		)
	}
}

func (h *handler) handlePartyDisplayName(w http.ResponseWriter, r *http.Request) {
	const op = "server.handlePartyDisplayName"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	form := party.NewForm()
	if status, err := h.decodeJSON(w, r, &form); err != nil {
		h.respondErrorWithOp(w, status, err.Error(), op)
		return
	}
	if form.Type == "" {
		form.Type = party.Organization
	}
	partyType, err := party.ParseType(string(form.Type))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	form.Type = partyType
	form.NameChanged()

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"displayName": form.DisplayName,
		"party":       form.Extract(),
	})
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

// submission decodes, validates and normalizes a loan-term form. On failure
// it has already written the error response.
func (h *handler) submission(w http.ResponseWriter, r *http.Request, op string) (loanterm.Request, bool) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return loanterm.Request{}, false
	}

	// Fields left out of the body keep their default values.
	payload := viewOf(loanterm.NewFormStateWithFixedTime(h.defaults, h.today())).formPayload
	if status, err := h.decodeJSON(w, r, &payload); err != nil {
		h.respondErrorWithOp(w, status, err.Error(), op)
		return loanterm.Request{}, false
	}

	state, err := h.formState(payload)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return loanterm.Request{}, false
	}

	req, err := loanterm.ToRequest(state)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return loanterm.Request{}, false
	}
	return req, true
}

func (h *handler) formState(payload formPayload) (loanterm.FormState, error) {
	if err := h.validate.Struct(payload); err != nil {
		return loanterm.FormState{}, errors.New(validation.Describe(err))
	}

	start, err := datetime.ParseDate(payload.StartDate, h.location)
	if err != nil {
		return loanterm.FormState{}, err
	}
	period, err := loanterm.ParseCompoundingPeriod(payload.CompoundingPeriod)
	if err != nil {
		return loanterm.FormState{}, err
	}

	state := loanterm.FormState{
		TermInMonths:             payload.TermInMonths,
		InterestOnly:             payload.InterestOnly,
		AmortizationPeriodYears:  payload.AmortizationPeriodYears,
		AmortizationPeriodMonths: payload.AmortizationPeriodMonths,
		CompoundingPeriod:        period,
		LoanAmount:               loanterm.Amount(strings.TrimSpace(payload.LoanAmount.String())),
		InterestRate:             payload.InterestRate,
		RegularPayment:           payload.RegularPayment,
	}
	state.SetStartDateWithFixedTime(start, h.today())
	return state, nil
}

func (h *handler) decodeJSON(w http.ResponseWriter, r *http.Request, out interface{}) (int, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return http.StatusRequestEntityTooLarge, fmt.Errorf("request exceeds limit of %d bytes", h.maxBodySize)
		}
		if errors.Is(err, io.EOF) {
			return http.StatusBadRequest, errors.New("request body is empty")
		}
		return http.StatusBadRequest, fmt.Errorf("failed to decode request: %v", err)
	}
	return http.StatusOK, nil
}

func (h *handler) respondServiceError(w http.ResponseWriter, err error, op string) {
	status := http.StatusBadGateway
	var svcErr *midtier.ServiceError
	if errors.As(err, &svcErr) && svcErr.Status == http.StatusNotFound {
		status = http.StatusNotFound
	}

	h.logger.Warn("amortization service error",
		zap.String("op", op),
		zap.Error(err),
	)
	h.respondErrorWithOp(w, status, midtier.UserMessage(err), op)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
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
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
