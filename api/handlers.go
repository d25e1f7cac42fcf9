/*
handlers.go - HTTP API handlers for the payroll engine

PURPOSE:
  Exposes the salary calculators over REST. Handles HTTP request/response,
  JSON serialization, and delegates to the calculator package.

ENDPOINTS:
  Salary:
    POST   /api/salary/calculate       Forward calculation (optional save)
    POST   /api/salary/reverse         Base salary for a target net pay
    POST   /api/salary/payslip         Forward calculation rendered as PDF

  Deductions:
    POST   /api/insurance/calculate    Four social insurances for an income
    POST   /api/tax/calculate          Withholding tax for an income

  Simulation:
    POST   /api/simulation/compare     High-base vs low-base salary split

  Reference data:
    GET    /api/rates                  Loaded years and the newest table
    GET    /api/rates/{year}           One year's statutory constants
    GET    /api/holidays               Holiday calendar (?year=)
    POST   /api/holidays               Add or rename a holiday
    DELETE /api/holidays/{id}          Remove a holiday

  Records:
    GET    /api/records                Saved calculations (?limit=)
    GET    /api/records/{id}           One saved calculation with payload
    DELETE /api/records/{id}           Remove a saved calculation

RATE TABLE SELECTION:
  Salary endpoints use the table of the calculation month's year, or of the
  earliest shift when the month is left out, or the newest table when there
  are neither. Years without a table fall back to the nearest earlier one.
  Deduction and simulation endpoints take an optional "year".

HOLIDAYS:
  The store holds the holiday list. Each year is seeded once from the rate
  tables. A salary request snapshots the list into an in-memory calendar
  before calculating, so edits through /api/holidays apply from the next
  request and a failed read fails the request.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Unknown record, holiday or rate year
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/warp/payroll-engine/calculator"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/payslip"
	"github.com/warp/payroll-engine/rates"
	"github.com/warp/payroll-engine/store/sqlite"
)

const (
	maxBodyBytes       = 1 << 20
	defaultRecordLimit = 50
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  *sqlite.Store
	Rates  *rates.Book
	Logger *slog.Logger
}

// NewHandler creates a handler over store and the rate book. A nil logger
// discards.
func NewHandler(store *sqlite.Store, book *rates.Book, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Handler{Store: store, Rates: book, Logger: logger}
}

// tableFor picks the rate table for a salary input.
func (h *Handler) tableFor(in calculator.SalaryInput) *rates.Table {
	if !in.Month.IsZero() {
		return h.Rates.Resolve(in.Month.Year)
	}
	if len(in.Shifts) > 0 {
		first := in.Shifts[0].Date()
		for _, s := range in.Shifts[1:] {
			if s.Date().Before(first) {
				first = s.Date()
			}
		}
		return h.Rates.Resolve(first.Year())
	}
	return h.Rates.Latest()
}

// tableForYear picks the table for an optional year (0 = newest).
func (h *Handler) tableForYear(year int) *rates.Table {
	if year == 0 {
		return h.Rates.Latest()
	}
	return h.Rates.Resolve(year)
}

// calendar snapshots the stored holidays for one request.
func (h *Handler) calendar(ctx context.Context) (*rates.Calendar, error) {
	hs, err := h.Store.ListHolidays(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("load holidays: %w", err)
	}
	return rates.NewCalendar(hs), nil
}

// calculate runs the forward pipeline and the warning checks.
func (h *Handler) calculate(ctx context.Context, req SalaryRequest) (*calculator.SalaryCalculationResult, []calculator.Warning, error) {
	in, err := req.toSalaryInput()
	if err != nil {
		return nil, nil, err
	}
	cal, err := h.calendar(ctx)
	if err != nil {
		return nil, nil, err
	}
	table := h.tableFor(in)
	res, err := calculator.NewSalaryCalculator(table, cal).Calculate(in)
	if err != nil {
		return nil, nil, err
	}
	return res, calculator.NewWarningGenerator(table).Generate(res), nil
}

// =============================================================================
// SALARY HANDLERS
// =============================================================================

// CalculateSalary runs a forward calculation.
// POST /api/salary/calculate
func (h *Handler) CalculateSalary(w http.ResponseWriter, r *http.Request) {
	var req SalaryRequest
	if !decode(w, r, &req) {
		return
	}

	res, warnings, err := h.calculate(r.Context(), req)
	if err != nil {
		h.fail(w, r, "Salary calculation failed", err)
		return
	}

	resp := toSalaryResponse(res, warnings)
	if req.Save {
		id, err := h.saveRecord(r.Context(), sqlite.KindForward, res, resp)
		if err != nil {
			h.fail(w, r, "Failed to save calculation", err)
			return
		}
		resp.RecordID = id
	}
	writeJSON(w, http.StatusOK, resp)
}

// ReverseSalary finds the base salary (or hourly rate) for a target net pay.
// POST /api/salary/reverse
func (h *Handler) ReverseSalary(w http.ResponseWriter, r *http.Request) {
	var req ReverseRequest
	if !decode(w, r, &req) {
		return
	}

	in, err := req.toSalaryInput()
	if err != nil {
		h.fail(w, r, "Invalid salary input", err)
		return
	}
	cal, err := h.calendar(r.Context())
	if err != nil {
		h.fail(w, r, "Reverse calculation failed", err)
		return
	}
	table := h.tableFor(in)
	salary := calculator.NewSalaryCalculator(table, cal)
	rev, err := calculator.NewReverseSalaryCalculator(salary).Calculate(payroll.NewMoney(req.TargetNetPay), in)
	if err != nil {
		h.fail(w, r, "Reverse calculation failed", err)
		return
	}

	resp := ReverseResponse{
		TargetNetPay:       rev.TargetNetPay.Int64(),
		RequiredBaseSalary: rev.RequiredBaseSalary.Int64(),
		ActualNetPay:       rev.ActualNetPay.Int64(),
		Difference:         rev.Difference.Int64(),
		Iterations:         rev.Iterations,
		Result:             toSalaryResponse(rev.Result, calculator.NewWarningGenerator(table).Generate(rev.Result)),
	}
	if req.Save {
		id, err := h.saveRecord(r.Context(), sqlite.KindReverse, rev.Result, resp)
		if err != nil {
			h.fail(w, r, "Failed to save calculation", err)
			return
		}
		resp.RecordID = id
	}
	writeJSON(w, http.StatusOK, resp)
}

// Payslip renders a forward calculation as a PDF.
// POST /api/salary/payslip
func (h *Handler) Payslip(w http.ResponseWriter, r *http.Request) {
	var req SalaryRequest
	if !decode(w, r, &req) {
		return
	}

	res, warnings, err := h.calculate(r.Context(), req)
	if err != nil {
		h.fail(w, r, "Salary calculation failed", err)
		return
	}

	var buf bytes.Buffer
	if err := payslip.Render(&buf, res, warnings); err != nil {
		h.fail(w, r, "Failed to render payslip", err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="payslip-%s.pdf"`, res.Month))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *Handler) saveRecord(ctx context.Context, kind string, res *calculator.SalaryCalculationResult, payload any) (string, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	rec, err := h.Store.SaveRecord(ctx, sqlite.CalculationRecord{
		Kind:         kind,
		EmployeeName: res.Employee.Name(),
		Month:        res.Month.String(),
		NetPay:       res.NetPay.Int64(),
		TotalGross:   res.TotalGross.Int64(),
		Payload:      b,
	})
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

// =============================================================================
// DEDUCTION HANDLERS
// =============================================================================

// CalculateInsurance levies the four social insurances on an income.
// POST /api/insurance/calculate
func (h *Handler) CalculateInsurance(w http.ResponseWriter, r *http.Request) {
	var req InsuranceRequest
	if !decode(w, r, &req) {
		return
	}

	res, err := calculator.NewInsuranceCalculator(h.tableForYear(req.Year)).Calculate(
		payroll.NewMoney(req.Income),
		calculator.InsuranceOptions{
			ExemptPension:      req.Insurance.ExemptPension,
			ExemptHealth:       req.Insurance.ExemptHealth,
			ExemptLongTermCare: req.Insurance.ExemptLongTermCare,
			ExemptEmployment:   req.Insurance.ExemptEmployment,
		},
	)
	if err != nil {
		h.fail(w, r, "Insurance calculation failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toInsuranceDTO(res))
}

// CalculateTax looks up the monthly withholding for an income.
// POST /api/tax/calculate
func (h *Handler) CalculateTax(w http.ResponseWriter, r *http.Request) {
	var req TaxRequest
	if !decode(w, r, &req) {
		return
	}
	if req.DependentsCount < 0 || req.ChildrenUnder20 < 0 {
		writeError(w, http.StatusBadRequest, "Dependents cannot be negative", nil)
		return
	}

	res, err := calculator.NewTaxCalculator(h.tableForYear(req.Year)).Calculate(
		payroll.NewMoney(req.Income), req.DependentsCount, req.ChildrenUnder20)
	if err != nil {
		h.fail(w, r, "Tax calculation failed", err)
		return
	}
	writeJSON(w, http.StatusOK, TaxResponse{
		TaxDTO:         toTaxDTO(res),
		AnnualEstimate: calculator.EstimateAnnualTax(res.Total()).Int64(),
	})
}

// =============================================================================
// SIMULATION HANDLERS
// =============================================================================

// CompareSimulation prices two splits of the same monthly total.
// POST /api/simulation/compare
func (h *Handler) CompareSimulation(w http.ResponseWriter, r *http.Request) {
	var req SimulationRequest
	if !decode(w, r, &req) {
		return
	}

	cmp, err := calculator.NewSalarySimulator(h.tableForYear(req.Year)).Compare(req.toInput())
	if err != nil {
		h.fail(w, r, "Simulation failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toSimulationResponse(cmp))
}

// =============================================================================
// RATE HANDLERS
// =============================================================================

// ListRates returns the loaded years and the newest table.
// GET /api/rates
func (h *Handler) ListRates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"years":  h.Rates.Years(),
		"latest": toRatesDTO(h.Rates.Latest()),
	})
}

// GetRates returns exactly one year's table.
// GET /api/rates/{year}
func (h *Handler) GetRates(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}
	table, err := h.Rates.Table(year)
	if err != nil {
		h.fail(w, r, "Rates not found", err)
		return
	}
	writeJSON(w, http.StatusOK, toRatesDTO(table))
}

// =============================================================================
// HOLIDAY HANDLERS
// =============================================================================

// ListHolidays returns the holiday calendar, optionally for one year.
// GET /api/holidays
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	year, ok := queryInt(w, r, "year", 0)
	if !ok {
		return
	}
	holidays, err := h.Store.ListHolidays(r.Context(), year)
	if err != nil {
		h.fail(w, r, "Failed to get holidays", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"holidays": toHolidayDTOs(holidays)})
}

// CreateHoliday adds a holiday, or renames the one already on that date.
// POST /api/holidays
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req HolidayDTO
	if !decode(w, r, &req) {
		return
	}
	date, err := payroll.ParseDate(req.Date)
	if err != nil {
		h.fail(w, r, "Invalid holiday", err)
		return
	}

	saved, err := h.Store.SaveHoliday(r.Context(), payroll.Holiday{
		Date:            date,
		Name:            req.Name,
		AllCompanySizes: req.AllCompanySizes,
	})
	if err != nil {
		h.fail(w, r, "Failed to save holiday", err)
		return
	}
	writeJSON(w, http.StatusCreated, toHolidayDTOs([]payroll.Holiday{saved})[0])
}

// DeleteHoliday removes a holiday.
// DELETE /api/holidays/{id}
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteHoliday(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "Failed to delete holiday", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// =============================================================================
// RECORD HANDLERS
// =============================================================================

// ListRecords returns saved calculations, newest first.
// GET /api/records
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(w, r, "limit", defaultRecordLimit)
	if !ok {
		return
	}
	records, err := h.Store.ListRecords(r.Context(), limit)
	if err != nil {
		h.fail(w, r, "Failed to list records", err)
		return
	}
	dtos := make([]RecordDTO, 0, len(records))
	for _, rec := range records {
		dtos = append(dtos, toRecordDTO(rec))
	}
	writeJSON(w, http.StatusOK, map[string]any{"records": dtos})
}

// GetRecord returns one saved calculation with its payload.
// GET /api/records/{id}
func (h *Handler) GetRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Store.GetRecord(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "Failed to get record", err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "Record not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toRecordDTO(*rec))
}

// DeleteRecord removes a saved calculation.
// DELETE /api/records/{id}
func (h *Handler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteRecord(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "Failed to delete record", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// Health pings the database.
// GET /api/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.Store.Ping(ctx); err != nil {
		h.fail(w, r, "Database unavailable", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// statusFor maps a domain error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, sqlite.ErrNotFound), errors.Is(err, rates.ErrYearNotFound):
		return http.StatusNotFound
	case calculator.IsClientError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err with its mapped status. Internal errors are logged and
// their details withheld from the client.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, message string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.Logger.ErrorContext(r.Context(), message, slog.String("path", r.URL.Path), slog.Any("error", err))
		writeError(w, status, message, nil)
		return
	}
	writeError(w, status, message, err)
}

// decode reads a JSON body into v, writing a 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	return true
}

// queryInt parses an optional non-negative integer query parameter.
func queryInt(w http.ResponseWriter, r *http.Request, key string, fallback int) (int, bool) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s", key), err)
		return 0, false
	}
	return n, true
}
