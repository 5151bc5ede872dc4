package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/tartampluch/go-agecalc/internal/config"
	"github.com/tartampluch/go-agecalc/internal/engine"
)

type extractRequest struct {
	Text string `json:"text"`
}

type extractResponse struct {
	Dates      []string `json:"dates"`
	Understood bool     `json:"understood"`
}

type ageRequest struct {
	Birth   string `json:"birth"`
	Current string `json:"current,omitempty"`
	Policy  string `json:"policy,omitempty"`
}

type ageResponse struct {
	Birth   string `json:"birth"`
	Current string `json:"current"`
	Swapped bool   `json:"swapped"`
	engine.AgeResult
}

type adulthoodResponse struct {
	BirthYear int `json:"birth_year"`
	AdultYear int `json:"adult_year"`
}

type monthsResponse struct {
	Month    engine.MonthInfo   `json:"month"`
	Previous []engine.MonthInfo `json:"previous"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	dates := s.extract(req.Text)
	s.metrics.extractions.WithLabelValues(strconv.Itoa(len(dates))).Inc()

	resp := extractResponse{Dates: make([]string, 0, len(dates)), Understood: len(dates) > 0}
	for _, d := range dates {
		resp.Dates = append(resp.Dates, d.String())
	}

	slog.Debug(config.MsgDatesExtracted,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyRequestID, chimw.GetReqID(r.Context()),
		config.LogKeyDates, resp.Dates)
	writeJSON(w, http.StatusOK, resp)
}

// extract memoises ExtractDates on the folded text; dictation clients tend to
// resend the same phrase while the user corrects the other date.
func (s *Server) extract(text string) []engine.CalendarDate {
	key := engine.Normalize(strings.TrimSpace(text))
	if dates, ok := s.memo.Get(key); ok {
		return dates
	}
	dates := engine.ExtractDates(key)
	s.memo.Add(key, dates)
	return dates
}

func (s *Server) handleAge(w http.ResponseWriter, r *http.Request) {
	var req ageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.metrics.calculations.WithLabelValues(config.OutcomeInvalidInput).Inc()
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	calc, status, err := s.calculate(req)
	if err != nil {
		outcome := config.OutcomeInvalidInput
		if status == http.StatusUnprocessableEntity {
			outcome = config.OutcomeRejected
		}
		s.metrics.calculations.WithLabelValues(outcome).Inc()
		slog.Info(config.MsgAgeRejected,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyRequestID, chimw.GetReqID(r.Context()),
			config.LogKeyError, err)
		writeError(w, status, err.Error())
		return
	}

	outcome := config.OutcomeOK
	if calc.Swapped {
		outcome = config.OutcomeSwapped
	}
	s.metrics.calculations.WithLabelValues(outcome).Inc()

	writeJSON(w, http.StatusOK, ageResponse{
		Birth:     calc.Birth.String(),
		Current:   calc.Current.String(),
		Swapped:   calc.Swapped,
		AgeResult: calc.Age,
	})
}

// calculate validates the request and returns the HTTP status to use on error:
// 400 for unreadable input, 422 for dates the policy refuses.
func (s *Server) calculate(req ageRequest) (engine.Calculation, int, error) {
	if strings.TrimSpace(req.Birth) == "" {
		return engine.Calculation{}, http.StatusBadRequest, fmt.Errorf("%s: birth", config.ErrMissingField)
	}
	birth, err := engine.ParseDate(req.Birth)
	if err != nil {
		return engine.Calculation{}, http.StatusBadRequest, err
	}

	current := engine.Today(s.clock)
	if strings.TrimSpace(req.Current) != "" {
		if current, err = engine.ParseDate(req.Current); err != nil {
			return engine.Calculation{}, http.StatusBadRequest, err
		}
	}

	policy := s.policy
	if req.Policy != "" {
		if policy, err = engine.ParseOrderPolicy(req.Policy); err != nil {
			return engine.Calculation{}, http.StatusBadRequest, err
		}
	}

	calc, err := engine.Calculator{Policy: policy}.Calculate(birth, current)
	if isOrderError(err) {
		return engine.Calculation{}, http.StatusUnprocessableEntity, err
	}
	if err != nil {
		return engine.Calculation{}, http.StatusBadRequest, err
	}
	return calc, http.StatusOK, nil
}

func (s *Server) handleAdulthood(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, config.ParamYear))
	if err != nil {
		writeError(w, http.StatusBadRequest, config.ErrYearOutOfRange)
		return
	}

	adult, err := engine.AdulthoodYear(year)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, adulthoodResponse{BirthYear: year, AdultYear: adult})
}

func (s *Server) handleMonths(w http.ResponseWriter, r *http.Request) {
	month, err := strconv.Atoi(chi.URLParam(r, config.ParamMonth))
	if err != nil {
		writeError(w, http.StatusBadRequest, config.ErrInvalidMonth)
		return
	}

	prev, err := engine.PreviousMonths(month)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, monthsResponse{
		Month:    engine.MonthInfo{Number: month, Name: engine.MonthName(month)},
		Previous: prev,
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, config.MaxRequestBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%s: %w", config.ErrDecodeBody, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(config.HeaderContentType, config.MimeJSON)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// isOrderError reports whether err is one the order policy produced.
func isOrderError(err error) bool {
	return errors.Is(err, engine.ErrDateOrder) || errors.Is(err, engine.ErrSameDate)
}
