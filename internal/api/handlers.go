package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/sma-backtester/internal/models"
)

// BacktestRequestBody is the JSON body of POST /api/v1/backtests. Omitted
// dates default to the span of the series; omitted window, capital and
// mode default to the engine configuration.
type BacktestRequestBody struct {
	Symbol         string  `json:"symbol" binding:"required"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	WindowLength   int     `json:"window_length"`
	InitialCapital float64 `json:"initial_capital"`
	ExecutionMode  string  `json:"execution_mode"`
}

// BacktestResponse wraps a backtest result
type BacktestResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message,omitempty"`
	Result  *models.BacktestResult `json:"result,omitempty"`
}

// RangeResponse describes the dates available for a symbol
type RangeResponse struct {
	Symbol       string `json:"symbol"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Observations int    `json:"observations"`
}

// ErrorResponse is returned for every failed request
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (s *Server) listSymbols(c *gin.Context) {
	symbols, err := s.engine.Symbols(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"symbols": symbols,
	})
}

func (s *Server) symbolRange(c *gin.Context) {
	symbol := c.Param("symbol")
	series, err := s.engine.Series(c.Request.Context(), symbol)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, RangeResponse{
		Symbol:       symbol,
		StartDate:    series.FirstDate().Format(models.DateLayout),
		EndDate:      series.LastDate().Format(models.DateLayout),
		Observations: series.Len(),
	})
}

func (s *Server) runBacktest(c *gin.Context) {
	var body BacktestRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		s.writeError(c, fmt.Errorf("%w: %v", models.ErrInvalidRequest, err))
		return
	}

	req, err := s.buildRequest(c, body)
	if err != nil {
		s.writeError(c, err)
		return
	}

	result, err := s.engine.Run(c.Request.Context(), req)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, BacktestResponse{
		Success: true,
		Result:  result,
	})
}

// buildRequest fills defaults the same way the interactive tool does
func (s *Server) buildRequest(c *gin.Context, body BacktestRequestBody) (models.BacktestRequest, error) {
	cfg := s.engine.Config()
	req := models.BacktestRequest{
		Symbol:         body.Symbol,
		WindowLength:   body.WindowLength,
		InitialCapital: body.InitialCapital,
		ExecutionMode:  models.ExecutionMode(body.ExecutionMode),
	}
	if req.WindowLength == 0 {
		req.WindowLength = cfg.DefaultWindow
	}
	if req.InitialCapital == 0 {
		req.InitialCapital = cfg.InitialCapital
	}

	var err error
	if req.StartDate, err = parseDate("start_date", body.StartDate); err != nil {
		return req, err
	}
	if req.EndDate, err = parseDate("end_date", body.EndDate); err != nil {
		return req, err
	}

	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		series, err := s.engine.Series(c.Request.Context(), body.Symbol)
		if err != nil {
			return req, err
		}
		if req.StartDate.IsZero() {
			req.StartDate = series.FirstDate()
		}
		if req.EndDate.IsZero() {
			req.EndDate = series.LastDate()
		}
	}
	return req, nil
}

func parseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(models.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be YYYY-MM-DD, got %q", models.ErrInvalidRequest, field, value)
	}
	return t, nil
}

// writeError maps domain errors to HTTP status codes
func (s *Server) writeError(c *gin.Context, err error) {
	status, code := statusFor(err)
	_ = c.Error(err)
	c.JSON(status, ErrorResponse{
		Success: false,
		Error:   code,
		Message: err.Error(),
	})
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, models.ErrSchema):
		return http.StatusUnprocessableEntity, "schema_error"
	case errors.Is(err, models.ErrParse):
		return http.StatusUnprocessableEntity, "parse_error"
	case errors.Is(err, models.ErrInsufficientData):
		return http.StatusBadRequest, "insufficient_data"
	case errors.Is(err, models.ErrDegenerateRange):
		return http.StatusBadRequest, "degenerate_range"
	case errors.Is(err, models.ErrInvalidRequest):
		return http.StatusBadRequest, "invalid_request"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
