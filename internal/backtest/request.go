package backtest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yourusername/sma-backtester/internal/models"
)

var requestValidator = validator.New()

// ValidateRequest checks the parameters of a single run
func ValidateRequest(req models.BacktestRequest) error {
	if err := requestValidator.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			fields := make([]string, 0, len(validationErrors))
			for _, fe := range validationErrors {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("%w: invalid fields: %s", models.ErrInvalidRequest, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", models.ErrInvalidRequest, err)
	}
	if req.EndDate.Before(req.StartDate) {
		return fmt.Errorf("%w: end date %s is before start date %s", models.ErrInvalidRequest,
			req.EndDate.Format(models.DateLayout), req.StartDate.Format(models.DateLayout))
	}
	return nil
}
