package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/guilherme-santos/retellcalendar"
)

// webhookRequest keeps arguments raw so that their shape is only checked
// once the function name is known.
type webhookRequest struct {
	FunctionName string          `json:"function_name"`
	Arguments    json.RawMessage `json:"arguments"`
}

// bookingArguments uses pointers where a default applies, so that only
// absent (or null) fields get one.
type bookingArguments struct {
	CustomerName    string   `json:"customer_name"`
	CustomerEmail   string   `json:"customer_email"`
	AppointmentDate string   `json:"appointment_date"`
	AppointmentTime string   `json:"appointment_time"`
	DurationMinutes *minutes `json:"duration_minutes"`
	AppointmentType *string  `json:"appointment_type"`
	Notes           *string  `json:"notes"`
}

// minutes accepts a whole number given either as a JSON number (45, 45.0)
// or as a numeric string ("45").
type minutes int

func (m *minutes) UnmarshalJSON(data []byte) error {
	v := string(bytes.Trim(data, `"`))
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f != math.Trunc(f) {
		return fmt.Errorf("duration_minutes must be a whole number, got %s", data)
	}
	if f < math.MinInt32 || f > math.MaxInt32 {
		return fmt.Errorf("duration_minutes out of range: %s", data)
	}
	*m = minutes(f)
	return nil
}

func (a bookingArguments) bookingRequest() retellcalendar.BookingRequest {
	req := retellcalendar.BookingRequest{
		CustomerName:    a.CustomerName,
		CustomerEmail:   a.CustomerEmail,
		Date:            a.AppointmentDate,
		Time:            a.AppointmentTime,
		DurationMinutes: retellcalendar.DefaultDurationMinutes,
		AppointmentType: retellcalendar.DefaultAppointmentType,
	}
	if a.DurationMinutes != nil {
		req.DurationMinutes = int(*a.DurationMinutes)
	}
	if a.AppointmentType != nil {
		req.AppointmentType = *a.AppointmentType
	}
	if a.Notes != nil {
		req.Notes = *a.Notes
	}
	return req
}

func (s *Server) webhook(c *gin.Context) {
	logger := getLogger(c)

	var req webhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("invalid webhook body", zap.Error(err))
		c.JSON(http.StatusBadRequest, InvalidBody(err))
		return
	}
	logger.Info("webhook called", zap.String("function_name", req.FunctionName))

	if req.FunctionName != retellcalendar.BookAppointment {
		logger.Warn("unknown function", zap.String("function_name", req.FunctionName))
		c.JSON(http.StatusBadRequest, UnknownFunction())
		return
	}

	booking, err := s.book(c.Request.Context(), req.Arguments)
	if err != nil {
		logger.Error("unable to book appointment", zap.Error(err), zap.Bool("timeout", retellcalendar.IsTimeout(err)))
	}
	c.JSON(BookingResult(booking, err))
}

func (s *Server) book(ctx context.Context, raw json.RawMessage) (*retellcalendar.Booking, error) {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, retellcalendar.ErrMissingArguments
	}
	var args bookingArguments
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	return s.booker.Book(ctx, args.bookingRequest())
}

// mockWebhook acknowledges every call without touching Google.
func (s *Server) mockWebhook(c *gin.Context) {
	getLogger(c).Info("webhook called in mock mode")
	c.JSON(http.StatusOK, Envelope{
		Success: true,
		Message: msgMockBooked,
		EventID: "mock-" + uuid.NewString(),
	})
}
