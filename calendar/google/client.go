package google

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/guilherme-santos/retellcalendar"
	"github.com/guilherme-santos/retellcalendar/internal/config"
)

// sendUpdates makes Google email the invitation to every attendee.
const sendUpdates = "all"

const fallbackCreateMessage = "Failed to create event"

type Client struct {
	endpoint   string
	calendarID string
	timeout    time.Duration
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(cfg *config.Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		endpoint:   cfg.CalendarEndpoint,
		calendarID: cfg.CalendarID,
		timeout:    cfg.UpstreamTimeout,
		httpClient: newHTTPClient(),
		logger:     logger.Named("google"),
	}
}

func (c Client) CreateEvent(ctx context.Context, accessToken string, req *retellcalendar.Event) (*retellcalendar.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	svc, err := c.calendarSvc(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	c.logger.Info("creating event",
		zap.String("calendar_id", c.calendarID),
		zap.String("summary", req.Summary),
		zap.Stringer("starts_at", req.StartsAt),
	)
	gevent, err := svc.Events.
		Insert(c.calendarID, newGoogleEvent(req)).
		SendUpdates(sendUpdates).
		Context(ctx).
		Do()
	if err != nil {
		uErr := c.calendarError(ctx, err)
		c.logger.Warn("unable to create event", zap.Error(err), zap.Bool("timeout", uErr.Timeout))
		return nil, uErr
	}
	c.logger.Debug("event created", zap.String("event_id", gevent.Id), zap.String("html_link", gevent.HtmlLink))
	return newEvent(req, gevent), nil
}

func (c Client) calendarSvc(ctx context.Context, accessToken string) (*calendar.Service, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))

	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if c.endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.endpoint))
	}
	return calendar.NewService(ctx, opts...)
}

func (c Client) calendarError(ctx context.Context, err error) *retellcalendar.UpstreamError {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return retellcalendar.NewTimeoutError(retellcalendar.StageCalendar, c.timeout, err)
	}

	msg := err.Error()
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		msg = gErr.Message
		if msg == "" {
			msg = fallbackCreateMessage
		}
	}
	return &retellcalendar.UpstreamError{
		Stage:   retellcalendar.StageCalendar,
		Message: msg,
		Err:     err,
	}
}

func newHTTPClient() *http.Client {
	return &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}
