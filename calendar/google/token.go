package google

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"

	"github.com/guilherme-santos/retellcalendar"
	"github.com/guilherme-santos/retellcalendar/internal/config"
)

// TokenProvider exchanges the configured refresh token for an access token.
// Tokens are not cached: every call hits the token endpoint.
type TokenProvider struct {
	oauthCfg     *oauth2.Config
	refreshToken string
	timeout      time.Duration
	httpClient   *http.Client
	logger       *zap.Logger
}

func NewTokenProvider(cfg *config.Config, logger *zap.Logger) *TokenProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TokenProvider{
		oauthCfg: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL:  cfg.GoogleTokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
			Scopes: []string{calendar.CalendarEventsScope},
		},
		refreshToken: cfg.GoogleRefreshToken,
		timeout:      cfg.UpstreamTimeout,
		httpClient:   newHTTPClient(),
		logger:       logger.Named("oauth"),
	}
}

func (p TokenProvider) AccessToken(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	p.logger.Debug("getting access token")
	tok, err := p.oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: p.refreshToken}).Token()
	if err != nil {
		uErr := p.tokenError(ctx, err)
		p.logger.Warn("unable to get access token", zap.Error(err), zap.Bool("timeout", uErr.Timeout))
		return "", uErr
	}

	// never log tok.AccessToken
	p.logger.Debug("got access token",
		zap.String("token_type", tok.Type()),
		zap.Time("expiry", tok.Expiry),
	)
	return tok.AccessToken, nil
}

func (p TokenProvider) tokenError(ctx context.Context, err error) *retellcalendar.UpstreamError {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return retellcalendar.NewTimeoutError(retellcalendar.StageToken, p.timeout, err)
	}

	msg := err.Error()
	var rErr *oauth2.RetrieveError
	if errors.As(err, &rErr) {
		switch {
		case rErr.ErrorDescription != "":
			msg = rErr.ErrorDescription
		case rErr.ErrorCode != "":
			msg = rErr.ErrorCode
		}
	}
	return &retellcalendar.UpstreamError{
		Stage:   retellcalendar.StageToken,
		Message: msg,
		Err:     err,
	}
}
