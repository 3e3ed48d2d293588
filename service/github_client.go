package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Scalingo/repos-languages/config"
	"github.com/Scalingo/repos-languages/model"
	"github.com/google/go-github/v66/github"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// NewGithubClient builds the github client used by both services
// we do here and pass the client to services to easily improve tests with mock client
// when httpClient is nil, an oauth2 client carrying the token as bearer is created
func NewGithubClient(cfg config.GithubConfig, httpClient *http.Client) (*github.Client, error) {
	if cfg.Token == "" {
		return nil, model.ErrMissingToken
	}

	if httpClient == nil {
		log.Debug("will setup github client with oauth2 static token source")
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		return github.NewClient(oauth2.NewClient(context.Background(), ts)), nil
	}

	log.Debug("will setup github client with authorization token")
	return github.NewClient(httpClient).WithAuthToken(cfg.Token), nil
}

// NewPacer returns the limiter every request waits on before being sent
// it only spaces requests, github quota is never read
func NewPacer(cfg config.GithubConfig) *rate.Limiter {
	if cfg.RequestsPerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}

	return rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
}

// HandleRequestErrors manage errors from github requests at the same location
// the returned error wraps model.ErrFetch and keeps the github error for callers
func HandleRequestErrors(err error) error {
	fields := log.Fields{}

	if errResponse, ok := err.(*github.ErrorResponse); ok && errResponse.Response != nil {
		fields["statusCode"] = errResponse.Response.StatusCode
	}

	log.WithError(err).WithFields(fields).Error("error catched when fetching data from github")
	return fmt.Errorf("%w: %w", model.ErrFetch, err)
}

// statusCode returns the HTTP status of a github response, 0 when no response was received
func statusCode(resp *github.Response) int {
	if resp == nil || resp.Response == nil {
		return 0
	}

	return resp.StatusCode
}
