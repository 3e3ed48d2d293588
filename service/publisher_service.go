package service

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/Scalingo/repos-languages/config"
	"github.com/Scalingo/repos-languages/model"
	"github.com/google/go-github/v66/github"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type PublisherService interface {
	ResolveOwner(ctx context.Context) (string, error)
	CreateRepository(ctx context.Context, name string) (int, error)
	UploadFile(ctx context.Context, owner string, repository string, file model.FileDescriptor) (int, error)
	Publish(ctx context.Context) (model.PublishReport, error)
}

type publisherService struct {
	githubClient *github.Client
	pacer        *rate.Limiter
	config       config.Config
}

func NewPublisherService(config config.Config, githubClient *github.Client, pacer *rate.Limiter) PublisherService {
	return publisherService{
		githubClient: githubClient,
		pacer:        pacer,
		config:       config,
	}
}

// ResolveOwner returns the configured owner, or the login of the token user
func (s publisherService) ResolveOwner(ctx context.Context) (string, error) {
	if s.config.Publisher.Owner != "" {
		return s.config.Publisher.Owner, nil
	}

	if err := s.pacer.Wait(ctx); err != nil {
		return "", err
	}

	user, _, err := s.githubClient.Users.Get(ctx, "")
	if err != nil {
		return "", HandleRequestErrors(err)
	}

	if user.GetLogin() == "" {
		return "", fmt.Errorf("%w: authenticated user without login", model.ErrInvalidData)
	}

	log.WithField("owner", user.GetLogin()).Debug("publisher owner resolved from token")
	return user.GetLogin(), nil
}

// CreateRepository creates a public repository for the authenticated user
// the status is returned whatever happens, a name already taken is not handled specifically
func (s publisherService) CreateRepository(ctx context.Context, name string) (int, error) {
	if err := s.pacer.Wait(ctx); err != nil {
		return 0, err
	}

	repo := &github.Repository{
		Name:        github.String(name),
		Description: github.String(s.config.Publisher.Description),
		Private:     github.Bool(false),
	}

	_, resp, err := s.githubClient.Repositories.Create(ctx, "", repo)
	code := statusCode(resp)

	log.WithFields(log.Fields{
		"repository": name,
		"statusCode": code,
	}).Info("repository creation request done")

	if err != nil {
		return code, fmt.Errorf("create repository %s: %w", name, err)
	}

	return code, nil
}

// UploadFile reads the whole local file and sends it as a new file of the repository
// go-github encodes the raw bytes in base64 in the request body.
// A file that cannot be read is returned as model.ErrUploadSourceMissing before any request.
func (s publisherService) UploadFile(ctx context.Context, owner string, repository string, file model.FileDescriptor) (int, error) {
	content, err := os.ReadFile(file.Path)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", model.ErrUploadSourceMissing, err)
	}

	if err := s.pacer.Wait(ctx); err != nil {
		return 0, err
	}

	_, resp, err := s.githubClient.Repositories.CreateFile(
		ctx,
		owner,
		repository,
		file.Name,
		&github.RepositoryContentFileOptions{
			Message: github.String(s.config.Publisher.CommitMessage),
			Content: content,
		},
	)
	code := statusCode(resp)

	log.WithFields(log.Fields{
		"repository": owner + "/" + repository,
		"file":       file.Name,
		"size":       len(content),
		"statusCode": code,
	}).Info("file upload request done")

	if err != nil {
		return code, fmt.Errorf("upload %s: %w", file.Name, err)
	}

	return code, nil
}

// Publish creates the configured repository then uploads every configured file in order
// all files must exist before anything is sent, so running it before the collector fails early.
// Uploads are sent even when the creation failed, each outcome is kept in the report.
func (s publisherService) Publish(ctx context.Context) (model.PublishReport, error) {
	report := model.PublishReport{
		Repository: s.config.Publisher.Repository,
		Uploads:    make([]model.UploadResult, 0, len(s.config.Publisher.Files)),
	}

	if report.Repository == "" {
		return report, fmt.Errorf("%w: PUBLISHER.Repository cannot be empty", model.ErrInvalidConfiguration)
	}

	files := s.config.Publisher.UploadFiles()

	for _, f := range files {
		if _, err := os.Stat(f.Path); err != nil {
			return report, fmt.Errorf("%w: %s, run the collector first: %w", model.ErrUploadSourceMissing, f.Path, err)
		}
	}

	owner, err := s.ResolveOwner(ctx)
	if err != nil {
		return report, err
	}
	report.Owner = owner

	report.RepositoryStatusCode, report.RepositoryErr = s.CreateRepository(ctx, report.Repository)
	if report.RepositoryErr != nil {
		log.WithError(report.RepositoryErr).Warning("repository creation failed, uploading files anyway")
	}

	for _, f := range files {
		code, err := s.UploadFile(ctx, owner, report.Repository, f)

		if errors.Is(err, model.ErrUploadSourceMissing) {
			return report, err
		}

		report.Uploads = append(report.Uploads, model.UploadResult{
			Name:       f.Name,
			StatusCode: code,
			Err:        err,
		})
	}

	return report, nil
}
