package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Scalingo/repos-languages/config"
	"github.com/Scalingo/repos-languages/model"
	"github.com/Scalingo/repos-languages/storage"
	"github.com/google/go-github/v66/github"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

type CollectorService interface {
	ListRepositories(ctx context.Context, owner string) model.ListingResult
	CollectTable(ctx context.Context, owner string) (model.ListingResult, model.Table, error)
	Collect(ctx context.Context, org config.OrganizationConfig) (model.CollectResult, error)
	CollectAll(ctx context.Context, orgs []config.OrganizationConfig) ([]model.CollectResult, error)
}

type collectorService struct {
	githubClient *github.Client
	pacer        *rate.Limiter
	config       config.Config
}

func NewCollectorService(config config.Config, githubClient *github.Client, pacer *rate.Limiter) CollectorService {
	return collectorService{
		githubClient: githubClient,
		pacer:        pacer,
		config:       config,
	}
}

// ListRepositories pages through the public repositories of an owner
// requests are sequential, pages 1 to COLLECTOR.MaxPages with COLLECTOR.PerPage records each.
// The listing stops on the first page holding fewer records than requested, or on the first failure.
// A failure is never retried: the pages fetched before it are returned with a partial or failed status.
func (s collectorService) ListRepositories(ctx context.Context, owner string) model.ListingResult {
	result := model.ListingResult{
		Owner: owner,
		Pages: make([]model.Page, 0),
	}

	if strings.TrimSpace(owner) == "" {
		result.Status = model.ListingFailed
		result.Err = fmt.Errorf("%w: owner cannot be empty", model.ErrInvalidConfiguration)
		return result
	}

	perPage := s.config.Collector.PerPage

	for pageNum := 1; pageNum <= s.config.Collector.MaxPages; pageNum++ {
		page, err := s.fetchPage(ctx, owner, pageNum, perPage)

		if err != nil {
			log.WithError(err).WithFields(log.Fields{
				"owner": owner,
				"page":  pageNum,
			}).Error("unable to fetch repositories page. listing stopped")

			result.Err = err
			result.Status = model.ListingPartial

			if len(result.Pages) == 0 {
				result.Status = model.ListingFailed
			}

			return result
		}

		result.Pages = append(result.Pages, page)

		if len(page) < perPage {
			result.Status = model.ListingComplete
			return result
		}
	}

	log.WithFields(log.Fields{
		"owner":    owner,
		"maxPages": s.config.Collector.MaxPages,
	}).Warning("page limit reached, the owner may have more repositories")

	result.Status = model.ListingPageLimitReached
	return result
}

func (s collectorService) fetchPage(ctx context.Context, owner string, pageNum int, perPage int) (model.Page, error) {
	if err := s.pacer.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrFetch, err)
	}

	log.WithFields(log.Fields{
		"owner":   owner,
		"page":    pageNum,
		"perPage": perPage,
	}).Debug("fetch repositories page from github")

	repos, _, err := s.githubClient.Repositories.ListByUser(
		ctx,
		owner,
		&github.RepositoryListByUserOptions{
			ListOptions: github.ListOptions{
				Page:    pageNum,
				PerPage: perPage,
			},
		},
	)

	if err != nil {
		return nil, HandleRequestErrors(err)
	}

	page := make(model.Page, 0, len(repos))

	for _, r := range repos {
		if r == nil || r.Name == nil {
			return nil, fmt.Errorf("%w: repository without name on page %d", model.ErrInvalidData, pageNum)
		}

		page = append(page, model.RepositoryRecord{
			Name:     r.GetName(),
			Language: r.Language,
		})
	}

	return page, nil
}

// CollectTable lists the repositories of an owner and assembles its table
// the table reflects whatever pages were fetched, check the listing status to know if it is complete
func (s collectorService) CollectTable(ctx context.Context, owner string) (model.ListingResult, model.Table, error) {
	listing := s.ListRepositories(ctx, owner)

	table, err := model.AssembleTable(listing.Pages)
	if err != nil {
		return listing, model.Table{}, err
	}

	log.WithFields(log.Fields{
		"owner":  owner,
		"status": listing.Status,
		"pages":  len(listing.Pages),
		"rows":   table.Len(),
	}).Info("repositories table assembled")

	return listing, table, nil
}

// Collect builds the table of one organization and writes it as CSV
func (s collectorService) Collect(ctx context.Context, org config.OrganizationConfig) (model.CollectResult, error) {
	listing, table, err := s.CollectTable(ctx, org.Name)
	if err != nil {
		return model.CollectResult{}, err
	}

	output := s.config.Collector.OutputPath(org)

	if err := storage.WriteTable(output, table); err != nil {
		return model.CollectResult{}, err
	}

	return model.CollectResult{
		Organization: org.Name,
		Output:       output,
		Listing:      listing,
		Table:        table,
	}, nil
}

// CollectAll runs Collect for each organization, one after the other
// a write failure stops the run, the results of the organizations already written are returned
func (s collectorService) CollectAll(ctx context.Context, orgs []config.OrganizationConfig) ([]model.CollectResult, error) {
	results := make([]model.CollectResult, 0, len(orgs))

	for _, org := range orgs {
		result, err := s.Collect(ctx, org)
		if err != nil {
			return results, fmt.Errorf("collect %s: %w", org.Name, err)
		}

		results = append(results, result)
	}

	return results, nil
}
