package cmd

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/Scalingo/repos-languages/config"
	"github.com/Scalingo/repos-languages/controller"
	"github.com/Scalingo/repos-languages/model"
	"github.com/Scalingo/repos-languages/storage"
	"github.com/google/go-github/v66/github"
	githubMock "github.com/migueleliasweb/go-github-mock/src/mock"
	"github.com/stretchr/testify/assert"
)

// mockedGithub answers one page of two repositories for any owner and accepts every write
func mockedGithub(t *testing.T, uploads *[]string) *http.Client {
	return githubMock.NewMockedHTTPClient(
		githubMock.WithRequestMatchHandler(
			githubMock.GetUsersReposByUsername,
			http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, err := w.Write(githubMock.MustMarshal([]*github.Repository{
					{Name: github.String("a"), Language: github.String("Go")},
					{Name: github.String("b")},
				}))
				if err != nil {
					t.Error("unable to configure mock http client")
				}
			}),
		),
		githubMock.WithRequestMatchHandler(
			githubMock.PostUserRepos,
			http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write(githubMock.MustMarshal(github.Repository{Name: github.String("linguagens")}))
			}),
		),
		githubMock.WithRequestMatchHandler(
			githubMock.PutReposContentsByOwnerByRepoByPath,
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				*uploads = append(*uploads, r.URL.Path)
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write(githubMock.MustMarshal(github.RepositoryContentResponse{}))
			}),
		),
	)
}

func setupTest(t *testing.T, uploads *[]string) string {
	dir := t.TempDir()

	cfg = config.GetDefault()
	cfg.Github.Token = "test-token"
	cfg.Collector.OutputDir = dir
	cfg.Collector.Organizations = []config.OrganizationConfig{
		{Name: "amzn", Output: filepath.Join(dir, "linguagens_amazon.csv")},
		{Name: "netflix", Output: filepath.Join(dir, "linguagens_netflix.csv")},
	}
	cfg.Publisher.Owner = "octocat"
	cfg.Publisher.Files = []config.FileConfig{
		{Name: "linguagens_amzn.csv", Path: filepath.Join(dir, "linguagens_amazon.csv")},
		{Name: "linguagens_netflix.csv", Path: filepath.Join(dir, "linguagens_netflix.csv")},
	}

	githubHTTPClient = mockedGithub(t, uploads)
	t.Cleanup(func() {
		cfg = nil
		githubHTTPClient = nil
	})

	return dir
}

func TestOrganizations(t *testing.T) {
	setupTest(t, &[]string{})

	assert.Equal(t, cfg.Collector.Organizations, organizations(nil))
	assert.Equal(t, []config.OrganizationConfig{{Name: "spotify"}}, organizations([]string{"spotify"}))

	// a configured organization keeps the file the publisher uploads
	assert.Equal(t, []config.OrganizationConfig{
		{Name: "amzn", Output: cfg.Publisher.Files[0].Path},
		{Name: "google"},
	}, organizations([]string{"amzn", "google"}))
}

// TestCollectThenPublish runs the same steps as the run command
func TestCollectThenPublish(t *testing.T) {
	uploads := []string{}
	dir := setupTest(t, &uploads)

	collector, publisher, err := newServices()
	assert.NoError(t, err)

	// publishing before collecting fails without any upload
	assert.ErrorIs(t, publish(context.Background(), publisher), model.ErrUploadSourceMissing)
	assert.Empty(t, uploads)

	results, err := collect(context.Background(), collector, cfg.Collector.Organizations)
	assert.NoError(t, err)
	assert.Len(t, results, 2)

	table, err := storage.ReadTable(filepath.Join(dir, "linguagens_netflix.csv"))
	assert.NoError(t, err)
	assert.Equal(t, []model.TableRow{
		{Name: "a", Language: "Go"},
		{Name: "b", Language: model.NoLanguagePlaceholder},
	}, table.Rows())

	assert.NoError(t, publish(context.Background(), publisher))
	assert.Equal(t, []string{
		"/repos/octocat/linguagens-repositorios-empresas/contents/linguagens_amzn.csv",
		"/repos/octocat/linguagens-repositorios-empresas/contents/linguagens_netflix.csv",
	}, uploads)
}

func TestNewServicesMissingToken(t *testing.T) {
	setupTest(t, &[]string{})
	cfg.Github.Token = ""

	_, _, err := newServices()

	assert.ErrorIs(t, err, model.ErrMissingToken)
}

func TestRouter(t *testing.T) {
	setupTest(t, &[]string{})

	collector, _, err := newServices()
	assert.NoError(t, err)

	router := newRouter(controller.NewAPIController(collector))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/repos/spotify", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	var response model.RepositoriesResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, model.ListingComplete, response.Status)
	assert.Len(t, response.Rows, 2)
}
