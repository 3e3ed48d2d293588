package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/CIDgravity/snakelet"
	"github.com/Scalingo/repos-languages/model"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const defaultConfigFile = "config/config.toml"

// config structure
type Config struct {
	API       APIConfig       `mapstructure:"API"`
	Github    GithubConfig    `mapstructure:"GITHUB"`
	Collector CollectorConfig `mapstructure:"COLLECTOR"`
	Publisher PublisherConfig `mapstructure:"PUBLISHER"`
	Logs      LogsConfig      `mapstructure:"LOGS"`
}

type APIConfig struct {
	ListenPort string `mapstructure:"ListenPort"`
}

type GithubConfig struct {
	Token             string  `mapstructure:"Token"`
	TokenEnvVar       string  `mapstructure:"TokenEnvVar"`
	RequestsPerSecond float64 `mapstructure:"RequestsPerSecond"` // 0 means no client side pacing
}

type CollectorConfig struct {
	OutputDir     string               `mapstructure:"OutputDir"`
	MaxPages      int                  `mapstructure:"MaxPages"`
	PerPage       int                  `mapstructure:"PerPage"`
	Organizations []OrganizationConfig `mapstructure:"Organizations"`
}

// OrganizationConfig names an account to collect and, optionally, where its CSV goes
type OrganizationConfig struct {
	Name   string `mapstructure:"Name"`
	Output string `mapstructure:"Output"`
}

type PublisherConfig struct {
	Owner         string       `mapstructure:"Owner"` // resolved from the token when empty
	Repository    string       `mapstructure:"Repository"`
	Description   string       `mapstructure:"Description"`
	CommitMessage string       `mapstructure:"CommitMessage"`
	Files         []FileConfig `mapstructure:"Files"`
}

type FileConfig struct {
	Name string `mapstructure:"Name"`
	Path string `mapstructure:"Path"`
}

type LogsConfig struct {
	Level            string `mapstructure:"Level"` // trace | debug | info | warn | error - case insensitive
	OutputLogsAsJSON bool   `mapstructure:"OutputLogsAsJson"`
}

// Load reads the TOML configuration over the defaults, then resolves the github token.
// When path is empty, config/config.toml is searched next to the binary then in the
// working directory. A missing file is not an error, defaults are used instead.
func Load(path string) (*Config, error) {
	configFilePath, err := resolveConfigPath(path)
	if err != nil {
		return nil, err
	}

	// load default and config file content
	cfg := GetDefault()

	if configFilePath != "" {
		if _, err := snakelet.InitAndLoad(cfg, configFilePath); err != nil {
			return nil, err
		}
	} else {
		log.Debug("no configuration file found, using defaults")
	}

	cfg.applyListDefaults()
	cfg.resolveToken()

	return cfg, nil
}

func resolveConfigPath(path string) (string, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", err
		}

		return path, nil
	}

	dir, err := filepath.Abs(filepath.Dir(os.Args[0]))
	if err != nil {
		return "", err
	}

	// check config file exists
	if _, err := os.Stat(filepath.Join(dir, defaultConfigFile)); err == nil {
		return filepath.Join(dir, defaultConfigFile), nil
	}

	if _, err := os.Stat(defaultConfigFile); errors.Is(err, os.ErrNotExist) {
		return "", nil
	} else if err != nil {
		return "", err
	}

	return defaultConfigFile, nil
}

// resolveToken fills the token from the environment when the file did not set it
// a .env file in the working directory is loaded first, existing variables win
func (cfg *Config) resolveToken() {
	if cfg.Github.Token != "" {
		return
	}

	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file loaded")
	}

	cfg.Github.Token = strings.TrimSpace(os.Getenv(cfg.Github.TokenEnvVar))
}

// Validate checks the values required before any request is sent to github
func (cfg Config) Validate() error {
	if cfg.Github.Token == "" {
		return fmt.Errorf("%w: set %s or GITHUB.Token", model.ErrMissingToken, cfg.Github.TokenEnvVar)
	}

	if cfg.Collector.MaxPages < 1 {
		return fmt.Errorf("%w: COLLECTOR.MaxPages must be at least 1", model.ErrInvalidConfiguration)
	}

	if cfg.Collector.PerPage < 1 || cfg.Collector.PerPage > 100 {
		return fmt.Errorf("%w: COLLECTOR.PerPage must be between 1 and 100", model.ErrInvalidConfiguration)
	}

	for _, org := range cfg.Collector.Organizations {
		if strings.TrimSpace(org.Name) == "" {
			return fmt.Errorf("%w: organization name cannot be empty", model.ErrInvalidConfiguration)
		}
	}

	return nil
}

// OutputPath returns where the table of an organization is written
func (c CollectorConfig) OutputPath(org OrganizationConfig) string {
	if org.Output != "" {
		return org.Output
	}

	return filepath.Join(c.OutputDir, "linguagens_"+org.Name+".csv")
}

// UploadFiles converts the configured files to descriptors used by the publisher
func (p PublisherConfig) UploadFiles() []model.FileDescriptor {
	files := make([]model.FileDescriptor, 0, len(p.Files))

	for _, f := range p.Files {
		files = append(files, model.FileDescriptor{Name: f.Name, Path: f.Path})
	}

	return files
}

// applyListDefaults fills the organizations and files only when the file left them empty
// lists are kept out of GetDefault, decoding over them would merge entries index by index
func (cfg *Config) applyListDefaults() {
	if len(cfg.Collector.Organizations) == 0 {
		cfg.Collector.Organizations = DefaultOrganizations()
	}

	if len(cfg.Publisher.Files) == 0 {
		cfg.Publisher.Files = DefaultFiles()
	}
}

// DefaultOrganizations returns the organizations collected when none is configured
func DefaultOrganizations() []OrganizationConfig {
	return []OrganizationConfig{
		{Name: "amzn", Output: "dados/linguagens_amazon.csv"},
		{Name: "netflix", Output: "dados/linguagens_netflix.csv"},
		{Name: "spotify", Output: "dados/linguagens_spotify.csv"},
	}
}

// DefaultFiles returns the files published when none is configured
func DefaultFiles() []FileConfig {
	return []FileConfig{
		{Name: "linguagens_amzn.csv", Path: "dados/linguagens_amazon.csv"},
		{Name: "linguagens_netflix.csv", Path: "dados/linguagens_netflix.csv"},
		{Name: "linguagens_spotify.csv", Path: "dados/linguagens_spotify.csv"},
	}
}

// GetDefault returns the scalar defaults, Organizations and Files are left nil
func GetDefault() *Config {
	return &Config{
		API: APIConfig{
			ListenPort: "5000",
		},
		Github: GithubConfig{
			TokenEnvVar:       "TOKEN_ACCESS",
			RequestsPerSecond: 0,
		},
		Collector: CollectorConfig{
			OutputDir: "dados",
			MaxPages:  29,
			PerPage:   100,
		},
		Publisher: PublisherConfig{
			Repository:    "linguagens-repositorios-empresas",
			Description:   "Dados dos repositórios de algumas empresas",
			CommitMessage: "Adicionando um novo arquivo",
		},
		Logs: LogsConfig{
			Level:            "info",
			OutputLogsAsJSON: false,
		},
	}
}
