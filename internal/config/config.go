package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Port    int    `yaml:"port"`
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	Email struct {
		Enabled          bool     `yaml:"enabled"`
		IMAPHost         string   `yaml:"imap_host"`
		IMAPPort         int      `yaml:"imap_port"`
		Username         string   `yaml:"username"`
		Mailbox          string   `yaml:"mailbox"`
		SearchSubjectAny []string `yaml:"search_subject_any"`
	} `yaml:"email"`

	Polling struct {
		EmailSeconds         int `yaml:"email_seconds"`
		FollowupSweepSeconds int `yaml:"followup_sweep_seconds"`
	} `yaml:"polling"`

	Followups struct {
		OffsetsDays []int `yaml:"offsets_days"`
	} `yaml:"followups"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

// Default returns the built-in configuration used when no config file
// exists yet.
func Default() Config {
	var cfg Config
	cfg.App.Port = 8787
	cfg.App.DataDir = ""
	cfg.Email.Enabled = false
	cfg.Email.IMAPPort = 993
	cfg.Email.Mailbox = "INBOX"
	cfg.Email.SearchSubjectAny = []string{
		"application received",
		"thank you for applying",
		"your application",
	}
	cfg.Polling.EmailSeconds = 300
	cfg.Polling.FollowupSweepSeconds = 3600
	cfg.Followups.OffsetsDays = []int{7, 14}
	return cfg
}
