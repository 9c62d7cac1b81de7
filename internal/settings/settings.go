// Package settings loads process-wide configuration from environment
// variables. It is read once at startup; mutable runtime settings
// (default project, default sprint) live in internal/config instead.
package settings

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Defaults applied when the corresponding environment variable is unset.
const (
	DefaultActionableStatus = "To Do"
	DefaultPriority         = "Medium"
	DefaultIssueType        = "Task"
	// DefaultSprintField is the most common custom field id Jira Cloud
	// assigns to the sprint field.
	DefaultSprintField = "customfield_10020"
	DefaultConfigPath  = "config.json"
)

// Settings holds all environment-sourced configuration.
type Settings struct {
	// Host is the Jira instance base URL, e.g. "https://acme.atlassian.net".
	Host string
	// Email and APIToken form the basic-auth credential pair.
	Email    string
	APIToken string

	// ActionableStatus is the status used by get_available_tickets to
	// decide what is ready to pick up.
	ActionableStatus string
	// ProjectKeys is an optional allowlist of project keys. When set,
	// searches without an explicit project filter are scoped to it and
	// update_config rejects default projects outside it.
	ProjectKeys []string

	DefaultPriority  string
	DefaultIssueType string
	// SprintField is the custom field id carrying sprint assignments.
	SprintField string

	// ConfigPath is where the persisted runtime config file lives.
	ConfigPath string
}

// Load reads settings from the environment.
func Load() (*Settings, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.BindEnv("host", "JIRA_HOST")
	v.BindEnv("email", "JIRA_EMAIL")
	v.BindEnv("api_token", "JIRA_API_TOKEN")
	v.BindEnv("actionable_status", "ACTIONABLE_STATUS")
	v.BindEnv("project_keys", "PROJECT_KEYS")
	v.BindEnv("default_priority", "DEFAULT_PRIORITY")
	v.BindEnv("default_issue_type", "DEFAULT_ISSUE_TYPE")
	v.BindEnv("sprint_field", "SPRINT_FIELD")
	v.BindEnv("config_path", "JIRAMATE_CONFIG")

	v.SetDefault("actionable_status", DefaultActionableStatus)
	v.SetDefault("default_priority", DefaultPriority)
	v.SetDefault("default_issue_type", DefaultIssueType)
	v.SetDefault("sprint_field", DefaultSprintField)
	v.SetDefault("config_path", DefaultConfigPath)

	s := &Settings{
		Host:             strings.TrimRight(v.GetString("host"), "/"),
		Email:            v.GetString("email"),
		APIToken:         v.GetString("api_token"),
		ActionableStatus: v.GetString("actionable_status"),
		ProjectKeys:      splitKeys(v.GetString("project_keys")),
		DefaultPriority:  v.GetString("default_priority"),
		DefaultIssueType: v.GetString("default_issue_type"),
		SprintField:      v.GetString("sprint_field"),
		ConfigPath:       v.GetString("config_path"),
	}

	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) validate() error {
	var missing []string
	if s.Host == "" {
		missing = append(missing, "JIRA_HOST")
	}
	if s.Email == "" {
		missing = append(missing, "JIRA_EMAIL")
	}
	if s.APIToken == "" {
		missing = append(missing, "JIRA_API_TOKEN")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

// splitKeys parses a comma-separated project key list, dropping empties.
func splitKeys(raw string) []string {
	var keys []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
