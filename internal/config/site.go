package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SiteProfile is the static knowledge about the organisation that is not
// stored in the database: identity, programs and contact channels. It feeds
// the public pages and the chat assistant's system prompt.
type SiteProfile struct {
	Name          string   `yaml:"name"`
	AssistantName string   `yaml:"assistant_name"`
	Tagline       string   `yaml:"tagline"`
	Theme         string   `yaml:"theme"`
	Language      string   `yaml:"language"`
	Tone          string   `yaml:"tone"`
	Greeting      string   `yaml:"greeting"`
	Focus         []Focus  `yaml:"focus"`
	Programs      []string `yaml:"programs"`
	Contacts      Contacts `yaml:"contacts"`
	Team          string   `yaml:"team"`
}

// Focus is one named focus area with its activities.
type Focus struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Contacts lists the public contact channels.
type Contacts struct {
	Email     string `yaml:"email"`
	Instagram string `yaml:"instagram"`
	Facebook  string `yaml:"facebook"`
	Location  string `yaml:"location"`
}

// LoadSiteProfile reads and validates a site.yaml file.
func LoadSiteProfile(path string) (*SiteProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read site profile: %w", err)
	}
	return ParseSiteProfile(data)
}

// ParseSiteProfile decodes a site profile document.
func ParseSiteProfile(data []byte) (*SiteProfile, error) {
	var p SiteProfile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse site profile: %w", err)
	}
	if p.Name == "" {
		return nil, fmt.Errorf("site profile: name is required")
	}
	if p.AssistantName == "" {
		p.AssistantName = "Asisten"
	}
	if p.Language == "" {
		p.Language = "Bahasa Indonesia"
	}
	return &p, nil
}
