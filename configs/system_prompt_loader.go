package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SystemPromptConfig mirrors the structure of system_prompt.yaml
type SystemPromptConfig struct {
	System struct {
		Role     string `yaml:"role"`
		Version  string `yaml:"version"`
		Language string `yaml:"language"`
	} `yaml:"system"`

	Guidelines []struct {
		Priority  int    `yaml:"priority"`
		Condition string `yaml:"condition"`
		Action    string `yaml:"action"`
	} `yaml:"guidelines"`

	Tone struct {
		Style         string `yaml:"style"`
		Personality   string `yaml:"personality"`
		LanguageLevel string `yaml:"language_level"`
	} `yaml:"tone"`

	Constraints []string `yaml:"constraints"`

	SpecialCommands struct {
		Help struct {
			Trigger  []string `yaml:"trigger"`
			Response string   `yaml:"response"`
		} `yaml:"help"`
	} `yaml:"special_commands"`
}

var cachedSystemPrompt *SystemPromptConfig

// LoadSystemPrompt reads the advisor system prompt settings from YAML
func LoadSystemPrompt() (*SystemPromptConfig, error) {
	if cachedSystemPrompt != nil {
		return cachedSystemPrompt, nil
	}

	data, err := os.ReadFile("configs/system_prompt.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read system prompt config: %w", err)
	}

	var config SystemPromptConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse system prompt YAML: %w", err)
	}

	cachedSystemPrompt = &config
	return cachedSystemPrompt, nil
}

// BuildSystemPrompt renders the configured prompt into plain text
func (c *SystemPromptConfig) BuildSystemPrompt() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("You are %s.\n\n", c.System.Role))

	sb.WriteString("## Response guidelines\n")
	for _, g := range c.Guidelines {
		sb.WriteString(fmt.Sprintf("%d. %s -> %s\n", g.Priority, g.Condition, g.Action))
	}
	sb.WriteString("\n")

	sb.WriteString("## Tone\n")
	sb.WriteString(fmt.Sprintf("- Style: %s\n", c.Tone.Style))
	sb.WriteString(fmt.Sprintf("- Personality: %s\n", c.Tone.Personality))
	sb.WriteString(fmt.Sprintf("- Language level: %s\n", c.Tone.LanguageLevel))
	sb.WriteString("\n")

	sb.WriteString("## Constraints\n")
	for _, constraint := range c.Constraints {
		sb.WriteString(fmt.Sprintf("- %s\n", constraint))
	}
	sb.WriteString("\n")

	sb.WriteString("Answer using the soil, season and local dataset context provided with each question.\n")

	return sb.String()
}

// CheckSpecialCommand returns a canned response for help-style messages
func (c *SystemPromptConfig) CheckSpecialCommand(message string) (bool, string) {
	lowerMsg := strings.ToLower(message)

	for _, trigger := range c.SpecialCommands.Help.Trigger {
		if strings.Contains(lowerMsg, strings.ToLower(trigger)) {
			return true, c.SpecialCommands.Help.Response
		}
	}

	return false, ""
}
