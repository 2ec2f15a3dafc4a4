package prompts

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// embeds all .yaml files in the templates folder into Go program at compile time
//
//go:embed templates/*.yaml
var templateFS embed.FS

// PromptProvider is the interface handlers and services depend on.
type PromptProvider interface {
	BuildPrompt(mode, variant string, data map[string]string) (string, error)
	Modes() []string
}

type Manager struct {
	prompts map[string]map[string]string // mode -> variant -> complete prompt
}

// loaded prompt template
type PromptTemplate struct {
	BasePrompt string            `yaml:"base_prompt"`
	Variants   map[string]string `yaml:"variants"`
}

// creates a new prompt manager and loads templates
func NewManager() (*Manager, error) {
	m := &Manager{
		prompts: make(map[string]map[string]string),
	}

	if err := m.loadPrompts(); err != nil {
		return nil, fmt.Errorf("failed to load prompt templates: %w", err)
	}

	return m, nil
}

// BuildPrompt assembles the prompt for the given mode and variant, replacing
// each {{.Key}} placeholder with the matching data value.
func (m *Manager) BuildPrompt(mode, variant string, data map[string]string) (string, error) {
	modePrompts, exists := m.prompts[mode]
	if !exists {
		return "", fmt.Errorf("template not found for mode: %s", mode)
	}

	prompt, exists := modePrompts[variant]
	if !exists {
		return "", fmt.Errorf("variant '%s' not found for mode '%s'", variant, mode)
	}

	// Simple string replacement instead of template execution
	for key, value := range data {
		prompt = strings.ReplaceAll(prompt, "{{."+key+"}}", value)
	}

	return prompt, nil
}

// Modes returns the loaded template modes, sorted for stable output.
func (m *Manager) Modes() []string {
	modes := make([]string, 0, len(m.prompts))
	for mode := range m.prompts {
		modes = append(modes, mode)
	}
	sort.Strings(modes)
	return modes
}

// loadPrompts loads all YAML prompt files from the embedded filesystem
func (m *Manager) loadPrompts() error {
	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return fmt.Errorf("failed to read templates directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		data, err := templateFS.ReadFile("templates/" + entry.Name())
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", entry.Name(), err)
		}

		var promptTemplate PromptTemplate
		if err := yaml.Unmarshal(data, &promptTemplate); err != nil {
			return fmt.Errorf("failed to parse template file %s: %w", entry.Name(), err)
		}

		name := strings.TrimSuffix(entry.Name(), ".yaml")
		m.prompts[name] = make(map[string]string)

		for variant, variantPrompt := range promptTemplate.Variants {
			var fullPrompt strings.Builder
			if promptTemplate.BasePrompt != "" {
				fullPrompt.WriteString(promptTemplate.BasePrompt)
				fullPrompt.WriteString("\n\n")
			}
			fullPrompt.WriteString(variantPrompt)

			m.prompts[name][variant] = fullPrompt.String()
		}
	}

	return nil
}
