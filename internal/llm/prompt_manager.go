package llm

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"text/template"
)

//go:embed prompts/*.prompt
var promptFiles embed.FS

// ModelProvider selects a provider-specific prompt variant.
type ModelProvider string

// PromptKey names one of the generation tasks.
type PromptKey string

const (
	DefaultProvider      ModelProvider = "default"
	CommitMessagePrompt  PromptKey     = "commit_message"
	PRDescriptionPrompt  PromptKey     = "pr_description"
	QualityVerdictPrompt PromptKey     = "quality_verdict"
)

var promptFuncs = template.FuncMap{
	"join": strings.Join,
	"short": func(hash string) string {
		if len(hash) > 7 {
			return hash[:7]
		}
		return hash
	},
	"firstLine": func(s string) string {
		line, _, _ := strings.Cut(s, "\n")
		return strings.TrimSpace(line)
	},
}

// PromptManager renders the task prompts shipped in prompts/. A file named
// <task>_<provider>.prompt serves that provider; <task>_default.prompt serves
// everyone else.
type PromptManager struct {
	templates map[PromptKey]map[ModelProvider]*template.Template
}

// NewPromptManager parses every embedded prompt. A malformed file name or
// template fails construction.
func NewPromptManager() (*PromptManager, error) {
	return loadPrompts(promptFiles, "prompts/*.prompt")
}

func loadPrompts(fsys fs.FS, pattern string) (*PromptManager, error) {
	names, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid prompt pattern %q: %w", pattern, err)
	}

	pm := &PromptManager{templates: make(map[PromptKey]map[ModelProvider]*template.Template)}
	for _, name := range names {
		key, provider, err := parsePromptName(path.Base(name))
		if err != nil {
			return nil, err
		}
		body, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("reading prompt %s: %w", name, err)
		}
		tmpl, err := template.New(path.Base(name)).
			Funcs(promptFuncs).
			Option("missingkey=error").
			Parse(string(body))
		if err != nil {
			return nil, fmt.Errorf("parsing prompt %s: %w", name, err)
		}
		if pm.templates[key] == nil {
			pm.templates[key] = make(map[ModelProvider]*template.Template)
		}
		pm.templates[key][provider] = tmpl
	}
	return pm, nil
}

// parsePromptName splits "commit_message_default.prompt" into its task and
// provider at the last underscore.
func parsePromptName(file string) (PromptKey, ModelProvider, error) {
	stem := strings.TrimSuffix(file, path.Ext(file))
	i := strings.LastIndexByte(stem, '_')
	if i <= 0 || i == len(stem)-1 {
		return "", "", fmt.Errorf("prompt file %s is not named <task>_<provider>.prompt", file)
	}
	return PromptKey(stem[:i]), ModelProvider(stem[i+1:]), nil
}

// Get returns the template for key, preferring a provider-specific variant.
func (pm *PromptManager) Get(key PromptKey, provider ModelProvider) (*template.Template, error) {
	variants, ok := pm.templates[key]
	if !ok {
		return nil, fmt.Errorf("unknown prompt %q", key)
	}
	if tmpl, ok := variants[provider]; ok {
		return tmpl, nil
	}
	if tmpl, ok := variants[DefaultProvider]; ok {
		return tmpl, nil
	}
	return nil, fmt.Errorf("prompt %q has no %q or default variant", key, provider)
}

// Render executes the prompt for key with data.
func (pm *PromptManager) Render(key PromptKey, provider ModelProvider, data any) (string, error) {
	tmpl, err := pm.Get(key, provider)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering prompt %q: %w", key, err)
	}
	return buf.String(), nil
}
