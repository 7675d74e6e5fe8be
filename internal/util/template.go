package util

import (
	"fmt"
	"strings"
	"text/template"
)

// promptFuncs are available inside every prompt template.
var promptFuncs = template.FuncMap{
	"default": func(fallback, val any) any {
		if val == nil || val == "" {
			return fallback
		}
		return val
	},
	"join": func(sep string, items []string) string {
		return strings.Join(items, sep)
	},
	"upper": strings.ToUpper,
	"lower": strings.ToLower,
}

// RenderTemplate renders a prompt against vars (e.g. {{.name}}). Missing
// keys render as their zero value. Text without actions is returned as is.
func RenderTemplate(text string, vars map[string]any) (string, error) {
	if !strings.Contains(text, "{{") {
		return text, nil
	}

	tmpl, err := template.New("prompt").Option("missingkey=zero").Funcs(promptFuncs).Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse prompt template: %w", err)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, vars); err != nil {
		return "", fmt.Errorf("render prompt template: %w", err)
	}

	return sb.String(), nil
}
