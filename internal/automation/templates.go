// Package automation holds the static module-to-workflow-template table.
// The table is data, not code: adding a template for a module is a YAML
// change.
package automation

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var templatesYAML []byte

// Template describes one workflow to deploy for a module.
type Template struct {
	Name        string `yaml:"name"`
	WebhookPath string `yaml:"webhook_path"`
}

type catalog struct {
	Modules map[string][]Template `yaml:"modules"`
}

var templates catalog

func init() {
	if err := yaml.Unmarshal(templatesYAML, &templates); err != nil {
		panic(fmt.Sprintf("automation: parse templates.yaml: %v", err))
	}
}

// TemplatesForModule returns the workflow templates for a module. Modules
// without automations (e.g. ai_agents) return nil.
func TemplatesForModule(module string) []Template {
	return templates.Modules[module]
}

// TemplatesForModules expands a module list into (module, template) pairs,
// preserving module order.
func TemplatesForModules(modules []string) []ModuleTemplate {
	var out []ModuleTemplate
	for _, m := range modules {
		for _, t := range templates.Modules[m] {
			out = append(out, ModuleTemplate{Module: m, Template: t})
		}
	}
	return out
}

// ModuleTemplate pairs a template with the module that enables it.
type ModuleTemplate struct {
	Module   string
	Template Template
}
