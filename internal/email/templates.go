package email

import (
	"fmt"
	"html/template"
	"strings"
	"sync"
)

const TemplateWelcome = "welcome"

const welcomeTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: sans-serif;">
  <h2>Welcome, {{.Name}}!</h2>
  <p>Your {{.AppName}} account <strong>{{.Username}}</strong> has been created.</p>
  <p>Sign in any time to rate restaurants, hotels, products, malls and institutions.</p>
</body>
</html>`

// TemplateManager keeps parsed HTML templates by name.
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

func NewTemplateManager() *TemplateManager {
	return &TemplateManager{templates: make(map[string]*template.Template)}
}

func (tm *TemplateManager) Render(templateName string, data TemplateData) (string, error) {
	tm.mutex.RLock()
	tpl, exists := tm.templates[templateName]
	tm.mutex.RUnlock()

	if !exists {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

func (tm *TemplateManager) AddTemplate(name string, templateStr string) error {
	tpl, err := template.New(name).Parse(templateStr)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.mutex.Unlock()
	return nil
}
