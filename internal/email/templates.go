package email

import (
	"fmt"
	"html/template"
	"strings"
	"sync"
)

const welcomeTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Welcome to Aveta, {{.Username}}!</h2>
  <p>Your account is ready. Pick a companion and start chatting right away.</p>
  <p>On the free plan you can send up to {{.FreeLimit}} messages a day. Upgrade any time for more.</p>
  <p>Have fun!<br>The Aveta team</p>
</body>
</html>`

const passwordResetTemplate = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Password reset</h2>
  <p>Hi {{.Username}},</p>
  <p>We received a request to reset your password. Click the link below to choose a new one:</p>
  <p><a href="{{.ResetLink}}">Reset my password</a></p>
  <p>The link expires in 10 minutes. If you did not request this, you can safely ignore this email.</p>
</body>
</html>`

// templateManager caches parsed templates.
type templateManager struct {
	templates map[string]*template.Template
	mu        sync.RWMutex
}

func newTemplateManager() (*templateManager, error) {
	tm := &templateManager{templates: make(map[string]*template.Template)}
	for name, body := range map[string]string{
		"welcome":        welcomeTemplate,
		"password_reset": passwordResetTemplate,
	} {
		if err := tm.add(name, body); err != nil {
			return nil, err
		}
	}
	return tm, nil
}

func (tm *templateManager) add(name, body string) error {
	tpl, err := template.New(name).Parse(body)
	if err != nil {
		return fmt.Errorf("failed to parse template %s: %w", name, err)
	}
	tm.mu.Lock()
	tm.templates[name] = tpl
	tm.mu.Unlock()
	return nil
}

func (tm *templateManager) render(name string, data map[string]interface{}) (string, error) {
	tm.mu.RLock()
	tpl, ok := tm.templates[name]
	tm.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("template not found: %s", name)
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return buf.String(), nil
}
