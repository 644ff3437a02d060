package email

// Email is one outgoing message.
type Email struct {
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// TemplateData is passed to message templates.
type TemplateData map[string]any
