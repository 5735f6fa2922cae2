package email

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/pkg/errors"
)

// Template is a string-based enum naming email templates. Each value matches
// a file templates/<name>.html embedded in the binary.
type Template string

const (
	// TemplateRSVPConfirmation is sent to a supporter after an RSVP.
	TemplateRSVPConfirmation Template = "rsvp_confirmation"

	// TemplateContactNotification is sent to the admins for every contact
	// form submission.
	TemplateContactNotification Template = "contact_notification"
)

//go:embed templates/*.html
var templateFS embed.FS

// templates is parsed once; a broken template fails at startup rather than
// on the first send.
var templates = template.Must(
	template.New("emails").
		Funcs(sprig.FuncMap()).
		ParseFS(templateFS, "templates/*.html"),
)

// Render executes the named template with data.
func Render(name Template, data any) (string, error) {
	tmpl := templates.Lookup(string(name) + ".html")
	if tmpl == nil {
		return "", errors.Errorf("unknown email template %q", name)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", errors.Wrapf(err, "failed to execute email template %s", name)
	}
	return body.String(), nil
}
