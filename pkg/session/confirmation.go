package session

import (
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-formflow/internal/logger"
)

// ConfirmationMessage renders the form's confirmation template against an
// accepted payload, so admins can write messages like
// `Thanks {{ full_name }}, see you at the venue!`. A missing template or a
// render failure falls back to the raw settings string; confirmation copy
// is never worth failing a successful submission over.
func (s *Session) ConfirmationMessage(payload map[string]any) string {
	raw := strings.TrimSpace(s.form.Settings.ConfirmationMessage)
	if raw == "" {
		return ""
	}

	tpl, err := pongo2.FromString(raw)
	if err != nil {
		logger.L.Warn("confirmation template ignored", "form", s.form.ID, "error", err)
		return raw
	}

	ctx := make(pongo2.Context, len(payload))
	for name, value := range payload {
		ctx[name] = value
	}
	rendered, err := tpl.Execute(ctx)
	if err != nil {
		logger.L.Warn("confirmation template failed", "form", s.form.ID, "error", err)
		return raw
	}
	return strings.TrimSpace(rendered)
}
