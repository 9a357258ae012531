package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/session"
	"github.com/goliatone/go-formflow/pkg/store"
)

type api struct {
	store  store.Store
	sink   SubmissionSink
	logger *zap.Logger
}

// Lister is implemented by stores that can enumerate their forms.
type Lister interface {
	List(ctx context.Context) ([]string, error)
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
	Issues []schema.Issue    `json:"issues,omitempty"`
}

func (a *api) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *api) listForms(w http.ResponseWriter, r *http.Request) {
	lister, ok := a.store.(Lister)
	if !ok {
		writeJSON(w, http.StatusOK, map[string][]string{"forms": {}})
		return
	}
	ids, err := lister.List(r.Context())
	if err != nil {
		a.logger.Error("form listing failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "could not list forms"})
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"forms": ids})
}

func (a *api) getForm(w http.ResponseWriter, r *http.Request) {
	formID := chi.URLParam(r, "formID")
	form, err := a.store.Fetch(r.Context(), formID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, form)
}

func (a *api) putForm(w http.ResponseWriter, r *http.Request) {
	formID := chi.URLParam(r, "formID")

	var form schema.Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed form document: " + err.Error()})
		return
	}
	if form.ID == "" {
		form.ID = formID
	}
	if form.ID != formID {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "form id does not match URL"})
		return
	}

	if err := form.Validate(); err != nil {
		var schemaErr *schema.SchemaError
		if errors.As(err, &schemaErr) {
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
				Error:  "form schema is invalid",
				Issues: schemaErr.Issues,
			})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if err := a.store.Save(r.Context(), form); err != nil {
		a.logger.Error("form save failed", zap.String("form", formID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "could not save form"})
		return
	}
	writeJSON(w, http.StatusOK, form)
}

// submit replays a filler's values through a fresh fill session so the
// server enforces the same validation and conditional rules as the client.
func (a *api) submit(w http.ResponseWriter, r *http.Request) {
	formID := chi.URLParam(r, "formID")
	form, err := a.store.Fetch(r.Context(), formID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}

	var body struct {
		Values   map[string]any `json:"values"`
		Captures map[string]any `json:"captures"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed submission: " + err.Error()})
		return
	}

	sess := session.New(form, session.WithSubmitter(a.sinkSubmitter(formID)))

	// Apply values in schema order, never map order. A value gated behind a
	// controller that appears later in the schema is rejected as disabled on
	// the first pass, so retry the leftovers until a pass makes no progress;
	// a value still disabled after that is simply not applied.
	pending := make([]string, 0, len(body.Values))
	known := make(map[string]bool, len(body.Values))
	for _, field := range form.Flatten() {
		if !schema.IsInput(field.Type) || field.Name == "" {
			continue
		}
		known[field.Name] = true
		if _, ok := body.Values[field.Name]; ok {
			pending = append(pending, field.Name)
		}
	}
	for name := range body.Values {
		if !known[name] {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown field " + strconv.Quote(name)})
			return
		}
	}
	for len(pending) > 0 {
		deferred := pending[:0:0]
		for _, name := range pending {
			if err := sess.Set(name, body.Values[name]); err != nil {
				if errors.Is(err, session.ErrFieldDisabled) {
					deferred = append(deferred, name)
					continue
				}
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
				return
			}
		}
		if len(deferred) == len(pending) {
			break
		}
		pending = deferred
	}

	for key, payload := range body.Captures {
		sess.AttachCapture(key, payload)
	}

	if err := sess.Submit(r.Context()); err != nil {
		var validationErr *session.ValidationError
		if errors.As(err, &validationErr) {
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
				Error:  "submission failed validation",
				Fields: validationErr.Fields,
			})
			return
		}
		a.logger.Error("submission failed", zap.String("form", formID), zap.Error(err))
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "submission could not be accepted"})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"status":  "accepted",
		"message": sess.ConfirmationMessage(sess.AcceptedPayload()),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
