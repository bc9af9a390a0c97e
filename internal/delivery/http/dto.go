package http

import (
	"github.com/neonlabs/contact-backend/internal/config"
	"github.com/neonlabs/contact-backend/internal/domain/model"
)

// ContactRequest defines the structure of an inbound contact submission.
// It uses `json` tags for unmarshalling and `binding` for validation with Gin.
type ContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message"`
	Source  string `json:"source"`
}

// ContactResponse carries both outcomes of a submission: the persisted id
// and whether the notification email went out.
type ContactResponse struct {
	Status    string `json:"status"`
	ID        string `json:"id"`
	EmailSent bool   `json:"email_sent"`
}

// EmailTestRequest optionally overrides the diagnostic recipient.
type EmailTestRequest struct {
	To string `json:"to"`
}

// EmailTestResponse reports the outcome and the resolved recipient.
type EmailTestResponse struct {
	OK bool   `json:"ok"`
	To string `json:"to"`
}

// MessageResponse is the trivial greeting payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// DiagnosticsResponse mirrors the operator-facing database check. All
// indicator fields are human-readable display strings.
type DiagnosticsResponse struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	DatabaseURL      string   `json:"database_url"`
	DatabaseName     string   `json:"database_name"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections"`
}

// ErrorResponse defines a standard structure for API error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// toDiagnosticsResponse renders the typed store status into the display
// strings operators see. This is the only place those strings exist.
func toDiagnosticsResponse(cfg *config.Config, diag model.StoreDiagnostics) DiagnosticsResponse {
	resp := DiagnosticsResponse{
		Backend:          "✅ Running",
		Database:         "❌ Not Available",
		DatabaseURL:      setFlag(cfg.Database.URL != ""),
		DatabaseName:     setFlag(diag.DatabaseName != ""),
		ConnectionStatus: "Not Connected",
		Collections:      []string{},
	}

	switch diag.Status {
	case model.StoreConnected:
		resp.Database = "✅ Connected & Working"
		resp.ConnectionStatus = "Connected"
		resp.Collections = append(resp.Collections, diag.Collections...)
	case model.StoreConnectedWithError:
		resp.Database = "⚠️  Connected but Error: " + diag.Detail
		resp.ConnectionStatus = "Connected"
	case model.StoreUnavailable, model.StoreUnconfigured:
		// Defaults already describe these states.
	}

	return resp
}

func setFlag(set bool) string {
	if set {
		return "✅ Set"
	}
	return "❌ Not Set"
}
