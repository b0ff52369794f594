/*
dto.go - Request/response types for the HTTP surface

PURPOSE:
  Decouples the wire contract from engine types where they differ. Engine
  receipts, history points, and XP vectors already carry JSON tags and go
  out as-is; only the inbound shapes live here.

NAMING CONVENTION:
  - *Request: request body types from clients
  - *Response: response wrappers where the engine type isn't returned raw

SEE ALSO:
  - handlers.go: uses these types
*/
package api

import (
	"github.com/Ncaofa1996/iron-sovereign/metrics"
	"github.com/Ncaofa1996/iron-sovereign/xp"
)

// ImportRequest is the JSON-rows import body. Config is optional; unset
// targets fall back to the server defaults.
type ImportRequest struct {
	Rows   []map[string]string `json:"rows"`
	Config *xp.Config          `json:"config,omitempty"`
}

// CheckinRequest is the manual daily check-in.
type CheckinRequest struct {
	Scripture bool `json:"scripture"`
	Book      bool `json:"book"`
	Language  bool `json:"language"`
}

// CheckinResponse carries the INT XP the check-in awarded.
type CheckinResponse struct {
	XP int `json:"xp"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (r ImportRequest) rows() []metrics.Row {
	rows := make([]metrics.Row, len(r.Rows))
	for i, m := range r.Rows {
		rows[i] = metrics.Row(m)
	}
	return rows
}
