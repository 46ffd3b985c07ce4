package transport

import (
	"encoding/json"

	"github.com/fastygo/storefront/internal/docstore"
)

// Envelope is the standard API response wrapper used for both success and error payloads.
type Envelope struct {
	Status string      `json:"status"`
	Code   string      `json:"code,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Error  interface{} `json:"error,omitempty"`
	Meta   interface{} `json:"meta,omitempty"`
}

// NewSuccess returns a success envelope.
func NewSuccess(data interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "success",
		Data:   data,
		Meta:   meta,
	}
}

// NewError returns an error envelope with optional metadata.
func NewError(code string, err interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "error",
		Code:   code,
		Error:  err,
		Meta:   meta,
	}
}

// DocumentMeta tells clients which copy of the site document served the
// response.
type DocumentMeta struct {
	Source    docstore.Source `json:"source"`
	Version   string          `json:"version,omitempty"`
	Degraded  bool            `json:"degraded,omitempty"`
	Malformed bool            `json:"malformed,omitempty"`
}

func NewDocumentMeta(info docstore.LoadInfo) DocumentMeta {
	return DocumentMeta{
		Source:    info.Source,
		Version:   info.Version,
		Degraded:  info.Degraded,
		Malformed: info.Malformed,
	}
}

// ListMeta accompanies collection responses.
type ListMeta struct {
	Count int `json:"count"`
}

// String returns the JSON representation (best-effort) for logging purposes.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}
