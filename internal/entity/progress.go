package entity

import "github.com/slatecrew/callsheet/constants"

// Progress is one event on the ingestion progress stream. Percent is 0..100.
// Err is only set when Status is StatusError.
type Progress struct {
	Status  constants.IngestStatus `json:"status"`
	Percent int                    `json:"percent"`
	Message string                 `json:"message"`
	Err     string                 `json:"error,omitempty"`
}
