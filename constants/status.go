package constants

// IngestStatus is the canonical status reported on the progress stream.
type IngestStatus string

// Stable values (callers may persist or display these exact strings).
const (
	StatusIdle       IngestStatus = "IDLE"       // no ingestion in flight
	StatusProcessing IngestStatus = "PROCESSING" // stage 1 done, stage 2 running
	StatusComplete   IngestStatus = "COMPLETE"   // final model assembled
	StatusError      IngestStatus = "ERROR"      // run-level failure; partial model may still be usable
)
