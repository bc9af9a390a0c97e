package model

// StoreStatus describes the observed state of the document store.
// Display strings are rendered only at the HTTP boundary.
type StoreStatus int

const (
	// StoreUnconfigured means no connection string was provided.
	StoreUnconfigured StoreStatus = iota
	// StoreUnavailable means a connection string exists but the client
	// could not be established.
	StoreUnavailable
	// StoreConnected means the store answered a live query.
	StoreConnected
	// StoreConnectedWithError means the client exists but the probe
	// query failed; Detail carries the truncated cause.
	StoreConnectedWithError
)

// StoreDiagnostics is the result of probing the document store.
// Produced by the service layer, which never lets a probe failure escape
// as an error.
type StoreDiagnostics struct {
	Status       StoreStatus
	Detail       string
	DatabaseName string
	Collections  []string
}
