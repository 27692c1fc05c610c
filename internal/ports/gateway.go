// Package ports defines the inbound gateway contract shared by the HTTP and
// SMTP servers.
package ports

// Gateway is an inbound server that feeds the triage pipeline.
type Gateway interface {
	// Start begins serving. It must not block.
	Start() error

	// Stop shuts the server down and releases its listener.
	Stop() error
}
