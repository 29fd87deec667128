package livehub

// Client is one live connection of a user. A user may hold several at once
// (one per open tab).
type Client interface {
	// UserID returns the account the connection was authenticated as.
	UserID() string
	// SendChannel is where the hub puts payloads for this connection.
	SendChannel() chan<- []byte
	// Run starts the connection's pumps.
	Run()
	// Close stops the write side. The hub calls it exactly once.
	Close()
}
