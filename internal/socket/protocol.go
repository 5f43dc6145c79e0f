// Package socket lets other processes talk to a running sidediff instance
// over a Unix domain socket using newline-delimited JSON.
package socket

// Message represents a command sent to the running sidediff instance
type Message struct {
	Command string `json:"command"`
	// Side selects "original", "modified" or, when empty, both files.
	Side string `json:"side,omitempty"`

	// ResponseChan is set by the server for synchronous commands.
	ResponseChan chan *Response `json:"-"`
}

// Response represents the response from the server
type Response struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Status  *Status `json:"status,omitempty"`
}

// Status describes the diff shown by the running instance.
type Status struct {
	Original      string `json:"original"`
	Modified      string `json:"modified"`
	UpToDate      bool   `json:"up_to_date"`
	Changes       int    `json:"changes"`
	HiddenRegions int    `json:"hidden_regions"`
}

// Command types
const (
	CommandReload = "reload"
	CommandStatus = "status"
)

// Sides accepted by CommandReload.
const (
	SideOriginal = "original"
	SideModified = "modified"
)

func isSynchronous(command string) bool {
	return command == CommandStatus
}
