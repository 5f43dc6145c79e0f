package socket

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	socketPrefix = "sidediff-"
	socketSuffix = ".sock"
)

// ErrNoInstance is returned when no socket of a running instance is found.
var ErrNoInstance = errors.New("no running sidediff instance found")

// Client represents a Unix socket client for sending commands
type Client struct {
	socketPath string
	timeout    time.Duration
}

// FindRunningInstance returns the socket path and PID of the most recently
// started instance with a socket in dir.
func FindRunningInstance(dir string) (string, int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", 0, ErrNoInstance
		}
		return "", 0, fmt.Errorf("error scanning socket directory: %w", err)
	}

	var newest string
	var newestTime time.Time
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, socketPrefix) || !strings.HasSuffix(name, socketSuffix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestTime) {
			newest = filepath.Join(dir, name)
			newestTime = info.ModTime()
		}
	}
	if newest == "" {
		return "", 0, ErrNoInstance
	}

	pidStr := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(newest), socketPrefix), socketSuffix)
	pid, err := strconv.Atoi(pidStr)
	if err != nil {
		pid = 0
	}
	return newest, pid, nil
}

// NewClient creates a new client connected to the specified socket
func NewClient(socketPath string) (*Client, error) {
	if _, err := os.Stat(socketPath); err != nil {
		return nil, fmt.Errorf("socket not found: %w", err)
	}
	return &Client{socketPath: socketPath, timeout: 5 * time.Second}, nil
}

// Send sends a message to the server and returns the response
func (c *Client) Send(msg Message) (*Response, error) {
	conn, err := net.Dial("unix", c.socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to socket: %w", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	if err := json.NewEncoder(conn).Encode(msg); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	var response Response
	if err := json.NewDecoder(conn).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to receive response: %w", err)
	}
	return &response, nil
}

// Reload asks the instance to re-read side from disk ("" for both files).
func (c *Client) Reload(side string) (*Response, error) {
	return c.Send(Message{Command: CommandReload, Side: side})
}

// Status asks the instance to describe its current diff.
func (c *Client) Status() (*Response, error) {
	return c.Send(Message{Command: CommandStatus})
}
