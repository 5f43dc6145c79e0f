package socket

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

const syncTimeout = 10 * time.Second

// Server represents a Unix socket server for accepting external commands
type Server struct {
	socketPath string
	listener   net.Listener
	msgChan    chan Message
	stopChan   chan struct{}
	logger     zerolog.Logger
}

// DefaultDir returns the directory sockets are created in: a sidediff
// subdirectory of XDG_RUNTIME_DIR, or ~/.local/share/sidediff.
func DefaultDir() string {
	if xdgRuntime := os.Getenv("XDG_RUNTIME_DIR"); xdgRuntime != "" {
		return filepath.Join(xdgRuntime, "sidediff")
	}
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "sidediff")
}

// NewServer creates a new Unix socket server at dir/sidediff-<pid>.sock.
func NewServer(dir string, pid int, logger zerolog.Logger) (*Server, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create socket directory: %w", err)
	}

	socketPath := filepath.Join(dir, fmt.Sprintf("%s%d%s", socketPrefix, pid, socketSuffix))

	// Remove a stale socket left by a crashed instance
	if err := os.RemoveAll(socketPath); err != nil {
		return nil, fmt.Errorf("failed to remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on socket: %w", err)
	}

	logger = logger.With().Str("component", "socket").Logger()
	logger.Info().Str("path", socketPath).Msg("socket server listening")

	return &Server{
		socketPath: socketPath,
		listener:   listener,
		msgChan:    make(chan Message, 10),
		stopChan:   make(chan struct{}),
		logger:     logger,
	}, nil
}

// Start begins accepting connections on the socket
func (s *Server) Start() {
	go s.acceptLoop()
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.stopChan:
				return
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Warn().Err(err).Msg("accept failed")
			continue
		}
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	decoder := json.NewDecoder(conn)
	encoder := json.NewEncoder(conn)
	reply := func(r *Response) {
		if err := encoder.Encode(r); err != nil {
			s.logger.Debug().Err(err).Msg("write response")
		}
	}

	var msg Message
	if err := decoder.Decode(&msg); err != nil {
		if err != io.EOF {
			s.logger.Warn().Err(err).Msg("decode message")
		}
		reply(&Response{Message: fmt.Sprintf("Invalid message format: %v", err)})
		return
	}

	if msg.Command == "" {
		reply(&Response{Message: "Missing command field"})
		return
	}

	if isSynchronous(msg.Command) {
		msg.ResponseChan = make(chan *Response, 1)
	}

	select {
	case s.msgChan <- msg:
	case <-s.stopChan:
		reply(&Response{Message: "Server is shutting down"})
		return
	}

	if msg.ResponseChan == nil {
		reply(&Response{Success: true, Message: "Command queued"})
		return
	}

	select {
	case response := <-msg.ResponseChan:
		reply(response)
	case <-time.After(syncTimeout):
		reply(&Response{Message: "Command timed out"})
	case <-s.stopChan:
		reply(&Response{Message: "Server is shutting down"})
	}
}

// Messages returns the channel for receiving messages
func (s *Server) Messages() <-chan Message {
	return s.msgChan
}

// SocketPath returns the path to the Unix socket
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Stop stops the server and removes the socket file.
func (s *Server) Stop() {
	close(s.stopChan)
	if s.listener != nil {
		s.listener.Close()
	}
	if s.socketPath != "" {
		os.Remove(s.socketPath)
	}
	s.logger.Info().Msg("socket server stopped")
}
