package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"time"
)

// ipcCommand is a JSON-IPC request line.
type ipcCommand struct {
	Command   []any `json:"command"`
	RequestID int   `json:"request_id,omitempty"`
}

// ipcMessage is anything mpv writes back: a reply to a request or an asynchronous event.
type ipcMessage struct {
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
	RequestID int             `json:"request_id"`

	Event     string `json:"event"`
	Name      string `json:"name"`
	Reason    string `json:"reason"`
	FileError string `json:"file_error"`
}

func (m ipcMessage) failed() bool {
	return m.Error != "" && m.Error != "success"
}

const (
	maxRetries   = 3
	retryDelay   = 100 * time.Millisecond
	readDeadline = 1 * time.Second
	readBufSize  = 4096
)

// sendCommand runs one IPC command on a short-lived connection, retrying transient failures.
// Writes are serialized so commands reach mpv in call order.
func (m *MPV) sendCommand(command ...any) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(retryDelay)
		}

		data, err := doSendCommand(m.socketPath, command)
		if err == nil {
			return data, nil
		}
		if _, rejected := err.(*commandError); rejected {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("ipc command failed after %d attempts: %w", maxRetries, lastErr)
}

// commandError is a well-formed rejection by mpv, which is never retried.
type commandError struct {
	command any
	reason  string
}

func (e *commandError) Error() string {
	return fmt.Sprintf("mpv rejected %v: %s", e.command, e.reason)
}

func doSendCommand(socketPath string, command []any) (json.RawMessage, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	if err := writeCommand(conn, ipcCommand{Command: command, RequestID: 1}); err != nil {
		return nil, err
	}

	if err := conn.SetReadDeadline(time.Now().Add(readDeadline)); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	// events may be interleaved before the reply
	var lines lineSplitter
	buf := make([]byte, readBufSize)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			return nil, fmt.Errorf("read: %w", err)
		}

		for _, line := range lines.feed(buf[:n]) {
			var msg ipcMessage
			if err := json.Unmarshal(line, &msg); err != nil {
				return nil, fmt.Errorf("unmarshal: %w", err)
			}
			if msg.Event != "" || msg.RequestID != 1 {
				continue
			}
			if msg.failed() {
				return nil, &commandError{command: command[0], reason: msg.Error}
			}
			return msg.Data, nil
		}
	}
}

func writeCommand(conn net.Conn, cmd ipcCommand) error {
	payload, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	if _, err = conn.Write(append(payload, '\n')); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// lineSplitter buffers partial newline-delimited JSON across reads.
type lineSplitter struct {
	remainder []byte
}

func (s *lineSplitter) feed(chunk []byte) [][]byte {
	data := append(s.remainder, chunk...)
	s.remainder = nil

	var lines [][]byte
	start := 0
	for i, b := range data {
		if b != '\n' {
			continue
		}
		if line := bytes.TrimSpace(data[start:i]); len(line) > 0 {
			lines = append(lines, line)
		}
		start = i + 1
	}

	if start < len(data) {
		s.remainder = append([]byte(nil), data[start:]...)
	}
	return lines
}
