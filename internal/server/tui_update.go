// ABOUTME: TUI update helpers for server
// ABOUTME: Periodically pushes request stats to the TUI
package server

import "time"

// status builds the current TUI view of the server
func (s *Server) status() ServerStatus {
	s.sessionsMu.Lock()
	sessions := len(s.sessions)
	s.sessionsMu.Unlock()

	return ServerStatus{
		Name:      s.config.Name,
		Addr:      s.Addr(),
		Model:     s.config.Model,
		WebSocket: s.config.EnableWebSocket,
		Sessions:  sessions,
		Stats:     s.stats.Snapshot(),
	}
}

// tuiLoop refreshes the TUI every second until the server stops
func (s *Server) tuiLoop() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tui.Update(s.status())
		case <-s.stopChan:
			return
		}
	}
}
