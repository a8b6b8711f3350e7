// SPDX-FileCopyrightText: 2026 The quiclb-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package mapper

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/gorilla/websocket"
)

// handleEvents upgrades /events GET requests to a WebSocket and registers the
// connection as an observer of future lookups.
func (s *Service) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("Upgrading HTTP request to WebSocket errored")
		return
	}

	s.observersMutex.Lock()
	s.observers[conn] = struct{}{}
	s.observersMutex.Unlock()

	log.WithField("observer", conn.RemoteAddr()).Info("Observer connected")

	go s.drainObserver(conn)
}

// drainObserver discards incoming messages until the observer disconnects.
func (s *Service) drainObserver(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	s.removeObserver(conn)
	log.WithField("observer", conn.RemoteAddr()).Info("Observer disconnected")
}

func (s *Service) removeObserver(conn *websocket.Conn) {
	s.observersMutex.Lock()
	defer s.observersMutex.Unlock()

	if _, ok := s.observers[conn]; ok {
		delete(s.observers, conn)
		_ = conn.Close()
	}
}

// broadcast sends a lookup event to every connected observer. A failing
// observer is dropped.
func (s *Service) broadcast(event VerifyResponse) {
	s.observersMutex.Lock()
	defer s.observersMutex.Unlock()

	for conn := range s.observers {
		if err := conn.WriteJSON(event); err != nil {
			log.WithError(err).WithField("observer", conn.RemoteAddr()).
				Warn("Dropping observer after failed write")

			delete(s.observers, conn)
			_ = conn.Close()
		}
	}
}

// Close disconnects all observers.
func (s *Service) Close() {
	s.observersMutex.Lock()
	defer s.observersMutex.Unlock()

	for conn := range s.observers {
		_ = conn.Close()
		delete(s.observers, conn)
	}
}
