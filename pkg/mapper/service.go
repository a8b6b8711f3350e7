// SPDX-FileCopyrightText: 2026 The quiclb-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package mapper

import (
	"encoding/hex"
	"encoding/json"
	"net/http"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/quiclb/quiclb-go/pkg/quiclb"
)

// Service resolves observed Connection IDs to backend server IDs.
type Service struct {
	codec  quiclb.Codec
	router *mux.Router

	upgrader websocket.Upgrader

	observersMutex sync.Mutex
	observers      map[*websocket.Conn]struct{}
}

// NewService creates a Service for the given codec and registers its routes.
func NewService(codec quiclb.Codec) (s *Service) {
	s = &Service{
		codec:     codec,
		router:    mux.NewRouter(),
		observers: make(map[*websocket.Conn]struct{}),
	}

	s.router.HandleFunc("/verify/{cid}", s.handleVerify).Methods(http.MethodGet)
	s.router.HandleFunc("/config", s.handleConfig).Methods(http.MethodGet)
	s.router.HandleFunc("/events", s.handleEvents).Methods(http.MethodGet)

	return s
}

// ServeHTTP dispatches to the Service's routes.
func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// handleVerify processes /verify/{cid} GET requests. An unroutable CID is a
// soft condition and answered with the error field, not an HTTP error.
func (s *Service) handleVerify(w http.ResponseWriter, r *http.Request) {
	cidHex := mux.Vars(r)["cid"]

	cid, hexErr := hex.DecodeString(cidHex)
	if hexErr != nil {
		log.WithField("cid", cidHex).Warn("Rejecting lookup of non-hex CID")
		http.Error(w, "cid must be hex encoded", http.StatusBadRequest)
		return
	}

	response := VerifyResponse{Cid: cidHex}
	if serverId := s.codec.VerifyCid(cid); serverId == quiclb.UnknownServerId {
		response.Error = "unknown cid format"
	} else {
		response.ServerId = &serverId
	}

	log.WithFields(log.Fields{
		"cid":      cidHex,
		"response": response,
	}).Debug("Resolved CID lookup")

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.WithError(err).Warn("Failed to write lookup response")
	}

	s.broadcast(response)
}

// handleConfig processes /config GET requests.
func (s *Service) handleConfig(w http.ResponseWriter, _ *http.Request) {
	response := ConfigResponse{CidLength: s.codec.CidLength()}
	if ctx, ok := s.codec.(*quiclb.Context); ok {
		response.Method = ctx.Method().String()
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.WithError(err).Warn("Failed to write config response")
	}
}
