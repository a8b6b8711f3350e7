// SPDX-FileCopyrightText: 2026 The quiclb-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package mapper provides the load-balancer-side lookup service for the CID
// codec: an HTTP API resolving observed Connection IDs to backend server IDs,
// plus a WebSocket feed broadcasting each routing decision to observers.
//
// The Service is an http.Handler and can be mounted on any HTTP server.
package mapper
