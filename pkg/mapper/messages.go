// SPDX-FileCopyrightText: 2026 The quiclb-go Authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package mapper

// VerifyResponse is the answer to a CID lookup and also the event broadcast
// to WebSocket observers. ServerId is absent when the CID cannot have been
// generated by the installed codec.
type VerifyResponse struct {
	Cid      string  `json:"cid"`
	ServerId *uint64 `json:"server_id,omitempty"`
	Error    string  `json:"error,omitempty"`
}

// ConfigResponse summarises the installed codec. Key material is never
// exposed here.
type ConfigResponse struct {
	Method    string `json:"method,omitempty"`
	CidLength int    `json:"cid_length"`
}
