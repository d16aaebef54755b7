package state

import (
	"time"

	contractx "github.com/SidharthaIITKGP/agentic-chatbot-support/agent/contract"
)

// TranscriptCap bounds the per-session transcript; oldest entries are evicted
// first.
const TranscriptCap = 20

// Exchange is one {user, assistant} transcript pair.
type Exchange struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

// SessionMemory is the durable per-session record persisted across turns.
// Created with empty defaults on first reference; mutated at the end of every
// turn that reaches composition or clarification; never explicitly destroyed.
type SessionMemory struct {
	SessionID string `json:"session_id"`

	LastOrderID   string           `json:"last_order_id,omitempty"`
	LastProductID string           `json:"last_product_id,omitempty"`
	LastIntent    contractx.Intent `json:"last_intent,omitempty"`

	Transcript []Exchange `json:"transcript,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// NewSessionMemory returns a memory record with empty defaults.
func NewSessionMemory(sessionID string, now time.Time) *SessionMemory {
	return &SessionMemory{
		SessionID: sessionID,
		UpdatedAt: now.UTC(),
	}
}

// SeedSlots returns the slots a new turn starts from: the most recent known
// identifiers for this session.
func (m *SessionMemory) SeedSlots() map[string]string {
	if m == nil {
		return nil
	}
	seed := make(map[string]string, 2)
	if m.LastOrderID != "" {
		seed[contractx.SlotOrderID] = m.LastOrderID
	}
	if m.LastProductID != "" {
		seed[contractx.SlotProductID] = m.LastProductID
	}
	return seed
}

// Reconcile folds a completed turn back into session memory: last-known
// identifiers and intent are overwritten by the most recent turn that
// produced a value, and the transcript grows by one pair then truncates to
// the newest TranscriptCap entries.
func (m *SessionMemory) Reconcile(turn *TurnState, now time.Time) {
	if m == nil || turn == nil {
		return
	}
	if v := turn.Slot(contractx.SlotOrderID); v != "" {
		m.LastOrderID = v
	}
	if v := turn.Slot(contractx.SlotProductID); v != "" {
		m.LastProductID = v
	}
	if turn.Intent != "" {
		m.LastIntent = turn.Intent
	}

	m.Transcript = append(m.Transcript, Exchange{
		User:      turn.Query,
		Assistant: turn.FinalAnswer(),
	})
	if len(m.Transcript) > TranscriptCap {
		m.Transcript = m.Transcript[len(m.Transcript)-TranscriptCap:]
	}
	m.UpdatedAt = now.UTC()
}
