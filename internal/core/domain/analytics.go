package domain

import "time"

// Well-known analytics event types. EventType is free-form; these are the
// values the conversion funnel queries depend on.
const (
	AnalyticsEventVisit      = "visit"
	AnalyticsEventConversion = "conversion"
	AnalyticsEventLogin      = "login"
)

// AnalyticsEvent is an append-only ledger row. Events are never updated or
// deleted once written; Timestamp is the authoritative ordering key.
type AnalyticsEvent struct {
	ID           string
	AccountID    *string
	SessionID    string
	EventType    string
	PreviousRole *Role
	NewRole      *Role
	Timestamp    time.Time
	Metadata     *string
}

// ConversionReport aggregates distinct anonymous sessions against converted
// sessions inside a time window.
type ConversionReport struct {
	TotalAnonymousVisits int
	TotalConverted       int
	Rate                 float64
}
