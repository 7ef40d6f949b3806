package models

import (
	"time"
)

type SkipReason string

const (
	SkipChannelDisconnected SkipReason = "channel_disconnected"
	SkipClientWithoutPhone  SkipReason = "client_without_phone"
	SkipSettingsMissing     SkipReason = "settings_missing"
)

// CycleReport aggregates the outcome of one scheduler run. Per-record
// failures end up in Errors; they never abort the cycle.
type CycleReport struct {
	StartedAt          time.Time          `json:"started_at"`
	FinishedAt         time.Time          `json:"finished_at"`
	CompaniesProcessed int                `json:"companies_processed"`
	CompaniesSkipped   int                `json:"companies_skipped"`
	Created            int                `json:"created"`
	Sent               int                `json:"sent"`
	Failed             int                `json:"failed"`
	Cancelled          int                `json:"cancelled"`
	Skipped            map[SkipReason]int `json:"skipped,omitempty"`
	Errors             []string           `json:"errors,omitempty"`
}

func NewCycleReport(now time.Time) CycleReport {
	return CycleReport{StartedAt: now, Skipped: make(map[SkipReason]int)}
}

func (r *CycleReport) Skip(reason SkipReason) {
	r.Skipped[reason]++
}

func (r *CycleReport) RecordError(err error) {
	r.Errors = append(r.Errors, err.Error())
}
