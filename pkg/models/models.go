package models

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"math"
	"time"
)

// ClauseTag labels a clause with its risk category. The set is closed:
// tagger output outside it is coerced to TagOther downstream.
type ClauseTag string

const (
	TagPrivacyData       ClauseTag = "privacy_data"
	TagAutoRenewal       ClauseTag = "auto_renewal"
	TagArbitration       ClauseTag = "arbitration"
	TagUnilateralChanges ClauseTag = "unilateral_changes"
	TagTermination       ClauseTag = "termination"
	TagLiability         ClauseTag = "liability"
	TagPayment           ClauseTag = "payment"
	TagJurisdiction      ClauseTag = "jurisdiction"
	TagOther             ClauseTag = "other"
)

// ValidTag reports whether t is a member of the closed tag set.
func ValidTag(t ClauseTag) bool {
	switch t {
	case TagPrivacyData, TagAutoRenewal, TagArbitration, TagUnilateralChanges,
		TagTermination, TagLiability, TagPayment, TagJurisdiction, TagOther:
		return true
	}
	return false
}

// Clause is a discrete contractual provision extracted from a document.
// RiskScore is zero until the scorer has processed the clause.
type Clause struct {
	Title     string    `json:"title"`
	Tag       ClauseTag `json:"tag"`
	Severity  int       `json:"severity"`
	Snippet   string    `json:"snippet"`
	RiskScore int       `json:"riskScore,omitempty"`
}

// Comparison ranks scored clauses against a risk profile.
// Top holds at most ten clauses, riskScore descending; Counts covers
// every scored clause, not just Top.
type Comparison struct {
	Top    []Clause          `json:"top"`
	Counts map[ClauseTag]int `json:"counts"`
}

// RiskProfile holds per-category tolerance, 0-100, higher = more tolerant.
type RiskProfile struct {
	Privacy      int `json:"privacy"`
	AutoRenewals int `json:"autoRenewals"`
	Arbitration  int `json:"arbitration"`
}

// DefaultProfile returns the tolerances applied when a user has never
// saved preferences.
func DefaultProfile() RiskProfile {
	return RiskProfile{Privacy: 70, AutoRenewals: 30, Arbitration: 20}
}

// rawProfile accepts loosely typed preference input. Non-numeric values
// decode to nil and fall back to the defaults.
type rawProfile struct {
	Privacy      *float64 `json:"privacy"`
	AutoRenewals *float64 `json:"autoRenewals"`
	Arbitration  *float64 `json:"arbitration"`
}

// SanitizeProfile parses a raw preferences payload into a valid profile:
// missing or malformed fields take the default, everything is rounded and
// clamped to [0,100]. The input may be a partial object.
func SanitizeProfile(data []byte) RiskProfile {
	d := DefaultProfile()
	var raw rawProfile
	// Malformed fields (e.g. strings) fail the whole decode; retry
	// field-by-field so one bad value does not discard the rest.
	if err := json.Unmarshal(data, &raw); err != nil {
		var loose map[string]json.RawMessage
		if json.Unmarshal(data, &loose) == nil {
			raw.Privacy = looseNumber(loose["privacy"])
			raw.AutoRenewals = looseNumber(loose["autoRenewals"])
			raw.Arbitration = looseNumber(loose["arbitration"])
		}
	}
	return RiskProfile{
		Privacy:      clampInt(raw.Privacy, d.Privacy),
		AutoRenewals: clampInt(raw.AutoRenewals, d.AutoRenewals),
		Arbitration:  clampInt(raw.Arbitration, d.Arbitration),
	}
}

func looseNumber(raw json.RawMessage) *float64 {
	if raw == nil {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil
	}
	return &f
}

func clampInt(v *float64, def int) int {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return def
	}
	n := int(math.Round(*v))
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

// Snapshot is the last-analyzed state of a document at a URL, one per
// (identity, URL) pair, overwritten wholesale on each analysis.
type Snapshot struct {
	URL     string   `json:"url"`
	TS      int64    `json:"ts"`
	Hash    string   `json:"hash"`
	Text    string   `json:"text"`
	Clauses []Clause `json:"clauses"`
	Summary string   `json:"summary,omitempty"`
}

// Diff reports how a document changed since its stored snapshot.
type Diff struct {
	Changed      bool   `json:"changed"`
	PrevHash     string `json:"prevHash,omitempty"`
	CurrHash     string `json:"currHash"`
	AddedClauses int    `json:"addedClauses"`
}

// Analysis is an archived record of one completed analyze call.
type Analysis struct {
	ID       string    `json:"id"`
	Identity string    `json:"identity"`
	URL      string    `json:"url,omitempty"`
	Hash     string    `json:"hash"`
	Tags     []string  `json:"tags,omitempty"`
	Titles   []string  `json:"titles,omitempty"`
	Summary  string    `json:"summary,omitempty"`
	Analyzed time.Time `json:"analyzed_at"`
}

// GenerateAnalysisID creates a deterministic ID from identity and source.
// The ID is a SHA-256 hash (first 16 chars).
func GenerateAnalysisID(identity, source string) string {
	hash := sha256.Sum256([]byte(identity + "\x00" + source))
	return hex.EncodeToString(hash[:])[:16]
}
