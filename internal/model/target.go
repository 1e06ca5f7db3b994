// Package model defines the core data types shared across the engine:
// targets, contact profiles, source tiers, and run reports.
package model

import "time"

// FieldKind identifies a contact field the engine can resolve.
type FieldKind string

const (
	FieldEmail FieldKind = "email"
	FieldPhone FieldKind = "phone"
)

// SourceTier is a priority-ordered category of information source.
// Lower position in the configured tier order means higher priority.
type SourceTier string

const (
	TierOfficialWebsite SourceTier = "official_website"
	TierLinkedIn        SourceTier = "linkedin"
	TierFacebook        SourceTier = "facebook"
	TierTwitter         SourceTier = "twitter"
	TierInstagram       SourceTier = "instagram"
)

// DefaultTierOrder mirrors the default search cascade: the official
// website first, then social platforms in descending expected yield.
func DefaultTierOrder() []SourceTier {
	return []SourceTier{
		TierOfficialWebsite,
		TierLinkedIn,
		TierFacebook,
		TierTwitter,
		TierInstagram,
	}
}

// InputMode describes what data was available for a target at load time.
type InputMode string

const (
	InputModeNameOnly InputMode = "name_only" // Name only
	InputModeLocated  InputMode = "located"   // Name + Org/City
	InputModeSeeded   InputMode = "seeded"    // Name + known website URL
)

// Target is one identity to resolve. Immutable once loaded for a run.
type Target struct {
	Name      string    `json:"name"`
	Org       string    `json:"org,omitempty"`
	URL       string    `json:"url,omitempty"`
	InputMode InputMode `json:"input_mode,omitempty"`
}

// TermReason records why a target's resolution terminated.
type TermReason string

const (
	TermGoalMet         TermReason = "goal_met"
	TermTiersExhausted  TermReason = "tiers_exhausted"
	TermBudgetExhausted TermReason = "budget_exhausted"
)

// Provenance records where an accepted field value came from.
type Provenance struct {
	Field     FieldKind  `json:"field"`
	Tier      SourceTier `json:"tier"`
	SourceURL string     `json:"source_url,omitempty"`
	Value     string     `json:"value"`
}

// ContactProfile is the accumulating result record for one target.
// It is owned exclusively by that target's resolution lifecycle; the
// first accepted value per field wins, ordered by tier priority.
type ContactProfile struct {
	Target     Target       `json:"target"`
	Email      string       `json:"email,omitempty"`
	Phone      string       `json:"phone,omitempty"`
	Provenance []Provenance `json:"provenance,omitempty"`
	Reason     TermReason   `json:"reason"`
	GoalMet    bool         `json:"goal_met"`
}

// Has reports whether the profile already holds a value for the field.
func (p *ContactProfile) Has(f FieldKind) bool {
	switch f {
	case FieldEmail:
		return p.Email != ""
	case FieldPhone:
		return p.Phone != ""
	default:
		return false
	}
}

// Accept sets a field value if the field is still unset, recording
// provenance. Returns true if the value was accepted.
func (p *ContactProfile) Accept(f FieldKind, value string, tier SourceTier, sourceURL string) bool {
	if p.Has(f) {
		return false
	}
	switch f {
	case FieldEmail:
		p.Email = value
	case FieldPhone:
		p.Phone = value
	default:
		return false
	}
	p.Provenance = append(p.Provenance, Provenance{
		Field:     f,
		Tier:      tier,
		SourceURL: sourceURL,
		Value:     value,
	})
	return true
}

// SourceFor returns the tier that contributed the field, if any.
func (p *ContactProfile) SourceFor(f FieldKind) (SourceTier, bool) {
	for _, pr := range p.Provenance {
		if pr.Field == f {
			return pr.Tier, true
		}
	}
	return "", false
}

// OutreachRecord is an opaque log entry for one outreach email send,
// reported back by the mail collaborator.
type OutreachRecord struct {
	Timestamp time.Time  `json:"timestamp"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Source    SourceTier `json:"source"`
}
