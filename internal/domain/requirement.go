package domain

import (
	"encoding/json"
	"fmt"
	"math"
)

// RequirementType tags a Requirement variant
type RequirementType string

const (
	RequirementGPS            RequirementType = "gps"
	RequirementQRCode         RequirementType = "qr_code"
	RequirementEvidenceUpload RequirementType = "evidence_upload"
	RequirementManual         RequirementType = "manual"
)

// Requirement is the proof mechanism a quest demands.
// The set of variants is closed: GPSRequirement, QRCodeRequirement,
// EvidenceRequirement and ManualRequirement.
type Requirement interface {
	Type() RequirementType
	sealed()
}

// GPSRequirement is satisfied by a position within RadiusMeters of the target
type GPSRequirement struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters float64 `json:"radiusMeters"`
}

// QRCodeRequirement is satisfied by the shared code, compared case-insensitively
type QRCodeRequirement struct {
	Code string `json:"code"`
}

// EvidenceRequirement is satisfied by any non-empty uploaded proof reference
type EvidenceRequirement struct {
	Description string `json:"description"`
}

// ManualRequirement is only ever satisfied by a reviewer decision
type ManualRequirement struct {
	Instructions string `json:"instructions"`
}

func (GPSRequirement) Type() RequirementType      { return RequirementGPS }
func (QRCodeRequirement) Type() RequirementType   { return RequirementQRCode }
func (EvidenceRequirement) Type() RequirementType { return RequirementEvidenceUpload }
func (ManualRequirement) Type() RequirementType   { return RequirementManual }

func (GPSRequirement) sealed()      {}
func (QRCodeRequirement) sealed()   {}
func (EvidenceRequirement) sealed() {}
func (ManualRequirement) sealed()   {}

type requirementEnvelope struct {
	Type RequirementType `json:"type"`
	GPSRequirement
	QRCodeRequirement
	EvidenceRequirement
	ManualRequirement
}

// MarshalRequirement encodes a requirement as {"type": ..., <variant fields>}
func MarshalRequirement(r Requirement) ([]byte, error) {
	switch v := r.(type) {
	case nil:
		return []byte("null"), nil
	case GPSRequirement:
		return json.Marshal(struct {
			Type RequirementType `json:"type"`
			GPSRequirement
		}{v.Type(), v})
	case QRCodeRequirement:
		return json.Marshal(struct {
			Type RequirementType `json:"type"`
			QRCodeRequirement
		}{v.Type(), v})
	case EvidenceRequirement:
		return json.Marshal(struct {
			Type RequirementType `json:"type"`
			EvidenceRequirement
		}{v.Type(), v})
	case ManualRequirement:
		return json.Marshal(struct {
			Type RequirementType `json:"type"`
			ManualRequirement
		}{v.Type(), v})
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownRequirement, r)
	}
}

// UnmarshalRequirement decodes a tagged requirement object
func UnmarshalRequirement(data []byte) (Requirement, error) {
	var env requirementEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode requirement: %w", err)
	}
	switch env.Type {
	case RequirementGPS:
		return env.GPSRequirement, nil
	case RequirementQRCode:
		return env.QRCodeRequirement, nil
	case RequirementEvidenceUpload:
		return env.EvidenceRequirement, nil
	case RequirementManual:
		return env.ManualRequirement, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRequirement, env.Type)
	}
}

// ValidateRequirement checks the variant's own fields
func ValidateRequirement(r Requirement) error {
	switch v := r.(type) {
	case GPSRequirement:
		// Written as positive ranges so NaN fails
		if !(v.Latitude >= -90 && v.Latitude <= 90) || !(v.Longitude >= -180 && v.Longitude <= 180) {
			return fmt.Errorf("%w: coordinates out of range", ErrInvalidInput)
		}
		if !(v.RadiusMeters > 0) || math.IsInf(v.RadiusMeters, 1) {
			return fmt.Errorf("%w: radius must be positive", ErrInvalidInput)
		}
	case QRCodeRequirement:
		if v.Code == "" {
			return fmt.Errorf("%w: code is required", ErrInvalidInput)
		}
	case EvidenceRequirement, ManualRequirement:
	case nil:
		return fmt.Errorf("%w: requirement is required", ErrInvalidInput)
	default:
		return fmt.Errorf("%w: %T", ErrUnknownRequirement, r)
	}
	return nil
}

// SubmittedProof is what a participant sends to complete a quest.
// Only the fields relevant to the quest's requirement are read.
type SubmittedProof struct {
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	Code           string   `json:"code,omitempty"`
	ProofReference string   `json:"proof_reference,omitempty"`
}

// VerificationReason explains a verification outcome
type VerificationReason string

const (
	ReasonSatisfied         VerificationReason = "satisfied"
	ReasonInsufficientInput VerificationReason = "insufficient_input"
	ReasonOutOfRange        VerificationReason = "out_of_range"
	ReasonCodeMismatch      VerificationReason = "code_mismatch"
	ReasonMissingEvidence   VerificationReason = "missing_evidence"
	ReasonRequiresReview    VerificationReason = "requires_review"
)

// VerificationDetail carries what the caller needs to explain the outcome
type VerificationDetail struct {
	Reason         VerificationReason `json:"reason"`
	DistanceMeters *float64           `json:"distance_meters,omitempty"`
	RadiusMeters   *float64           `json:"radius_meters,omitempty"`
}

// VerificationOutcome is the evaluator's decision for one submission
type VerificationOutcome struct {
	Satisfied bool               `json:"satisfied"`
	Detail    VerificationDetail `json:"detail"`
}
