package verification

import (
	"math"
	"strings"

	"github.com/osse101/CampusQuest_Go/internal/domain"
)

// Evaluate decides whether proof satisfies req. It performs no I/O and never
// panics on incomplete proofs; missing fields yield an insufficient-input outcome.
func Evaluate(req domain.Requirement, proof domain.SubmittedProof) domain.VerificationOutcome {
	switch r := req.(type) {
	case domain.GPSRequirement:
		return evaluateGPS(r, proof)
	case domain.QRCodeRequirement:
		return evaluateQRCode(r, proof)
	case domain.EvidenceRequirement:
		return evaluateEvidence(proof)
	case domain.ManualRequirement:
		return unsatisfied(domain.ReasonRequiresReview)
	default:
		return unsatisfied(domain.ReasonInsufficientInput)
	}
}

// RequiresReview reports whether req can only be satisfied by a reviewer
func RequiresReview(req domain.Requirement) bool {
	_, ok := req.(domain.ManualRequirement)
	return ok
}

func evaluateGPS(r domain.GPSRequirement, proof domain.SubmittedProof) domain.VerificationOutcome {
	if proof.Latitude == nil || proof.Longitude == nil {
		return unsatisfied(domain.ReasonInsufficientInput)
	}
	lat, lon := *proof.Latitude, *proof.Longitude
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return unsatisfied(domain.ReasonInsufficientInput)
	}

	distance := HaversineMeters(lat, lon, r.Latitude, r.Longitude)
	radius := r.RadiusMeters
	outcome := domain.VerificationOutcome{
		Satisfied: distance <= radius,
		Detail: domain.VerificationDetail{
			Reason:         domain.ReasonSatisfied,
			DistanceMeters: &distance,
			RadiusMeters:   &radius,
		},
	}
	if !outcome.Satisfied {
		outcome.Detail.Reason = domain.ReasonOutOfRange
	}
	return outcome
}

func evaluateQRCode(r domain.QRCodeRequirement, proof domain.SubmittedProof) domain.VerificationOutcome {
	if proof.Code == "" {
		return unsatisfied(domain.ReasonInsufficientInput)
	}
	if !strings.EqualFold(proof.Code, r.Code) {
		return unsatisfied(domain.ReasonCodeMismatch)
	}
	return satisfied()
}

func evaluateEvidence(proof domain.SubmittedProof) domain.VerificationOutcome {
	if strings.TrimSpace(proof.ProofReference) == "" {
		return unsatisfied(domain.ReasonMissingEvidence)
	}
	return satisfied()
}

func satisfied() domain.VerificationOutcome {
	return domain.VerificationOutcome{
		Satisfied: true,
		Detail:    domain.VerificationDetail{Reason: domain.ReasonSatisfied},
	}
}

func unsatisfied(reason domain.VerificationReason) domain.VerificationOutcome {
	return domain.VerificationOutcome{Detail: domain.VerificationDetail{Reason: reason}}
}
