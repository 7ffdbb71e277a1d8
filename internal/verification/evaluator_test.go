package verification

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/CampusQuest_Go/internal/domain"
)

func f(v float64) *float64 { return &v }

func TestHaversineMeters(t *testing.T) {
	// One degree of latitude on the mean sphere
	oneDegree := HaversineMeters(0, 0, 1, 0)
	assert.InDelta(t, 111194.93, oneDegree, 0.01)

	assert.Equal(t, 0.0, HaversineMeters(14.6507, 121.0687, 14.6507, 121.0687))
	assert.InDelta(t, math.Pi*EarthRadiusMeters, HaversineMeters(0, 0, 0, 180), 0.001)
	assert.InDelta(t, HaversineMeters(10, 20, 11, 21), HaversineMeters(11, 21, 10, 20), 1e-9)
}

func TestEvaluate_GPSBoundaryIsInclusive(t *testing.T) {
	// ARRANGE
	target := domain.GPSRequirement{Latitude: 14.6507, Longitude: 121.0687}
	proof := domain.SubmittedProof{Latitude: f(14.6515), Longitude: f(121.0690)}
	distance := HaversineMeters(*proof.Latitude, *proof.Longitude, target.Latitude, target.Longitude)

	// ACT
	target.RadiusMeters = distance
	atBoundary := Evaluate(target, proof)

	target.RadiusMeters = math.Nextafter(distance, 0)
	justOutside := Evaluate(target, proof)

	// ASSERT
	assert.True(t, atBoundary.Satisfied)
	assert.Equal(t, domain.ReasonSatisfied, atBoundary.Detail.Reason)
	require.NotNil(t, atBoundary.Detail.DistanceMeters)
	assert.Equal(t, distance, *atBoundary.Detail.DistanceMeters)

	assert.False(t, justOutside.Satisfied)
	assert.Equal(t, domain.ReasonOutOfRange, justOutside.Detail.Reason)
	require.NotNil(t, justOutside.Detail.DistanceMeters)
}

func TestEvaluate_GPSInsufficientInput(t *testing.T) {
	req := domain.GPSRequirement{Latitude: 1, Longitude: 1, RadiusMeters: 100}

	tests := []struct {
		name  string
		proof domain.SubmittedProof
	}{
		{"no coordinates", domain.SubmittedProof{}},
		{"latitude only", domain.SubmittedProof{Latitude: f(1)}},
		{"longitude only", domain.SubmittedProof{Longitude: f(1)}},
		{"nan", domain.SubmittedProof{Latitude: f(math.NaN()), Longitude: f(1)}},
		{"code instead of position", domain.SubmittedProof{Code: "HERE"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Evaluate(req, tt.proof)
			assert.False(t, out.Satisfied)
			assert.Equal(t, domain.ReasonInsufficientInput, out.Detail.Reason)
			assert.Nil(t, out.Detail.DistanceMeters)
		})
	}
}

func TestEvaluate_QRCode(t *testing.T) {
	req := domain.QRCodeRequirement{Code: "ABC123"}

	tests := []struct {
		code      string
		satisfied bool
		reason    domain.VerificationReason
	}{
		{"ABC123", true, domain.ReasonSatisfied},
		{"abc123", true, domain.ReasonSatisfied},
		{"AbC123", true, domain.ReasonSatisfied},
		{"ABC12", false, domain.ReasonCodeMismatch},
		{"ABC1234", false, domain.ReasonCodeMismatch},
		{" ABC123", false, domain.ReasonCodeMismatch},
		{"", false, domain.ReasonInsufficientInput},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			out := Evaluate(req, domain.SubmittedProof{Code: tt.code})
			assert.Equal(t, tt.satisfied, out.Satisfied)
			assert.Equal(t, tt.reason, out.Detail.Reason)
		})
	}
}

func TestEvaluate_Evidence(t *testing.T) {
	req := domain.EvidenceRequirement{Description: "Photo at the booth"}

	assert.True(t, Evaluate(req, domain.SubmittedProof{ProofReference: "s3://bucket/evidence/p/q/1.jpg"}).Satisfied)

	out := Evaluate(req, domain.SubmittedProof{ProofReference: "   "})
	assert.False(t, out.Satisfied)
	assert.Equal(t, domain.ReasonMissingEvidence, out.Detail.Reason)
}

func TestEvaluate_ManualNeverAutoSatisfied(t *testing.T) {
	req := domain.ManualRequirement{Instructions: "Show your certificate to the organizer"}

	out := Evaluate(req, domain.SubmittedProof{ProofReference: "certificate.pdf", Code: "x"})

	assert.False(t, out.Satisfied)
	assert.Equal(t, domain.ReasonRequiresReview, out.Detail.Reason)
	assert.True(t, RequiresReview(req))
	assert.False(t, RequiresReview(domain.QRCodeRequirement{}))
}

func TestEvaluate_NilRequirement(t *testing.T) {
	out := Evaluate(nil, domain.SubmittedProof{Code: "x"})
	assert.False(t, out.Satisfied)
}

func BenchmarkEvaluateGPS(b *testing.B) {
	req := domain.GPSRequirement{Latitude: 14.6507, Longitude: 121.0687, RadiusMeters: 100}
	proof := domain.SubmittedProof{Latitude: f(14.6515), Longitude: f(121.0690)}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = Evaluate(req, proof)
	}
}
