package stats

import (
	"github.com/osse101/CampusQuest_Go/internal/repository"
)

// Repository is everything stats reads
type Repository interface {
	repository.Participant
	repository.Stats
}
