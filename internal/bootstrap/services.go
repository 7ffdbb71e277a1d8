package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/CampusQuest_Go/internal/achievement"
	"github.com/osse101/CampusQuest_Go/internal/cache"
	"github.com/osse101/CampusQuest_Go/internal/catalog"
	"github.com/osse101/CampusQuest_Go/internal/concurrency"
	"github.com/osse101/CampusQuest_Go/internal/config"
	"github.com/osse101/CampusQuest_Go/internal/economy"
	"github.com/osse101/CampusQuest_Go/internal/event"
	"github.com/osse101/CampusQuest_Go/internal/evidence"
	"github.com/osse101/CampusQuest_Go/internal/leaderboard"
	"github.com/osse101/CampusQuest_Go/internal/notification"
	"github.com/osse101/CampusQuest_Go/internal/quest"
	"github.com/osse101/CampusQuest_Go/internal/repository"
	"github.com/osse101/CampusQuest_Go/internal/server"
	"github.com/osse101/CampusQuest_Go/internal/stats"
	"github.com/osse101/CampusQuest_Go/internal/user"
)

// LoadCatalog reads CATALOG_PATH, or the embedded catalog when it is unset
func LoadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadCatalog, err)
	}
	slog.Info(LogMsgCatalogLoaded,
		"version", cat.Version,
		"guilds", len(cat.Guilds),
		"achievements", len(cat.Achievements),
		"shop_items", len(cat.Shop))
	return cat, nil
}

// InitializeEvidence builds the presigned-URL service. It is disabled unless
// S3_BUCKET is set.
func InitializeEvidence(ctx context.Context, cfg *config.Config) (evidence.Service, error) {
	if cfg.S3Bucket == "" {
		slog.Info(LogMsgEvidenceDisabled)
		return evidence.NewService(nil, "", cfg.EvidenceURLTTL), nil
	}

	presigner, err := evidence.NewS3Presigner(ctx, evidence.S3Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedS3Client, err)
	}
	slog.Info(LogMsgEvidenceEnabled, "bucket", cfg.S3Bucket, "endpoint", cfg.S3Endpoint)

	return evidence.NewService(presigner, cfg.S3Bucket, cfg.EvidenceURLTTL), nil
}

// ServiceDependencies are the shared components every service is built from
type ServiceDependencies struct {
	Store     repository.Store
	Cache     cache.Cache
	Catalog   *catalog.Catalog
	Publisher event.Publisher
	Evidence  evidence.Service
	Config    *config.Config
}

// InitializeServices wires the domain services in dependency order. The
// leaderboard comes first because quest, achievement and stats use it to
// drop stale cache entries and to rank guilds.
func InitializeServices(deps ServiceDependencies) (server.Services, error) {
	loc, err := deps.Config.CampusLocation()
	if err != nil {
		return server.Services{}, err
	}

	rules := achievement.NewRuleSet(deps.Catalog.Achievements, loc)
	locks := concurrency.NewLockManager()

	leaderboardService := leaderboard.NewService(deps.Store, deps.Cache, deps.Catalog, deps.Publisher)

	return server.Services{
		User:         user.NewService(deps.Store, deps.Catalog),
		Quest:        quest.NewService(deps.Store, deps.Catalog, rules, locks, leaderboardService, deps.Publisher),
		Evidence:     deps.Evidence,
		Stats:        stats.NewService(deps.Store, deps.Cache, leaderboardService),
		Leaderboard:  leaderboardService,
		Achievement:  achievement.NewService(deps.Store, rules, locks, leaderboardService, deps.Publisher),
		Economy:      economy.NewService(deps.Store, deps.Catalog, deps.Publisher),
		Notification: notification.NewService(deps.Store),
		Guilds:       deps.Catalog,
	}, nil
}
