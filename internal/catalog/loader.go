package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/osse101/CampusQuest_Go/internal/domain"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

// Catalog holds the static game data: guilds, achievements and shop items
type Catalog struct {
	Version      string               `yaml:"version"`
	Guilds       []domain.Guild       `yaml:"guilds"`
	Achievements []domain.Achievement `yaml:"achievements"`
	Shop         []domain.ShopItem    `yaml:"shop"`

	guildsByCode map[string]domain.Guild
	shopByID     map[string]domain.ShopItem
}

// Load reads the catalog at path, or the embedded default when path is empty
func Load(path string) (*Catalog, error) {
	data := defaultCatalog
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog file: %w", err)
		}
	}
	return Parse(data)
}

// Default returns the embedded catalog. It panics if the embedded file is invalid.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// Parse decodes and validates catalog YAML
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}
	if err := c.index(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) index() error {
	c.guildsByCode = make(map[string]domain.Guild, len(c.Guilds))
	for _, g := range c.Guilds {
		if g.Code == "" {
			return fmt.Errorf("guild %q has no code", g.Name)
		}
		if _, dup := c.guildsByCode[g.Code]; dup {
			return fmt.Errorf("duplicate guild code %q", g.Code)
		}
		c.guildsByCode[g.Code] = g
	}

	seen := make(map[string]struct{}, len(c.Achievements))
	for _, a := range c.Achievements {
		if _, dup := seen[a.Key]; dup {
			return fmt.Errorf("duplicate achievement key %q", a.Key)
		}
		seen[a.Key] = struct{}{}
		if !knownCriterion(a.Criterion) {
			return fmt.Errorf("achievement %q: unknown criterion %q", a.Key, a.Criterion)
		}
		if a.BonusXP < 0 {
			return fmt.Errorf("achievement %q: negative bonus", a.Key)
		}
	}

	c.shopByID = make(map[string]domain.ShopItem, len(c.Shop))
	for _, item := range c.Shop {
		if item.Price <= 0 {
			return fmt.Errorf("shop item %q: price must be positive", item.ID)
		}
		if _, dup := c.shopByID[item.ID]; dup {
			return fmt.Errorf("duplicate shop item %q", item.ID)
		}
		c.shopByID[item.ID] = item
	}
	return nil
}

func knownCriterion(k domain.CriterionKind) bool {
	switch k {
	case domain.CriterionQuestsCompleted, domain.CriterionStreak, domain.CriterionGold,
		domain.CriterionLevel, domain.CriterionCompletedBeforeHour:
		return true
	}
	return false
}

// Guild looks up a guild by code
func (c *Catalog) Guild(code string) (domain.Guild, bool) {
	g, ok := c.guildsByCode[code]
	return g, ok
}

// GuildName returns the display name for a guild code, or the code itself
func (c *Catalog) GuildName(code string) string {
	if g, ok := c.guildsByCode[code]; ok {
		return g.Name
	}
	return code
}

// ShopItem looks up a shop item by id
func (c *Catalog) ShopItem(id string) (domain.ShopItem, bool) {
	item, ok := c.shopByID[id]
	return item, ok
}

// ShopItems returns the shop ordered by category then price
func (c *Catalog) ShopItems() []domain.ShopItem {
	items := make([]domain.ShopItem, len(c.Shop))
	copy(items, c.Shop)
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Category != items[j].Category {
			return items[i].Category < items[j].Category
		}
		return items[i].Price < items[j].Price
	})
	return items
}
