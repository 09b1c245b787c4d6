package seed

import (
	"context"
	"fmt"
	"log/slog"

	"toolnest/internal/middleware"
	"toolnest/internal/models"
	"toolnest/internal/repository"

	"gorm.io/gorm"
)

// Options configures a seeding run.
type Options struct {
	NumUsers           int
	CategoriesPerUser  int
	ToolsPerUser       int
	FavoritesPerUser   int
	MaxDays            int
	RandSeed           int64
	SkipBcrypt         bool
	UncategorizedRatio float64
}

// DefaultOptions is a small but varied data set.
func DefaultOptions() Options {
	return Options{
		NumUsers:           10,
		CategoriesPerUser:  4,
		ToolsPerUser:       15,
		FavoritesPerUser:   8,
		MaxDays:            90,
		UncategorizedRatio: 0.2,
	}
}

// Summary counts what a Seed run created.
type Summary struct {
	Users      int
	Categories int
	Tools      int
	Favorites  int
}

// Seeder populates a database through the Factory and the tool repository.
type Seeder struct {
	db       *gorm.DB
	factory  *Factory
	toolRepo repository.ToolRepository
	opts     Options
}

func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{
		db:       db,
		factory:  NewFactory(db, opts),
		toolRepo: repository.NewToolRepository(db),
		opts:     opts,
	}
}

// Seed creates users, their categories and tools, then random favorites.
// Favorites go through the repository toggle so counters stay consistent.
func (s *Seeder) Seed(ctx context.Context) (*Summary, error) {
	summary := &Summary{}
	faker := s.factory.faker

	users := make([]*models.User, 0, s.opts.NumUsers)
	for i := 0; i < s.opts.NumUsers; i++ {
		user, err := s.factory.CreateUser(ctx)
		if err != nil {
			return summary, err
		}
		users = append(users, user)
	}
	summary.Users = len(users)
	middleware.Logger.Info("seeded users", slog.Int("count", summary.Users))

	var tools []*models.Tool
	for _, user := range users {
		categories := make([]*models.Category, 0, s.opts.CategoriesPerUser)
		for i := 0; i < s.opts.CategoriesPerUser; i++ {
			category, err := s.factory.CreateCategory(ctx, user)
			if err != nil {
				return summary, err
			}
			categories = append(categories, category)
		}
		summary.Categories += len(categories)

		for i := 0; i < s.opts.ToolsPerUser; i++ {
			var category *models.Category
			if len(categories) > 0 && faker.Float64Range(0, 1) >= s.opts.UncategorizedRatio {
				category = categories[faker.Number(0, len(categories)-1)]
			}
			tool, err := s.factory.CreateTool(ctx, user, category)
			if err != nil {
				return summary, err
			}
			tools = append(tools, tool)
		}
	}
	summary.Tools = len(tools)
	middleware.Logger.Info("seeded categories and tools",
		slog.Int("categories", summary.Categories),
		slog.Int("tools", summary.Tools))

	if len(tools) == 0 {
		return summary, nil
	}
	for _, user := range users {
		picks := max(0, min(s.opts.FavoritesPerUser, len(tools)))
		for _, idx := range faker.Rand.Perm(len(tools))[:picks] {
			result, err := s.toolRepo.ToggleFavorite(ctx, tools[idx].ID, user.ID)
			if err != nil {
				return summary, fmt.Errorf("seed favorite: %w", err)
			}
			if result.Status.IsFavorited {
				summary.Favorites++
			}
		}
	}
	middleware.Logger.Info("seeded favorites", slog.Int("count", summary.Favorites))

	return summary, nil
}

// ClearAll empties every table, children first.
func (s *Seeder) ClearAll(ctx context.Context) error {
	db := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, model := range []any{&models.ToolFavorite{}, &models.Tool{}, &models.Category{}, &models.User{}} {
		if err := db.Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	return nil
}
