// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"toolnest/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password of every seeded user.
const DefaultPassword = "password123"

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db    *gorm.DB
	faker *gofakeit.Faker
	opts  Options

	// bcrypt is slow; every seeded user shares one hash.
	passwordHash string
}

// NewFactory creates a Factory bound to db. A zero opts.RandSeed seeds from the clock.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	seed := opts.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Factory{db: db, faker: gofakeit.New(seed), opts: opts}
}

func (f *Factory) hashedPassword() (string, error) {
	if f.passwordHash != "" {
		return f.passwordHash, nil
	}
	if f.opts.SkipBcrypt {
		f.passwordHash = DefaultPassword
		return f.passwordHash, nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash seed password: %w", err)
	}
	f.passwordHash = string(hashed)
	return f.passwordHash, nil
}

// CreateUser inserts a user with a unique fake email.
func (f *Factory) CreateUser(ctx context.Context, overrides ...func(*models.User)) (*models.User, error) {
	hash, err := f.hashedPassword()
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     f.faker.Name(),
		Email:    strings.ToLower(fmt.Sprintf("%s.%d@%s", f.faker.Username(), f.faker.Number(1000, 9999), f.faker.DomainName())),
		Password: hash,
	}
	for _, override := range overrides {
		override(user)
	}

	if err := f.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// CreateCategory inserts a category for owner. Names get a numeric suffix
// when the generated word is already taken by this owner.
func (f *Factory) CreateCategory(ctx context.Context, owner *models.User, overrides ...func(*models.Category)) (*models.Category, error) {
	category := &models.Category{
		Name:   f.faker.HackerNoun(),
		UserID: owner.ID,
	}
	for _, override := range overrides {
		override(category)
	}

	var taken int64
	if err := f.db.WithContext(ctx).Model(&models.Category{}).
		Where("user_id = ? AND name = ?", owner.ID, category.Name).
		Count(&taken).Error; err != nil {
		return nil, fmt.Errorf("check category name: %w", err)
	}
	if taken > 0 {
		category.Name = fmt.Sprintf("%s %d", category.Name, f.faker.Number(2, 999))
	}
	category.Name = truncate(category.Name, models.CategoryNameMaxLength)

	if err := f.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

// BuildTool constructs an unsaved tool for owner with a creation time within opts.MaxDays.
// category may be nil.
func (f *Factory) BuildTool(owner *models.User, category *models.Category, overrides ...func(*models.Tool)) *models.Tool {
	tool := &models.Tool{
		Title:       truncate(f.faker.AppName(), models.ToolTitleMaxLength),
		Description: truncate(f.faker.HackerPhrase(), models.ToolDescriptionMaxLength),
		URL:         "https://" + f.faker.DomainName() + "/" + strings.ToLower(f.faker.HackerVerb()),
		UserID:      owner.ID,
	}
	if category != nil {
		id := category.ID
		tool.CategoryID = &id
	}

	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	age := time.Duration(f.faker.Number(0, maxDays*24*60)) * time.Minute
	tool.CreatedAt = time.Now().Add(-age)
	tool.UpdatedAt = tool.CreatedAt

	for _, override := range overrides {
		override(tool)
	}
	return tool
}

// CreateTool builds and inserts a tool.
func (f *Factory) CreateTool(ctx context.Context, owner *models.User, category *models.Category, overrides ...func(*models.Tool)) (*models.Tool, error) {
	tool := f.BuildTool(owner, category, overrides...)
	if err := f.db.WithContext(ctx).Omit("Category").Create(tool).Error; err != nil {
		return nil, fmt.Errorf("create tool: %w", err)
	}
	return tool, nil
}

func truncate(s string, maxRunes int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= maxRunes {
		return string(r)
	}
	return strings.TrimSpace(string(r[:maxRunes]))
}
