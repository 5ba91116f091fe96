package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/denizgokce/inkpad-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserStore is the slice of the user table the provisioner needs.
type UserStore interface {
	// FindByID returns (nil, nil) when no row exists.
	FindByID(ctx context.Context, id string) (*models.User, error)
	// CreateIgnoreConflict inserts the user, treating a unique-id
	// collision as success.
	CreateIgnoreConflict(ctx context.Context, user *models.User) error
}

type GormUserStore struct {
	db *gorm.DB
}

func NewGormUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{db: db}
}

func (s *GormUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *GormUserStore) CreateIgnoreConflict(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(user).Error
}

// Provisioner lazily mirrors authenticated identities into the local
// user store. EnsureExists is idempotent and safe under concurrent
// first-time requests for the same identity: two racing inserts resolve
// to exactly one row with no error surfaced to either caller.
type Provisioner struct {
	store UserStore
}

func NewProvisioner(store UserStore) *Provisioner {
	return &Provisioner{store: store}
}

// EnsureExists creates the local row for the identity if absent.
// Existing rows are never modified; profile changes after first login
// stay in the authority.
func (p *Provisioner) EnsureExists(ctx context.Context, identity *Identity) error {
	existing, err := p.store.FindByID(ctx, identity.ID)
	if err != nil {
		return fmt.Errorf("user lookup failed: %w", err)
	}
	if existing != nil {
		return nil
	}

	user := models.User{
		ID:            identity.ID,
		Email:         identity.Email,
		Name:          identity.DisplayName(),
		EmailVerified: identity.EmailVerified,
	}
	if err := p.store.CreateIgnoreConflict(ctx, &user); err != nil {
		return fmt.Errorf("user creation failed: %w", err)
	}
	return nil
}
