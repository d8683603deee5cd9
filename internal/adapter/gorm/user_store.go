package gorm

import (
	"context"

	"github.com/bornholm/taskboard/internal/core/model"
	"github.com/bornholm/taskboard/internal/core/port"
	"github.com/ncruces/go-sqlite3"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserStore struct {
	getDatabase func(ctx context.Context) (*gorm.DB, error)
}

// GetUserByID implements port.UserStore.
func (s *UserStore) GetUserByID(ctx context.Context, userID model.UserID) (model.User, error) {
	db, err := s.getDatabase(ctx)
	if err != nil {
		return model.User{}, errors.WithStack(err)
	}

	var record User

	if err := db.WithContext(ctx).First(&record, "id = ?", string(userID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.User{}, errors.WithStack(port.ErrNotFound)
		}

		return model.User{}, errors.WithStack(err)
	}

	return toUser(&record), nil
}

// GetUsersByIDs implements port.UserStore.
func (s *UserStore) GetUsersByIDs(ctx context.Context, userIDs []model.UserID) (map[model.UserID]model.User, error) {
	db, err := s.getDatabase(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	ids := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		ids = append(ids, string(id))
	}

	var records []*User

	if err := db.WithContext(ctx).Find(&records, "id IN ?", ids).Error; err != nil {
		return nil, errors.WithStack(err)
	}

	users := make(map[model.UserID]model.User, len(records))
	for _, record := range records {
		user := toUser(record)
		users[user.ID] = user
	}

	return users, nil
}

// FindUserByEmail implements port.UserStore.
func (s *UserStore) FindUserByEmail(ctx context.Context, email string) (model.User, error) {
	db, err := s.getDatabase(ctx)
	if err != nil {
		return model.User{}, errors.WithStack(err)
	}

	var record User

	if err := db.WithContext(ctx).First(&record, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.User{}, errors.WithStack(port.ErrNotFound)
		}

		return model.User{}, errors.WithStack(err)
	}

	return toUser(&record), nil
}

// SaveUser implements port.UserStore.
func (s *UserStore) SaveUser(ctx context.Context, user model.User) error {
	err := s.withRetry(ctx, func(ctx context.Context, db *gorm.DB) error {
		record := fromUser(&user)

		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(record).Error
		if err != nil {
			return errors.WithStack(err)
		}

		return nil
	}, sqlite3.BUSY, sqlite3.LOCKED)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// FindUserByToken implements port.UserStore.
func (s *UserStore) FindUserByToken(ctx context.Context, token string) (model.User, error) {
	db, err := s.getDatabase(ctx)
	if err != nil {
		return model.User{}, errors.WithStack(err)
	}

	var record User

	err = db.WithContext(ctx).
		Joins("left join auth_tokens on auth_tokens.owner_id = users.id").
		Where("auth_tokens.value = ?", token).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.User{}, errors.WithStack(port.ErrNotFound)
		}

		return model.User{}, errors.WithStack(err)
	}

	return toUser(&record), nil
}

// CreateAuthToken implements port.UserStore.
func (s *UserStore) CreateAuthToken(ctx context.Context, token model.AuthToken) error {
	err := s.withRetry(ctx, func(ctx context.Context, db *gorm.DB) error {
		if err := db.Create(fromAuthToken(&token)).Error; err != nil {
			return errors.WithStack(err)
		}

		return nil
	}, sqlite3.BUSY, sqlite3.LOCKED)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func (s *UserStore) withRetry(ctx context.Context, fn func(ctx context.Context, db *gorm.DB) error, codes ...sqlite3.ErrorCode) error {
	return withRetry(ctx, s.getDatabase, fn, codes...)
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{
		getDatabase: createGetDatabase(db, &User{}, &AuthToken{}),
	}
}

var _ port.UserStore = &UserStore{}
