package postgres

import (
	"context"
	"errors"

	"myHairMatch/business/user"
	"myHairMatch/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepository struct {
	DB *gorm.DB
}

var _ user.ProfileRepository = (*ProfileRepository)(nil)

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

func (r *ProfileRepository) GetProfile(ctx context.Context, userID uint) (domain.HairProfile, bool, error) {
	var row domain.UserProfile
	err := r.DB.WithContext(ctx).First(&row, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.HairProfile{}, false, nil
	}
	if err != nil {
		return domain.HairProfile{}, false, err
	}
	return row.Profile, true, nil
}

func (r *ProfileRepository) UpsertProfile(ctx context.Context, userID uint, profile domain.HairProfile) error {
	row := domain.UserProfile{
		UserID:  userID,
		Profile: profile,
	}
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"profile", "updated_at"}),
		}).
		Create(&row).Error
}
