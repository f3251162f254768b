package repository

import (
	"context"
	"time"

	"github.com/diancan-dev/waimai/backend/internal/domain"
)

// UpsertCourierProfile 骑手上报位置和接单状态时调用，不存在则插入
func (r *Repository) UpsertCourierProfile(profile *domain.CourierProfile) error {
	query := `
		INSERT INTO courier_profiles (user_id, latitude, longitude, is_available, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (user_id) DO UPDATE
		SET
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			is_available = EXCLUDED.is_available,
			updated_at = now(),
			version = courier_profiles.version + 1
		RETURNING updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{profile.UserID, profile.Latitude, profile.Longitude, profile.IsAvailable}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&profile.UpdatedAt, &profile.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetCourierProfile(userID int64) (*domain.CourierProfile, error) {
	query := `
		SELECT latitude, longitude, is_available, updated_at, version
		FROM courier_profiles WHERE user_id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	profile := &domain.CourierProfile{
		UserID: userID,
	}

	dst := []any{&profile.Latitude, &profile.Longitude, &profile.IsAvailable, &profile.UpdatedAt, &profile.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, userID).Scan(dst...); err != nil {
		return nil, err
	}

	return profile, nil
}

func (r *Repository) GetAvailableCouriers() ([]*domain.CourierProfile, error) {
	query := `
		SELECT user_id, latitude, longitude, is_available, updated_at, version
		FROM courier_profiles WHERE is_available = true
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make([]*domain.CourierProfile, 0)
	for rows.Next() {
		profile := &domain.CourierProfile{}
		dst := []any{&profile.UserID, &profile.Latitude, &profile.Longitude, &profile.IsAvailable, &profile.UpdatedAt, &profile.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return profiles, nil
}

// SetCourierAvailability 派单和送达时由服务端直接翻转骑手的接单状态
func (r *Repository) SetCourierAvailability(userID int64, isAvailable bool) error {
	query := `
		UPDATE courier_profiles
		SET is_available = $1, updated_at = now(), version = version + 1
		WHERE user_id = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, isAvailable, userID)
	if err != nil {
		return err
	}

	return nil
}
