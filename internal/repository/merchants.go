package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/diancan-dev/waimai/backend/internal/domain"
)

func (r *Repository) CreateMerchant(merchant *domain.Merchant) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO merchants (owner_id, name, description, address, latitude, longitude, phone, is_open_manual)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, is_open, created_at, version
	`
	args := []any{merchant.OwnerID, merchant.Name, merchant.Description, merchant.Address, merchant.Latitude, merchant.Longitude, merchant.Phone, merchant.IsOpenManual}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&merchant.ID, &merchant.IsOpen, &merchant.CreatedAt, &merchant.Version); err != nil {
		return err
	}

	for day, rule := range merchant.Schedule {
		query = `
			INSERT INTO merchant_working_hours (merchant_id, day, open_time, close_time, is_closed)
			VALUES ($1, $2, $3, $4, $5)
		`
		if _, err := tx.ExecContext(ctx, query, merchant.ID, day, rule.Open, rule.Close, rule.IsClosed); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetMerchantByID(id int64) (*domain.Merchant, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			m.owner_id,
			m.name,
			m.description,
			m.address,
			m.latitude,
			m.longitude,
			m.phone,
			m.is_open,
			m.is_open_manual,
			m.created_at,
			m.version,
			mwh.day,
			mwh.open_time,
			mwh.close_time,
			mwh.is_closed
		FROM merchants m
		LEFT JOIN merchant_working_hours mwh ON m.id = mwh.merchant_id
		WHERE m.id = $1
	`

	rows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	merchant := &domain.Merchant{
		ID: id,
	}
	found := false

	for rows.Next() {
		var row struct {
			OwnerID      int64
			Name         string
			Description  string
			Address      string
			Latitude     float64
			Longitude    float64
			Phone        string
			IsOpen       bool
			IsOpenManual sql.NullBool
			CreatedAt    time.Time
			Version      int32

			Day       sql.NullString
			OpenTime  sql.NullString
			CloseTime sql.NullString
			IsClosed  sql.NullBool
		}

		dst := []any{
			&row.OwnerID,
			&row.Name,
			&row.Description,
			&row.Address,
			&row.Latitude,
			&row.Longitude,
			&row.Phone,
			&row.IsOpen,
			&row.IsOpenManual,
			&row.CreatedAt,
			&row.Version,
			&row.Day,
			&row.OpenTime,
			&row.CloseTime,
			&row.IsClosed,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if !found {
			// 第一行时填充商家基本信息
			merchant.OwnerID = row.OwnerID
			merchant.Name = row.Name
			merchant.Description = row.Description
			merchant.Address = row.Address
			merchant.Latitude = row.Latitude
			merchant.Longitude = row.Longitude
			merchant.Phone = row.Phone
			merchant.IsOpen = row.IsOpen
			if row.IsOpenManual.Valid {
				merchant.IsOpenManual = &row.IsOpenManual.Bool
			}
			merchant.CreatedAt = row.CreatedAt
			merchant.Version = row.Version
			found = true
		}

		// day 为空表示这个商家还没有配置营业时间，Schedule 保持 nil
		if !row.Day.Valid {
			continue
		}

		if merchant.Schedule == nil {
			merchant.Schedule = make(domain.WeeklySchedule, len(domain.DayKeys))
		}
		merchant.Schedule[row.Day.String] = domain.DayRule{
			Open:     row.OpenTime.String,
			Close:    row.CloseTime.String,
			IsClosed: row.IsClosed.Bool,
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !found {
		return nil, sql.ErrNoRows
	}

	return merchant, nil
}

func (r *Repository) GetAllMerchants() ([]*domain.Merchant, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			m.id,
			m.owner_id,
			m.name,
			m.description,
			m.address,
			m.latitude,
			m.longitude,
			m.phone,
			m.is_open,
			m.is_open_manual,
			m.created_at,
			m.version,
			mwh.day,
			mwh.open_time,
			mwh.close_time,
			mwh.is_closed
		FROM merchants m
		LEFT JOIN merchant_working_hours mwh ON m.id = mwh.merchant_id
		ORDER BY m.id
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	merchantsMap := make(map[int64]*domain.Merchant)
	order := make([]int64, 0)

	for rows.Next() {
		var row struct {
			ID           int64
			OwnerID      int64
			Name         string
			Description  string
			Address      string
			Latitude     float64
			Longitude    float64
			Phone        string
			IsOpen       bool
			IsOpenManual sql.NullBool
			CreatedAt    time.Time
			Version      int32

			Day       sql.NullString
			OpenTime  sql.NullString
			CloseTime sql.NullString
			IsClosed  sql.NullBool
		}

		dst := []any{
			&row.ID,
			&row.OwnerID,
			&row.Name,
			&row.Description,
			&row.Address,
			&row.Latitude,
			&row.Longitude,
			&row.Phone,
			&row.IsOpen,
			&row.IsOpenManual,
			&row.CreatedAt,
			&row.Version,
			&row.Day,
			&row.OpenTime,
			&row.CloseTime,
			&row.IsClosed,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		merchant, exists := merchantsMap[row.ID]
		if !exists {
			// 第一次查到这个商家，先初始化基本信息
			merchant = &domain.Merchant{
				ID:          row.ID,
				OwnerID:     row.OwnerID,
				Name:        row.Name,
				Description: row.Description,
				Address:     row.Address,
				Latitude:    row.Latitude,
				Longitude:   row.Longitude,
				Phone:       row.Phone,
				IsOpen:      row.IsOpen,
				CreatedAt:   row.CreatedAt,
				Version:     row.Version,
			}
			if row.IsOpenManual.Valid {
				merchant.IsOpenManual = &row.IsOpenManual.Bool
			}
			merchantsMap[row.ID] = merchant
			order = append(order, row.ID)
		}

		if !row.Day.Valid {
			continue
		}

		if merchant.Schedule == nil {
			merchant.Schedule = make(domain.WeeklySchedule, len(domain.DayKeys))
		}
		merchant.Schedule[row.Day.String] = domain.DayRule{
			Open:     row.OpenTime.String,
			Close:    row.CloseTime.String,
			IsClosed: row.IsClosed.Bool,
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	merchants := make([]*domain.Merchant, 0, len(order))
	for _, id := range order {
		merchants = append(merchants, merchantsMap[id])
	}

	return merchants, nil
}

func (r *Repository) GetMerchantsByOwnerID(ownerID int64) ([]*domain.Merchant, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id FROM merchants WHERE owner_id = $1 ORDER BY id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	merchants := make([]*domain.Merchant, 0, len(ids))
	for _, id := range ids {
		merchant, err := r.GetMerchantByID(id)
		if err != nil {
			return nil, err
		}
		merchants = append(merchants, merchant)
	}

	return merchants, nil
}

func (r *Repository) UpdateMerchant(merchant *domain.Merchant) error {
	query := `
		UPDATE merchants
		SET
			name = $1,
			description = $2,
			address = $3,
			latitude = $4,
			longitude = $5,
			phone = $6,
			is_open_manual = $7,
			version = version + 1
		WHERE id = $8 AND version = $9
		RETURNING created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{merchant.Name, merchant.Description, merchant.Address, merchant.Latitude, merchant.Longitude, merchant.Phone, merchant.IsOpenManual, merchant.ID, merchant.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&merchant.CreatedAt, &merchant.Version); err != nil {
		return err
	}

	return nil
}

// UpdateMerchantSchedule 整体替换商家的周营业时间表
// 时间表按天存成七行，先删后插，放在一个事务里
func (r *Repository) UpdateMerchantSchedule(merchantID int64, schedule domain.WeeklySchedule) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		DELETE FROM merchant_working_hours WHERE merchant_id = $1
	`
	if _, err := tx.ExecContext(ctx, query, merchantID); err != nil {
		return err
	}

	for _, day := range domain.DayKeys {
		rule := schedule[day]
		query = `
			INSERT INTO merchant_working_hours (merchant_id, day, open_time, close_time, is_closed)
			VALUES ($1, $2, $3, $4, $5)
		`
		if _, err := tx.ExecContext(ctx, query, merchantID, day, rule.Open, rule.Close, rule.IsClosed); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

// UpdateMerchantOpenFlag 供 statusd 写回营业状态，不参与乐观锁
func (r *Repository) UpdateMerchantOpenFlag(id int64, isOpen bool) error {
	query := `
		UPDATE merchants SET is_open = $1 WHERE id = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, isOpen, id)
	if err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteMerchant(id int64) error {
	query := `
		DELETE FROM merchants WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
