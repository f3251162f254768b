package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/diancan-dev/waimai/backend/internal/domain"
)

func (r *Repository) CreateMenuCategory(category *domain.MenuCategory) error {
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
		INSERT INTO menu_categories (merchant_id, name, sort_order)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, version
	`
	if err := tx.QueryRowContext(ctx, query, category.MerchantID, category.Name, category.SortOrder).Scan(&category.ID, &category.CreatedAt, &category.Version); err != nil {
		return err
	}

	for i := range category.Items {
		query = `
			INSERT INTO menu_items (category_id, name, description, price, is_available)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at, version
		`
		params := []any{category.ID, category.Items[i].Name, category.Items[i].Description, category.Items[i].Price, category.Items[i].IsAvailable}
		if err := tx.QueryRowContext(ctx, query, params...).Scan(&category.Items[i].ID, &category.Items[i].CreatedAt, &category.Items[i].Version); err != nil {
			return err
		}
		category.Items[i].CategoryID = category.ID

		for j := range category.Items[i].Options {
			query = `
				INSERT INTO menu_item_options (item_id, name, extra_price)
				VALUES ($1, $2, $3)
				RETURNING id
			`
			params = []any{category.Items[i].ID, category.Items[i].Options[j].Name, category.Items[i].Options[j].ExtraPrice}
			if err := tx.QueryRowContext(ctx, query, params...).Scan(&category.Items[i].Options[j].ID); err != nil {
				return err
			}
			category.Items[i].Options[j].ItemID = category.Items[i].ID
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

// GetMenu 查出商家完整的菜单，分类、菜品、规格三张表一次 JOIN 完成
func (r *Repository) GetMenu(merchantID int64) ([]*domain.MenuCategory, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			mc.id,
			mc.name,
			mc.sort_order,
			mc.created_at,
			mc.version,
			mi.id,
			mi.name,
			mi.description,
			mi.price,
			mi.is_available,
			mi.created_at,
			mi.version,
			mio.id,
			mio.name,
			mio.extra_price
		FROM menu_categories mc
		LEFT JOIN menu_items mi ON mc.id = mi.category_id
		LEFT JOIN menu_item_options mio ON mi.id = mio.item_id
		WHERE mc.merchant_id = $1
		ORDER BY mc.sort_order, mc.id, mi.id, mio.id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, merchantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categoriesMap := make(map[int64]*domain.MenuCategory)
	itemsMap := make(map[int64]*domain.MenuItem) // itemID -> item
	categoryItems := make(map[int64][]int64)     // categoryID -> itemID 顺序
	order := make([]int64, 0)

	for rows.Next() {
		var row struct {
			CategoryID      int64
			CategoryName    string
			SortOrder       int32
			CreatedAt       time.Time
			Version         int32
			ItemID          sql.NullInt64
			ItemName        sql.NullString
			ItemDescription sql.NullString
			Price           sql.NullInt64
			IsAvailable     sql.NullBool
			ItemCreatedAt   sql.NullTime
			ItemVersion     sql.NullInt32
			OptionID        sql.NullInt64
			OptionName      sql.NullString
			ExtraPrice      sql.NullInt64
		}

		dst := []any{
			&row.CategoryID,
			&row.CategoryName,
			&row.SortOrder,
			&row.CreatedAt,
			&row.Version,
			&row.ItemID,
			&row.ItemName,
			&row.ItemDescription,
			&row.Price,
			&row.IsAvailable,
			&row.ItemCreatedAt,
			&row.ItemVersion,
			&row.OptionID,
			&row.OptionName,
			&row.ExtraPrice,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if _, exists := categoriesMap[row.CategoryID]; !exists {
			// 第一次查到这个分类，初始化
			categoriesMap[row.CategoryID] = &domain.MenuCategory{
				ID:         row.CategoryID,
				MerchantID: merchantID,
				Name:       row.CategoryName,
				SortOrder:  row.SortOrder,
				CreatedAt:  row.CreatedAt,
				Version:    row.Version,
			}
			order = append(order, row.CategoryID)
		}

		// item 为空表示这个分类下还没有菜品
		if !row.ItemID.Valid {
			continue
		}

		item, exists := itemsMap[row.ItemID.Int64]
		if !exists {
			item = &domain.MenuItem{
				ID:          row.ItemID.Int64,
				CategoryID:  row.CategoryID,
				Name:        row.ItemName.String,
				Description: row.ItemDescription.String,
				Price:       row.Price.Int64,
				IsAvailable: row.IsAvailable.Bool,
				Options:     make([]domain.ItemOption, 0),
				CreatedAt:   row.ItemCreatedAt.Time,
				Version:     row.ItemVersion.Int32,
			}
			itemsMap[row.ItemID.Int64] = item
			categoryItems[row.CategoryID] = append(categoryItems[row.CategoryID], row.ItemID.Int64)
		}

		if !row.OptionID.Valid {
			continue
		}

		item.Options = append(item.Options, domain.ItemOption{
			ID:         row.OptionID.Int64,
			ItemID:     row.ItemID.Int64,
			Name:       row.OptionName.String,
			ExtraPrice: row.ExtraPrice.Int64,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	// 组装结果
	categories := make([]*domain.MenuCategory, 0, len(order))
	for _, id := range order {
		category := categoriesMap[id]
		category.Items = make([]domain.MenuItem, 0, len(categoryItems[id]))
		for _, itemID := range categoryItems[id] {
			category.Items = append(category.Items, *itemsMap[itemID])
		}
		categories = append(categories, category)
	}

	return categories, nil
}

func (r *Repository) GetMenuCategoryByID(id int64) (*domain.MenuCategory, error) {
	query := `
		SELECT merchant_id, name, sort_order, created_at, version
		FROM menu_categories WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	category := &domain.MenuCategory{
		ID: id,
	}

	dst := []any{&category.MerchantID, &category.Name, &category.SortOrder, &category.CreatedAt, &category.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return category, nil
}

func (r *Repository) UpdateMenuCategory(category *domain.MenuCategory) error {
	query := `
		UPDATE menu_categories
		SET
			name = $1,
			sort_order = $2,
			version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{category.Name, category.SortOrder, category.ID, category.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&category.CreatedAt, &category.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteMenuCategory(id int64) error {
	query := `
		DELETE FROM menu_categories WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}

func (r *Repository) CreateMenuItem(item *domain.MenuItem) error {
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
		INSERT INTO menu_items (category_id, name, description, price, is_available)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version
	`
	args := []any{item.CategoryID, item.Name, item.Description, item.Price, item.IsAvailable}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&item.ID, &item.CreatedAt, &item.Version); err != nil {
		return err
	}

	for i := range item.Options {
		query = `
			INSERT INTO menu_item_options (item_id, name, extra_price)
			VALUES ($1, $2, $3)
			RETURNING id
		`
		if err := tx.QueryRowContext(ctx, query, item.ID, item.Options[i].Name, item.Options[i].ExtraPrice).Scan(&item.Options[i].ID); err != nil {
			return err
		}
		item.Options[i].ItemID = item.ID
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetMenuItemByID(id int64) (*domain.MenuItem, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			mi.category_id,
			mi.name,
			mi.description,
			mi.price,
			mi.is_available,
			mi.created_at,
			mi.version,
			mio.id,
			mio.name,
			mio.extra_price
		FROM menu_items mi
		LEFT JOIN menu_item_options mio ON mi.id = mio.item_id
		WHERE mi.id = $1
		ORDER BY mio.id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	item := &domain.MenuItem{
		ID:      id,
		Options: make([]domain.ItemOption, 0),
	}
	found := false

	for rows.Next() {
		var row struct {
			CategoryID  int64
			Name        string
			Description string
			Price       int64
			IsAvailable bool
			CreatedAt   time.Time
			Version     int32

			OptionID   sql.NullInt64
			OptionName sql.NullString
			ExtraPrice sql.NullInt64
		}

		dst := []any{
			&row.CategoryID,
			&row.Name,
			&row.Description,
			&row.Price,
			&row.IsAvailable,
			&row.CreatedAt,
			&row.Version,
			&row.OptionID,
			&row.OptionName,
			&row.ExtraPrice,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if !found {
			item.CategoryID = row.CategoryID
			item.Name = row.Name
			item.Description = row.Description
			item.Price = row.Price
			item.IsAvailable = row.IsAvailable
			item.CreatedAt = row.CreatedAt
			item.Version = row.Version
			found = true
		}

		if !row.OptionID.Valid {
			continue
		}

		item.Options = append(item.Options, domain.ItemOption{
			ID:         row.OptionID.Int64,
			ItemID:     id,
			Name:       row.OptionName.String,
			ExtraPrice: row.ExtraPrice.Int64,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !found {
		return nil, sql.ErrNoRows
	}

	return item, nil
}

func (r *Repository) UpdateMenuItem(item *domain.MenuItem) error {
	query := `
		UPDATE menu_items
		SET
			name = $1,
			description = $2,
			price = $3,
			is_available = $4,
			version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{item.Name, item.Description, item.Price, item.IsAvailable, item.ID, item.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&item.CreatedAt, &item.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteMenuItem(id int64) error {
	query := `
		DELETE FROM menu_items WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
