package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/diancan-dev/waimai/backend/internal/domain"
)

func (r *Repository) CreateOrder(order *domain.Order) error {
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
		INSERT INTO orders (customer_id, merchant_id, status, items_amount, delivery_fee, total_amount, address, latitude, longitude, remark)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, version
	`
	args := []any{order.CustomerID, order.MerchantID, order.Status, order.ItemsAmount, order.DeliveryFee, order.TotalAmount, order.Address, order.Latitude, order.Longitude, order.Remark}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&order.ID, &order.CreatedAt, &order.Version); err != nil {
		return err
	}

	for i := range order.Items {
		query = `
			INSERT INTO order_items (order_id, item_id, name, price, quantity)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`
		params := []any{order.ID, order.Items[i].ItemID, order.Items[i].Name, order.Items[i].Price, order.Items[i].Quantity}
		if err := tx.QueryRowContext(ctx, query, params...).Scan(&order.Items[i].ID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetOrderByID(id int64) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			o.customer_id,
			o.merchant_id,
			o.courier_id,
			o.status,
			o.items_amount,
			o.delivery_fee,
			o.total_amount,
			o.address,
			o.latitude,
			o.longitude,
			o.remark,
			o.created_at,
			o.version,
			oi.id,
			oi.item_id,
			oi.name,
			oi.price,
			oi.quantity
		FROM orders o
		LEFT JOIN order_items oi ON o.id = oi.order_id
		WHERE o.id = $1
		ORDER BY oi.id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	order := &domain.Order{
		ID:    id,
		Items: make([]domain.OrderItem, 0),
	}
	found := false

	for rows.Next() {
		var row struct {
			CustomerID  int64
			MerchantID  int64
			CourierID   sql.NullInt64
			Status      string
			ItemsAmount int64
			DeliveryFee int64
			TotalAmount int64
			Address     string
			Latitude    float64
			Longitude   float64
			Remark      string
			CreatedAt   time.Time
			Version     int32

			OrderItemID sql.NullInt64
			ItemID      sql.NullInt64
			Name        sql.NullString
			Price       sql.NullInt64
			Quantity    sql.NullInt32
		}

		dst := []any{
			&row.CustomerID,
			&row.MerchantID,
			&row.CourierID,
			&row.Status,
			&row.ItemsAmount,
			&row.DeliveryFee,
			&row.TotalAmount,
			&row.Address,
			&row.Latitude,
			&row.Longitude,
			&row.Remark,
			&row.CreatedAt,
			&row.Version,
			&row.OrderItemID,
			&row.ItemID,
			&row.Name,
			&row.Price,
			&row.Quantity,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if !found {
			order.CustomerID = row.CustomerID
			order.MerchantID = row.MerchantID
			if row.CourierID.Valid {
				order.CourierID = &row.CourierID.Int64
			}
			order.Status = domain.OrderStatus(row.Status)
			order.ItemsAmount = row.ItemsAmount
			order.DeliveryFee = row.DeliveryFee
			order.TotalAmount = row.TotalAmount
			order.Address = row.Address
			order.Latitude = row.Latitude
			order.Longitude = row.Longitude
			order.Remark = row.Remark
			order.CreatedAt = row.CreatedAt
			order.Version = row.Version
			found = true
		}

		if !row.OrderItemID.Valid {
			continue
		}

		order.Items = append(order.Items, domain.OrderItem{
			ID:       row.OrderItemID.Int64,
			ItemID:   row.ItemID.Int64,
			Name:     row.Name.String,
			Price:    row.Price.Int64,
			Quantity: row.Quantity.Int32,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !found {
		return nil, sql.ErrNoRows
	}

	return order, nil
}

// getOrdersByColumn 按某一列过滤订单，顾客、商家、骑手的列表查询共用这段逻辑
func (r *Repository) getOrdersByColumn(column string, value int64) ([]*domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	// column 只会是下面三个白名单调用方传入的固定列名，不存在注入问题
	query := `
		SELECT id FROM orders WHERE ` + column + ` = $1 ORDER BY id DESC
	`

	rows, err := r.dbpool.QueryContext(ctx, query, value)
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

	orders := make([]*domain.Order, 0, len(ids))
	for _, id := range ids {
		order, err := r.GetOrderByID(id)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	return orders, nil
}

func (r *Repository) GetOrdersByCustomerID(customerID int64) ([]*domain.Order, error) {
	return r.getOrdersByColumn("customer_id", customerID)
}

func (r *Repository) GetOrdersByMerchantID(merchantID int64) ([]*domain.Order, error) {
	return r.getOrdersByColumn("merchant_id", merchantID)
}

func (r *Repository) GetOrdersByCourierID(courierID int64) ([]*domain.Order, error) {
	return r.getOrdersByColumn("courier_id", courierID)
}

// GetAllOrders 给管理员使用
func (r *Repository) GetAllOrders() ([]*domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id FROM orders ORDER BY id DESC
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
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

	orders := make([]*domain.Order, 0, len(ids))
	for _, id := range ids {
		order, err := r.GetOrderByID(id)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	return orders, nil
}

// UpdateOrder 更新订单的状态和骑手，带乐观锁
func (r *Repository) UpdateOrder(order *domain.Order) error {
	query := `
		UPDATE orders
		SET
			status = $1,
			courier_id = $2,
			version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var courierID sql.NullInt64
	if order.CourierID != nil {
		courierID = sql.NullInt64{Int64: *order.CourierID, Valid: true}
	}

	args := []any{order.Status, courierID, order.ID, order.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&order.CreatedAt, &order.Version); err != nil {
		return err
	}

	return nil
}
