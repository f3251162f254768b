package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/diancan-dev/waimai/backend/internal/availability"
	"github.com/diancan-dev/waimai/backend/internal/config"
	"github.com/diancan-dev/waimai/backend/internal/repository"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// statusd 周期性地为每个商家计算营业状态，并把变化写回数据库的 is_open 列
// 列表页直接读这一列，不用在每次请求时为全部商家计算状态

func main() {
	/**********************************************
	 * 创建 logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * 加载配置
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法加载配置文件", "error", err)
		return
	}

	/**********************************************
	 * 连接数据库
	 **********************************************/
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	/**********************************************
	 * 连接 redis
	 **********************************************/
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       0,
	})

	/**********************************************
	 * 周期性刷新营业状态
	 **********************************************/
	clock := availability.RealClock{}
	ticker := time.NewTicker(time.Duration(cfg.Status.PollInterval) * time.Second)
	defer ticker.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	logger.Info("statusd 已启动", "interval", cfg.Status.PollInterval)

	refresh(repo, rdb, cfg, clock)
	for {
		select {
		case <-quit:
			logger.Info("statusd 已退出")
			return
		case <-ticker.C:
			refresh(repo, rdb, cfg, clock)
		}
	}
}

// refresh 刷新一轮所有商家的营业状态
func refresh(repo *repository.Repository, rdb *redis.Client, cfg *config.Config, clock availability.Clock) {
	merchants, err := repo.GetAllMerchants()
	if err != nil {
		slog.Error("无法获取商家列表", "error", err)
		return
	}

	now := clock.Now()
	updated := 0

	for _, merchant := range merchants {
		isOpen := false

		// 临时歇业的优先级最高
		tempClosed, err := isTemporarilyClosed(rdb, cfg, merchant.ID)
		if err != nil {
			slog.Error("无法读取临时歇业状态", "merchant_id", merchant.ID, "error", err)
			continue
		}

		if !tempClosed {
			status := availability.ResolveStatus(availability.Snapshot{
				IsOpenManual: merchant.IsOpenManual,
				Schedule:     merchant.Schedule,
			}, now)
			isOpen = status.IsOpen
		}

		if isOpen == merchant.IsOpen {
			continue
		}

		if err := repo.UpdateMerchantOpenFlag(merchant.ID, isOpen); err != nil {
			slog.Error("无法更新营业状态", "merchant_id", merchant.ID, "error", err)
			continue
		}
		updated++
	}

	if updated > 0 {
		slog.Info("营业状态已刷新", "updated", updated, "total", len(merchants))
	}
}

func isTemporarilyClosed(rdb *redis.Client, cfg *config.Config, merchantID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Redis.OperationExpiration)*time.Second)
	defer cancel()

	if err := rdb.Get(ctx, fmt.Sprintf("merchant_temp_close_%d", merchantID)).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
