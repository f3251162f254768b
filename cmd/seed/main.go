package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/diancan-dev/waimai/backend/internal/config"
	"github.com/diancan-dev/waimai/backend/internal/domain"
	"github.com/diancan-dev/waimai/backend/internal/repository"
	"github.com/diancan-dev/waimai/backend/internal/seed"
	"github.com/diancan-dev/waimai/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var csvPath string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机用户, 2: 插入随机商家及菜单, 3: 从 CSV 导入真实商家数据)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.StringVar(&csvPath, "csv", "./internal/seed/data/merchants.csv", "真实商家数据 CSV 的路径")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
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

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的用户数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				user, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Email.UserDomain)
				if err != nil {
					slog.Error("无法生成随机用户", slog.String("error", err.Error()))
					continue
				}

				if err := repo.CreateUser(user); err != nil {
					slog.Error("无法插入用户", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入用户成功", slog.Int("count", n-cnt))
		}
	case 2:
		if n <= 0 {
			slog.Error("请输入合法的商家数量")
			return
		}

		// 随机商家需要挂在商家角色的账号下
		users, err := repo.GetAllUsers()
		if err != nil {
			slog.Error("无法获取用户列表", slog.String("error", err.Error()))
			return
		}

		owners := make([]*domain.User, 0)
		for _, user := range users {
			if user.Role == domain.RoleMerchant {
				owners = append(owners, user)
			}
		}
		if len(owners) == 0 {
			slog.Error("数据库中没有商家角色的用户，请先插入用户")
			return
		}

		cnt := n
		for i := 0; i < n; i++ {
			owner := owners[rand.Intn(len(owners))]

			// 随机商家自带随机时间表，CreateMerchant 会一并写入
			merchant := utils.GenerateRandomMerchant(owner.ID)
			if err := repo.CreateMerchant(merchant); err != nil {
				slog.Error("无法插入商家", slog.String("error", err.Error()))
				continue
			}

			for _, category := range utils.GenerateRandomMenu(merchant.ID) {
				if err := repo.CreateMenuCategory(category); err != nil {
					slog.Error("无法插入菜单分类", slog.String("error", err.Error()))
				}
			}

			cnt--
		}

		slog.Info("插入商家成功", slog.Int("count", n-cnt))
	case 3:
		seed.SeedRealData(repo, csvPath, cfg.Seed.User.Password, cfg.Email.UserDomain)
	default:
		slog.Error("指定的操作非法")
	}
}
