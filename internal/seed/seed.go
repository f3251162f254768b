package seed

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/diancan-dev/waimai/backend/internal/availability"
	"github.com/diancan-dev/waimai/backend/internal/domain"
	"github.com/diancan-dev/waimai/backend/internal/repository"
	"github.com/diancan-dev/waimai/backend/internal/utils"
)

// merchantColumns 是真实商家数据 CSV 必须包含的列
var merchantColumns = []string{"商家名称", "地址", "纬度", "经度", "电话", "营业开始", "营业结束"}

// SeedRealData 从 CSV 中导入真实商家数据
// 每个商家会同时创建一个商家账号、七天统一的营业时间表和一份随机菜单
func SeedRealData(r *repository.Repository, csvPath string, ownerPassword string, emailDomain string) {
	file, err := os.Open(csvPath)
	if err != nil {
		slog.Error("打开文件失败", "error", err)
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)

	// 读取表头
	headers, err := reader.Read()
	if err != nil {
		slog.Error("读取表头失败", "error", err)
		return
	}

	columnIndex := make(map[string]int)
	for i, header := range headers {
		columnIndex[header] = i
	}
	for _, column := range merchantColumns {
		if _, exists := columnIndex[column]; !exists {
			slog.Error("CSV 缺少必要的列", "column", column)
			return
		}
	}

	cnt := 0
	for {
		row, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			slog.Error("读取文件失败", "error", err)
			return
		}

		record := make(map[string]string)
		for i, value := range row {
			record[headers[i]] = value
		}

		name := record["商家名称"]
		if name == "" {
			slog.Error("商家名称为空", "record", record)
			continue
		}

		// 每个商家一个独立的商家账号，已存在则复用
		owner, err := utils.GenerateRandomUser(ownerPassword, emailDomain)
		if err != nil {
			slog.Error("无法生成商家账号", "error", err)
			continue
		}
		owner.Role = domain.RoleMerchant

		existing, err := r.GetUserByUsername(owner.Username)
		switch {
		case err == nil:
			owner = existing
		case errors.Is(err, sql.ErrNoRows):
			if err := r.CreateUser(owner); err != nil {
				slog.Error("插入商家账号失败", "error", err)
				continue
			}
		default:
			slog.Error("获取商家账号失败", "error", err)
			continue
		}

		latitude, err := parseCoordinate(record["纬度"])
		if err != nil {
			slog.Error("纬度格式错误", "value", record["纬度"])
			continue
		}
		longitude, err := parseCoordinate(record["经度"])
		if err != nil {
			slog.Error("经度格式错误", "value", record["经度"])
			continue
		}

		schedule := availability.SetUniform(record["营业开始"], record["营业结束"])
		if err := utils.ValidateWeeklySchedule(schedule); err != nil {
			slog.Error("营业时间格式错误", "merchant", name, "error", err)
			continue
		}

		merchant := &domain.Merchant{
			OwnerID:   owner.ID,
			Name:      name,
			Address:   record["地址"],
			Latitude:  latitude,
			Longitude: longitude,
			Phone:     record["电话"],
			Schedule:  schedule,
		}

		if err := r.CreateMerchant(merchant); err != nil {
			slog.Error("插入商家失败", "merchant", name, "error", err)
			continue
		}

		for _, category := range utils.GenerateRandomMenu(merchant.ID) {
			if err := r.CreateMenuCategory(category); err != nil {
				slog.Error("插入菜单分类失败", "merchant", name, "error", err)
			}
		}

		cnt++
	}

	slog.Info("插入数据完成", "count", cnt)
}

func parseCoordinate(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
