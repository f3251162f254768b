package dispatch

import (
	"math"

	"github.com/diancan-dev/waimai/backend/internal/domain"
)

// 派单相关的纯计算：距离、配送费、骑手挑选
// 和 availability 包一样，这里不做 I/O，由 handler 负责读写数据库

// 配送费参数，从配置中读取
type Parameters struct {
	BaseFee        int64   // 起步价，单位为分
	FreeDistanceKm float64 // 起步价包含的配送距离，单位为公里
	PerKmFee       int64   // 超出部分每公里的费用，单位为分
}

const earthRadiusKm = 6371.0

// DistanceKm 用 haversine 公式计算两个经纬度坐标之间的球面距离
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// DeliveryFee 按距离线性计算配送费
// 起步价覆盖 FreeDistanceKm 以内的距离，超出部分按公里向上取整计费
func DeliveryFee(distanceKm float64, params Parameters) int64 {
	extra := distanceKm - params.FreeDistanceKm
	if extra <= 0 {
		return params.BaseFee
	}
	return params.BaseFee + int64(math.Ceil(extra))*params.PerKmFee
}

// NearestAvailableCourier 在空闲骑手中挑选离商家最近的一个
// 没有空闲骑手时返回 nil，由调用方决定如何处理
func NearestAvailableCourier(couriers []*domain.CourierProfile, lat float64, lng float64) *domain.CourierProfile {
	var nearest *domain.CourierProfile
	nearestDistance := math.MaxFloat64

	for _, courier := range couriers {
		if !courier.IsAvailable {
			continue
		}
		distance := DistanceKm(lat, lng, courier.Latitude, courier.Longitude)
		if distance < nearestDistance {
			nearest = courier
			nearestDistance = distance
		}
	}

	return nearest
}
