package dispatch

import (
	"testing"

	"github.com/diancan-dev/waimai/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var params = Parameters{
	BaseFee:        300, // 3 元起步
	FreeDistanceKm: 3,
	PerKmFee:       100, // 超出部分每公里 1 元
}

func TestDistanceKm(t *testing.T) {
	// 同一个点距离为 0
	assert.InDelta(t, 0, DistanceKm(23.0999, 113.2974, 23.0999, 113.2974), 1e-9)

	// 广州塔到中山大学南校区大约 3 公里
	distance := DistanceKm(23.1066, 113.3245, 23.0999, 113.2974)
	assert.InDelta(t, 2.9, distance, 0.5)
}

func TestDeliveryFee(t *testing.T) {
	// 起步价以内
	assert.Equal(t, int64(300), DeliveryFee(0.5, params))
	assert.Equal(t, int64(300), DeliveryFee(3, params))

	// 超出部分按公里向上取整
	assert.Equal(t, int64(400), DeliveryFee(3.2, params))
	assert.Equal(t, int64(400), DeliveryFee(4, params))
	assert.Equal(t, int64(500), DeliveryFee(4.1, params))
}

func TestNearestAvailableCourier(t *testing.T) {
	couriers := []*domain.CourierProfile{
		{UserID: 1, Latitude: 23.20, Longitude: 113.30, IsAvailable: true},
		{UserID: 2, Latitude: 23.11, Longitude: 113.30, IsAvailable: true},
		{UserID: 3, Latitude: 23.10, Longitude: 113.30, IsAvailable: false},
	}

	nearest := NearestAvailableCourier(couriers, 23.10, 113.30)
	require.NotNil(t, nearest)
	// 3 号骑手虽然最近但不空闲，应当选中 2 号
	assert.Equal(t, int64(2), nearest.UserID)
}

func TestNearestAvailableCourier_NoneAvailable(t *testing.T) {
	couriers := []*domain.CourierProfile{
		{UserID: 1, Latitude: 23.20, Longitude: 113.30, IsAvailable: false},
	}

	assert.Nil(t, NearestAvailableCourier(couriers, 23.10, 113.30))
	assert.Nil(t, NearestAvailableCourier(nil, 23.10, 113.30))
}
