package repository

import (
	"context"
	"testing"
	"time"

	"github.com/Govind-619/ShipSphere/models"
	"github.com/Govind-619/ShipSphere/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var baseTime = time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

type rateSeed struct {
	name    string
	pincode string
	prefix  string
	zone    string
	cost    string
	active  bool
	age     time.Duration
}

func seedRates(t *testing.T, repo *ShippingRateRepository, seeds ...rateSeed) []models.ShippingRate {
	t.Helper()
	out := make([]models.ShippingRate, 0, len(seeds))
	for _, s := range seeds {
		rate := models.ShippingRate{
			Name:          s.name,
			Pincode:       models.StringPtr(s.pincode),
			PincodePrefix: models.StringPtr(s.prefix),
			Zone:          models.StringPtr(s.zone),
			BaseCost:      decimal.RequireFromString(s.cost),
			IsActive:      s.active,
			CreatedAt:     baseTime.Add(-s.age),
			UpdatedAt:     baseTime.Add(-s.age),
		}
		require.NoError(t, repo.Create(context.Background(), &rate))
		out = append(out, rate)
	}
	return out
}

func TestShippingRateRepository_FindActiveByPincode(t *testing.T) {
	repo := NewShippingRateRepository(openTestDB(t))
	rates := seedRates(t, repo,
		rateSeed{name: "old", pincode: "400001", cost: "40", active: true, age: time.Hour},
		rateSeed{name: "new", pincode: "400001", cost: "45", active: true},
		rateSeed{name: "off", pincode: "400002", cost: "50", active: false},
	)

	rate, err := repo.FindActiveByPincode(context.Background(), "400001")
	require.NoError(t, err)
	require.NotNil(t, rate)
	assert.Equal(t, rates[1].ID, rate.ID)
	assert.True(t, decimal.RequireFromString("45").Equal(rate.BaseCost))

	rate, err = repo.FindActiveByPincode(context.Background(), "400002")
	require.NoError(t, err)
	assert.Nil(t, rate)
}

func TestShippingRateRepository_FindActiveWithPrefix(t *testing.T) {
	repo := NewShippingRateRepository(openTestDB(t))
	rates := seedRates(t, repo,
		rateSeed{name: "older 560", prefix: "560", cost: "80", active: true, age: 2 * time.Hour},
		rateSeed{name: "newer 560", prefix: "560", cost: "45", active: true},
		rateSeed{name: "inactive", prefix: "56", cost: "10", active: false},
		rateSeed{name: "exact", pincode: "560034", cost: "30", active: true},
		rateSeed{name: "default", cost: "100", active: true},
	)

	found, err := repo.FindActiveWithPrefix(context.Background())
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, rates[1].ID, found[0].ID, "most recently updated first")
	assert.Equal(t, rates[0].ID, found[1].ID)
}

func TestShippingRateRepository_FindActiveDefault(t *testing.T) {
	repo := NewShippingRateRepository(openTestDB(t))

	rate, err := repo.FindActiveDefault(context.Background())
	require.NoError(t, err)
	assert.Nil(t, rate)

	rates := seedRates(t, repo,
		rateSeed{name: "prefix", prefix: "4", cost: "20", active: true},
		rateSeed{name: "stale default", cost: "90", active: true, age: time.Hour},
		rateSeed{name: "default", cost: "100", active: true, age: time.Minute},
		rateSeed{name: "disabled default", cost: "1", active: false},
	)

	rate, err = repo.FindActiveDefault(context.Background())
	require.NoError(t, err)
	require.NotNil(t, rate)
	assert.Equal(t, rates[2].ID, rate.ID)
	assert.Equal(t, models.RateKindDefault, rate.Kind())
}

func TestShippingRateRepository_BlankColumnsCountAsUnset(t *testing.T) {
	db := openTestDB(t)
	repo := NewShippingRateRepository(db)
	rates := seedRates(t, repo, rateSeed{name: "legacy default", cost: "75", active: true})

	// Rows written by older tooling may carry empty strings instead of NULL.
	require.NoError(t, db.Model(&models.ShippingRate{}).Where("id = ?", rates[0].ID).
		Updates(map[string]interface{}{"pincode": "", "pincode_prefix": ""}).Error)

	prefixed, err := repo.FindActiveWithPrefix(context.Background())
	require.NoError(t, err)
	assert.Empty(t, prefixed)

	rate, err := repo.FindActiveDefault(context.Background())
	require.NoError(t, err)
	require.NotNil(t, rate)
	assert.Equal(t, rates[0].ID, rate.ID)
}

func TestShippingRateRepository_List(t *testing.T) {
	repo := NewShippingRateRepository(openTestDB(t))
	seedRates(t, repo,
		rateSeed{name: "Mumbai CST", pincode: "400001", zone: "West", cost: "40", active: true, age: 3 * time.Hour},
		rateSeed{name: "Mumbai", prefix: "400", zone: "West", cost: "60", active: true, age: 2 * time.Hour},
		rateSeed{name: "Bengaluru", prefix: "560", zone: "South", cost: "70", active: false, age: time.Hour},
		rateSeed{name: "Rest of India", cost: "100", active: true},
	)

	tests := []struct {
		name   string
		filter ShippingRateFilter
		want   []string
	}{
		{"all newest first", ShippingRateFilter{}, []string{"Rest of India", "Bengaluru", "Mumbai", "Mumbai CST"}},
		{"zone is case insensitive", ShippingRateFilter{Zone: "west"}, []string{"Mumbai", "Mumbai CST"}},
		{"active only", ShippingRateFilter{Active: func() *bool { b := true; return &b }()}, []string{"Rest of India", "Mumbai", "Mumbai CST"}},
		{"exact kind", ShippingRateFilter{Kind: models.RateKindExact}, []string{"Mumbai CST"}},
		{"prefix kind", ShippingRateFilter{Kind: models.RateKindPrefix}, []string{"Bengaluru", "Mumbai"}},
		{"default kind", ShippingRateFilter{Kind: models.RateKindDefault}, []string{"Rest of India"}},
		{"search by name", ShippingRateFilter{Search: "mumbai"}, []string{"Mumbai", "Mumbai CST"}},
		{"search by pincode", ShippingRateFilter{Search: "4000"}, []string{"Mumbai CST"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &utils.Pagination{Page: 1, Limit: 10}
			rates, err := repo.List(context.Background(), tt.filter, p)
			require.NoError(t, err)

			names := make([]string, 0, len(rates))
			for _, r := range rates {
				names = append(names, r.Name)
			}
			assert.Equal(t, tt.want, names)
			assert.Equal(t, int64(len(tt.want)), p.Total)
		})
	}
}

func TestShippingRateRepository_ListPagination(t *testing.T) {
	repo := NewShippingRateRepository(openTestDB(t))
	for i := 0; i < 5; i++ {
		seedRates(t, repo, rateSeed{name: "rate", cost: "1", active: true, age: time.Duration(i) * time.Minute})
	}

	p := &utils.Pagination{Page: 2, Limit: 2, Offset: 2}
	rates, err := repo.List(context.Background(), ShippingRateFilter{}, p)
	require.NoError(t, err)
	assert.Len(t, rates, 2)
	assert.Equal(t, int64(5), p.Total)
	assert.Equal(t, 3, p.LastPage)
}

func TestShippingRateRepository_CRUD(t *testing.T) {
	repo := NewShippingRateRepository(openTestDB(t))
	ctx := context.Background()

	rate := &models.ShippingRate{
		Name:                  "Pune",
		PincodePrefix:         models.StringPtr("411"),
		BaseCost:              decimal.RequireFromString("55.50"),
		FreeShippingThreshold: decimal.NewNullDecimal(decimal.RequireFromString("999")),
		IsActive:              false,
	}
	require.NoError(t, repo.Create(ctx, rate))
	require.NotZero(t, rate.ID)

	got, err := repo.GetByID(ctx, rate.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive, "false must survive create")
	assert.True(t, decimal.RequireFromString("55.5").Equal(got.BaseCost))
	require.True(t, got.FreeShippingThreshold.Valid)
	assert.True(t, decimal.RequireFromString("999").Equal(got.FreeShippingThreshold.Decimal))

	got.FreeShippingThreshold = decimal.NullDecimal{}
	got.IsActive = true
	require.NoError(t, repo.Save(ctx, got))

	got, err = repo.GetByID(ctx, rate.ID)
	require.NoError(t, err)
	assert.False(t, got.FreeShippingThreshold.Valid)
	assert.True(t, got.IsActive)

	all, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, repo.Delete(ctx, rate.ID))
	_, err = repo.GetByID(ctx, rate.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, rate.ID), gorm.ErrRecordNotFound)
}

func TestShippingRateRepository_HonoursCancelledContext(t *testing.T) {
	repo := NewShippingRateRepository(openTestDB(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.FindActiveByPincode(ctx, "400001")
	assert.ErrorIs(t, err, context.Canceled)
}
