package repository

import (
	"context"
	"strings"

	"github.com/Govind-619/ShipSphere/models"
	"github.com/Govind-619/ShipSphere/utils"

	"gorm.io/gorm"
)

const (
	hasPincode   = "pincode IS NOT NULL AND pincode <> ''"
	hasPrefix    = "pincode_prefix IS NOT NULL AND pincode_prefix <> ''"
	noPincode    = "(pincode IS NULL OR pincode = '')"
	noPrefix     = "(pincode_prefix IS NULL OR pincode_prefix = '')"
	recencyOrder = "updated_at DESC, id DESC"
)

// ShippingRateFilter narrows admin listings
type ShippingRateFilter struct {
	Zone   string
	Active *bool
	Kind   models.RateKind
	Search string
}

// ShippingRateRepository handles the shipping_rates table.
type ShippingRateRepository struct {
	db *gorm.DB
}

// NewShippingRateRepository creates a new instance of ShippingRateRepository.
func NewShippingRateRepository(db *gorm.DB) *ShippingRateRepository {
	return &ShippingRateRepository{db: db}
}

// FindActiveByPincode returns the most recently updated active rate whose
// pincode equals pincode, or nil when there is none.
func (r *ShippingRateRepository) FindActiveByPincode(ctx context.Context, pincode string) (*models.ShippingRate, error) {
	return r.first(r.db.WithContext(ctx).
		Where("is_active = ? AND pincode = ?", true, pincode))
}

// FindActiveWithPrefix returns every active rate with a pincode prefix,
// most recently updated first.
func (r *ShippingRateRepository) FindActiveWithPrefix(ctx context.Context) ([]models.ShippingRate, error) {
	var rates []models.ShippingRate
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where(hasPrefix).
		Order(recencyOrder).
		Find(&rates).Error
	if err != nil {
		return nil, err
	}
	return rates, nil
}

// FindActiveDefault returns the most recently updated active rate with
// neither pincode nor prefix, or nil when there is none.
func (r *ShippingRateRepository) FindActiveDefault(ctx context.Context) (*models.ShippingRate, error) {
	return r.first(r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where(noPincode).
		Where(noPrefix))
}

func (r *ShippingRateRepository) first(query *gorm.DB) (*models.ShippingRate, error) {
	var rates []models.ShippingRate
	if err := query.Order(recencyOrder).Limit(1).Find(&rates).Error; err != nil {
		return nil, err
	}
	if len(rates) == 0 {
		return nil, nil
	}
	return &rates[0], nil
}

// List returns one page of rates matching filter and records the total on p.
func (r *ShippingRateRepository) List(ctx context.Context, filter ShippingRateFilter, p *utils.Pagination) ([]models.ShippingRate, error) {
	query := r.db.WithContext(ctx).Model(&models.ShippingRate{})

	if filter.Zone != "" {
		query = query.Where("LOWER(zone) = ?", strings.ToLower(filter.Zone))
	}
	if filter.Active != nil {
		query = query.Where("is_active = ?", *filter.Active)
	}
	switch filter.Kind {
	case models.RateKindExact:
		query = query.Where(hasPincode)
	case models.RateKindPrefix:
		query = query.Where(noPincode).Where(hasPrefix)
	case models.RateKindDefault:
		query = query.Where(noPincode).Where(noPrefix)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR pincode LIKE ? OR pincode_prefix LIKE ? OR LOWER(zone) LIKE ?",
			like, like, like, like,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}
	p.SetTotal(total)

	var rates []models.ShippingRate
	err := query.Order(recencyOrder).
		Offset(p.Offset).
		Limit(p.Limit).
		Find(&rates).Error
	if err != nil {
		return nil, err
	}
	return rates, nil
}

// All returns every rate ordered by id, for exports.
func (r *ShippingRateRepository) All(ctx context.Context) ([]models.ShippingRate, error) {
	var rates []models.ShippingRate
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rates).Error; err != nil {
		return nil, err
	}
	return rates, nil
}

// GetByID retrieves a rate by ID. Missing rows yield gorm.ErrRecordNotFound.
func (r *ShippingRateRepository) GetByID(ctx context.Context, id uint) (*models.ShippingRate, error) {
	var rate models.ShippingRate
	if err := r.db.WithContext(ctx).First(&rate, id).Error; err != nil {
		return nil, err
	}
	return &rate, nil
}

// Create inserts a new rate
func (r *ShippingRateRepository) Create(ctx context.Context, rate *models.ShippingRate) error {
	return r.db.WithContext(ctx).Create(rate).Error
}

// Save writes every column of rate, including NULLs for cleared fields.
func (r *ShippingRateRepository) Save(ctx context.Context, rate *models.ShippingRate) error {
	return r.db.WithContext(ctx).Save(rate).Error
}

// Delete removes a rate. Missing rows yield gorm.ErrRecordNotFound.
func (r *ShippingRateRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.ShippingRate{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
