package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Govind-619/ShipSphere/events"
	"github.com/Govind-619/ShipSphere/models"
	"github.com/Govind-619/ShipSphere/repository"
	"github.com/Govind-619/ShipSphere/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrRateNotFound is returned when a shipping rate ID does not exist
var ErrRateNotFound = errors.New("shipping rate not found")

// RateRepository is the storage used by ShippingRateService
type RateRepository interface {
	List(ctx context.Context, filter repository.ShippingRateFilter, p *utils.Pagination) ([]models.ShippingRate, error)
	All(ctx context.Context) ([]models.ShippingRate, error)
	GetByID(ctx context.Context, id uint) (*models.ShippingRate, error)
	Create(ctx context.Context, rate *models.ShippingRate) error
	Save(ctx context.Context, rate *models.ShippingRate) error
	Delete(ctx context.Context, id uint) error
}

// ShippingRateInput is the payload for creating a rate
type ShippingRateInput struct {
	Name                  string              `json:"name"`
	Pincode               string              `json:"pincode"`
	PincodePrefix         string              `json:"pincode_prefix"`
	Zone                  string              `json:"zone"`
	BaseCost              decimal.Decimal     `json:"base_cost"`
	Surcharge             decimal.Decimal     `json:"surcharge"`
	FreeShippingThreshold decimal.NullDecimal `json:"free_shipping_threshold"`
	EstimatedDeliveryMin  *int                `json:"estimated_delivery_min"`
	EstimatedDeliveryMax  *int                `json:"estimated_delivery_max"`
	IsActive              *bool               `json:"is_active"`
	Notes                 string              `json:"notes"`
}

// ShippingRateUpdate is a partial update. Nil fields are left unchanged, an
// empty string clears an optional text field, and Clear lists nullable
// fields to reset (free_shipping_threshold, estimated_delivery_min,
// estimated_delivery_max).
type ShippingRateUpdate struct {
	Name                  *string          `json:"name"`
	Pincode               *string          `json:"pincode"`
	PincodePrefix         *string          `json:"pincode_prefix"`
	Zone                  *string          `json:"zone"`
	BaseCost              *decimal.Decimal `json:"base_cost"`
	Surcharge             *decimal.Decimal `json:"surcharge"`
	FreeShippingThreshold *decimal.Decimal `json:"free_shipping_threshold"`
	EstimatedDeliveryMin  *int             `json:"estimated_delivery_min"`
	EstimatedDeliveryMax  *int             `json:"estimated_delivery_max"`
	IsActive              *bool            `json:"is_active"`
	Notes                 *string          `json:"notes"`
	Clear                 []string         `json:"clear"`
}

// ShippingRateService manages shipping rates for admins
type ShippingRateService struct {
	repo      RateRepository
	publisher events.Publisher
	now       func() time.Time
}

// NewShippingRateService creates a new ShippingRateService. A nil publisher
// drops change events.
func NewShippingRateService(repo RateRepository, publisher events.Publisher) *ShippingRateService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &ShippingRateService{repo: repo, publisher: publisher, now: time.Now}
}

// List returns a page of rates
func (s *ShippingRateService) List(ctx context.Context, filter repository.ShippingRateFilter, p *utils.Pagination) ([]models.ShippingRate, error) {
	rates, err := s.repo.List(ctx, filter, p)
	if err != nil {
		return nil, fmt.Errorf("list shipping rates: %w", err)
	}
	return rates, nil
}

// Export returns every rate for report generation
func (s *ShippingRateService) Export(ctx context.Context) ([]models.ShippingRate, error) {
	rates, err := s.repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("export shipping rates: %w", err)
	}
	return rates, nil
}

// Get returns a single rate
func (s *ShippingRateService) Get(ctx context.Context, id uint) (*models.ShippingRate, error) {
	rate, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get shipping rate %d: %w", id, err)
	}
	return rate, nil
}

// Create validates and stores a new rate. Rates are active unless the input
// says otherwise.
func (s *ShippingRateService) Create(ctx context.Context, in ShippingRateInput) (*models.ShippingRate, error) {
	rate := &models.ShippingRate{
		Name:                  utils.SanitizeString(in.Name),
		Pincode:               models.StringPtr(strings.TrimSpace(in.Pincode)),
		PincodePrefix:         models.StringPtr(strings.TrimSpace(in.PincodePrefix)),
		Zone:                  models.StringPtr(strings.TrimSpace(in.Zone)),
		BaseCost:              in.BaseCost,
		Surcharge:             in.Surcharge,
		FreeShippingThreshold: in.FreeShippingThreshold,
		EstimatedDeliveryMin:  in.EstimatedDeliveryMin,
		EstimatedDeliveryMax:  in.EstimatedDeliveryMax,
		IsActive:              true,
		Notes:                 models.StringPtr(utils.SanitizeString(in.Notes)),
	}
	if in.IsActive != nil {
		rate.IsActive = *in.IsActive
	}

	if err := ValidateShippingRate(rate); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, rate); err != nil {
		return nil, fmt.Errorf("create shipping rate: %w", err)
	}

	utils.LogInfo("Created shipping rate %d (%s)", rate.ID, rate.Kind())
	s.publish(ctx, events.RateCreated, rate.ID, rate)
	return rate, nil
}

// Update applies a partial update to an existing rate
func (s *ShippingRateService) Update(ctx context.Context, id uint, in ShippingRateUpdate) (*models.ShippingRate, error) {
	rate, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := applyUpdate(rate, in); err != nil {
		return nil, err
	}
	if err := ValidateShippingRate(rate); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, rate); err != nil {
		return nil, fmt.Errorf("update shipping rate %d: %w", id, err)
	}

	utils.LogInfo("Updated shipping rate %d", rate.ID)
	s.publish(ctx, events.RateUpdated, rate.ID, rate)
	return rate, nil
}

// SetActive enables or disables a rate
func (s *ShippingRateService) SetActive(ctx context.Context, id uint, active bool) (*models.ShippingRate, error) {
	return s.Update(ctx, id, ShippingRateUpdate{IsActive: &active})
}

// Toggle flips a rate's active flag
func (s *ShippingRateService) Toggle(ctx context.Context, id uint) (*models.ShippingRate, error) {
	rate, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.SetActive(ctx, id, !rate.IsActive)
}

// Delete removes a rate
func (s *ShippingRateService) Delete(ctx context.Context, id uint) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRateNotFound
	}
	if err != nil {
		return fmt.Errorf("delete shipping rate %d: %w", id, err)
	}

	utils.LogInfo("Deleted shipping rate %d", id)
	s.publish(ctx, events.RateDeleted, id, nil)
	return nil
}

func (s *ShippingRateService) publish(ctx context.Context, eventType events.EventType, id uint, rate *models.ShippingRate) {
	event := events.RateEvent{Type: eventType, RateID: id, Rate: rate, OccurredAt: s.now().UTC()}
	if err := s.publisher.Publish(ctx, event); err != nil {
		utils.LogError("Failed to publish %s: %v", event.Key(), err)
	}
}

func applyUpdate(rate *models.ShippingRate, in ShippingRateUpdate) error {
	if in.Name != nil {
		rate.Name = utils.SanitizeString(*in.Name)
	}
	if in.Pincode != nil {
		rate.Pincode = models.StringPtr(strings.TrimSpace(*in.Pincode))
	}
	if in.PincodePrefix != nil {
		rate.PincodePrefix = models.StringPtr(strings.TrimSpace(*in.PincodePrefix))
	}
	if in.Zone != nil {
		rate.Zone = models.StringPtr(strings.TrimSpace(*in.Zone))
	}
	if in.BaseCost != nil {
		rate.BaseCost = *in.BaseCost
	}
	if in.Surcharge != nil {
		rate.Surcharge = *in.Surcharge
	}
	if in.FreeShippingThreshold != nil {
		rate.FreeShippingThreshold = decimal.NewNullDecimal(*in.FreeShippingThreshold)
	}
	if in.EstimatedDeliveryMin != nil {
		rate.EstimatedDeliveryMin = in.EstimatedDeliveryMin
	}
	if in.EstimatedDeliveryMax != nil {
		rate.EstimatedDeliveryMax = in.EstimatedDeliveryMax
	}
	if in.IsActive != nil {
		rate.IsActive = *in.IsActive
	}
	if in.Notes != nil {
		rate.Notes = models.StringPtr(utils.SanitizeString(*in.Notes))
	}

	var errs utils.FieldValidationErrors
	for _, field := range in.Clear {
		switch field {
		case "free_shipping_threshold":
			rate.FreeShippingThreshold = decimal.NullDecimal{}
		case "estimated_delivery_min":
			rate.EstimatedDeliveryMin = nil
		case "estimated_delivery_max":
			rate.EstimatedDeliveryMax = nil
		default:
			errs.Add("clear", fmt.Sprintf("field %q cannot be cleared", field))
		}
	}
	return errs.Err()
}

// ValidateShippingRate checks a rate before it is written. A rate may carry
// a pincode or a prefix, not both.
func ValidateShippingRate(rate *models.ShippingRate) error {
	var errs utils.FieldValidationErrors

	if len(rate.Name) > utils.MaxNameLength {
		errs.Add("name", fmt.Sprintf("must not exceed %d characters", utils.MaxNameLength))
	}
	if rate.Pincode != nil {
		if ok, msg := utils.ValidatePincode(*rate.Pincode); !ok {
			errs.Add("pincode", msg)
		}
	}
	if rate.PincodePrefix != nil {
		if ok, msg := utils.ValidatePincode(*rate.PincodePrefix); !ok {
			errs.Add("pincode_prefix", msg)
		}
	}
	if rate.Pincode != nil && rate.PincodePrefix != nil {
		errs.Add("pincode_prefix", "cannot be set together with pincode")
	}
	if rate.Zone != nil && len(*rate.Zone) > utils.MaxZoneLength {
		errs.Add("zone", fmt.Sprintf("must not exceed %d characters", utils.MaxZoneLength))
	}
	if rate.BaseCost.IsNegative() {
		errs.Add("base_cost", "must not be negative")
	}
	if rate.Surcharge.IsNegative() {
		errs.Add("surcharge", "must not be negative")
	}
	if rate.FreeShippingThreshold.Valid && rate.FreeShippingThreshold.Decimal.IsNegative() {
		errs.Add("free_shipping_threshold", "must not be negative")
	}
	if rate.EstimatedDeliveryMin != nil && *rate.EstimatedDeliveryMin < 0 {
		errs.Add("estimated_delivery_min", "must not be negative")
	}
	if rate.EstimatedDeliveryMax != nil && *rate.EstimatedDeliveryMax < 0 {
		errs.Add("estimated_delivery_max", "must not be negative")
	}
	if rate.EstimatedDeliveryMin != nil && rate.EstimatedDeliveryMax != nil &&
		*rate.EstimatedDeliveryMin > *rate.EstimatedDeliveryMax {
		errs.Add("estimated_delivery_max", "must not be less than estimated_delivery_min")
	}
	if rate.Notes != nil && len(*rate.Notes) > utils.MaxNotesLength {
		errs.Add("notes", fmt.Sprintf("must not exceed %d characters", utils.MaxNotesLength))
	}

	return errs.Err()
}
