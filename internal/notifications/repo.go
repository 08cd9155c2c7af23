package notifications

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/babydeals-backend/pkg/db/models"
)

// DeliveryRepository records emails accepted by the provider, one per
// outbox event.
type DeliveryRepository struct {
	db *gorm.DB
}

func NewDeliveryRepository(db *gorm.DB) *DeliveryRepository {
	return &DeliveryRepository{db: db}
}

func (r *DeliveryRepository) ExistsTx(tx *gorm.DB, eventID uuid.UUID) (bool, error) {
	if tx == nil {
		return false, errors.New("transaction required")
	}
	var count int64
	err := tx.Model(&models.EmailDelivery{}).
		Where("outbox_event_id = ?", eventID).
		Count(&count).Error
	return count > 0, err
}

func (r *DeliveryRepository) InsertTx(tx *gorm.DB, delivery models.EmailDelivery) error {
	if tx == nil {
		return errors.New("transaction required")
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "outbox_event_id"}},
		DoNothing: true,
	}).Create(&delivery).Error
}
