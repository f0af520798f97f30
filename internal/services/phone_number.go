package services

import (
	"errors"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/errwatch/errwatch/internal/models"
	"github.com/errwatch/errwatch/pkg/response"
)

var e164Pattern = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)

// PhoneNumberService manages SMS recipient numbers. The "at most one
// primary per user" invariant is enforced inside transactions: demote and
// promote always commit together, so the dispatcher never sees zero or two
// primaries.
type PhoneNumberService struct {
	db *gorm.DB
}

func NewPhoneNumberService(db *gorm.DB) *PhoneNumberService {
	return &PhoneNumberService{db: db}
}

// List returns the user's numbers, primary first.
func (s *PhoneNumberService) List(userID uint) ([]models.PhoneNumber, error) {
	var numbers []models.PhoneNumber
	err := s.db.Where("user_id = ?", userID).
		Order("is_primary DESC, updated_at DESC").
		Find(&numbers).Error
	if err != nil {
		return nil, response.NewServerErrorWithDetails("failed to list phone numbers", err.Error())
	}
	return numbers, nil
}

// Create adds a number. The user's first number always becomes primary;
// an explicit primary request demotes the previous primary in the same
// transaction.
func (s *PhoneNumberService) Create(userID uint, number, label string, isPrimary bool) (*models.PhoneNumber, error) {
	number = strings.TrimSpace(number)
	if !e164Pattern.MatchString(number) {
		return nil, response.NewBadRequest("number must be in E.164 format")
	}

	phone := models.PhoneNumber{
		UserID: userID,
		Number: number,
		Label:  label,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.PhoneNumber{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return err
		}

		phone.IsPrimary = isPrimary || count == 0
		if phone.IsPrimary {
			if err := demotePrimary(tx, userID); err != nil {
				return err
			}
		}
		return tx.Create(&phone).Error
	})
	if err != nil {
		return nil, response.NewServerErrorWithDetails("failed to create phone number", err.Error())
	}
	return &phone, nil
}

// SetPrimary promotes one of the user's numbers, demoting the current
// primary atomically.
func (s *PhoneNumberService) SetPrimary(userID, phoneID uint) (*models.PhoneNumber, error) {
	var phone models.PhoneNumber

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", phoneID, userID).First(&phone).Error; err != nil {
			return err
		}
		if phone.IsPrimary {
			return nil
		}
		if err := demotePrimary(tx, userID); err != nil {
			return err
		}
		phone.IsPrimary = true
		return tx.Model(&phone).Update("is_primary", true).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("phone number not found")
		}
		return nil, response.NewServerErrorWithDetails("failed to set primary number", err.Error())
	}
	return &phone, nil
}

// Delete removes a number. Deleting the primary promotes the most recently
// updated remaining number within the same transaction, so a user with any
// numbers left always has exactly one primary.
func (s *PhoneNumberService) Delete(userID, phoneID uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var phone models.PhoneNumber
		if err := tx.Where("id = ? AND user_id = ?", phoneID, userID).First(&phone).Error; err != nil {
			return err
		}

		if err := tx.Delete(&phone).Error; err != nil {
			return err
		}

		if phone.IsPrimary {
			var next models.PhoneNumber
			err := tx.Where("user_id = ?", userID).
				Order("updated_at DESC").
				First(&next).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil // last number removed
				}
				return err
			}
			return tx.Model(&next).Update("is_primary", true).Error
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound("phone number not found")
		}
		return response.NewServerErrorWithDetails("failed to delete phone number", err.Error())
	}
	return nil
}

func demotePrimary(tx *gorm.DB, userID uint) error {
	return tx.Model(&models.PhoneNumber{}).
		Where("user_id = ? AND is_primary = ?", userID, true).
		Update("is_primary", false).Error
}
