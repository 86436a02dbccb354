package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kiennt169/quiz-core-go/internal/models"
	"github.com/kiennt169/quiz-core-go/internal/modules/auth"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// failedLoginDelay slows responses for bad credentials to the same pace for
// unknown emails and wrong passwords.
const failedLoginDelay = 500 * time.Millisecond

// Service is the gorm-backed account store; it implements auth.UserStore.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

var _ auth.UserStore = (*Service)(nil)

// Authenticate verifies email+password against the stored bcrypt hash.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.UserModel, error) {
	var u models.UserModel
	err := s.db.WithContext(ctx).Where("email = ? AND active = ?", normalizeEmail(email), true).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		time.Sleep(failedLoginDelay)
		return nil, auth.ErrCredentialInvalid
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		time.Sleep(failedLoginDelay)
		return nil, auth.ErrCredentialInvalid
	}
	return &u, nil
}

// Create registers a new account with the default ROLE_USER role set.
func (s *Service) Create(ctx context.Context, dto *auth.RegisterDTO) (*models.UserModel, error) {
	email := normalizeEmail(dto.Email)

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return nil, auth.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	first := strings.TrimSpace(dto.FirstName)
	last := strings.TrimSpace(dto.LastName)
	u := models.UserModel{
		Email:       email,
		Username:    strings.TrimSpace(dto.Username),
		Password:    string(hash),
		FirstName:   first,
		LastName:    last,
		FullName:    strings.TrimSpace(first + " " + last),
		PhoneNumber: strings.TrimSpace(dto.PhoneNumber),
		Active:      true,
		Roles:       models.StringArray{models.RoleUser},
	}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &u, nil
}

// FindByEmail returns (nil, nil) for an unknown email.
func (s *Service) FindByEmail(ctx context.Context, email string) (*models.UserModel, error) {
	var u models.UserModel
	err := s.db.WithContext(ctx).Where("email = ? AND active = ?", normalizeEmail(email), true).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &u, nil
}

// FindByID loads a profile by user id.
func (s *Service) FindByID(ctx context.Context, id string) (*models.UserModel, error) {
	var u models.UserModel
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &u, nil
}

// UpdateProfile applies the allowed self-service fields.
func (s *Service) UpdateProfile(ctx context.Context, id string, dto *UpdateProfileDTO) (*models.UserModel, error) {
	updates := map[string]interface{}{}
	if dto.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*dto.FirstName)
	}
	if dto.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*dto.LastName)
	}
	if dto.PhoneNumber != nil {
		updates["phone_number"] = strings.TrimSpace(*dto.PhoneNumber)
	}
	if dto.FirstName != nil || dto.LastName != nil {
		u, err := s.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if u == nil {
			return nil, nil
		}
		first, last := u.FirstName, u.LastName
		if dto.FirstName != nil {
			first = strings.TrimSpace(*dto.FirstName)
		}
		if dto.LastName != nil {
			last = strings.TrimSpace(*dto.LastName)
		}
		updates["full_name"] = strings.TrimSpace(first + " " + last)
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&models.UserModel{}).
			Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update profile: %w", err)
		}
	}
	return s.FindByID(ctx, id)
}

// RecordLogin stamps last-login bookkeeping; failures only get logged by
// the caller, a login must not fail over them.
func (s *Service) RecordLogin(ctx context.Context, id, ip string) error {
	now := time.Now()
	return s.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_login_time": &now,
			"last_login_ip":   ip,
		}).Error
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
