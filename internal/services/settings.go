package services

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"gorm.io/gorm"

	"depot_tracker/internal/auth"
	"depot_tracker/internal/models"
)

const settingsCacheTTL = 5 * time.Minute

type cachedSetting struct {
	value    string
	cachedAt time.Time
}

// SettingsService reads and mutates process-wide configuration. Reads go
// through a per-key in-memory cache with a TTL; a write invalidates only its
// own key. Under horizontal scaling other processes serve stale values for up
// to one TTL, which is acceptable for this domain.
type SettingsService struct {
	DB  *gorm.DB
	TTL time.Duration
	Now func() time.Time

	mu    sync.Mutex
	cache map[string]cachedSetting
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{
		DB:    db,
		TTL:   settingsCacheTTL,
		Now:   time.Now,
		cache: make(map[string]cachedSetting),
	}
}

// Get returns the setting value, serving from cache inside the TTL.
func (s *SettingsService) Get(key string) (string, error) {
	now := s.Now()

	s.mu.Lock()
	if cached, ok := s.cache[key]; ok && now.Sub(cached.cachedAt) < s.TTL {
		s.mu.Unlock()
		return cached.value, nil
	}
	s.mu.Unlock()

	var setting models.SystemSetting
	if err := s.DB.Where("key = ?", key).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: setting %s", ErrNotFound, key)
		}
		return "", err
	}

	s.mu.Lock()
	s.cache[key] = cachedSetting{value: setting.Value, cachedAt: now}
	s.mu.Unlock()
	return setting.Value, nil
}

// GetInt parses the setting as a base-10 integer.
func (s *SettingsService) GetInt(key string) (int, error) {
	value, err := s.Get(key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: setting %s is not a valid number", ErrValidation, key)
	}
	return n, nil
}

// Invalidate drops one key from the cache.
func (s *SettingsService) Invalidate(key string) {
	s.mu.Lock()
	delete(s.cache, key)
	s.mu.Unlock()
}

func (s *SettingsService) List() ([]models.SystemSetting, error) {
	var settings []models.SystemSetting
	err := s.DB.Order("key ASC").Find(&settings).Error
	return settings, err
}

type CreateSettingInput struct {
	Key         string `json:"key" binding:"required"`
	Value       string `json:"value" binding:"required"`
	Description string `json:"description"`
}

func (s *SettingsService) Create(actor auth.Actor, in CreateSettingInput) (*models.SystemSetting, error) {
	var existing models.SystemSetting
	err := s.DB.Where("key = ?", in.Key).First(&existing).Error
	if err == nil {
		return nil, fmt.Errorf("%w: setting %s already exists", ErrConflict, in.Key)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	setting := models.SystemSetting{
		Key:         in.Key,
		Value:       in.Value,
		Description: in.Description,
		UpdatedBy:   actor.Email,
	}
	if err := s.DB.Create(&setting).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

type UpdateSettingInput struct {
	Value       string `json:"value" binding:"required"`
	Description string `json:"description"`
}

func (s *SettingsService) Update(actor auth.Actor, key string, in UpdateSettingInput) (*models.SystemSetting, error) {
	var setting models.SystemSetting
	if err := s.DB.Where("key = ?", key).First(&setting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: setting %s", ErrNotFound, key)
		}
		return nil, err
	}

	setting.Value = in.Value
	if in.Description != "" {
		setting.Description = in.Description
	}
	setting.UpdatedBy = actor.Email
	if err := s.DB.Save(&setting).Error; err != nil {
		return nil, err
	}

	s.Invalidate(key)
	return &setting, nil
}
