package app

import (
	"fmt"
	"strings"
	gosync "sync"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"
	"github.com/talkincode/smartpos/internal/domain"
	"github.com/talkincode/smartpos/pkg/common"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const configCacheTTL = 30 * time.Second

type cachedValue struct {
	value    string
	loadedAt time.Time
}

// ConfigManager reads and writes sys_config entries with a short
// read-through cache. Values are stored as strings and cast on access.
type ConfigManager struct {
	app   *Application
	mu    gosync.RWMutex
	cache map[string]cachedValue
}

func NewConfigManager(app *Application) *ConfigManager {
	return &ConfigManager{app: app, cache: make(map[string]cachedValue)}
}

func (m *ConfigManager) GetString(category, name string) string {
	key := category + "." + name
	m.mu.RLock()
	cv, ok := m.cache[key]
	m.mu.RUnlock()
	if ok && time.Since(cv.loadedAt) < configCacheTTL {
		return cv.value
	}

	var cfg domain.SysConfig
	err := m.app.DB().Where("type = ? and name = ?", category, name).First(&cfg).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			zap.L().Error("read config failed", zap.String("key", key), zap.Error(err))
		}
		return ""
	}

	m.mu.Lock()
	m.cache[key] = cachedValue{value: cfg.Value, loadedAt: time.Now()}
	m.mu.Unlock()
	return cfg.Value
}

func (m *ConfigManager) GetInt(category, name string) int {
	return cast.ToInt(m.GetString(category, name))
}

func (m *ConfigManager) GetInt64(category, name string) int64 {
	return cast.ToInt64(m.GetString(category, name))
}

func (m *ConfigManager) GetBool(category, name string) bool {
	return cast.ToBool(m.GetString(category, name))
}

// SetValue upserts one sys_config entry and refreshes the cache.
func (m *ConfigManager) SetValue(category, name, value string) error {
	var cfg domain.SysConfig
	err := m.app.DB().Where("type = ? and name = ?", category, name).First(&cfg).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		err = m.app.DB().Create(&domain.SysConfig{
			ID:    common.UUIDint64(),
			Type:  category,
			Name:  name,
			Value: value,
		}).Error
	case err == nil:
		err = m.app.DB().Model(&domain.SysConfig{}).
			Where("id = ?", cfg.ID).
			Updates(map[string]interface{}{"value": value, "updated_at": time.Now()}).Error
	}
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.cache[category+"."+name] = cachedValue{value: value, loadedAt: time.Now()}
	m.mu.Unlock()
	return nil
}

// SaveSettings writes a batch of "category.name" keyed values.
func (m *ConfigManager) SaveSettings(settings map[string]interface{}) error {
	for key, val := range settings {
		parts := strings.SplitN(key, ".", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid settings key %q", key)
		}
		if err := m.SetValue(parts[0], parts[1], cast.ToString(val)); err != nil {
			return err
		}
	}
	return nil
}

// GetStruct decodes every entry of one category into a tagged struct,
// matching on the mapstructure field tags.
func (m *ConfigManager) GetStruct(category string, out interface{}) error {
	var rows []domain.SysConfig
	if err := m.app.DB().Where("type = ?", category).Find(&rows).Error; err != nil {
		return err
	}
	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.Name] = row.Value
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(values)
}
