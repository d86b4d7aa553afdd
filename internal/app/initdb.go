package app

import (
	_ "embed"
	"errors"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/talkincode/smartpos/internal/domain"
	"github.com/talkincode/smartpos/pkg/common"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

//go:embed config_schemas.json
var configSchemasData []byte

// ConfigSchema describes one settings entry seeded into sys_config.
type ConfigSchema struct {
	Key         string `json:"key"`
	Default     string `json:"default"`
	Description string `json:"description"`
}

type ConfigSchemasJSON struct {
	Schemas []ConfigSchema `json:"schemas"`
}

func (a *Application) checkSuper() {
	const superUsername = "admin"
	const defaultPassword = "smartpos"

	hashed, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
	if err != nil {
		zap.L().Error("failed to hash default password", zap.Error(err))
		return
	}

	var operator domain.SysOpr
	err = a.gormDB.Where("username = ?", superUsername).First(&operator).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := a.gormDB.Create(&domain.SysOpr{
			ID:        common.UUIDint64(),
			Realname:  "administrator",
			Email:     "N/A",
			Username:  superUsername,
			Password:  string(hashed),
			Level:     "super",
			Status:    common.ENABLED,
			Remark:    "super",
			LastLogin: time.Now(),
		}).Error; err != nil {
			zap.L().Error("failed to create default super admin", zap.Error(err))
		} else {
			zap.L().Info("initialized default super admin account", zap.String("username", superUsername))
		}
		return
	case err != nil:
		zap.L().Error("failed to query super admin", zap.Error(err))
		return
	}

	resetPassword := strings.TrimSpace(operator.Password) == ""
	resetLevel := !strings.EqualFold(operator.Level, "super")
	resetStatus := !strings.EqualFold(operator.Status, common.ENABLED)

	if !resetPassword && !resetLevel && !resetStatus {
		return
	}

	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if resetPassword {
		updates["password"] = string(hashed)
	}
	if resetLevel {
		updates["level"] = "super"
	}
	if resetStatus {
		updates["status"] = common.ENABLED
	}

	if err := a.gormDB.Model(&domain.SysOpr{}).Where("id = ?", operator.ID).Updates(updates).Error; err != nil {
		zap.L().Error("failed to repair super admin account", zap.Error(err))
		return
	}

	zap.L().Warn("repaired default super admin account",
		zap.String("username", superUsername),
		zap.Bool("passwordReset", resetPassword),
		zap.Bool("levelReset", resetLevel),
		zap.Bool("statusEnabled", resetStatus))
}

func (a *Application) checkSettings() {
	// Load configuration definitions from the embedded JSON file
	var schemasData ConfigSchemasJSON
	if err := jsoniter.Unmarshal(configSchemasData, &schemasData); err != nil {
		zap.L().Error("failed to load config schemas from JSON", zap.Error(err))
		return
	}

	// Iterate over all configuration definitions, checking and initializing missing entries
	for sortid, schema := range schemasData.Schemas {
		// Parse key: "category.name" -> category, name
		parts := strings.SplitN(schema.Key, ".", 2)
		if len(parts) != 2 {
			zap.L().Warn("invalid config key format", zap.String("key", schema.Key))
			continue
		}

		category := parts[0]
		name := parts[1]

		// Check whether the configuration already exists
		var count int64
		a.gormDB.Model(&domain.SysConfig{}).
			Where("type = ? and name = ?", category, name).
			Count(&count)

		// e.g., if the configuration does not exist, create the default configuration
		if count == 0 {
			a.gormDB.Create(&domain.SysConfig{
				ID:     common.UUIDint64(),
				Sort:   sortid,
				Type:   category,
				Name:   name,
				Value:  schema.Default,
				Remark: schema.Description,
			})
			zap.L().Info("initialized config",
				zap.String("key", schema.Key),
				zap.String("default", schema.Default))
		}
	}
}

// checkMenu seeds the starter menu so a fresh install can ring up a
// sale immediately. Runs only when the menu table is empty, so operator
// edits and deletions are never resurrected.
func (a *Application) checkMenu() {
	var count int64
	if err := a.gormDB.Model(&domain.MenuItem{}).Count(&count).Error; err != nil {
		zap.L().Error("failed to count menu items", zap.Error(err))
		return
	}
	if count > 0 {
		return
	}

	seed := []domain.MenuItem{
		{Name: "Cà phê Đen", Price: 20000, Category: "Cà phê", Image: "https://picsum.photos/id/1060/200/200"},
		{Name: "Cà phê Sữa", Price: 25000, Category: "Cà phê", Image: "https://picsum.photos/id/766/200/200"},
		{Name: "Bạc Xỉu", Price: 28000, Category: "Cà phê", Image: "https://picsum.photos/id/425/200/200"},
		{Name: "Trà Đào Cam Sả", Price: 35000, Category: "Trà", Image: "https://picsum.photos/id/431/200/200"},
		{Name: "Trà Vải", Price: 35000, Category: "Trà", Image: "https://picsum.photos/id/493/200/200"},
		{Name: "Nước Cam Ép", Price: 30000, Category: "Nước ép", Image: "https://picsum.photos/id/292/200/200"},
		{Name: "Sữa Chua Trái Cây", Price: 32000, Category: "Sữa chua", Image: "https://picsum.photos/id/312/200/200"},
		{Name: "Bánh Mì Patê", Price: 25000, Category: "Đồ ăn", Image: "https://picsum.photos/id/447/200/200"},
	}
	for i := range seed {
		seed[i].ID = common.UUIDint64()
	}
	if err := a.gormDB.Create(&seed).Error; err != nil {
		zap.L().Error("failed to seed menu", zap.Error(err))
		return
	}
	zap.L().Info("initialized starter menu", zap.Int("items", len(seed)))
}
