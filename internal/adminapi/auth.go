package adminapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/smartpos/internal/domain"
	"github.com/talkincode/smartpos/internal/webserver"
	"github.com/talkincode/smartpos/pkg/common"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type loginPayload struct {
	Username string `json:"username" validate:"required,min=1,max=64"`
	Password string `json:"password" validate:"required,min=1,max=128"`
}

func registerAuthRoutes() {
	webserver.ApiPOST("/login", login)
}

func login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse credentials", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	var opr domain.SysOpr
	err := GetDB(c).Where("username = ? and status = ?", payload.Username, common.ENABLED).First(&opr).Error
	if err != nil {
		return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid username or password", nil)
	}
	if bcrypt.CompareHashAndPassword([]byte(opr.Password), []byte(payload.Password)) != nil {
		return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid username or password", nil)
	}

	token, err := webserver.Instance().GenerateToken(opr.Username, opr.Level)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to issue token", err.Error())
	}

	db := GetDB(c)
	db.Model(&domain.SysOpr{}).Where("id = ?", opr.ID).Update("last_login", time.Now())
	db.Create(&domain.SysOprLog{
		ID:        common.UUIDint64(),
		OprName:   opr.Username,
		OprIp:     c.RealIP(),
		OptAction: "login",
		OptDesc:   "operator login",
		OptTime:   time.Now(),
	})

	zap.L().Info("operator login", zap.String("username", opr.Username), zap.String("ip", c.RealIP()))
	return ok(c, map[string]interface{}{
		"token":    token,
		"username": opr.Username,
		"level":    opr.Level,
	})
}
