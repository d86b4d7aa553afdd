package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/talkincode/smartpos/internal/domain"
	"github.com/talkincode/smartpos/internal/pos"
	"github.com/talkincode/smartpos/pkg/common"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// ReportSettings is the report category of sys_config.
type ReportSettings struct {
	Enabled    bool   `mapstructure:"enabled"`
	SmtpHost   string `mapstructure:"smtp_host"`
	SmtpPort   int    `mapstructure:"smtp_port"`
	SmtpUser   string `mapstructure:"smtp_user"`
	SmtpPasswd string `mapstructure:"smtp_passwd"`
	MailFrom   string `mapstructure:"mail_from"`
	MailTo     string `mapstructure:"mail_to"`
}

// SchedDailyReportTask mails a summary of today's sales. Misconfigured
// or disabled reporting is silently skipped.
func (a *Application) SchedDailyReportTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	var settings ReportSettings
	if err := a.configManager.GetStruct("report", &settings); err != nil {
		zap.L().Error("daily report: read settings failed", zap.Error(err))
		return
	}
	if !settings.Enabled || settings.SmtpHost == "" || settings.MailTo == "" {
		return
	}

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	sales, total, err := a.ledger.List(0, 0, dayStart, now)
	if err != nil {
		zap.L().Error("daily report: load sales failed", zap.Error(err))
		return
	}

	body := a.buildDailyReportBody(sales, now)
	subject := fmt.Sprintf("[%s] Báo cáo bán hàng ngày %s",
		a.GetSettingsStringValue("pos", "store_name"), common.FormatVNDate(now))

	msg := gomail.NewMessage()
	msg.SetHeader("From", settings.MailFrom)
	msg.SetHeader("To", settings.MailTo)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	dialer := gomail.NewDialer(settings.SmtpHost, settings.SmtpPort, settings.SmtpUser, settings.SmtpPasswd)
	if err := dialer.DialAndSend(msg); err != nil {
		zap.L().Error("daily report: send failed", zap.Error(err))
		return
	}
	zap.L().Info("daily report sent", zap.Int64("orders", total), zap.String("to", settings.MailTo))
}

func (a *Application) buildDailyReportBody(sales []domain.SaleRecord, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Báo cáo ngày %s\n\n", common.FormatVNDate(now))
	if len(sales) == 0 {
		b.WriteString("Không có đơn hàng nào trong ngày.\n")
		return b.String()
	}

	revenue := pos.TotalRevenue(sales)
	fmt.Fprintf(&b, "Số đơn: %d\n", len(sales))
	fmt.Fprintf(&b, "Doanh thu: %s\n\n", common.FormatVND(revenue))

	for _, item := range pos.TopItems(sales, 5) {
		fmt.Fprintf(&b, "- %s: %d\n", item.Name, item.Count)
	}
	return b.String()
}
