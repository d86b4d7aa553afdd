// Package insight asks a generative language model for a short business
// read of the sales ledger. The model reply is passed through verbatim;
// every failure mode collapses to a fixed Vietnamese notice so the
// dashboard always has something to show.
package insight

import (
	"fmt"
	"strings"
	"time"

	"github.com/guonaihong/gout"
	jsoniter "github.com/json-iterator/go"
	"github.com/talkincode/smartpos/internal/domain"
	"github.com/talkincode/smartpos/pkg/common"
	"go.uber.org/zap"
)

const (
	// Fixed notices shown instead of model output.
	MsgNoData     = "Chưa có dữ liệu bán hàng để phân tích."
	MsgConnectErr = "Đã xảy ra lỗi khi kết nối với trí tuệ nhân tạo AI."
	MsgEmptyReply = "Không thể lấy phân tích vào lúc này."

	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-2.5-flash"

	requestTimeout = 30 * time.Second
)

// Settings is the slice of application settings the adapter reads.
type Settings interface {
	GetSettingsStringValue(category, key string) string
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// saleView is the reduced per-sale shape serialized into the prompt.
// Only what the analysis needs, nothing identifying.
type saleView struct {
	Time  string `json:"time"`
	Total int64  `json:"total"`
	Items string `json:"items"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Service is the AI insight adapter.
type Service struct {
	settings Settings
	baseURL  string
}

func New(settings Settings) *Service {
	return &Service{settings: settings, baseURL: defaultBaseURL}
}

// NewWithBaseURL exists for tests pointing at a local server.
func NewWithBaseURL(settings Settings, baseURL string) *Service {
	return &Service{settings: settings, baseURL: baseURL}
}

// Summarize produces the dashboard insight text for the given ledger.
// The error return is always nil by contract; failures become one of
// the fixed notices.
func (s *Service) Summarize(sales []domain.SaleRecord) string {
	if len(sales) == 0 {
		return MsgNoData
	}

	prompt, err := BuildPrompt(sales)
	if err != nil {
		zap.L().Error("insight: build prompt failed", zap.Error(err))
		return MsgConnectErr
	}

	text, err := s.generate(prompt)
	if err != nil {
		zap.L().Error("insight: model call failed", zap.Error(err))
		return MsgConnectErr
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return MsgEmptyReply
	}
	return text
}

// BuildPrompt reduces the ledger to the compact JSON the prompt embeds
// and wraps it with the analysis instructions.
func BuildPrompt(sales []domain.SaleRecord) (string, error) {
	views := make([]saleView, 0, len(sales))
	for _, s := range sales {
		parts := make([]string, 0, len(s.Items))
		for _, it := range s.Items {
			parts = append(parts, fmt.Sprintf("%s x%d", it.Name, it.Quantity))
		}
		views = append(views, saleView{
			Time:  common.FormatVNDateTime(s.Timestamp),
			Total: s.TotalAmount,
			Items: strings.Join(parts, ", "),
		})
	}
	data, err := json.MarshalToString(views)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Dưới đây là dữ liệu bán hàng của một cửa hàng nhỏ (định dạng JSON):\n")
	b.WriteString(data)
	b.WriteString("\n\nHãy phân tích ngắn gọn bằng tiếng Việt: ")
	b.WriteString("1. Mặt hàng nào bán chạy nhất? ")
	b.WriteString("2. Khung giờ nào đông khách nhất? ")
	b.WriteString("3. Một lời khuyên để tăng doanh thu. ")
	b.WriteString("Trả lời ngắn gọn, thân thiện, dùng gạch đầu dòng.")
	return b.String(), nil
}

func (s *Service) generate(prompt string) (string, error) {
	apiKey := s.settings.GetSettingsStringValue("insight", "api_key")
	if apiKey == "" {
		return "", fmt.Errorf("api key not configured")
	}
	model := s.settings.GetSettingsStringValue("insight", "model")
	if model == "" {
		model = defaultModel
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", s.baseURL, model)
	var resp generateResponse
	var code int
	err := gout.POST(url).
		SetHeader(gout.H{"x-goog-api-key": apiKey}).
		SetJSON(generateRequest{
			Contents: []content{{Parts: []part{{Text: prompt}}}},
		}).
		SetTimeout(requestTimeout).
		BindJSON(&resp).
		Code(&code).
		Do()
	if err != nil {
		return "", err
	}
	if code != 200 {
		return "", fmt.Errorf("model endpoint returned status %d", code)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
