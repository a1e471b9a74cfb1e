package types

// AnalyzeRequest is the parsed multipart payload for /api/analyze and the
// websocket chat loop.
type AnalyzeRequest struct {
	Image     []byte
	Audio     []byte
	Text      string
	SessionID string
	UserID    string
	Mode      string // chat|navigator
}

// AnalyzeResponse is the pipeline output. Audio is base64 and null whenever
// synthesis produced no bytes.
type AnalyzeResponse struct {
	Message     string  `json:"message"`
	Audio       *string `json:"audio"`
	DebugVisual string  `json:"debug_visual,omitempty"`
}

// ErrorResponse is the body of 400/503 replies.
type ErrorResponse struct {
	Message string `json:"message"`
}

// QuotaRejection is the 429 body.
type QuotaRejection struct {
	Message          string `json:"message"`
	SubscriptionType string `json:"subscription_type"`
	UpgradeMessage   string `json:"upgrade_message"`
}

// NavigateRequest is the parsed payload for /api/navigate.
type NavigateRequest struct {
	Audio      []byte
	Text       string
	SessionID  string
	CurrentLat string
	CurrentLon string
}

type NavigateResponse struct {
	Message     string  `json:"message"`
	Audio       *string `json:"audio"`
	Destination *string `json:"destination"`
	Action      string  `json:"action,omitempty"`
}

type DetectResponse struct {
	Message string `json:"message"`
}

type QuotaResponse struct {
	CanMakeRequest    bool   `json:"can_make_request"`
	SubscriptionType  string `json:"subscription_type"`
	DailyLimit        int    `json:"daily_limit"`
	RequestsUsed      int    `json:"requests_used"`
	RequestsRemaining int    `json:"requests_remaining"`
	TotalRequests     int    `json:"total_requests"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type ProviderInfo struct {
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Status       string   `json:"status"`
	Capabilities []string `json:"capabilities,omitempty"`
}

type ServiceListResponse struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    []ProviderInfo `json:"data"`
}
