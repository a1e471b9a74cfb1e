package handler

import (
	"net/http"

	analyze "github.com/wayfinder-ai/wayfinder/internal/handler/analyze"
	chat "github.com/wayfinder-ai/wayfinder/internal/handler/chat"
	detect "github.com/wayfinder-ai/wayfinder/internal/handler/detect"
	health "github.com/wayfinder-ai/wayfinder/internal/handler/health"
	navigate "github.com/wayfinder-ai/wayfinder/internal/handler/navigate"
	quota "github.com/wayfinder-ai/wayfinder/internal/handler/quota"
	service "github.com/wayfinder-ai/wayfinder/internal/handler/service"
	"github.com/wayfinder-ai/wayfinder/internal/svc"

	"github.com/zeromicro/go-zero/rest"
)

func RegisterHandlers(server *rest.Server, serverCtx *svc.ServiceContext) {
	server.AddRoutes(
		[]rest.Route{
			{
				Method:  http.MethodPost,
				Path:    "/api/analyze",
				Handler: analyze.AnalyzeHandler(serverCtx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/api/navigate",
				Handler: navigate.NavigateHandler(serverCtx),
			},
			{
				Method:  http.MethodPost,
				Path:    "/api/detect",
				Handler: detect.DetectHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/quota",
				Handler: quota.QuotaHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/health",
				Handler: health.HealthHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/services",
				Handler: service.GetServicesHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/api/services/:type",
				Handler: service.GetServicesByTypeHandler(serverCtx),
			},
			{
				Method:  http.MethodGet,
				Path:    "/ws/chat",
				Handler: chat.ChatStreamHandler(serverCtx),
			},
		},
	)
}
