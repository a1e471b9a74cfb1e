package health

import (
	"net/http"

	logic "github.com/wayfinder-ai/wayfinder/internal/logic/health"
	"github.com/wayfinder-ai/wayfinder/internal/svc"

	"github.com/zeromicro/go-zero/rest/httpx"
)

func HealthHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := logic.NewHealthLogic(r.Context(), svcCtx).Health()
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, resp)
	}
}
