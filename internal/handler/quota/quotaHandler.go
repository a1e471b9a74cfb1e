package quota

import (
	"net/http"

	logic "github.com/wayfinder-ai/wayfinder/internal/logic/quota"
	"github.com/wayfinder-ai/wayfinder/internal/svc"

	"github.com/zeromicro/go-zero/rest/httpx"
)

func QuotaHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("user_id")
		if userID == "" {
			userID = "anonymous"
		}

		resp, err := logic.NewQuotaLogic(r.Context(), svcCtx).Quota(userID)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, resp)
	}
}
