package navigate

import (
	"errors"
	"io"
	"net/http"

	logic "github.com/wayfinder-ai/wayfinder/internal/logic/navigate"
	"github.com/wayfinder-ai/wayfinder/internal/svc"
	"github.com/wayfinder-ai/wayfinder/internal/types"

	"github.com/zeromicro/go-zero/rest/httpx"
)

const maxMultipartMemory = 32 << 20

func NavigateHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			httpx.WriteJson(w, http.StatusBadRequest, types.ErrorResponse{Message: "invalid multipart form"})
			return
		}

		req := &types.NavigateRequest{
			Text:       r.FormValue("text"),
			SessionID:  r.FormValue("session_id"),
			CurrentLat: r.FormValue("current_lat"),
			CurrentLon: r.FormValue("current_lon"),
		}
		if req.SessionID == "" {
			req.SessionID = "anonymous"
		}

		if file, _, err := r.FormFile("audio"); err == nil {
			req.Audio, _ = io.ReadAll(file)
			file.Close()
		}

		resp, err := logic.NewNavigateLogic(r.Context(), svcCtx).Navigate(req)
		if err != nil {
			if errors.Is(err, logic.ErrNoInput) {
				httpx.WriteJson(w, http.StatusBadRequest, types.ErrorResponse{Message: "No input provided"})
				return
			}
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, resp)
	}
}
