package detect

import (
	"io"
	"net/http"

	logic "github.com/wayfinder-ai/wayfinder/internal/logic/detect"
	"github.com/wayfinder-ai/wayfinder/internal/svc"
	"github.com/wayfinder-ai/wayfinder/internal/types"

	"github.com/zeromicro/go-zero/rest/httpx"
)

const maxMultipartMemory = 32 << 20

func DetectHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			httpx.WriteJson(w, http.StatusBadRequest, types.ErrorResponse{Message: "Нет изображения"})
			return
		}

		file, _, err := r.FormFile("image")
		if err != nil {
			httpx.WriteJson(w, http.StatusBadRequest, types.ErrorResponse{Message: "Нет изображения"})
			return
		}
		image, err := io.ReadAll(file)
		file.Close()
		if err != nil || len(image) == 0 {
			httpx.WriteJson(w, http.StatusBadRequest, types.ErrorResponse{Message: "Ошибка обработки изображения"})
			return
		}

		resp, err := logic.NewDetectLogic(r.Context(), svcCtx).Detect(image)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, resp)
	}
}
