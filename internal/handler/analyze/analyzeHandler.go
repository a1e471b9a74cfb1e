package analyze

import (
	"errors"
	"io"
	"net/http"

	logic "github.com/wayfinder-ai/wayfinder/internal/logic/analyze"
	"github.com/wayfinder-ai/wayfinder/internal/perception"
	"github.com/wayfinder-ai/wayfinder/internal/quota"
	"github.com/wayfinder-ai/wayfinder/internal/svc"
	"github.com/wayfinder-ai/wayfinder/internal/types"

	"github.com/zeromicro/go-zero/rest/httpx"
)

// 32 MiB: enough for one image plus a voice clip.
const maxMultipartMemory = 32 << 20

const upgradeMessage = "Дневной лимит запросов исчерпан. Перейдите на Premium для безлимитного доступа."

func AnalyzeHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := parseAnalyzeRequest(r)
		if err != nil {
			httpx.WriteJson(w, http.StatusBadRequest, types.ErrorResponse{Message: err.Error()})
			return
		}

		resp, err := logic.NewAnalyzeLogic(r.Context(), svcCtx).Analyze(req)
		if err != nil {
			writeAnalyzeError(w, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, resp)
	}
}

func parseAnalyzeRequest(r *http.Request) (*types.AnalyzeRequest, error) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return nil, errors.New("invalid multipart form")
	}

	req := &types.AnalyzeRequest{
		Text:      r.FormValue("text"),
		SessionID: r.FormValue("session_id"),
		UserID:    r.FormValue("user_id"),
		Mode:      r.FormValue("mode"),
	}
	if req.SessionID == "" {
		req.SessionID = "anonymous"
	}
	if req.UserID == "" {
		req.UserID = req.SessionID
	}
	if req.Mode == "" {
		req.Mode = perception.ModeChat
	}

	var err error
	if req.Image, err = readFormFile(r, "image"); err != nil {
		return nil, err
	}
	if req.Audio, err = readFormFile(r, "audio"); err != nil {
		return nil, err
	}
	return req, nil
}

func readFormFile(r *http.Request, field string) ([]byte, error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, errors.New("failed to read " + field + " file")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.New("failed to read " + field + " file")
	}
	return data, nil
}

func writeAnalyzeError(w http.ResponseWriter, err error) {
	var limitErr *quota.LimitError
	switch {
	case errors.As(err, &limitErr):
		httpx.WriteJson(w, http.StatusTooManyRequests, types.QuotaRejection{
			Message:          limitErr.Error(),
			SubscriptionType: limitErr.SubscriptionType,
			UpgradeMessage:   upgradeMessage,
		})
	case errors.Is(err, logic.ErrEmptyInput):
		httpx.WriteJson(w, http.StatusBadRequest, types.ErrorResponse{
			Message: "Не удалось распознать запрос.",
		})
	case errors.Is(err, logic.ErrGenerationUnavailable):
		httpx.WriteJson(w, http.StatusServiceUnavailable, types.ErrorResponse{
			Message: "Ошибка: Не найден API ключ (OPENAI_API_KEY).",
		})
	default:
		httpx.WriteJson(w, http.StatusInternalServerError, types.ErrorResponse{
			Message: "internal error",
		})
	}
}
