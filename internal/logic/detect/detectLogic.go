package detect

import (
	"context"
	"strings"

	"github.com/wayfinder-ai/wayfinder/internal/perception"
	"github.com/wayfinder-ai/wayfinder/internal/svc"
	"github.com/wayfinder-ai/wayfinder/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type DetectLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewDetectLogic(ctx context.Context, svcCtx *svc.ServiceContext) *DetectLogic {
	return &DetectLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// Detect is the standalone obstacle announcement: normalize, detect,
// localize, one spoken-style line.
func (l *DetectLogic) Detect(image []byte) (*types.DetectResponse, error) {
	result := l.svcCtx.Perception.Run(l.ctx, &perception.Request{
		Image: image,
		Mode:  perception.ModeNavigator,
	})

	message := "Путь свободен"
	if len(result.Objects) > 0 {
		message = "Впереди: " + strings.Join(result.Objects, ", ")
	}
	return &types.DetectResponse{Message: message}, nil
}
