package quota

import (
	"context"
	"errors"

	quotaguard "github.com/wayfinder-ai/wayfinder/internal/quota"
	"github.com/wayfinder-ai/wayfinder/internal/svc"
	"github.com/wayfinder-ai/wayfinder/internal/types"

	"github.com/zeromicro/go-zero/core/logx"
)

type QuotaLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewQuotaLogic(ctx context.Context, svcCtx *svc.ServiceContext) *QuotaLogic {
	return &QuotaLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

// Quota reports current usage for a user. Check runs first so a stale daily
// counter is rolled over before being reported.
func (l *QuotaLogic) Quota(userID string) (*types.QuotaResponse, error) {
	user, err := l.svcCtx.Store.GetOrCreateUser(l.ctx, userID)
	if err != nil {
		return nil, err
	}

	canRequest := true
	if err := l.svcCtx.Quota.Check(l.ctx, user); err != nil {
		var limitErr *quotaguard.LimitError
		if !errors.As(err, &limitErr) {
			return nil, err
		}
		canRequest = false
	}

	return &types.QuotaResponse{
		CanMakeRequest:    canRequest,
		SubscriptionType:  user.SubscriptionType,
		DailyLimit:        quotaguard.TierLimit(user.SubscriptionType),
		RequestsUsed:      user.DailyRequests,
		RequestsRemaining: l.svcCtx.Quota.Remaining(user),
		TotalRequests:     user.TotalRequests,
	}, nil
}
