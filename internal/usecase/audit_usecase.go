package usecase

import (
	"context"
	"time"

	"littlelemon/internal/domain/access"
	"littlelemon/internal/domain/model"
	repo "littlelemon/internal/repository"
)

// 監査ログの参照（管理者のみ）
type AuditUsecase struct {
	logs repo.AuditLogRepository
	inst instruments
}

func NewAuditUsecase(logs repo.AuditLogRepository) *AuditUsecase {
	return &AuditUsecase{logs: logs, inst: newInstruments()}
}

type AuditListInput struct {
	ActorUserID  *int64
	Action       string
	ResourceType string
	ResourceID   *int64
	From         *time.Time
	To           *time.Time
	Limit        int
	Offset       int
}

func (u *AuditUsecase) List(ctx context.Context, p model.Principal, in AuditListInput) ([]model.AuditLog, error) {
	if err := u.inst.authorize(ctx, p, access.ActionAuditRead, nil); err != nil {
		return nil, err
	}
	if in.Limit < 0 || in.Limit > 200 {
		return nil, InvalidInput("invalid limit")
	}
	if in.Offset < 0 {
		return nil, InvalidInput("invalid offset")
	}

	f := repo.AuditLogFilter{
		ActorUserID: in.ActorUserID,
		ResourceID:  in.ResourceID,
		CreatedFrom: in.From,
		CreatedTo:   in.To,
		Limit:       in.Limit,
		Offset:      in.Offset,
	}
	if in.Action != "" {
		a := model.AuditAction(in.Action)
		f.Action = &a
	}
	if in.ResourceType != "" {
		rt := model.AuditResourceType(in.ResourceType)
		if rt != model.AuditResourceOrder && rt != model.AuditResourceUser {
			return nil, InvalidInput("invalid resource_type")
		}
		f.ResourceType = &rt
	}

	logs, err := u.logs.List(ctx, f)
	if err != nil {
		return nil, Internal("db error", err)
	}
	if logs == nil {
		logs = []model.AuditLog{}
	}
	return logs, nil
}
