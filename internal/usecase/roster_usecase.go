package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"littlelemon/internal/domain/access"
	"littlelemon/internal/domain/model"
	repo "littlelemon/internal/repository"
)

// RosterUsecase は manager / delivery-crew グループの管理。
// 管理者（super admin）のみ。
type RosterUsecase struct {
	tx    repo.TransactionManager
	users repo.UserRepository
	clock Clock
	inst  instruments
}

func NewRosterUsecase(tx repo.TransactionManager, users repo.UserRepository, clock Clock) *RosterUsecase {
	return &RosterUsecase{tx: tx, users: users, clock: clock, inst: newInstruments()}
}

type MemberOutput struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func toMemberOutput(u model.User) MemberOutput {
	return MemberOutput{ID: u.ID, Username: u.Username, Email: u.Email}
}

func (u *RosterUsecase) ListMembers(ctx context.Context, p model.Principal, role model.Role) ([]MemberOutput, error) {
	if err := u.inst.authorize(ctx, p, access.ActionRosterManage, nil); err != nil {
		return nil, err
	}
	if !role.IsStaff() {
		return nil, InvalidInput("invalid group")
	}

	users, err := u.users.ListByRole(ctx, role)
	if err != nil {
		return nil, Internal("db error", err)
	}
	out := make([]MemberOutput, 0, len(users))
	for _, m := range users {
		out = append(out, toMemberOutput(m))
	}
	return out, nil
}

// Assign は既に所属していても成功する（監査ログは追加したときだけ）。
func (u *RosterUsecase) Assign(ctx context.Context, p model.Principal, role model.Role, userID int64) (MemberOutput, error) {
	if err := u.inst.authorize(ctx, p, access.ActionRosterManage, nil); err != nil {
		return MemberOutput{}, err
	}
	if !role.IsStaff() {
		return MemberOutput{}, InvalidInput("invalid group")
	}
	if userID <= 0 {
		return MemberOutput{}, InvalidInput("invalid user id")
	}

	var out MemberOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		user, err := r.Users().FindByID(ctx, userID)
		if errors.Is(err, repo.ErrNotFound) {
			return NotFound("user not found")
		}
		if err != nil {
			return Internal("db error", err)
		}

		added, err := r.Users().AddRole(ctx, userID, role)
		if err != nil {
			return Internal("db error", fmt.Errorf("add role: %w", err))
		}
		if added {
			if err := u.writeRoleAudit(ctx, r, p.UserID, model.AuditActionAssignRole, userID, role); err != nil {
				return err
			}
		}
		out = toMemberOutput(*user)
		return nil
	})
	if err != nil {
		return MemberOutput{}, err
	}
	return out, nil
}

func (u *RosterUsecase) Remove(ctx context.Context, p model.Principal, role model.Role, userID int64) error {
	if err := u.inst.authorize(ctx, p, access.ActionRosterManage, nil); err != nil {
		return err
	}
	if !role.IsStaff() {
		return InvalidInput("invalid group")
	}
	if userID <= 0 {
		return InvalidInput("invalid user id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		removed, err := r.Users().RemoveRole(ctx, userID, role)
		if err != nil {
			return Internal("db error", fmt.Errorf("remove role: %w", err))
		}
		if !removed {
			return NotFound("user is not a member of the group")
		}
		return u.writeRoleAudit(ctx, r, p.UserID, model.AuditActionRemoveRole, userID, role)
	})
}

// GrantSuperAdmin は運用者が起動時やCLIから管理者を作るための入口。
// Principal を取らない。HTTPからは呼ばない。
func (u *RosterUsecase) GrantSuperAdmin(ctx context.Context, username string) (MemberOutput, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return MemberOutput{}, InvalidInput("username is required")
	}

	var out MemberOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		user, err := r.Users().FindByUsername(ctx, username)
		if errors.Is(err, repo.ErrNotFound) {
			return NotFound("user not found")
		}
		if err != nil {
			return Internal("db error", err)
		}

		granted, err := r.Users().GrantSuperAdmin(ctx, user.ID)
		if err != nil {
			return Internal("db error", fmt.Errorf("grant super admin: %w", err))
		}
		if granted {
			if err := r.AuditLogs().Create(ctx, model.AuditLog{
				ActorUserID:  model.SystemActorID,
				Action:       model.AuditActionGrantSuperAdmin,
				ResourceType: model.AuditResourceUser,
				ResourceID:   user.ID,
				BeforeJSON:   `{"is_super_admin":false}`,
				AfterJSON:    `{"is_super_admin":true}`,
				CreatedAt:    u.clock.Now(),
			}); err != nil {
				return Internal("db error", fmt.Errorf("write audit log: %w", err))
			}
		}
		out = toMemberOutput(*user)
		return nil
	})
	if err != nil {
		return MemberOutput{}, err
	}
	return out, nil
}

func (u *RosterUsecase) writeRoleAudit(ctx context.Context, r repo.TxRepos, actorID int64, action model.AuditAction, userID int64, role model.Role) error {
	payload, err := json.Marshal(map[string]string{"role": string(role)})
	if err != nil {
		return Internal("audit encode", err)
	}
	beforeJSON, afterJSON := "{}", string(payload)
	if action == model.AuditActionRemoveRole {
		beforeJSON, afterJSON = string(payload), "{}"
	}

	if err := r.AuditLogs().Create(ctx, model.AuditLog{
		ActorUserID:  actorID,
		Action:       action,
		ResourceType: model.AuditResourceUser,
		ResourceID:   userID,
		BeforeJSON:   beforeJSON,
		AfterJSON:    afterJSON,
		CreatedAt:    u.clock.Now(),
	}); err != nil {
		return Internal("db error", fmt.Errorf("write audit log: %w", err))
	}
	return nil
}
