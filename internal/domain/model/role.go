package model

import "strings"

type Role string

const (
	// 管理者グループ
	RoleManager Role = "Manager"
	// 配達グループ
	RoleDeliveryCrew Role = "DeliveryCrew"
	// どちらのグループにも属さない利用者
	RoleCustomer Role = "Customer"
)

// ParseStaffRole はURLのグループ名（manager / delivery-crew）をRoleに変換する。
// Customerは付与できるロールではないので受け付けない。
func ParseStaffRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "manager":
		return RoleManager, true
	case "delivery-crew", "delivery_crew", "deliverycrew":
		return RoleDeliveryCrew, true
	default:
		return "", false
	}
}

func (r Role) IsStaff() bool {
	return r == RoleManager || r == RoleDeliveryCrew
}

// RoleSet はリクエスト単位で解決されたロールの集合。
// Manager / DeliveryCrew のどちらも持たなければ Customer とみなす。
type RoleSet struct {
	manager      bool
	deliveryCrew bool
}

func NewRoleSet(roles ...Role) RoleSet {
	var s RoleSet
	for _, r := range roles {
		switch r {
		case RoleManager:
			s.manager = true
		case RoleDeliveryCrew:
			s.deliveryCrew = true
		}
	}
	return s
}

func (s RoleSet) Has(r Role) bool {
	switch r {
	case RoleManager:
		return s.manager
	case RoleDeliveryCrew:
		return s.deliveryCrew
	case RoleCustomer:
		return !s.IsStaff()
	default:
		return false
	}
}

func (s RoleSet) IsStaff() bool {
	return s.manager || s.deliveryCrew
}

func (s RoleSet) Roles() []Role {
	if !s.IsStaff() {
		return []Role{RoleCustomer}
	}
	out := make([]Role, 0, 2)
	if s.manager {
		out = append(out, RoleManager)
	}
	if s.deliveryCrew {
		out = append(out, RoleDeliveryCrew)
	}
	return out
}

// Principal は認証済みの呼び出し元。
type Principal struct {
	UserID     int64
	Roles      RoleSet
	SuperAdmin bool
}

func (p Principal) IsCustomer() bool {
	return !p.Roles.IsStaff()
}
