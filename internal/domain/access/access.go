// Package access は「誰が何をしてよいか」を一か所で判定する。
// 判定は純粋関数で、DBにもcontextにも触らない。
package access

import "littlelemon/internal/domain/model"

type Action int

const (
	ActionCatalogRead Action = iota + 1
	ActionCatalogWrite
	ActionRosterManage
	ActionOrderList
	ActionOrderCreate
	ActionOrderSetStatus
	ActionOrderAssignCrew
	ActionOrderReplace
	ActionOrderDelete
	ActionOrderDetail
	ActionCartAccess
	ActionAuditRead
)

func (a Action) String() string {
	switch a {
	case ActionCatalogRead:
		return "catalog.read"
	case ActionCatalogWrite:
		return "catalog.write"
	case ActionRosterManage:
		return "roster.manage"
	case ActionOrderList:
		return "order.list"
	case ActionOrderCreate:
		return "order.create"
	case ActionOrderSetStatus:
		return "order.set_status"
	case ActionOrderAssignCrew:
		return "order.assign_crew"
	case ActionOrderReplace:
		return "order.replace"
	case ActionOrderDelete:
		return "order.delete"
	case ActionOrderDetail:
		return "order.detail"
	case ActionCartAccess:
		return "cart.access"
	case ActionAuditRead:
		return "audit.read"
	default:
		return "unknown"
	}
}

// Target は判定対象のリソース（注文）の所有者と配達担当。
// nilで渡した場合はロールだけで判定する。
type Target struct {
	OwnerID        int64
	DeliveryCrewID *int64
}

func OrderTarget(o model.Order) *Target {
	return &Target{OwnerID: o.UserID, DeliveryCrewID: o.DeliveryCrewID}
}

func (t *Target) assignedTo(userID int64) bool {
	return t.DeliveryCrewID != nil && *t.DeliveryCrewID == userID
}

type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Reason: reason}
}

const (
	reasonManagerOnly    = "only managers may perform this action"
	reasonSuperAdminOnly = "only administrators may perform this action"
	reasonCustomerOnly   = "only customers may perform this action"
	reasonNotAssigned    = "order is not assigned to you"
	reasonNotOwner       = "you are not authorized to access this resource"
	reasonCrewStatusOnly = "delivery crew may only update the status"
	reasonCustomerUpdate = "customers may not update orders"
	reasonUnknownAction  = "unknown action"
)

// Authorize は (ロール, アクション, 対象) から許可/拒否を決める。
func Authorize(p model.Principal, action Action, t *Target) Decision {
	switch action {
	case ActionCatalogRead, ActionOrderList:
		return allow()

	case ActionCatalogWrite, ActionOrderReplace, ActionOrderDelete:
		if p.Roles.Has(model.RoleManager) {
			return allow()
		}
		return deny(reasonManagerOnly)

	case ActionRosterManage, ActionAuditRead:
		if p.SuperAdmin {
			return allow()
		}
		return deny(reasonSuperAdminOnly)

	case ActionOrderCreate, ActionCartAccess:
		if p.IsCustomer() {
			return allow()
		}
		return deny(reasonCustomerOnly)

	case ActionOrderSetStatus:
		if p.Roles.Has(model.RoleManager) {
			return allow()
		}
		if !p.Roles.Has(model.RoleDeliveryCrew) {
			return deny(reasonCustomerUpdate)
		}
		if t != nil && !t.assignedTo(p.UserID) {
			return deny(reasonNotAssigned)
		}
		return allow()

	case ActionOrderAssignCrew:
		if p.Roles.Has(model.RoleManager) {
			return allow()
		}
		if p.Roles.Has(model.RoleDeliveryCrew) {
			return deny(reasonCrewStatusOnly)
		}
		return deny(reasonCustomerUpdate)

	case ActionOrderDetail:
		if !p.IsCustomer() {
			return deny(reasonCustomerOnly)
		}
		if t != nil && t.OwnerID != p.UserID {
			return deny(reasonNotOwner)
		}
		return allow()

	default:
		return deny(reasonUnknownAction)
	}
}
