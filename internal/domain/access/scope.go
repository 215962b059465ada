package access

import "littlelemon/internal/domain/model"

// OrderScope は一覧で見える注文の範囲。Authorizeとは別に決める。
type OrderScope struct {
	All            bool
	UserID         *int64
	DeliveryCrewID *int64
}

// VisibleOrders は Manager=全件、DeliveryCrew=担当分、Customer=自分の注文。
// 両方のロールを持つ場合は Manager として扱う。
func VisibleOrders(p model.Principal) OrderScope {
	id := p.UserID
	switch {
	case p.Roles.Has(model.RoleManager):
		return OrderScope{All: true}
	case p.Roles.Has(model.RoleDeliveryCrew):
		return OrderScope{DeliveryCrewID: &id}
	default:
		return OrderScope{UserID: &id}
	}
}
