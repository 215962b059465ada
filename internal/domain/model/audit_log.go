package model

import "time"

// 注文ステータス更新、配達担当の割り当て、グループ変更など。
type AuditAction string

const (
	AuditActionUpdateOrderStatus  AuditAction = "UPDATE_ORDER_STATUS"
	AuditActionAssignDeliveryCrew AuditAction = "ASSIGN_DELIVERY_CREW"
	AuditActionDeleteOrder        AuditAction = "DELETE_ORDER"
	AuditActionAssignRole         AuditAction = "ASSIGN_ROLE"
	AuditActionRemoveRole         AuditAction = "REMOVE_ROLE"
	AuditActionGrantSuperAdmin    AuditAction = "GRANT_SUPER_ADMIN"
)

// 起動時の管理者付与など、リクエスト外の操作の actor_user_id
const SystemActorID int64 = 0

// 何に対する操作か
type AuditResourceType string

const (
	AuditResourceOrder AuditResourceType = "order"
	AuditResourceUser  AuditResourceType = "user"
)

// 監査ログ。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID           int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorUserID  int64             `gorm:"not null;index" json:"actor_user_id"`
	Action       AuditAction       `gorm:"type:varchar(50);not null;index" json:"action"`
	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`
	ResourceID   int64             `gorm:"not null;index" json:"resource_id"`
	//JSON文字列で保存する。
	BeforeJSON string    `gorm:"type:text" json:"before_json"`
	AfterJSON  string    `gorm:"type:text" json:"after_json"`
	CreatedAt  time.Time `gorm:"not null;index" json:"created_at"`
}
