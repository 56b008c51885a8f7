package model

import "time"

// ロール変更、設定変更など。
type AuditAction string

const (
	//メンバーのロールを変更した操作。
	AuditActionChangeRole AuditAction = "CHANGE_ROLE"
	//メンバーを追加した操作。
	AuditActionAddMember AuditAction = "ADD_MEMBER"
	//メンバーを無効化した操作。
	AuditActionRemoveMember AuditAction = "REMOVE_MEMBER"
	//マーチャント設定を更新した操作。
	AuditActionUpdateSettings AuditAction = "UPDATE_SETTINGS"
)

// ParseAuditActionは外部入力の操作名を検証する。
func ParseAuditAction(s string) (AuditAction, bool) {
	switch AuditAction(s) {
	case AuditActionChangeRole, AuditActionAddMember, AuditActionRemoveMember, AuditActionUpdateSettings:
		return AuditAction(s), true
	default:
		return "", false
	}
}

// 何に対する操作か
type AuditResourceType string

const (
	AuditResourceMember   AuditResourceType = "member"
	AuditResourceSettings AuditResourceType = "settings"
)

// 監査ログ。「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//操作が行われたマーチャント
	MerchantID string `gorm:"type:uuid;not null;index" json:"merchant_id"`

	//操作したユーザーのID。
	ActorUserID string `gorm:"type:uuid;not null;index" json:"actor_user_id"`

	Action       AuditAction       `gorm:"type:varchar(50);not null;index" json:"action"`
	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`
	ResourceID   string            `gorm:"type:uuid;not null;index" json:"resource_id"`

	//変更前後をJSON文字列で保存する。
	BeforeJSON string `gorm:"type:text" json:"before_json"`
	AfterJSON  string `gorm:"type:text" json:"after_json"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}
