package model

import "time"

// マーチャント内でのロール
type MemberRole string

const (
	RoleOwner MemberRole = "OWNER"
	RoleAdmin MemberRole = "ADMIN"
	RoleStaff MemberRole = "STAFF"
)

func ParseMemberRole(s string) (MemberRole, bool) {
	switch MemberRole(s) {
	case RoleOwner, RoleAdmin, RoleStaff:
		return MemberRole(s), true
	default:
		return "", false
	}
}

// ロールの強さ比較。owner > admin > staff。
func (r MemberRole) AtLeast(min MemberRole) bool {
	rank := map[MemberRole]int{RoleStaff: 1, RoleAdmin: 2, RoleOwner: 3}
	return rank[r] >= rank[min]
}

// MerchantMemberはユーザーとマーチャントの所属関係。
// 1ユーザーが複数マーチャントに、別々のロールで所属できる。
type MerchantMember struct {
	ID         string     `gorm:"type:uuid;primaryKey" json:"id"`
	MerchantID string     `gorm:"type:uuid;not null;index:idx_member_merchant_user,unique" json:"merchant_id"`
	UserID     string     `gorm:"type:uuid;not null;index:idx_member_merchant_user,unique" json:"user_id"`
	Role       MemberRole `gorm:"type:varchar(20);not null;default:'STAFF'" json:"role"`
	IsActive   bool       `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
