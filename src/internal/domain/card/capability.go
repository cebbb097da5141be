package card

// ===========================
// 權限能力檢查
// ===========================

// IssuerKind 發放來源
type IssuerKind string

const (
	// IssuerCompany 公司直接發放（點數為 available）
	IssuerCompany IssuerKind = "company"
	// IssuerSelf 消費者自行申請（點數為 pending，等待公司審核）
	IssuerSelf IssuerKind = "self"
)

// Issuer 發放請求的來源
type Issuer struct {
	Kind      IssuerKind
	CompanyID CompanyID
}

// CompanyIssuer 公司發放
func CompanyIssuer(companyID CompanyID) Issuer {
	return Issuer{Kind: IssuerCompany, CompanyID: companyID}
}

// SelfIssuer 消費者自助申請
func SelfIssuer() Issuer {
	return Issuer{Kind: IssuerSelf}
}

// IsSelf 是否為自助申請
func (i Issuer) IsSelf() bool {
	return i.Kind == IssuerSelf
}

// Capability 卡片操作權限
//
// 角色判斷與帳本邏輯分離：用例只詢問「能不能」，
// 不需要知道呼叫者的角色枚舉。
type Capability interface {
	CanIssue(issuer Issuer, c *Card) bool
	CanRedeem(companyID CompanyID, c *Card) bool
	CanManage(companyID CompanyID, c *Card) bool
}

// OwnershipCapability 以卡片擁有者為準的預設權限
//
// - 公司只能發放、兌換、管理自己的卡片
// - 消費者可以對任何卡片提出申請（可用性另外檢查）
type OwnershipCapability struct{}

// CanIssue 實作 Capability
func (OwnershipCapability) CanIssue(issuer Issuer, c *Card) bool {
	switch issuer.Kind {
	case IssuerSelf:
		return true
	case IssuerCompany:
		return !issuer.CompanyID.IsEmpty() && c.IsOwnedBy(issuer.CompanyID)
	}
	return false
}

// CanRedeem 實作 Capability
func (OwnershipCapability) CanRedeem(companyID CompanyID, c *Card) bool {
	return c.IsOwnedBy(companyID)
}

// CanManage 實作 Capability
func (OwnershipCapability) CanManage(companyID CompanyID, c *Card) bool {
	return c.IsOwnedBy(companyID)
}
