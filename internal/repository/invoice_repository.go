package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
)

// 発行時に明細の数量分の在庫がない
var ErrInsufficientStock = errors.New("insufficient stock")

// 請求書のステータスが操作と合わない（支払い済みを再度払う等）
var ErrInvalidInvoiceStatus = errors.New("invalid invoice status")

// 請求書の永続化。
type InvoiceRepository interface {
	// Issueは1トランザクションで:
	//   - マーチャント設定の連番を進めて番号を振る
	//   - 明細分の在庫を減らす（足りなければErrInsufficientStock）
	//   - 請求書と明細を保存する
	// invはID・明細・合計まで組み立て済みで渡す。Numberはここで設定される。
	Issue(ctx context.Context, inv *model.Invoice) error

	FindByID(ctx context.Context, merchantID, invoiceID string) (*model.Invoice, error)
	ListByMerchant(ctx context.Context, merchantID string) ([]model.Invoice, error)

	MarkPaid(ctx context.Context, merchantID, invoiceID string) error
	// Voidは在庫を戻してから無効にする
	Void(ctx context.Context, merchantID, invoiceID string) error
}
