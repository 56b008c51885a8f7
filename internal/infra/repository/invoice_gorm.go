package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type invoiceGormRepository struct {
	db *gorm.DB
}

// DI
func NewInvoiceGormRepository(db *gorm.DB) repo.InvoiceRepository {
	return &invoiceGormRepository{db: db}
}

// 番号の採番・在庫の引き落とし・明細の保存をまとめて行う。
// どれかが失敗したら全部ロールバックする。
func (r *invoiceGormRepository) Issue(ctx context.Context, inv *model.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//連番を進めて番号を振る
		var settings model.MerchantSettings
		if err := tx.Where("merchant_id = ?", inv.MerchantID).First(&settings).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return repo.ErrNotFound
			}
			return err
		}

		seq := settings.InvoiceSeq + 1
		res := tx.Model(&model.MerchantSettings{}).
			Where("merchant_id = ? AND invoice_seq = ?", inv.MerchantID, settings.InvoiceSeq).
			Update("invoice_seq", seq)
		if res.Error != nil {
			return res.Error
		}
		// 同時発行で連番が進んでいたらやり直してもらう
		if res.RowsAffected == 0 {
			return gorm.ErrInvalidTransaction
		}
		inv.Number = fmt.Sprintf("%s-%04d", settings.InvoicePrefix, seq)

		//明細分の在庫を引き落とす（足りなければ失敗）
		for _, line := range inv.Lines {
			dec := tx.Model(&model.Product{}).
				Where("id = ? AND merchant_id = ? AND stock >= ?", line.ProductID, inv.MerchantID, line.Quantity).
				Update("stock", gorm.Expr("stock - ?", line.Quantity))
			if dec.Error != nil {
				return dec.Error
			}
			if dec.RowsAffected == 0 {
				return repo.ErrInsufficientStock
			}
		}

		//請求書本体と明細を保存（LinesはアソシエーションでまとめてINSERTされる）
		if err := tx.Create(inv).Error; err != nil {
			return err
		}
		return nil
	})
}

// 明細込みで1件取得
func (r *invoiceGormRepository) FindByID(ctx context.Context, merchantID, invoiceID string) (*model.Invoice, error) {
	var inv model.Invoice
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("id = ? AND merchant_id = ?", invoiceID, merchantID).
		First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// 発行日時の新しい順
func (r *invoiceGormRepository) ListByMerchant(ctx context.Context, merchantID string) ([]model.Invoice, error) {
	var invoices []model.Invoice
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("merchant_id = ?", merchantID).
		Order("issued_at desc").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

// ISSUED→PAID。他のステータスからは遷移できない。
func (r *invoiceGormRepository) MarkPaid(ctx context.Context, merchantID, invoiceID string) error {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&model.Invoice{}).
		Where("id = ? AND merchant_id = ? AND status = ?", invoiceID, merchantID, model.InvoiceStatusIssued).
		Updates(map[string]interface{}{
			"status":  model.InvoiceStatusPaid,
			"paid_at": &now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.statusConflictOrNotFound(ctx, merchantID, invoiceID)
	}
	return nil
}

// ISSUED→VOID。在庫を明細分だけ戻す。
func (r *invoiceGormRepository) Void(ctx context.Context, merchantID, invoiceID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inv model.Invoice
		err := tx.Preload("Lines").
			Where("id = ? AND merchant_id = ?", invoiceID, merchantID).
			First(&inv).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return repo.ErrNotFound
		}
		if err != nil {
			return err
		}
		if inv.Status != model.InvoiceStatusIssued {
			return repo.ErrInvalidInvoiceStatus
		}

		//在庫を戻す。発行後にソフトデリートされた商品の行にも戻す
		//（Unscopedなしだとdeleted_atのフィルタで0件更新のまま素通りする）。
		for _, line := range inv.Lines {
			res := tx.Unscoped().Model(&model.Product{}).
				Where("id = ? AND merchant_id = ?", line.ProductID, merchantID).
				Update("stock", gorm.Expr("stock + ?", line.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return repo.ErrNotFound
			}
		}

		now := time.Now()
		return tx.Model(&model.Invoice{}).
			Where("id = ?", invoiceID).
			Updates(map[string]interface{}{
				"status":    model.InvoiceStatusVoid,
				"voided_at": &now,
			}).Error
	})
}

// 0件更新の理由を切り分ける
func (r *invoiceGormRepository) statusConflictOrNotFound(ctx context.Context, merchantID, invoiceID string) error {
	var inv model.Invoice
	err := r.db.WithContext(ctx).
		Where("id = ? AND merchant_id = ?", invoiceID, merchantID).
		First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repo.ErrNotFound
	}
	if err != nil {
		return err
	}
	return repo.ErrInvalidInvoiceStatus
}
