package booking

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/wanderly/wanderly-backend/internal/domain"
	"github.com/wanderly/wanderly-backend/internal/pkg/dbctx"
	"github.com/wanderly/wanderly-backend/internal/pkg/logger"
)

type PaymentRepo interface {
	Create(dbc dbctx.Context, rows []*types.Payment) ([]*types.Payment, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Payment, error)
	GetByProviderOrderID(dbc dbctx.Context, provider string, orderID string) (*types.Payment, error)
	LockByID(dbc dbctx.Context, id uuid.UUID) (*types.Payment, error)
	ListByBooking(dbc dbctx.Context, bookingID uuid.UUID) ([]*types.Payment, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error
}

type paymentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPaymentRepo(db *gorm.DB, baseLog *logger.Logger) PaymentRepo {
	return &paymentRepo{db: db, log: baseLog.With("repo", "PaymentRepo")}
}

func (r *paymentRepo) Create(dbc dbctx.Context, rows []*types.Payment) ([]*types.Payment, error) {
	if len(rows) == 0 {
		return []*types.Payment{}, nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *paymentRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Payment, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out types.Payment
	err := txx.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Take(&out).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *paymentRepo) GetByProviderOrderID(dbc dbctx.Context, provider string, orderID string) (*types.Payment, error) {
	if orderID == "" {
		return nil, fmt.Errorf("missing provider order id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out types.Payment
	err := txx.WithContext(dbc.Ctx).
		Where("provider = ? AND provider_order_id = ?", provider, orderID).
		Take(&out).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *paymentRepo) LockByID(dbc dbctx.Context, id uuid.UUID) (*types.Payment, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing id")
	}
	if dbc.Tx == nil {
		return nil, fmt.Errorf("row lock requires a transaction")
	}
	var out types.Payment
	err := dbc.Tx.WithContext(dbc.Ctx).
		Raw(`SELECT * FROM "payment" WHERE id = ? FOR UPDATE`, id).
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	if out.ID == uuid.Nil {
		return nil, nil
	}
	return &out, nil
}

func (r *paymentRepo) ListByBooking(dbc dbctx.Context, bookingID uuid.UUID) ([]*types.Payment, error) {
	if bookingID == uuid.Nil {
		return nil, fmt.Errorf("missing booking_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []*types.Payment
	if err := txx.WithContext(dbc.Ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *paymentRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error {
	if id == uuid.Nil {
		return fmt.Errorf("missing id")
	}
	if updates == nil {
		updates = map[string]any{}
	}
	updates["updated_at"] = time.Now().UTC()
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).
		Model(&types.Payment{}).
		Where("id = ?", id).
		Updates(updates).Error
}
