package booking

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/wanderly/wanderly-backend/internal/domain"
	"github.com/wanderly/wanderly-backend/internal/pkg/dbctx"
	"github.com/wanderly/wanderly-backend/internal/pkg/logger"
	"github.com/wanderly/wanderly-backend/internal/pkg/pagination"
)

type BookingFilter struct {
	Status      *string
	BookingType *string
}

type BookingRepo interface {
	Create(dbc dbctx.Context, rows []*types.Booking) ([]*types.Booking, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Booking, error)
	// LockByID reads the row under FOR UPDATE so status transitions
	// serialize across concurrent requests.
	LockByID(dbc dbctx.Context, id uuid.UUID) (*types.Booking, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID, filter BookingFilter, p pagination.Params) ([]*types.Booking, int64, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error
}

type bookingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBookingRepo(db *gorm.DB, baseLog *logger.Logger) BookingRepo {
	return &bookingRepo{db: db, log: baseLog.With("repo", "BookingRepo")}
}

func (r *bookingRepo) Create(dbc dbctx.Context, rows []*types.Booking) ([]*types.Booking, error) {
	if len(rows) == 0 {
		return []*types.Booking{}, nil
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

func (r *bookingRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Booking, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out types.Booking
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

func (r *bookingRepo) LockByID(dbc dbctx.Context, id uuid.UUID) (*types.Booking, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing id")
	}
	if dbc.Tx == nil {
		return nil, fmt.Errorf("row lock requires a transaction")
	}
	var out types.Booking
	err := dbc.Tx.WithContext(dbc.Ctx).
		Raw(`SELECT * FROM "booking" WHERE id = ? AND deleted_at IS NULL FOR UPDATE`, id).
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	if out.ID == uuid.Nil {
		return nil, nil
	}
	return &out, nil
}

func (r *bookingRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, filter BookingFilter, p pagination.Params) ([]*types.Booking, int64, error) {
	if userID == uuid.Nil {
		return nil, 0, fmt.Errorf("missing user_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	q := txx.WithContext(dbc.Ctx).
		Model(&types.Booking{}).
		Where("user_id = ?", userID)
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.BookingType != nil {
		q = q.Where("booking_type = ?", *filter.BookingType)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []*types.Booking
	if err := q.
		Order("created_at DESC").
		Offset(p.Offset()).
		Limit(p.Limit).
		Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *bookingRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]any) error {
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
		Model(&types.Booking{}).
		Where("id = ?", id).
		Updates(updates).Error
}
