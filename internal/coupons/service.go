package coupons

import (
	"context"
	"errors"

	"github.com/angelmondragon/coupon-engine/pkg/db"
	"github.com/angelmondragon/coupon-engine/pkg/db/models"
	"github.com/angelmondragon/coupon-engine/pkg/enums"
	pkgerrors "github.com/angelmondragon/coupon-engine/pkg/errors"
	"github.com/angelmondragon/coupon-engine/pkg/logger"
	"gorm.io/gorm"
)

// Service manages the coupon catalogue.
type Service interface {
	CreateCoupon(ctx context.Context, input CouponInput) (Coupon, error)
	GetCoupon(ctx context.Context, id uint64) (Coupon, error)
	ListCoupons(ctx context.Context) ([]Coupon, error)
	UpdateCoupon(ctx context.Context, id uint64, input CouponInput) (Coupon, error)
	DeleteCoupon(ctx context.Context, id uint64) error
}

// ServiceParams groups dependencies for the coupon service.
type ServiceParams struct {
	Repo   Repository
	Tx     txRunner
	Logger *logger.Logger
}

type service struct {
	repo Repository
	tx   txRunner
	logg *logger.Logger
}

// NewService builds a coupon service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	if params.Tx == nil {
		return nil, errors.New("transaction runner is required")
	}
	if params.Logger == nil {
		params.Logger = logger.Nop()
	}
	return &service{
		repo: params.Repo,
		tx:   params.Tx,
		logg: params.Logger,
	}, nil
}

func (s *service) CreateCoupon(ctx context.Context, input CouponInput) (Coupon, error) {
	row, err := buildModel(input)
	if err != nil {
		return Coupon{}, err
	}

	created, err := s.repo.Create(ctx, row)
	if err != nil {
		return Coupon{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create coupon")
	}

	ctx = s.logg.WithCouponID(ctx, created.ID)
	s.logg.Info(s.logg.WithField(ctx, "coupon_type", created.Type), "coupon.created")
	return fromModel(created)
}

func (s *service) GetCoupon(ctx context.Context, id uint64) (Coupon, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Coupon{}, mapLookupError(err, id)
	}
	return fromModel(row)
}

func (s *service) ListCoupons(ctx context.Context) ([]Coupon, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list coupons")
	}
	out := make([]Coupon, 0, len(rows))
	for i := range rows {
		c, err := fromModel(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *service) UpdateCoupon(ctx context.Context, id uint64, input CouponInput) (Coupon, error) {
	replacement, err := buildModel(input)
	if err != nil {
		return Coupon{}, err
	}

	var updated *models.Coupon
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		existing, err := repo.FindByID(ctx, id)
		if err != nil {
			return mapLookupError(err, id)
		}
		replacement.ID = existing.ID
		replacement.CreatedAt = existing.CreatedAt
		updated, err = repo.Update(ctx, replacement)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update coupon")
		}
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) == nil {
			return Coupon{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update coupon")
		}
		return Coupon{}, err
	}

	s.logg.Info(s.logg.WithCouponID(ctx, id), "coupon.updated")
	return fromModel(updated)
}

func (s *service) DeleteCoupon(ctx context.Context, id uint64) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete coupon")
	}
	if affected == 0 {
		return pkgerrors.Newf(pkgerrors.CodeNotFound, "coupon %d not found", id)
	}
	s.logg.Info(s.logg.WithCouponID(ctx, id), "coupon.deleted")
	return nil
}

func buildModel(input CouponInput) (*models.Coupon, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	input = input.normalized()

	details, err := input.Details.Encode()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode coupon details")
	}
	return &models.Coupon{
		Name:      input.Name,
		Type:      enums.CouponType(input.Type),
		Details:   details,
		ExpiresAt: input.ExpiresAt,
	}, nil
}

func mapLookupError(err error, id uint64) error {
	if db.IsNotFound(err) {
		return pkgerrors.Newf(pkgerrors.CodeNotFound, "coupon %d not found", id)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load coupon")
}
