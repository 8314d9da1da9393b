package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medistore/medistore-backend/internal/orders"
	"github.com/medistore/medistore-backend/internal/reports"
	"github.com/medistore/medistore-backend/internal/users"
	"github.com/medistore/medistore-backend/pkg/enums"
	pkgerrors "github.com/medistore/medistore-backend/pkg/errors"
	"github.com/medistore/medistore-backend/pkg/logger"
	"github.com/medistore/medistore-backend/pkg/outbox"
	"github.com/medistore/medistore-backend/pkg/outbox/payloads"
	"github.com/medistore/medistore-backend/pkg/pagination"
)

// UpdateStatusRequest is the body of PATCH /api/admin/users/{id}.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE SUSPENDED"`
}

// SellerSummary is a seller account with its catalog and order counts.
type SellerSummary struct {
	users.UserDTO
	MedicineCount int64 `json:"medicineCount"`
	OrderCount    int64 `json:"orderCount"`
}

type UserList = pagination.Page[users.UserDTO]
type SellerList = pagination.Page[SellerSummary]

// Service is the platform administration surface.
type Service interface {
	ListUsers(ctx context.Context, filters users.ListFilters, params pagination.Params) (*UserList, error)
	UpdateUserStatus(ctx context.Context, actorID, userID uuid.UUID, status enums.UserStatus) (*users.UserDTO, error)
	ListOrders(ctx context.Context, filters orders.ParentOrderFilters, params pagination.Params) (*orders.OrderList, error)
	ListSellers(ctx context.Context, params pagination.Params) (*SellerList, error)
	Dashboard(ctx context.Context) (*reports.AdminDashboard, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type sessionRevoker interface {
	RevokeAll(ctx context.Context, userID uuid.UUID) error
}

type orderLister interface {
	ListParentOrders(ctx context.Context, filters orders.ParentOrderFilters, params pagination.Params) (*orders.OrderList, error)
}

type counters interface {
	MedicineCounts(ctx context.Context, sellerIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	SellerOrderCounts(ctx context.Context, sellerIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

type ServiceParams struct {
	Users      *users.Repository
	Tx         txRunner
	Outbox     outboxPublisher
	Sessions   sessionRevoker
	Orders     orderLister
	Counters   counters
	Dashboards reports.Service
	Logger     *logger.Logger
}

type service struct {
	users      *users.Repository
	tx         txRunner
	outbox     outboxPublisher
	sessions   sessionRevoker
	orders     orderLister
	counters   counters
	dashboards reports.Service
	logg       *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	switch {
	case params.Users == nil:
		return nil, fmt.Errorf("users repository required")
	case params.Tx == nil:
		return nil, fmt.Errorf("transaction runner required")
	case params.Outbox == nil:
		return nil, fmt.Errorf("outbox publisher required")
	case params.Sessions == nil:
		return nil, fmt.Errorf("session revoker required")
	case params.Orders == nil:
		return nil, fmt.Errorf("order lister required")
	case params.Counters == nil:
		return nil, fmt.Errorf("counters required")
	case params.Dashboards == nil:
		return nil, fmt.Errorf("reports service required")
	}
	return &service{
		users:      params.Users,
		tx:         params.Tx,
		outbox:     params.Outbox,
		sessions:   params.Sessions,
		orders:     params.Orders,
		counters:   params.Counters,
		dashboards: params.Dashboards,
		logg:       params.Logger,
	}, nil
}

func (s *service) ListUsers(ctx context.Context, filters users.ListFilters, params pagination.Params) (*UserList, error) {
	normalized, err := params.Normalize(users.UserSortable)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	rows, total, err := s.users.List(ctx, filters, normalized)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	page := pagination.NewPage(users.FromModels(rows), total, normalized)
	return &page, nil
}

// UpdateUserStatus changes an account status. Suspension revokes every
// session of the user; repeating a suspension retries the revocation.
func (s *service) UpdateUserStatus(ctx context.Context, actorID, userID uuid.UUID, status enums.UserStatus) (*users.UserDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid status %q", status))
	}
	if actorID == userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admins cannot change their own status")
	}

	var updated *users.UserDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.users.WithTx(tx)
		user, err := repo.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
		}
		if user.Role == enums.UserRoleAdmin && status == enums.UserStatusSuspended {
			return pkgerrors.New(pkgerrors.CodeForbidden, "admin accounts cannot be suspended")
		}

		from := user.Status
		if from != status {
			if err := repo.UpdateStatus(ctx, userID, status); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user status")
			}
			event := outbox.DomainEvent{
				EventType:     enums.EventUserStatusChanged,
				AggregateType: enums.AggregateUser,
				AggregateID:   userID,
				Actor:         &outbox.ActorRef{UserID: actorID, Role: enums.UserRoleAdmin},
				Data:          payloads.UserStatusChangedEvent{UserID: userID, From: from, To: status},
			}
			if err := s.outbox.Emit(ctx, tx, event); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit user status changed")
			}
			user.Status = status
		}
		updated = users.FromModel(user)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if status == enums.UserStatusSuspended {
		if err := s.sessions.RevokeAll(ctx, userID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke sessions")
		}
	}
	if s.logg != nil {
		logCtx := s.logg.WithUserID(ctx, userID.String())
		logCtx = s.logg.WithField(logCtx, "status", status.String())
		s.logg.Info(logCtx, "user status updated")
	}
	return updated, nil
}

func (s *service) ListOrders(ctx context.Context, filters orders.ParentOrderFilters, params pagination.Params) (*orders.OrderList, error) {
	return s.orders.ListParentOrders(ctx, filters, params)
}

func (s *service) ListSellers(ctx context.Context, params pagination.Params) (*SellerList, error) {
	normalized, err := params.Normalize(users.UserSortable)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	role := enums.UserRoleSeller
	rows, total, err := s.users.List(ctx, users.ListFilters{Role: &role}, normalized)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sellers")
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	medicines, err := s.counters.MedicineCounts(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count medicines")
	}
	sellerOrders, err := s.counters.SellerOrderCounts(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}

	out := make([]SellerSummary, 0, len(rows))
	for _, dto := range users.FromModels(rows) {
		out = append(out, SellerSummary{
			UserDTO:       dto,
			MedicineCount: medicines[dto.ID],
			OrderCount:    sellerOrders[dto.ID],
		})
	}
	page := pagination.NewPage(out, total, normalized)
	return &page, nil
}

func (s *service) Dashboard(ctx context.Context) (*reports.AdminDashboard, error) {
	return s.dashboards.AdminDashboard(ctx)
}
