package seller

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/medistore/medistore-backend/internal/auth"
	"github.com/medistore/medistore-backend/internal/reports"
	"github.com/medistore/medistore-backend/internal/users"
	"github.com/medistore/medistore-backend/pkg/enums"
	pkgerrors "github.com/medistore/medistore-backend/pkg/errors"
)

// Profile is the seller's account with catalog and order counts.
type Profile struct {
	users.UserDTO
	MedicineCount int64 `json:"medicineCount"`
	OrderCount    int64 `json:"orderCount"`
}

// Service serves the seller self-service area. Medicine and order management
// are delegated to their own services.
type Service interface {
	Profile(ctx context.Context, sellerID uuid.UUID) (*Profile, error)
	UpdateProfile(ctx context.Context, sellerID uuid.UUID, req auth.UpdateProfileRequest) (*Profile, error)
	Dashboard(ctx context.Context, sellerID uuid.UUID) (*reports.SellerDashboard, error)
}

type accounts interface {
	Me(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error)
	UpdateMe(ctx context.Context, userID uuid.UUID, req auth.UpdateProfileRequest) (*users.UserDTO, error)
}

type counters interface {
	MedicineCounts(ctx context.Context, sellerIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	SellerOrderCounts(ctx context.Context, sellerIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

type service struct {
	accounts   accounts
	counters   counters
	dashboards reports.Service
}

func NewService(accounts accounts, counters counters, dashboards reports.Service) (Service, error) {
	if accounts == nil {
		return nil, fmt.Errorf("accounts service required")
	}
	if counters == nil {
		return nil, fmt.Errorf("counters required")
	}
	if dashboards == nil {
		return nil, fmt.Errorf("reports service required")
	}
	return &service{accounts: accounts, counters: counters, dashboards: dashboards}, nil
}

func (s *service) Profile(ctx context.Context, sellerID uuid.UUID) (*Profile, error) {
	user, err := s.accounts.Me(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	return s.withCounts(ctx, user)
}

func (s *service) UpdateProfile(ctx context.Context, sellerID uuid.UUID, req auth.UpdateProfileRequest) (*Profile, error) {
	user, err := s.accounts.UpdateMe(ctx, sellerID, req)
	if err != nil {
		return nil, err
	}
	return s.withCounts(ctx, user)
}

func (s *service) Dashboard(ctx context.Context, sellerID uuid.UUID) (*reports.SellerDashboard, error) {
	if sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	return s.dashboards.SellerDashboard(ctx, sellerID)
}

func (s *service) withCounts(ctx context.Context, user *users.UserDTO) (*Profile, error) {
	if user.Role != enums.UserRoleSeller {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "seller account required")
	}
	ids := []uuid.UUID{user.ID}
	medicines, err := s.counters.MedicineCounts(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count medicines")
	}
	orders, err := s.counters.SellerOrderCounts(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}
	return &Profile{
		UserDTO:       *user,
		MedicineCount: medicines[user.ID],
		OrderCount:    orders[user.ID],
	}, nil
}
