package reports

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/medistore/medistore-backend/pkg/db/models"
	"github.com/medistore/medistore-backend/pkg/enums"
	pkgerrors "github.com/medistore/medistore-backend/pkg/errors"
)

// Service assembles the seller and admin dashboards.
type Service interface {
	SellerDashboard(ctx context.Context, sellerID uuid.UUID) (*SellerDashboard, error)
	AdminDashboard(ctx context.Context) (*AdminDashboard, error)
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reports repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) SellerDashboard(ctx context.Context, sellerID uuid.UUID) (*SellerDashboard, error) {
	scope := OrderScope{SellerID: &sellerID}
	active := enums.MedicineStatusActive
	placed := enums.OrderStatusPlaced
	out := &SellerDashboard{}
	var recent []models.Order

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.TotalMedicines, err = s.repo.CountMedicines(gctx, &sellerID, nil)
		return err
	})
	g.Go(func() (err error) {
		out.ActiveMedicines, err = s.repo.CountMedicines(gctx, &sellerID, &active)
		return err
	})
	g.Go(func() (err error) {
		out.TotalOrders, err = s.repo.CountOrders(gctx, scope, nil)
		return err
	})
	g.Go(func() (err error) {
		out.PendingOrders, err = s.repo.CountOrders(gctx, scope, &placed)
		return err
	})
	g.Go(func() (err error) {
		out.TotalRevenue, err = s.repo.Revenue(gctx, scope)
		return err
	})
	g.Go(func() (err error) {
		recent, err = s.repo.RecentOrders(gctx, scope, recentOrderLimit)
		return err
	})
	g.Go(func() (err error) {
		out.TopSellingMedicines, err = s.repo.TopSelling(gctx, &sellerID, topSellingLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build seller dashboard")
	}

	out.RecentOrders = recentOrders(recent)
	if out.TopSellingMedicines == nil {
		out.TopSellingMedicines = []TopSellingMedicine{}
	}
	return out, nil
}

func (s *service) AdminDashboard(ctx context.Context) (*AdminDashboard, error) {
	parents := OrderScope{}
	seller := enums.UserRoleSeller
	customer := enums.UserRoleCustomer
	out := &AdminDashboard{}
	var recent []models.Order

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.TotalUsers, err = s.repo.CountUsers(gctx, nil)
		return err
	})
	g.Go(func() (err error) {
		out.TotalSellers, err = s.repo.CountUsers(gctx, &seller)
		return err
	})
	g.Go(func() (err error) {
		out.TotalCustomers, err = s.repo.CountUsers(gctx, &customer)
		return err
	})
	g.Go(func() (err error) {
		out.TotalMedicines, err = s.repo.CountMedicines(gctx, nil, nil)
		return err
	})
	g.Go(func() (err error) {
		out.TotalOrders, err = s.repo.CountOrders(gctx, parents, nil)
		return err
	})
	g.Go(func() (err error) {
		out.TotalReviews, err = s.repo.CountReviews(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.TotalRevenue, err = s.repo.Revenue(gctx, parents)
		return err
	})
	g.Go(func() (err error) {
		recent, err = s.repo.RecentOrders(gctx, parents, recentOrderLimit)
		return err
	})
	g.Go(func() (err error) {
		out.TopSellingMedicines, err = s.repo.TopSelling(gctx, nil, topSellingLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build admin dashboard")
	}

	out.RecentOrders = recentOrders(recent)
	if out.TopSellingMedicines == nil {
		out.TopSellingMedicines = []TopSellingMedicine{}
	}
	return out, nil
}

func recentOrders(rows []models.Order) []RecentOrder {
	out := make([]RecentOrder, 0, len(rows))
	for _, o := range rows {
		out = append(out, recentOrderFromModel(o))
	}
	return out
}
