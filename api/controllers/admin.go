package controllers

import (
	"net/http"

	"github.com/medistore/medistore-backend/api/middleware"
	"github.com/medistore/medistore-backend/api/responses"
	"github.com/medistore/medistore-backend/api/validators"
	"github.com/medistore/medistore-backend/internal/admin"
	"github.com/medistore/medistore-backend/internal/orders"
	"github.com/medistore/medistore-backend/internal/users"
	"github.com/medistore/medistore-backend/pkg/enums"
	pkgerrors "github.com/medistore/medistore-backend/pkg/errors"
	"github.com/medistore/medistore-backend/pkg/logger"
)

const maxUserSearchLen = 100

func AdminListUsers(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "admin")
			return
		}
		filters, err := parseUserFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.ListUsers(r.Context(), filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePage(w, "Users retrieved successfully", page)
	}
}

func parseUserFilters(r *http.Request) (users.ListFilters, error) {
	filters := users.ListFilters{
		Search: validators.SanitizeString(r.URL.Query().Get("search"), maxUserSearchLen),
	}
	role, err := validators.ParseQueryEnum(r, "role", func(v string) bool { return enums.UserRole(v).IsValid() })
	if err != nil {
		return filters, err
	}
	if role != "" {
		value := enums.UserRole(role)
		filters.Role = &value
	}
	status, err := validators.ParseQueryEnum(r, "status", func(v string) bool { return enums.UserStatus(v).IsValid() })
	if err != nil {
		return filters, err
	}
	if status != "" {
		value := enums.UserStatus(status)
		filters.Status = &value
	}
	return filters, nil
}

// AdminUpdateUserStatus activates or suspends an account.
func AdminUpdateUserStatus(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "admin")
			return
		}
		actorID, err := middleware.AuthenticatedUserID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		userID, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body admin.UpdateStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseUserStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, err.Error()))
			return
		}

		user, err := svc.UpdateUserStatus(r.Context(), actorID, userID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "User status updated successfully", user)
	}
}

func AdminListOrders(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "admin")
			return
		}
		var filters orders.ParentOrderFilters
		status, err := validators.ParseQueryEnum(r, "status", func(v string) bool { return enums.OrderStatus(v).IsValid() })
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if status != "" {
			value := enums.OrderStatus(status)
			filters.Status = &value
		}
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.ListOrders(r.Context(), filters, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePage(w, "Orders retrieved successfully", page)
	}
}

func AdminListSellers(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "admin")
			return
		}
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.ListSellers(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePage(w, "Sellers retrieved successfully", page)
	}
}

func AdminDashboard(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "admin")
			return
		}
		dashboard, err := svc.Dashboard(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, http.StatusOK, "Dashboard statistics retrieved successfully", dashboard)
	}
}
