package controllers

import (
	"net/http"

	"github.com/medistore/medistore-backend/api/responses"
	pkgerrors "github.com/medistore/medistore-backend/pkg/errors"
	"github.com/medistore/medistore-backend/pkg/logger"
)

func serviceUnavailable(w http.ResponseWriter, r *http.Request, logg *logger.Logger, name string) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, name+" service unavailable"))
}
