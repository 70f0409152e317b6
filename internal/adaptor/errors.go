package adaptor

import (
	"encoding/json"
	"net/http"

	"dcms/internal/usecase"
	"dcms/pkg/utils"

	"go.uber.org/zap"
)

// handleServiceError maps a service error kind to the HTTP status it represents.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	msg := usecase.MessageOf(err)

	switch usecase.KindOf(err) {
	case usecase.KindBadRequest:
		log.Warn(operation+" failed - bad request", zap.Error(err))
		utils.ResponseBadRequest(w, msg, nil)

	case usecase.KindUnauthorized:
		log.Warn(operation+" failed - unauthorized", zap.Error(err))
		utils.ResponseUnauthorized(w, msg)

	case usecase.KindForbidden:
		log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, msg)

	case usecase.KindNotFound:
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, msg)

	case usecase.KindConflict:
		log.Warn(operation+" failed - already exists", zap.Error(err))
		utils.ResponseConflict(w, msg)

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

// decodeAndValidate reads a JSON body into req and runs its validation tags.
// It writes the 400 response itself and reports whether the handler may continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return false
	}

	return true
}
