package http

import (
	"errors"
	"net/http"

	"github.com/diillson/training-center-go/internal/app/account"
	"github.com/diillson/training-center-go/internal/app/auth"
	"github.com/diillson/training-center-go/internal/domain/repository"
	apperrors "github.com/diillson/training-center-go/pkg/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// toAPIError traduz erros de domínio para a resposta HTTP.
// validationStatus permite 400 no registro de centro e 422 na criação de treinador.
func toAPIError(err error, validationStatus int) *apperrors.APIError {
	if apiErr, ok := apperrors.As(err); ok {
		return apiErr
	}
	if vErr, ok := account.IsValidation(err); ok {
		return validationError(err, validationStatus).WithDetails(vErr.Fields)
	}

	switch {
	case errors.Is(err, repository.ErrTrainerNotFound), errors.Is(err, repository.ErrUserNotFound):
		return apperrors.NotFound("Trainer", err)
	case errors.Is(err, auth.ErrInvalidCredentials):
		return apperrors.Unauthorized("Invalid credentials.", err)
	default:
		return apperrors.InternalServer("", err)
	}
}

func validationError(err error, status int) *apperrors.APIError {
	const msg = "The given data was invalid."
	if status == http.StatusUnprocessableEntity {
		return apperrors.UnprocessableEntity(msg, err)
	}
	return apperrors.BadRequest(msg, err)
}

// respondError escreve o erro e registra no log os 5xx
func respondError(c *gin.Context, logger *zap.Logger, err error, validationStatus int) {
	apiErr := toAPIError(err, validationStatus)
	if apiErr.Code >= http.StatusInternalServerError {
		logger.Error("erro ao processar requisição",
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(apiErr.Code, apiErr)
}
