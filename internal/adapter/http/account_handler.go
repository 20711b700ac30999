package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/diillson/training-center-go/internal/app/account"
	"github.com/diillson/training-center-go/internal/domain/repository"
	apperrors "github.com/diillson/training-center-go/pkg/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AccountHandler expõe as operações de conta de centros e treinadores
type AccountHandler struct {
	service *account.Service
	logger  *zap.Logger
}

func NewAccountHandler(service *account.Service, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterTrainingCenter não usa binding do gin: a validação é toda do serviço e falha com 400
func (h *AccountHandler) RegisterTrainingCenter(c *gin.Context) {
	var in account.RegisterTrainingCenterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, h.logger, account.FromValidator(err), http.StatusBadRequest)
		return
	}

	user, err := h.service.RegisterTrainingCenter(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User successfully registered",
		"user":    user,
	})
}

// CreateTrainer valida no binding do gin; qualquer falha de validação vira 422
func (h *AccountHandler) CreateTrainer(c *gin.Context) {
	var in account.CreateTrainerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, h.logger, account.FromValidator(err), http.StatusUnprocessableEntity)
		return
	}

	trainer, err := h.service.CreateTrainer(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err, http.StatusUnprocessableEntity)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User successfully registered",
		"user":    trainer,
	})
}

func (h *AccountHandler) DeleteTrainer(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteTrainer(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": "Successfully deleted!"})
}

// UpdateTrainer aceita corpo vazio como atualização sem campos
func (h *AccountHandler) UpdateTrainer(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}

	var update account.TrainerUpdate
	if err := c.ShouldBindJSON(&update); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, h.logger, account.FromValidator(err), http.StatusBadRequest)
		return
	}

	if _, err := h.service.UpdateTrainer(c.Request.Context(), id, update); err != nil {
		respondError(c, h.logger, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": "Successfully updated"})
}

func (h *AccountHandler) ListTrainers(c *gin.Context) {
	trainers, err := h.service.ListTrainers(c.Request.Context())
	if errors.Is(err, account.ErrNoTrainers) {
		c.JSON(http.StatusNotFound, gin.H{"fail": "Trainers not found!"})
		return
	}
	if err != nil {
		respondError(c, h.logger, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trainers": trainers})
}

func (h *AccountHandler) GetTrainer(c *gin.Context) {
	id, ok := h.userID(c)
	if !ok {
		return
	}

	trainer, err := h.service.GetTrainer(c.Request.Context(), id)
	if errors.Is(err, repository.ErrTrainerNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"fail": "Trainer not found!"})
		return
	}
	if err != nil {
		respondError(c, h.logger, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trainer": trainer})
}

// userID lê o :id da rota; inválido já responde 400
func (h *AccountHandler) userID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		apiErr := apperrors.BadRequest("The id must be a positive integer.", err)
		c.AbortWithStatusJSON(apiErr.Code, apiErr)
		return 0, false
	}
	return uint(id), true
}
