package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goodnightlabs/goodnight/internal/api"
	"github.com/goodnightlabs/goodnight/internal/common"
	"github.com/goodnightlabs/goodnight/internal/logging"
)

// Handler exposes the document API over HTTP.
type Handler struct {
	users     UserService
	documents DocumentService
	backup    BackupService
	logger    logging.Logger
}

func NewHandler(users UserService, documents DocumentService, backup BackupService, logger logging.Logger) *Handler {
	return &Handler{users: users, documents: documents, backup: backup, logger: logger}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) Register(c *gin.Context) {
	var creds api.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}

	if _, err := h.users.Register(c.Request.Context(), creds.Username, creds.Password); err != nil {
		if errors.Is(err, common.ErrUserAlreadyExists) {
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "username is taken"})
			return
		}
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	c.Status(http.StatusOK)
}

func (h *Handler) Login(c *gin.Context) {
	var creds api.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}

	token, userID, err := h.users.Login(c.Request.Context(), creds.Username, creds.Password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "invalid username or password"})
			return
		}
		h.logger.Error(c.Request.Context(), "login failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
		return
	}

	c.JSON(http.StatusOK, api.TokenResponse{AccessToken: token, UserID: userID})
}

func (h *Handler) UpsertEntry(c *gin.Context) {
	var doc api.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body"})
		return
	}

	err := h.documents.Upsert(c.Request.Context(), currentUserID(c), c.Param("day"), doc)
	if err != nil {
		if errors.Is(err, common.ErrNotAuthenticated) {
			c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "document does not belong to you"})
			return
		}
		h.logger.Error(c.Request.Context(), "upsert failed", "day", c.Param("day"), "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
		return
	}

	c.Status(http.StatusOK)
}

func (h *Handler) GetEntry(c *gin.Context) {
	doc, err := h.documents.Get(c.Request.Context(), currentUserID(c), c.Param("day"))
	if err != nil {
		h.logger.Error(c.Request.Context(), "get failed", "day", c.Param("day"), "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
		return
	}
	if doc == nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "no entry for day"})
		return
	}

	c.JSON(http.StatusOK, doc)
}

func (h *Handler) DeleteEntry(c *gin.Context) {
	if err := h.documents.Delete(c.Request.Context(), currentUserID(c), c.Param("day")); err != nil {
		h.logger.Error(c.Request.Context(), "delete failed", "day", c.Param("day"), "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
		return
	}
	c.Status(http.StatusOK)
}

func (h *Handler) ListEntries(c *gin.Context) {
	if c.Query("completed") != "true" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "only completed=true listings are supported"})
		return
	}

	var since *time.Time
	if raw := c.Query("since"); raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid since timestamp"})
			return
		}
		since = &t
	}

	docs, err := h.documents.ListCompletedSince(c.Request.Context(), currentUserID(c), since)
	if err != nil {
		h.logger.Error(c.Request.Context(), "list failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
		return
	}

	c.JSON(http.StatusOK, api.ListResponse{Entries: docs})
}

func (h *Handler) PresignBackup(c *gin.Context) {
	key, url, err := h.backup.GetPresignedPutUrl(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.logger.Error(c.Request.Context(), "presign failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal error"})
		return
	}

	c.JSON(http.StatusOK, api.PresignResponse{Key: key, URL: url})
}
