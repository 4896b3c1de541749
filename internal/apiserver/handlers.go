// Package apiserver is the development backend implementing the remote list,
// mutation and stats contract the consoles consume.
package apiserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/RezaEskandarii/recordgrid/internal/query"
	"github.com/RezaEskandarii/recordgrid/internal/store"
	"github.com/RezaEskandarii/recordgrid/types"
	"github.com/gin-gonic/gin"
)

const defaultPageSize = 10

type Handlers struct {
	users  store.UserStore
	logger *slog.Logger
	now    func() time.Time
}

func NewHandlers(users store.UserStore, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{users: users, logger: logger, now: time.Now}
}

// RegisterRoutes mounts the user collection under group, e.g. /api/users.
func RegisterRoutes(group *gin.RouterGroup, h *Handlers) {
	group.GET("/paginated", h.List)
	group.GET("/stats", h.Stats)
	group.POST("", h.Create)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
}

func (h *Handlers) List(c *gin.Context) {
	req := query.ParseListRequest(c.Request.URL.Query(), defaultPageSize)
	page, err := h.users.List(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "list users", err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handlers) Stats(c *gin.Context) {
	stats, err := h.users.Stats(c.Request.Context(), h.now())
	if err != nil {
		h.fail(c, "user stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handlers) Get(c *gin.Context) {
	u, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "get user", err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handlers) Create(c *gin.Context) {
	var in types.CreateUser
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Corps de requête invalide"})
		return
	}
	for _, v := range []string{in.Username, in.Email, in.FirstName, in.LastName} {
		if strings.TrimSpace(v) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Champs obligatoires manquants"})
			return
		}
	}
	u, err := h.users.Create(c.Request.Context(), in)
	if err != nil {
		h.fail(c, "create user", err)
		return
	}
	h.logger.Info("user created", "id", u.ID, "username", u.Username)
	c.JSON(http.StatusCreated, u)
}

func (h *Handlers) Update(c *gin.Context) {
	var patch map[string]any
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Corps de requête invalide"})
		return
	}
	u, err := h.users.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		h.fail(c, "update user", err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handlers) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, "delete user", err)
		return
	}
	h.logger.Info("user deleted", "id", id)
	c.Status(http.StatusNoContent)
}

func (h *Handlers) fail(c *gin.Context, op string, err error) {
	var fieldErr *store.FieldError
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Utilisateur introuvable"})
	case errors.Is(err, store.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"message": "Nom d'utilisateur ou email déjà utilisé"})
	case errors.Is(err, store.ErrEmptyUpdate):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Aucun champ à mettre à jour"})
	case errors.As(err, &fieldErr):
		c.JSON(http.StatusBadRequest, gin.H{"message": fieldErr.Error()})
	default:
		h.logger.Error(op+" failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erreur interne du serveur"})
	}
}
