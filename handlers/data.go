package handlers

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"

	"github.com/firegate/firegate/internal/auth"
	"github.com/firegate/firegate/internal/model"
	"github.com/firegate/firegate/internal/store"
	"github.com/firegate/firegate/internal/tokens"
)

var collectionName = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// reserved collections are managed through their own endpoints; exposing
// them here would leak password hashes and token digests.
var reservedCollections = map[string]bool{
	auth.UsersCollection: true,
	tokens.Collection:    true,
}

// DataHandler exposes the document mapper over HTTP for arbitrary
// collections.
type DataHandler struct {
	store store.Store
}

func NewDataHandler(st store.Store) *DataHandler {
	return &DataHandler{store: st}
}

// RegisterProtected registers the data API under an authenticated group.
func (h *DataHandler) RegisterProtected(rg *gin.RouterGroup) {
	d := rg.Group("/data")
	d.GET("/:collection", h.List)
	d.POST("/:collection", h.Create)
	d.GET("/:collection/:id", h.Get)
	d.PATCH("/:collection/:id", h.Update)
	d.DELETE("/:collection/:id", h.Delete)
}

func (h *DataHandler) mapper(c *gin.Context) *model.Mapper[*model.Document] {
	name := c.Param("collection")
	if !collectionName.MatchString(name) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid collection name"})
		return nil
	}
	if reservedCollections[name] {
		c.JSON(http.StatusForbidden, gin.H{"error": "collection is reserved"})
		return nil
	}
	return model.NewMapper(h.store, name, func(d *model.Document) *model.Document { return d })
}

// List returns the whole collection, or an equality query when both "field"
// and "value" query parameters are present.
func (h *DataHandler) List(c *gin.Context) {
	m := h.mapper(c)
	if m == nil {
		return
	}
	var (
		docs []*model.Document
		err  error
	)
	if field := c.Query("field"); field != "" {
		docs, err = m.Where(c.Request.Context(), field, c.Query("value"))
	} else {
		docs, err = m.All(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store unavailable"})
		return
	}
	c.JSON(http.StatusOK, docs)
}

func (h *DataHandler) Create(c *gin.Context) {
	m := h.mapper(c)
	if m == nil {
		return
	}
	attrs := model.NewAttributes()
	if err := c.ShouldBindJSON(attrs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	doc, err := m.Create(c.Request.Context(), attrs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store unavailable"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": doc.ID()})
}

func (h *DataHandler) Get(c *gin.Context) {
	m := h.mapper(c)
	if m == nil {
		return
	}
	doc, err := m.Find(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store unavailable"})
		return
	}
	if doc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *DataHandler) Update(c *gin.Context) {
	m := h.mapper(c)
	if m == nil {
		return
	}
	var partial map[string]any
	if err := c.ShouldBindJSON(&partial); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := m.Update(c.Request.Context(), c.Param("id"), partial); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
}

func (h *DataHandler) Delete(c *gin.Context) {
	m := h.mapper(c)
	if m == nil {
		return
	}
	if err := m.Destroy(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store unavailable"})
		return
	}
	c.Status(http.StatusNoContent)
}
