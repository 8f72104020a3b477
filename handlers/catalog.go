package handlers

import (
	"net/http"

	"pulsefit/middleware"
	"pulsefit/services/catalog"
	"pulsefit/utils"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	Service catalog.CatalogService
}

func NewCatalogHandler(service catalog.CatalogService) *CatalogHandler {
	return &CatalogHandler{Service: service}
}

func (h *CatalogHandler) CreateStudio(c *gin.Context) {
	var req catalog.StudioInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	studio, err := h.Service.CreateStudio(c.Request.Context(), c.GetString(middleware.ContextUserID), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"studio": studio})
}

func (h *CatalogHandler) CreateClass(c *gin.Context) {
	var req catalog.ClassInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	class, err := h.Service.CreateClass(c.Request.Context(), c.GetString(middleware.ContextUserID), c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"class": class})
}

func (h *CatalogHandler) ListStudioClasses(c *gin.Context) {
	classes, err := h.Service.ListStudioClasses(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"classes": classes, "count": len(classes)})
}

func (h *CatalogHandler) GetClass(c *gin.Context) {
	class, err := h.Service.GetClass(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"class": class})
}
