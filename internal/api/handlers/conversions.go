package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/perfumeoud/retailapi/internal/conversion"
)

// ConvertRequest represents a single conversion payload
type ConvertRequest struct {
	Value         float64  `json:"value"`
	FromUnit      string   `json:"from_unit" binding:"required"`
	ToUnit        string   `json:"to_unit" binding:"required"`
	MaterialID    *string  `json:"material_id,omitempty"`
	CustomDensity *float64 `json:"custom_density,omitempty"`
	Temperature   *float64 `json:"temperature,omitempty"`
}

// HandleConvert handles POST /v1/conversions
func HandleConvert(engine *conversion.Engine, catalog *conversion.Catalog, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ConvertRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		convReq := conversion.Request{
			Value:         req.Value,
			From:          conversion.Unit(req.FromUnit),
			To:            conversion.Unit(req.ToUnit),
			CustomDensity: req.CustomDensity,
			Temperature:   req.Temperature,
		}

		if req.MaterialID != nil {
			material, ok := catalog.Get(*req.MaterialID)
			if !ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "material not found"})
				return
			}
			convReq.Material = &material
		}

		result, err := engine.Convert(convReq)
		if err != nil {
			if _, ok := err.(*conversion.ErrNoConversionPath); ok {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			logger.Error("Conversion failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

// HandleConvertBatch handles POST /v1/conversions/batch. The body is plain
// text, one conversion per line: "<value> <fromUnit> <toUnit>".
func HandleConvertBatch(engine *conversion.Engine, catalog *conversion.Catalog, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
			return
		}

		var material *conversion.Material
		if materialID := c.Query("material_id"); materialID != "" {
			m, ok := catalog.Get(materialID)
			if !ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "material not found"})
				return
			}
			material = &m
		}

		results := engine.ConvertBatch(string(body), material)

		c.JSON(http.StatusOK, gin.H{
			"results": results,
			"count":   len(results),
		})
	}
}

// HandleConversionHistory handles GET /v1/conversions/history
func HandleConversionHistory(engine *conversion.Engine, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"conversions": engine.History()})
	}
}

// HandleListMaterials handles GET /v1/materials
func HandleListMaterials(catalog *conversion.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		materials := catalog.List()

		responses := make([]gin.H, len(materials))
		for i, m := range materials {
			entry := gin.H{
				"id":          m.ID,
				"name":        m.Name,
				"name_arabic": m.NameArabic,
				"category":    m.Category,
				"density":     m.Density,
			}
			if m.Viscosity != nil {
				entry["viscosity"] = *m.Viscosity
			}
			if m.TemperatureCoefficient != nil {
				entry["temperature_coefficient"] = *m.TemperatureCoefficient
			}
			if m.Grade != "" {
				entry["grade"] = m.Grade
			}
			if m.Origin != "" {
				entry["origin"] = m.Origin
			}
			responses[i] = entry
		}

		c.JSON(http.StatusOK, gin.H{"materials": responses})
	}
}
