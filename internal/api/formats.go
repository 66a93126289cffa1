package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"livestats/internal/model"
)

// VariantInfo 子格式的规范表头
type VariantInfo struct {
	Variant        model.Variant `json:"variant"`
	Label          string        `json:"label"`
	Headers        []string      `json:"headers"`
	DerivedHeaders []string      `json:"derivedHeaders"`
}

// FormatInfo 格式目录项
type FormatInfo struct {
	ID       model.FormatID `json:"id"`
	Label    string         `json:"label"`
	Variants []VariantInfo  `json:"variants"`
}

// ListFormats 按探测顺序列出支持的格式
// GET /api/formats
func (h *Handler) ListFormats(c *gin.Context) {
	defs := h.coordinator.Registry().Definitions()
	out := make([]FormatInfo, 0, len(defs))
	for _, def := range defs {
		info := FormatInfo{ID: def.ID(), Label: def.Label()}
		for _, v := range def.Variants() {
			schema := def.Schema(v)
			info.Variants = append(info.Variants, VariantInfo{
				Variant:        v,
				Label:          schema.Label,
				Headers:        schema.Headers,
				DerivedHeaders: schema.DerivedHeaders(),
			})
		}
		out = append(out, info)
	}
	c.JSON(http.StatusOK, gin.H{"formats": out})
}
