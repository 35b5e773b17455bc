package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

const msgInternalError = "Erro interno do servidor"

// PaginatedResponse é a resposta das listagens quando ?page é informado.
type PaginatedResponse struct {
	Items      interface{} `json:"items"`
	TotalItems int64       `json:"total_items"`
	TotalPages int64       `json:"total_pages"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
}

// GetPaginationParams extracts and validates pagination parameters from Gin context.
func GetPaginationParams(c *gin.Context) (page int, pageSize int) {
	pageQuery := c.DefaultQuery("page", strconv.Itoa(DefaultPage))
	pageSizeQuery := c.DefaultQuery("page_size", strconv.Itoa(DefaultPageSize))

	page, err := strconv.Atoi(pageQuery)
	if err != nil || page < 1 {
		page = DefaultPage
	}

	pageSize, err = strconv.Atoi(pageSizeQuery)
	if err != nil || pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// respondList devolve a lista inteira (formato original) ou, com ?page, uma página dela.
func respondList[T any](c *gin.Context, items []T) {
	if items == nil {
		items = []T{}
	}
	if _, paged := c.GetQuery("page"); !paged {
		c.JSON(http.StatusOK, items)
		return
	}

	page, pageSize := GetPaginationParams(c)
	total := len(items)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	totalPages := (total + pageSize - 1) / pageSize

	c.JSON(http.StatusOK, PaginatedResponse{
		Items:      items[start:end],
		TotalItems: int64(total),
		TotalPages: int64(totalPages),
		Page:       page,
		PageSize:   pageSize,
	})
}

func internalError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"erro": msgInternalError})
}
