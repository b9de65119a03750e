package helpers

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/consolahealth/studenthealth/internal/app/models/dto"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	DefaultPage     = 1 // Default page is 1-based
	// MaxPage keeps (page-1)*size within int for any accepted size
	MaxPage = math.MaxInt / MaxPageSize
)

// CalculateOffsetLimit calculates the offset and limit for SQL queries based on 1-based page index.
func CalculateOffsetLimit(page, size int) (offset uint64, limit uint64) {
	size = normalizeSize(size)
	page = normalizePage(page)
	return uint64((page - 1) * size), uint64(size)
}

// NewPaginationInfo creates a standard PaginationInfo DTO.
// page should be the 1-based page number.
func NewPaginationInfo(totalItems int64, page, size int) dto.PaginationInfo {
	size = normalizeSize(size)
	page = normalizePage(page)

	// an empty result still reports a single (empty) page
	totalPages := 1
	if totalItems > 0 {
		totalPages = int(math.Ceil(float64(totalItems) / float64(size)))
	}

	return dto.PaginationInfo{
		CurrentPage: page,
		TotalPages:  totalPages,
		PageSize:    size,
		TotalItems:  totalItems,
	}
}

// ParsePaginationParams extracts and validates pagination parameters from the request
func ParsePaginationParams(c *gin.Context) (page, size int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = DefaultPage
	}

	size, err = strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(DefaultPageSize)))
	if err != nil {
		size = DefaultPageSize
	}
	return normalizePage(page), normalizeSize(size)
}

// CalculateSliceIndices calculates the start and end indices for slicing an in-memory
// result for pagination. Both indices are clamped to totalItems.
func CalculateSliceIndices(page, size, totalItems int) (start, end int) {
	size = normalizeSize(size)
	page = normalizePage(page)

	start = (page - 1) * size
	end = start + size
	if start > totalItems {
		start = totalItems
	}
	if end > totalItems {
		end = totalItems
	}
	return start, end
}

func normalizePage(page int) int {
	switch {
	case page < 1:
		return DefaultPage
	case page > MaxPage:
		return MaxPage
	}
	return page
}

func normalizeSize(size int) int {
	if size <= 0 || size > MaxPageSize {
		return DefaultPageSize
	}
	return size
}
