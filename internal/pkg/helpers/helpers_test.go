package helpers

import (
	"math"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCalculateOffsetLimit(t *testing.T) {
	offset, limit := CalculateOffsetLimit(3, 10)
	assert.Equal(t, uint64(20), offset)
	assert.Equal(t, uint64(10), limit)

	offset, limit = CalculateOffsetLimit(0, 1000)
	assert.Equal(t, uint64(0), offset)
	assert.Equal(t, uint64(DefaultPageSize), limit)
}

func TestNewPaginationInfo(t *testing.T) {
	info := NewPaginationInfo(45, 2, 20)
	assert.Equal(t, 3, info.TotalPages)
	assert.Equal(t, 2, info.CurrentPage)
	assert.Equal(t, int64(45), info.TotalItems)

	empty := NewPaginationInfo(0, 1, 20)
	assert.Equal(t, 1, empty.TotalPages)
}

func TestCalculateSliceIndices(t *testing.T) {
	tests := []struct {
		name             string
		page, size, n    int
		wantStart, wantE int
	}{
		{"first page", 1, 10, 25, 0, 10},
		{"last partial page", 3, 10, 25, 20, 25},
		{"past the end", 5, 10, 25, 25, 25},
		{"empty", 1, 10, 0, 0, 0},
		{"huge page", math.MaxInt64/20 + 2, 20, 5, 5, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := CalculateSliceIndices(tt.page, tt.size, tt.n)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantE, end)
		})
	}
}

func TestParsePaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?page=abc&size=5", nil)

	page, size := ParsePaginationParams(c)
	assert.Equal(t, DefaultPage, page)
	assert.Equal(t, 5, size)
}

func TestNullableText(t *testing.T) {
	assert.Nil(t, NullableText("   "))
	assert.Equal(t, "A", *NullableText(" A "))
	assert.Equal(t, "", Deref(nil))
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%ana%", LikePattern("ana"))
	assert.Equal(t, `%50\%\_x%`, LikePattern("50%_x"))
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 5*time.Second, ParseDuration("5s", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("soon", time.Minute))
}

func TestPagination_HugePageStaysInRange(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?page=461168601842738793&size=100", nil)

	page, size := ParsePaginationParams(c)
	assert.Equal(t, MaxPage, page)
	assert.Equal(t, 100, size)

	offset, _ := CalculateOffsetLimit(page, size)
	assert.LessOrEqual(t, offset, uint64(math.MaxInt64))

	offset, _ = CalculateOffsetLimit(math.MaxInt, 20)
	assert.Equal(t, uint64((MaxPage-1)*20), offset)

	records := []int{1, 2, 3}
	start, end := CalculateSliceIndices(page, size, len(records))
	assert.NotPanics(t, func() { _ = records[start:end] })
	assert.Empty(t, records[start:end])
}
