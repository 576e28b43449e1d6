package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainErrorStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"NOT_FOUND", http.StatusNotFound},
		{"ITEM_NOT_FOUND", http.StatusNotFound},
		{"CONCURRENT_MODIFICATION", http.StatusConflict},
		{"INVALID_STATE", http.StatusUnprocessableEntity},
		{"NO_ITEMS", http.StatusUnprocessableEntity},
		{"NO_CLIENT", http.StatusUnprocessableEntity},
		{"INVALID_MARGIN", http.StatusBadRequest},
		{"INVALID_CURRENCY", http.StatusBadRequest},
		{"SOMETHING_NEW", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, DomainErrorStatus(tt.code))
		})
	}
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]string{"a", "b"}, 41, 2, 20)

	assert.True(t, resp.Success)
	assert.Equal(t, int64(41), resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}
