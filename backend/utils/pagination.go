package utils

import (
	"errors"
	"strconv"
	"strings"

	"github.com/kitchen-service/kitchen/backend/models"
)

var ErrInvalidPage = errors.New("invalid page")

// ParsePage reads the ?page= value. A missing value means page 1.
func ParsePage(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, ErrInvalidPage
	}
	return page, nil
}

// Paginate rejects pages past the end; page 1 of an empty list is fine.
func Paginate(page, limit, total int) (*models.PaginationInfo, error) {
	info := models.NewPaginationInfo(page, limit, total)
	if page > info.TotalPages {
		return nil, ErrInvalidPage
	}
	return info, nil
}
