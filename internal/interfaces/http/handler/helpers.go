package handler

import (
	"github.com/tradelink/backend/internal/domain/shared"
	"github.com/tradelink/backend/internal/interfaces/http/dto"
)

// toListFilter converts bound list query parameters into a repository filter
func toListFilter(req dto.ListRequest) shared.Filter {
	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	if req.OrderBy != "" {
		filter.OrderBy = req.OrderBy
	}
	if req.OrderDir != "" {
		filter.OrderDir = req.OrderDir
	}
	filter.Search = req.Search
	return filter
}
