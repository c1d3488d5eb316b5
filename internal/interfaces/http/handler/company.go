package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	partnerapp "github.com/tradelink/backend/internal/application/partner"
	"github.com/tradelink/backend/internal/domain/shared"
	"github.com/tradelink/backend/internal/interfaces/http/dto"
	"github.com/tradelink/backend/internal/interfaces/http/middleware"
	"github.com/tradelink/backend/internal/interfaces/http/router"
)

// CompanyHandler exposes seller company endpoints
type CompanyHandler struct {
	BaseHandler
	companyService *partnerapp.CompanyService
}

// NewCompanyHandler creates a new company handler
func NewCompanyHandler(companyService *partnerapp.CompanyService) *CompanyHandler {
	return &CompanyHandler{companyService: companyService}
}

// ListCompaniesRequest is the query surface for listing companies
type ListCompaniesRequest struct {
	dto.ListRequest
	Country          string `form:"country" binding:"omitempty,len=2"`
	Status           string `form:"status"`
	PayoutPreference string `form:"payout_preference" binding:"omitempty,oneof=stripe manual"`
}

func (r *ListCompaniesRequest) toFilter() shared.Filter {
	filter := toListFilter(r.ListRequest)
	if r.Country != "" {
		filter.Filters["country"] = r.Country
	}
	if r.Status != "" {
		filter.Filters["status"] = r.Status
	}
	if r.PayoutPreference != "" {
		filter.Filters["payout_preference"] = r.PayoutPreference
	}
	return filter
}

// CreateCompany godoc
// @Summary Create a seller company
// @Tags companies
// @Accept json
// @Produce json
// @Param request body partnerapp.CreateCompanyRequest true "Company to create"
// @Success 201 {object} APIResponse[partnerapp.CompanyResponse]
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /companies [post]
func (h *CompanyHandler) CreateCompany(c *gin.Context) {
	var req partnerapp.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.companyService.CreateCompany(c.Request.Context(), &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListCompanies godoc
// @Summary List seller companies
// @Tags companies
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Param country query string false "Filter by ISO country code"
// @Param payout_preference query string false "Filter by payout channel" Enums(stripe, manual)
// @Success 200 {object} APIResponse[[]partnerapp.CompanyResponse]
// @Router /companies [get]
func (h *CompanyHandler) ListCompanies(c *gin.Context) {
	req := ListCompaniesRequest{ListRequest: dto.DefaultListRequest()}
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.companyService.ListCompanies(c.Request.Context(), req.toFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// GetCompany godoc
// @Summary Get a seller company
// @Tags companies
// @Produce json
// @Param id path string true "Company ID"
// @Success 200 {object} APIResponse[partnerapp.CompanyResponse]
// @Failure 404 {object} ErrorResponse
// @Router /companies/{id} [get]
func (h *CompanyHandler) GetCompany(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid company ID")
		return
	}

	resp, err := h.companyService.GetCompany(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateCompany godoc
// @Summary Update a seller company
// @Tags companies
// @Accept json
// @Produce json
// @Param id path string true "Company ID"
// @Param request body partnerapp.UpdateCompanyRequest true "Fields to update"
// @Success 200 {object} APIResponse[partnerapp.CompanyResponse]
// @Failure 404 {object} ErrorResponse
// @Router /companies/{id} [put]
func (h *CompanyHandler) UpdateCompany(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid company ID")
		return
	}

	var req partnerapp.UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.companyService.UpdateCompany(c.Request.Context(), id, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SetPayoutPreference godoc
// @Summary Set a company's payout channel
// @Description Switches the company between automatic stripe transfers and manual settlement. Stripe requires a connected account ID.
// @Tags companies
// @Accept json
// @Produce json
// @Param id path string true "Company ID"
// @Param request body partnerapp.SetPayoutPreferenceRequest true "Preferred channel"
// @Success 200 {object} APIResponse[partnerapp.CompanyResponse]
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /companies/{id}/payout-preference [put]
func (h *CompanyHandler) SetPayoutPreference(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "invalid company ID")
		return
	}

	var req partnerapp.SetPayoutPreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.companyService.SetPayoutPreference(c.Request.Context(), id, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RegisterRoutes registers the company endpoints
func (h *CompanyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := router.NewDomainGroup(rg, "companies")
	group.POST("", h.CreateCompany)
	group.GET("", h.ListCompanies)
	group.GET("/:id", h.GetCompany)
	group.PUT("/:id", h.UpdateCompany)
	group.PUT("/:id/payout-preference", h.SetPayoutPreference)
}
