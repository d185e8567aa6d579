package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	companydomain "github.com/invoq/invoq/internal/company/domain"
)

type createCompanyRequest struct {
	Name           string                        `json:"name" binding:"required"`
	Logo           string                        `json:"logo"`
	Email          string                        `json:"email"`
	Phone          string                        `json:"phone"`
	Address        string                        `json:"address"`
	City           string                        `json:"city"`
	State          string                        `json:"state"`
	Country        string                        `json:"country"`
	Website        string                        `json:"website"`
	AccountDetails []companydomain.AccountDetail `json:"account_details"`
	IsDefault      bool                          `json:"is_default"`
}

func (s *Server) CreateCompany(c *gin.Context) {
	var req createCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	company, err := s.companySvc.Create(c.Request.Context(), companydomain.CreateCompanyRequest{
		Name:           req.Name,
		Logo:           req.Logo,
		Email:          req.Email,
		Phone:          req.Phone,
		Address:        req.Address,
		City:           req.City,
		State:          req.State,
		Country:        req.Country,
		Website:        req.Website,
		AccountDetails: req.AccountDetails,
		IsDefault:      req.IsDefault,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusCreated, "company created", company)
}

func (s *Server) ListCompanies(c *gin.Context) {
	companies, err := s.companySvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, "companies listed", companies)
}

func (s *Server) GetCompanyByID(c *gin.Context) {
	company, err := s.companySvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, "company fetched", company)
}

type updateCompanyRequest struct {
	Name           *string                        `json:"name"`
	Logo           *string                        `json:"logo"`
	Email          *string                        `json:"email"`
	Phone          *string                        `json:"phone"`
	Address        *string                        `json:"address"`
	City           *string                        `json:"city"`
	State          *string                        `json:"state"`
	Country        *string                        `json:"country"`
	Website        *string                        `json:"website"`
	AccountDetails *[]companydomain.AccountDetail `json:"account_details"`
	IsDefault      *bool                          `json:"is_default"`
}

func (s *Server) UpdateCompany(c *gin.Context) {
	var req updateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	company, err := s.companySvc.Update(c.Request.Context(), companydomain.UpdateCompanyRequest{
		ID:             c.Param("id"),
		Name:           req.Name,
		Logo:           req.Logo,
		Email:          req.Email,
		Phone:          req.Phone,
		Address:        req.Address,
		City:           req.City,
		State:          req.State,
		Country:        req.Country,
		Website:        req.Website,
		AccountDetails: req.AccountDetails,
		IsDefault:      req.IsDefault,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, "company updated", company)
}

func (s *Server) DeleteCompany(c *gin.Context) {
	if err := s.companySvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	respond(c, http.StatusOK, "company deleted", nil)
}
