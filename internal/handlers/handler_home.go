package handlers

import (
	"net/http"

	"github.com/SscSPs/personal_ledger/internal/core/domain"
	"github.com/SscSPs/personal_ledger/internal/dto"
	"github.com/gin-gonic/gin"
)

func getHealth(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// getCategories godoc
// @Summary Suggested categories per movement kind
// @Tags root
// @Produce json
// @Success 200 {object} dto.CategoriesResponse
// @Router /categories [get]
func getCategories(c *gin.Context) {
	c.JSON(http.StatusOK, dto.CategoriesResponse{
		Income:  domain.IncomeCategories,
		Expense: domain.ExpenseCategories,
	})
}
