package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/librarian/internal/entities"
	"github.com/mrlokans/librarian/internal/lending"
)

// LoanResponse adds the derived overdue flag to a stored loan.
type LoanResponse struct {
	entities.Loan
	Overdue bool `json:"overdue"`
}

type LoansController struct {
	lending LendingService
	now     func() time.Time
}

func NewLoansController(lending LendingService) *LoansController {
	return &LoansController{
		lending: lending,
		now:     time.Now,
	}
}

func (controller *LoansController) view(loan *entities.Loan) LoanResponse {
	return LoanResponse{Loan: *loan, Overdue: loan.IsOverdue(controller.now())}
}

func (controller *LoansController) respondLoans(c *gin.Context, loans []entities.Loan) {
	views := make([]LoanResponse, 0, len(loans))
	for i := range loans {
		views = append(views, controller.view(&loans[i]))
	}
	c.IndentedJSON(http.StatusOK, gin.H{"loans": views, "count": len(views)})
}

// CreateLoan handles POST /api/loans
func (controller *LoansController) CreateLoan(c *gin.Context) {
	var req lending.LendRequest
	if !bindJSON(c, &req) {
		return
	}

	loan, err := controller.lending.Lend(c.Request.Context(), req)
	if err != nil {
		respondDomainError(c, err, "lend book")
		return
	}
	respondCreated(c, controller.view(loan))
}

// ReturnLoan handles PUT /api/loans/:id/return
func (controller *LoansController) ReturnLoan(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	loan, err := controller.lending.Return(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err, "return loan")
		return
	}
	c.IndentedJSON(http.StatusOK, controller.view(loan))
}

// ReturnByBook handles PUT /api/loans/return-by-book/:bookId
func (controller *LoansController) ReturnByBook(c *gin.Context) {
	bookID, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}

	loan, err := controller.lending.ReturnByBook(c.Request.Context(), bookID)
	if err != nil {
		respondDomainError(c, err, "return by book")
		return
	}
	c.IndentedJSON(http.StatusOK, controller.view(loan))
}

// ListLoans handles GET /api/loans with optional email or status filter.
func (controller *LoansController) ListLoans(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		loans []entities.Loan
		err   error
	)
	switch {
	case c.Query("email") != "":
		loans, err = controller.lending.FindByEmail(ctx, c.Query("email"))
	case c.Query("status") != "":
		status := entities.LoanStatus(strings.ToUpper(c.Query("status")))
		loans, err = controller.lending.FindByStatus(ctx, status)
	default:
		loans, err = controller.lending.List(ctx)
	}
	if err != nil {
		respondDomainError(c, err, "list loans")
		return
	}
	controller.respondLoans(c, loans)
}

func (controller *LoansController) ListOverdue(c *gin.Context) {
	loans, err := controller.lending.FindOverdue(c.Request.Context())
	if err != nil {
		respondDomainError(c, err, "overdue loans")
		return
	}
	controller.respondLoans(c, loans)
}

func (controller *LoansController) GetLoan(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	loan, err := controller.lending.Get(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err, "get loan")
		return
	}
	c.IndentedJSON(http.StatusOK, controller.view(loan))
}

// GetBookLoans handles GET /api/books/:id/loans
func (controller *LoansController) GetBookLoans(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	loans, err := controller.lending.FindByBook(c.Request.Context(), bookID)
	if err != nil {
		respondDomainError(c, err, "book loans")
		return
	}
	controller.respondLoans(c, loans)
}

func (controller *LoansController) UpdateLoan(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var patch lending.LoanPatch
	if !bindJSON(c, &patch) {
		return
	}

	loan, err := controller.lending.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondDomainError(c, err, "update loan")
		return
	}
	c.IndentedJSON(http.StatusOK, controller.view(loan))
}

func (controller *LoansController) DeleteLoan(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := controller.lending.Delete(c.Request.Context(), id); err != nil {
		respondDomainError(c, err, "delete loan")
		return
	}
	c.Status(http.StatusNoContent)
}

func (controller *LoansController) GetLoanStats(c *gin.Context) {
	stats, err := controller.lending.Stats(c.Request.Context())
	if err != nil {
		respondDomainError(c, err, "loan stats")
		return
	}
	c.IndentedJSON(http.StatusOK, stats)
}
