package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/s-min-sys/billsplitbe/internal/model"
)

func (s *Server) handleExpenses(c *gin.Context) {
	respWrapper := &ResponseWrapper{}

	expenses, code, msg := s.handleExpensesInner(c)
	if code == CodeSuccess {
		respWrapper.Resp = ExpensesResponse{
			Expenses: expenses,
		}
	}

	respWrapper.Apply(code, msg)

	c.JSON(http.StatusOK, respWrapper)
}

func (s *Server) handleExpensesInner(c *gin.Context) (expenses []model.Expense, code Code, msg string) {
	scope, code, msg := s.getScope(c)
	if code != CodeSuccess {
		return
	}

	groupID := c.Query("groupID")
	if groupID == "" {
		code = CodeMissArgs
		msg = "no group id"

		return
	}

	expenses, err := s.storage.Expenses(scope, groupID)
	if err != nil {
		code = codeFromError(err)
		msg = err.Error()

		return
	}

	code = CodeSuccess

	return
}

func (s *Server) handleExpenseAdd(c *gin.Context) {
	respWrapper := &ResponseWrapper{}

	expense, fieldErrs, code, msg := s.handleExpenseAddInner(c)

	switch code {
	case CodeSuccess:
		respWrapper.Resp = ExpenseAddResponse{
			Expense: expense,
		}
	case CodeExpenseInvalid:
		respWrapper.Resp = fieldErrs
	}

	respWrapper.Apply(code, msg)

	c.JSON(http.StatusOK, respWrapper)
}

func (s *Server) handleExpenseAddInner(c *gin.Context) (
	expense model.Expense, fieldErrs model.FieldErrors, code Code, msg string) {
	scope, code, msg := s.getScope(c)
	if code != CodeSuccess {
		return
	}

	var req ExpenseAddRequest

	err := c.BindJSON(&req)
	if err != nil {
		code = CodeProtocol
		msg = err.Error()

		return
	}

	if !req.Valid() {
		code = CodeMissArgs

		return
	}

	group, err := s.storage.GetGroup(scope, req.GroupID)
	if err != nil {
		code = codeFromError(err)
		msg = err.Error()

		return
	}

	expense = req.Expense()

	// Field errors bounce the whole request back; nothing is stored.
	fieldErrs = expense.Validate(group.Participants)
	if !fieldErrs.Empty() {
		code = CodeExpenseInvalid

		return
	}

	expense, err = s.storage.AddExpense(scope, expense)
	if err != nil {
		code = codeFromError(err)
		msg = err.Error()

		return
	}

	s.dropSettlement(scope, req.GroupID)

	code = CodeSuccess

	return
}

func (s *Server) handleExpenseDelete(c *gin.Context) {
	respWrapper := &ResponseWrapper{}

	respWrapper.Apply(s.handleExpenseDeleteInner(c))

	c.JSON(http.StatusOK, respWrapper)
}

func (s *Server) handleExpenseDeleteInner(c *gin.Context) (code Code, msg string) {
	scope, code, msg := s.getScope(c)
	if code != CodeSuccess {
		return
	}

	var req ExpenseDeleteRequest

	err := c.BindJSON(&req)
	if err != nil {
		code = CodeProtocol
		msg = err.Error()

		return
	}

	if !req.Valid() {
		code = CodeMissArgs

		return
	}

	err = s.storage.DeleteExpense(scope, req.ExpenseID)
	if err != nil {
		code = codeFromError(err)
		msg = err.Error()

		return
	}

	if req.GroupID != "" {
		s.dropSettlement(scope, req.GroupID)
	} else {
		// Without the group hint the affected entry is unknown; drop them all.
		s.settleCache.Flush()
	}

	code = CodeSuccess

	return
}
