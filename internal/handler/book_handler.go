package handler

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"silentlibrary/internal/errors"
	"silentlibrary/internal/flash"
	"silentlibrary/internal/form"
	"silentlibrary/internal/service"
)

// BookHandler serves catalog search, book detail, reviews, and loan actions.
type BookHandler struct {
	bookService   service.BookService
	loanService   service.LoanService
	reviewService service.ReviewService
}

// NewBookHandler creates a new book handler.
func NewBookHandler(
	bookService service.BookService,
	loanService service.LoanService,
	reviewService service.ReviewService,
) *BookHandler {
	return &BookHandler{
		bookService:   bookService,
		loanService:   loanService,
		reviewService: reviewService,
	}
}

// Search lists catalog matches for ?q=, paginated with ?page=.
func (h *BookHandler) Search(c echo.Context) error {
	query := c.QueryParam("q")
	page := queryPage(c)

	books, total, err := h.bookService.SearchBooks(c.Request().Context(), query, page, perPage)
	if err != nil {
		return err
	}

	return render(c, http.StatusOK, "search.html", echo.Map{
		"Query":   query,
		"Books":   books,
		"Page":    page,
		"HasNext": int64(page*perPage) < total,
	})
}

// Detail shows one book with its reviews and, for members, the borrow and
// review forms.
func (h *BookHandler) Detail(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	book, err := h.bookService.GetBook(c.Request().Context(), id)
	if err != nil {
		return err
	}
	reviews, err := h.reviewService.ListByBook(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return render(c, http.StatusOK, "book_detail.html", echo.Map{
		"Book":    book,
		"Reviews": reviews,
		"Form":    &form.ReviewForm{},
		"Errors":  map[string]string{},
	})
}

// Review attaches a member's review to the book.
func (h *BookHandler) Review(c echo.Context) error {
	claims := CurrentClaims(c)
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var f form.ReviewForm
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form submission")
	}
	if err := c.Validate(&f); err != nil {
		book, gerr := h.bookService.GetBook(c.Request().Context(), id)
		if gerr != nil {
			return gerr
		}
		reviews, gerr := h.reviewService.ListByBook(c.Request().Context(), id)
		if gerr != nil {
			return gerr
		}
		return render(c, http.StatusOK, "book_detail.html", echo.Map{
			"Book":    book,
			"Reviews": reviews,
			"Form":    &f,
			"Errors":  form.Errors(err),
		})
	}

	if _, err := h.reviewService.AddReview(c.Request().Context(), claims.UserID, id, f.Rating, f.Text); err != nil {
		return err
	}

	flash.Success(c, "Thanks for your review!")
	return c.Redirect(http.StatusSeeOther, bookURL(id))
}

// Borrow checks out one copy of the book for the member.
func (h *BookHandler) Borrow(c echo.Context) error {
	claims := CurrentClaims(c)
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	loan, err := h.loanService.Borrow(c.Request().Context(), claims.UserID, id)
	if err != nil {
		switch {
		case stderrors.Is(err, errors.ErrNoCopiesAvailable):
			flash.Error(c, "No copies of this book are currently available.")
		case stderrors.Is(err, errors.ErrBookNotFound):
			return err
		default:
			flash.Error(c, err.Error())
		}
		return c.Redirect(http.StatusSeeOther, bookURL(id))
	}

	flash.Success(c, fmt.Sprintf("Enjoy your book! It is due back on %s.", loan.DueDate.Format("Jan 2, 2006")))
	return c.Redirect(http.StatusSeeOther, "/dashboard")
}

// Return closes the member's loan and reports any fine assessed.
func (h *BookHandler) Return(c echo.Context) error {
	claims := CurrentClaims(c)
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	_, fine, err := h.loanService.Return(c.Request().Context(), claims.UserID, id)
	if err != nil {
		switch {
		case stderrors.Is(err, errors.ErrLoanAlreadyReturned):
			flash.Info(c, "This loan has already been returned.")
		case stderrors.Is(err, errors.ErrLoanNotFound):
			return err
		default:
			flash.Error(c, "Could not process the return. Please try again.")
		}
		return c.Redirect(http.StatusSeeOther, "/dashboard")
	}

	if fine != nil {
		flash.Error(c, fmt.Sprintf("Returned late. A fine of %s has been added to your account.", fine.Amount.StringFixed(2)))
	} else {
		flash.Success(c, "Book returned. Thank you!")
	}
	return c.Redirect(http.StatusSeeOther, "/dashboard")
}

func bookURL(id uint) string {
	return "/book/" + url.PathEscape(strconv.FormatUint(uint64(id), 10))
}

func pathID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	return uint(id), nil
}

func queryPage(c echo.Context) int {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
