package handler

import (
	stderrors "errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"silentlibrary/internal/errors"
	"silentlibrary/internal/flash"
	"silentlibrary/internal/form"
	"silentlibrary/internal/service"
)

// AdminHandler serves the staff dashboard and catalog management pages.
type AdminHandler struct {
	bookService service.BookService
	loanService service.LoanService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(bookService service.BookService, loanService service.LoanService) *AdminHandler {
	return &AdminHandler{bookService: bookService, loanService: loanService}
}

// Dashboard sweeps open loans past due into overdue status, then shows the
// overdue and active loan lists.
func (h *AdminHandler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()

	if _, err := h.loanService.SweepOverdue(ctx); err != nil {
		log.Printf("overdue sweep: %v", err)
	}

	overdue, err := h.loanService.ListOverdueLoans(ctx)
	if err != nil {
		return err
	}
	active, err := h.loanService.ListActiveLoans(ctx)
	if err != nil {
		return err
	}

	return render(c, http.StatusOK, "admin_dashboard.html", echo.Map{
		"OverdueLoans": overdue,
		"ActiveLoans":  active,
	})
}

// Books lists the catalog for management, paginated.
func (h *AdminHandler) Books(c echo.Context) error {
	page := queryPage(c)
	books, total, err := h.bookService.ListBooks(c.Request().Context(), page, perPage)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "admin_books.html", echo.Map{
		"Books":   books,
		"Page":    page,
		"HasNext": int64(page*perPage) < total,
	})
}

// AddBookPage renders an empty book form.
func (h *AdminHandler) AddBookPage(c echo.Context) error {
	return h.renderBookForm(c, "Add", &form.BookForm{}, map[string]string{}, nil, nil)
}

// AddBook creates a catalog entry from the submitted form.
func (h *AdminHandler) AddBook(c echo.Context) error {
	var f form.BookForm
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form submission")
	}
	if err := c.Validate(&f); err != nil {
		return h.renderBookForm(c, "Add", &f, form.Errors(err), f.AuthorIDs, f.GenreIDs)
	}

	_, err := h.bookService.CreateBook(c.Request().Context(), bookInput(&f))
	if err != nil {
		if stderrors.Is(err, errors.ErrDuplicateISBN) {
			return h.renderBookForm(c, "Add", &f,
				map[string]string{"ISBN": "A book with this ISBN already exists."}, f.AuthorIDs, f.GenreIDs)
		}
		return err
	}

	flash.Success(c, "Book added to the catalog.")
	return c.Redirect(http.StatusSeeOther, "/admin/books")
}

// EditBookPage renders the book form pre-filled from the catalog entry.
func (h *AdminHandler) EditBookPage(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	book, err := h.bookService.GetBook(c.Request().Context(), id)
	if err != nil {
		return err
	}

	f := &form.BookForm{
		Title:           book.Title,
		ISBN:            book.ISBN,
		TotalCopies:     book.TotalCopies,
		AvailableCopies: book.AvailableCopies,
	}
	for _, a := range book.Authors {
		f.AuthorIDs = append(f.AuthorIDs, a.ID)
	}
	for _, g := range book.Genres {
		f.GenreIDs = append(f.GenreIDs, g.ID)
	}

	return h.renderBookForm(c, "Edit", f, map[string]string{}, f.AuthorIDs, f.GenreIDs)
}

// EditBook updates a catalog entry from the submitted form.
func (h *AdminHandler) EditBook(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var f form.BookForm
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form submission")
	}
	if err := c.Validate(&f); err != nil {
		return h.renderBookForm(c, "Edit", &f, form.Errors(err), f.AuthorIDs, f.GenreIDs)
	}

	_, err = h.bookService.UpdateBook(c.Request().Context(), id, bookInput(&f))
	if err != nil {
		if stderrors.Is(err, errors.ErrDuplicateISBN) {
			return h.renderBookForm(c, "Edit", &f,
				map[string]string{"ISBN": "A book with this ISBN already exists."}, f.AuthorIDs, f.GenreIDs)
		}
		return err
	}

	flash.Success(c, "Book updated.")
	return c.Redirect(http.StatusSeeOther, "/admin/books")
}

// DeleteBookPage renders the delete confirmation.
func (h *AdminHandler) DeleteBookPage(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	book, err := h.bookService.GetBook(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return render(c, http.StatusOK, "book_confirm_delete.html", echo.Map{"Book": book})
}

// DeleteBook removes a catalog entry unless loan or review history references it.
func (h *AdminHandler) DeleteBook(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.bookService.DeleteBook(c.Request().Context(), id); err != nil {
		if stderrors.Is(err, errors.ErrBookInUse) {
			flash.Error(c, "This book has loan or review history and cannot be deleted.")
			return c.Redirect(http.StatusSeeOther, "/admin/books")
		}
		return err
	}

	flash.Success(c, "Book deleted.")
	return c.Redirect(http.StatusSeeOther, "/admin/books")
}

func (h *AdminHandler) renderBookForm(
	c echo.Context,
	action string,
	f *form.BookForm,
	fieldErrors map[string]string,
	selectedAuthors, selectedGenres []uint,
) error {
	ctx := c.Request().Context()
	authors, err := h.bookService.ListAuthors(ctx)
	if err != nil {
		return err
	}
	genres, err := h.bookService.ListGenres(ctx)
	if err != nil {
		return err
	}

	return render(c, http.StatusOK, "book_form.html", echo.Map{
		"Action":          action,
		"Form":            f,
		"Errors":          fieldErrors,
		"Authors":         authors,
		"Genres":          genres,
		"SelectedAuthors": idSet(selectedAuthors),
		"SelectedGenres":  idSet(selectedGenres),
	})
}

func bookInput(f *form.BookForm) service.BookInput {
	return service.BookInput{
		Title:           f.Title,
		ISBN:            f.ISBN,
		TotalCopies:     f.TotalCopies,
		AvailableCopies: f.AvailableCopies,
		AuthorIDs:       f.AuthorIDs,
		GenreIDs:        f.GenreIDs,
	}
}

func idSet(ids []uint) map[uint]bool {
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
