package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"silentlibrary/internal/cache"
	"silentlibrary/internal/errors"
	"silentlibrary/internal/model"
	"silentlibrary/internal/repository"
)

// LoanService handles borrowing, returns, and fine assessment.
type LoanService interface {
	Borrow(ctx context.Context, userID, bookID uint) (*model.Loan, error)
	Return(ctx context.Context, userID, loanID uint) (*model.Loan, *model.Fine, error)
	PayFine(ctx context.Context, userID, fineID uint) (*model.Fine, error)
	ListUserLoans(ctx context.Context, userID uint) ([]model.Loan, error)
	ListUserFines(ctx context.Context, userID uint) ([]model.Fine, error)
	ListActiveLoans(ctx context.Context) ([]model.Loan, error)
	ListOverdueLoans(ctx context.Context) ([]model.Loan, error)
	SweepOverdue(ctx context.Context) (int64, error)
}

type loanService struct {
	loanRepo         repository.LoanRepository
	fineRepo         repository.FineRepository
	notificationRepo repository.NotificationRepository
	cache            *cache.Client
	loanPeriod       time.Duration
	dailyRate        decimal.Decimal
}

// NewLoanService creates a new loan service.
func NewLoanService(
	loanRepo repository.LoanRepository,
	fineRepo repository.FineRepository,
	notificationRepo repository.NotificationRepository,
	cache *cache.Client,
	loanPeriodDays int,
	dailyRate decimal.Decimal,
) LoanService {
	return &loanService{
		loanRepo:         loanRepo,
		fineRepo:         fineRepo,
		notificationRepo: notificationRepo,
		cache:            cache,
		loanPeriod:       time.Duration(loanPeriodDays) * 24 * time.Hour,
		dailyRate:        dailyRate,
	}
}

// Borrow checks out one copy of a book. The available-copies decrement and
// the loan insert run in a single row-locked transaction so concurrent
// borrows cannot oversell the last copy.
func (s *loanService) Borrow(ctx context.Context, userID, bookID uint) (*model.Loan, error) {
	open, err := s.loanRepo.CountActiveByUserAndBook(ctx, userID, bookID)
	if err != nil {
		return nil, fmt.Errorf("check open loans: %w", err)
	}
	if open > 0 {
		return nil, fmt.Errorf("you already have this book on loan")
	}

	loan := &model.Loan{
		UserID:  userID,
		BookID:  bookID,
		DueDate: time.Now().Add(s.loanPeriod).Truncate(24 * time.Hour),
		Status:  model.LoanStatusBorrowed,
	}

	var title string
	err = s.loanRepo.WithTransaction(ctx, func(ctx context.Context, loans repository.LoanRepository, books repository.BookRepository) error {
		book, err := books.FindByIDForUpdate(ctx, bookID)
		if err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return errors.ErrBookNotFound
			}
			return err
		}
		if book.AvailableCopies == 0 {
			return errors.ErrNoCopiesAvailable
		}
		title = book.Title
		if err := books.UpdateAvailableCopies(ctx, bookID, book.AvailableCopies-1); err != nil {
			return err
		}
		return loans.Create(ctx, loan)
	})
	if err != nil {
		return nil, err
	}

	_ = s.notificationRepo.Create(ctx, &model.Notification{
		UserID:  userID,
		Message: fmt.Sprintf("You borrowed %q, due back on %s.", title, loan.DueDate.Format("Jan 2, 2006")),
	})
	_ = s.cache.Delete(ctx, fmt.Sprintf("book:%d", bookID))

	return loan, nil
}

// Return closes a loan, restores the copy, and assesses a fine when overdue.
func (s *loanService) Return(ctx context.Context, userID, loanID uint) (*model.Loan, *model.Fine, error) {
	loan, err := s.loanRepo.FindByID(ctx, loanID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errors.ErrLoanNotFound
		}
		return nil, nil, err
	}
	if loan.UserID != userID {
		return nil, nil, errors.ErrLoanNotFound
	}
	if loan.ReturnDate != nil {
		return nil, nil, errors.ErrLoanAlreadyReturned
	}

	now := time.Now()
	loan.ReturnDate = &now
	loan.Status = model.LoanStatusReturned

	err = s.loanRepo.WithTransaction(ctx, func(ctx context.Context, loans repository.LoanRepository, books repository.BookRepository) error {
		book, err := books.FindByIDForUpdate(ctx, loan.BookID)
		if err != nil {
			return err
		}
		available := book.AvailableCopies + 1
		if available > book.TotalCopies {
			available = book.TotalCopies
		}
		if err := books.UpdateAvailableCopies(ctx, loan.BookID, available); err != nil {
			return err
		}
		return loans.Update(ctx, loan)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("close loan: %w", err)
	}

	var fine *model.Fine
	if daysLate := daysBetween(loan.DueDate, now); daysLate > 0 {
		fine = &model.Fine{
			LoanID: loan.ID,
			Amount: s.dailyRate.Mul(decimal.NewFromInt(int64(daysLate))),
			Status: model.FineStatusPending,
		}
		if err := s.fineRepo.Create(ctx, fine); err != nil {
			return loan, nil, fmt.Errorf("create fine: %w", err)
		}
		_ = s.notificationRepo.Create(ctx, &model.Notification{
			UserID:  userID,
			Message: fmt.Sprintf("Your return of %q was %d day(s) late. A fine of %s has been assessed.", loan.Book.Title, daysLate, fine.Amount.StringFixed(2)),
		})
	}

	_ = s.cache.Delete(ctx, fmt.Sprintf("book:%d", loan.BookID))
	return loan, fine, nil
}

// PayFine settles a pending fine belonging to the given member.
func (s *loanService) PayFine(ctx context.Context, userID, fineID uint) (*model.Fine, error) {
	fine, err := s.fineRepo.FindByID(ctx, fineID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrFineNotFound
		}
		return nil, err
	}
	if fine.Loan.UserID != userID {
		return nil, errors.ErrFineNotFound
	}
	if fine.Status != model.FineStatusPending {
		return nil, errors.ErrFineAlreadySettled
	}

	now := time.Now()
	fine.Status = model.FineStatusPaid
	fine.PaymentDate = &now
	if err := s.fineRepo.Update(ctx, fine); err != nil {
		return nil, fmt.Errorf("settle fine: %w", err)
	}

	_ = s.notificationRepo.Create(ctx, &model.Notification{
		UserID:  userID,
		Message: fmt.Sprintf("Your fine of %s for %q has been paid. Thank you.", fine.Amount.StringFixed(2), fine.Loan.Book.Title),
	})
	return fine, nil
}

func (s *loanService) ListUserLoans(ctx context.Context, userID uint) ([]model.Loan, error) {
	return s.loanRepo.ListByUser(ctx, userID)
}

func (s *loanService) ListUserFines(ctx context.Context, userID uint) ([]model.Fine, error) {
	return s.fineRepo.ListPendingByUser(ctx, userID)
}

func (s *loanService) ListActiveLoans(ctx context.Context) ([]model.Loan, error) {
	return s.loanRepo.ListActive(ctx)
}

func (s *loanService) ListOverdueLoans(ctx context.Context) ([]model.Loan, error) {
	return s.loanRepo.ListOverdue(ctx)
}

// SweepOverdue marks open loans past their due date as overdue.
func (s *loanService) SweepOverdue(ctx context.Context) (int64, error) {
	return s.loanRepo.MarkOverdue(ctx, time.Now())
}

// daysBetween counts whole late days, rounding any partial day up.
func daysBetween(due, returned time.Time) int {
	if !returned.After(due) {
		return 0
	}
	days := int(returned.Sub(due).Hours() / 24)
	if returned.Sub(due)%(24*time.Hour) > 0 {
		days++
	}
	return days
}
