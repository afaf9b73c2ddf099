package handler

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "silentlibrary/internal/errors"
	"silentlibrary/internal/flash"
	"silentlibrary/internal/form"
	"silentlibrary/internal/service"
)

// UserHandler serves the member dashboard and profile pages.
type UserHandler struct {
	userService         service.UserService
	loanService         service.LoanService
	notificationService service.NotificationService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(
	userService service.UserService,
	loanService service.LoanService,
	notificationService service.NotificationService,
) *UserHandler {
	return &UserHandler{
		userService:         userService,
		loanService:         loanService,
		notificationService: notificationService,
	}
}

// Dashboard shows the member's loans, pending fines, and recent notifications.
func (h *UserHandler) Dashboard(c echo.Context) error {
	claims := CurrentClaims(c)
	ctx := c.Request().Context()

	loans, err := h.loanService.ListUserLoans(ctx, claims.UserID)
	if err != nil {
		return err
	}
	fines, err := h.loanService.ListUserFines(ctx, claims.UserID)
	if err != nil {
		return err
	}
	notifications, err := h.notificationService.Recent(ctx, claims.UserID)
	if err != nil {
		return err
	}

	return render(c, http.StatusOK, "dashboard.html", echo.Map{
		"Loans":         loans,
		"Fines":         fines,
		"Notifications": notifications,
	})
}

// PayFine settles one of the member's pending fines and returns to the dashboard.
func (h *UserHandler) PayFine(c echo.Context) error {
	claims := CurrentClaims(c)

	fineID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "fine not found")
	}

	fine, err := h.loanService.PayFine(c.Request().Context(), claims.UserID, uint(fineID))
	if err != nil {
		if stderrors.Is(err, apperrors.ErrFineAlreadySettled) {
			flash.Info(c, "This fine has already been settled.")
			return c.Redirect(http.StatusSeeOther, "/dashboard")
		}
		return err
	}

	flash.Success(c, "Your fine of "+fine.Amount.StringFixed(2)+" has been paid.")
	return c.Redirect(http.StatusSeeOther, "/dashboard")
}

// Profile renders the three profile sub-forms pre-filled from the account.
func (h *UserHandler) Profile(c echo.Context) error {
	claims := CurrentClaims(c)
	user, err := h.userService.GetUser(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}
	return h.renderProfile(c, echo.Map{
		"ProfileForm":       &form.ProfileForm{FirstName: user.FirstName, LastName: user.LastName},
		"UsernameEmailForm": &form.UsernameEmailForm{Username: user.Username, Email: user.Email},
	})
}

// UpdateProfile dispatches a profile POST to the sub-form named by the hidden
// "form" field.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	switch c.FormValue("form") {
	case "edit_profile":
		return h.editProfile(c)
	case "edit_username_email":
		return h.editUsernameEmail(c)
	case "change_password":
		return h.changePassword(c)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "unknown form")
	}
}

func (h *UserHandler) editProfile(c echo.Context) error {
	claims := CurrentClaims(c)

	var f form.ProfileForm
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form submission")
	}
	if err := c.Validate(&f); err != nil {
		return h.renderProfile(c, echo.Map{
			"ProfileForm":   &f,
			"ProfileErrors": form.Errors(err),
		})
	}

	if _, err := h.userService.UpdateProfile(c.Request().Context(), claims.UserID, f.FirstName, f.LastName); err != nil {
		flash.Error(c, "Could not update your profile. Please try again.")
		return c.Redirect(http.StatusSeeOther, "/profile")
	}

	flash.Success(c, "Your profile has been updated.")
	return c.Redirect(http.StatusSeeOther, "/profile")
}

func (h *UserHandler) editUsernameEmail(c echo.Context) error {
	claims := CurrentClaims(c)

	var f form.UsernameEmailForm
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form submission")
	}
	if err := c.Validate(&f); err != nil {
		return h.renderProfile(c, echo.Map{
			"UsernameEmailForm":   &f,
			"UsernameEmailErrors": form.Errors(err),
		})
	}

	_, err := h.userService.UpdateUsernameEmail(c.Request().Context(), claims.UserID, f.Username, f.Email, f.CurrentPassword)
	if err != nil {
		fieldErrors := map[string]string{}
		switch {
		case stderrors.Is(err, service.ErrIncorrectPassword):
			fieldErrors["CurrentPassword"] = "Incorrect password."
		case stderrors.Is(err, service.ErrUsernameTaken):
			fieldErrors["Username"] = "This username is already taken."
		case stderrors.Is(err, service.ErrEmailTaken):
			fieldErrors["Email"] = "This email is already registered."
		default:
			return err
		}
		return h.renderProfile(c, echo.Map{
			"UsernameEmailForm":   &f,
			"UsernameEmailErrors": fieldErrors,
		})
	}

	flash.Success(c, "Your username and email have been updated.")
	return c.Redirect(http.StatusSeeOther, "/profile")
}

func (h *UserHandler) changePassword(c echo.Context) error {
	claims := CurrentClaims(c)

	var f form.PasswordChangeForm
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form submission")
	}
	if err := c.Validate(&f); err != nil {
		return h.renderProfile(c, echo.Map{"PasswordErrors": form.Errors(err)})
	}

	err := h.userService.ChangePassword(c.Request().Context(), claims.UserID, f.CurrentPassword, f.NewPassword)
	if err != nil {
		if stderrors.Is(err, service.ErrIncorrectPassword) {
			return h.renderProfile(c, echo.Map{
				"PasswordErrors": map[string]string{"CurrentPassword": "Incorrect password."},
			})
		}
		return err
	}

	flash.Success(c, "Your password has been changed.")
	return c.Redirect(http.StatusSeeOther, "/profile")
}

// renderProfile fills in whichever sub-form data the caller did not provide so
// the other two forms keep their current values.
func (h *UserHandler) renderProfile(c echo.Context, data echo.Map) error {
	claims := CurrentClaims(c)
	user, err := h.userService.GetUser(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}
	if _, ok := data["ProfileForm"]; !ok {
		data["ProfileForm"] = &form.ProfileForm{FirstName: user.FirstName, LastName: user.LastName}
	}
	if _, ok := data["UsernameEmailForm"]; !ok {
		data["UsernameEmailForm"] = &form.UsernameEmailForm{Username: user.Username, Email: user.Email}
	}
	for _, key := range []string{"ProfileErrors", "UsernameEmailErrors", "PasswordErrors"} {
		if _, ok := data[key]; !ok {
			data[key] = map[string]string{}
		}
	}
	return render(c, http.StatusOK, "profile.html", data)
}
