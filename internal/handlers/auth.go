package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"chatrelay/internal/auth"
	"chatrelay/internal/notify"
	"chatrelay/internal/service/otp"
)

var validate = validator.New()

// OTPService is the issuance/verification state machine the auth endpoints
// drive.
type OTPService interface {
	Issue(identity string) (string, error)
	Verify(identity, supplied string) (otp.Result, error)
}

// TokenConfig supplies the session token parameters.
type TokenConfig interface {
	TokenSecret() string
	TokenLifetime() time.Duration
	OTPLifetime() time.Duration
}

type SendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required"`
}

// SendOTP issues a fresh code for the email identity and hands it to the
// notification sender. Issuance is not rolled back if the send fails; the
// caller simply retries and gets a new code.
func SendOTP(service OTPService, sender notify.Sender, config TokenConfig) echo.HandlerFunc {
	return func(c echo.Context) error {
		params := &SendOTPRequest{}
		if err := c.Bind(params); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(params); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "a valid email address is required")
		}

		code, err := service.Issue(params.Email)
		if err != nil {
			return fmt.Errorf("issuing otp: %w", err)
		}

		subject := "Your verification code"
		body := fmt.Sprintf("Your verification code is %s. It expires in %s.",
			code, config.OTPLifetime())
		if err := sender.Send(c.Request().Context(), params.Email, subject, body); err != nil {
			return fmt.Errorf("sending otp notification: %w", err)
		}

		return c.JSON(http.StatusOK, echo.Map{"success": true})
	}
}

// VerifyOTP checks a supplied code and, on success, mints a session token
// for the now-verified identity.
func VerifyOTP(service OTPService, config TokenConfig) echo.HandlerFunc {
	return func(c echo.Context) error {
		params := &VerifyOTPRequest{}
		if err := c.Bind(params); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(params); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "email and otp are required")
		}

		result, err := service.Verify(params.Email, params.OTP)
		if err != nil {
			return fmt.Errorf("verifying otp: %w", err)
		}

		switch result {
		case otp.ResultVerified:
			token, err := auth.GenerateToken(params.Email, config.TokenSecret(), config.TokenLifetime())
			if err != nil {
				return fmt.Errorf("generating session token: %w", err)
			}
			return c.JSON(http.StatusOK, echo.Map{
				"success": true,
				"token":   token,
				"user":    echo.Map{"email": params.Email},
			})
		case otp.ResultNotFound:
			return echo.NewHTTPError(http.StatusBadRequest, "no verification code found for this email")
		case otp.ResultExpired:
			return echo.NewHTTPError(http.StatusBadRequest, "verification code has expired")
		case otp.ResultLocked:
			return echo.NewHTTPError(http.StatusBadRequest, "too many failed attempts, request a new code")
		default:
			return echo.NewHTTPError(http.StatusBadRequest, "invalid verification code")
		}
	}
}
