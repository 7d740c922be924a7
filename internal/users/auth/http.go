// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

/*
HTTP delivery layer for the authentication lifecycle.

The handler is a thin mediation layer between the web and the [Service]:
  - Protocol: RESTful JSON interface under /api/v1/users.
  - Security: issues the JWT and injects it as an http-only cookie, so both
    API clients (Authorization header) and the rendered pages (cookie) can
    authenticate with the same credential.
  - Verification: strict input validation before anything reaches the service.

This layer is strictly responsible for transport concerns (status codes,
headers, cookies, JSON).
*/
package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wanderhq/wander/internal/platform/constants"
	requestutil "github.com/wanderhq/wander/internal/platform/request"
	"github.com/wanderhq/wander/internal/platform/respond"
	"github.com/wanderhq/wander/internal/platform/validate"
)

// # Definitions & Constructors

// TokenIssuer defines the contract for minting access credentials.
type TokenIssuer interface {
	// Issue creates a signed JWT for the given user ID.
	Issue(userID string) (string, error)
	// TTL reports the configured credential lifetime.
	TTL() time.Duration
}

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// Everything related to the user lifecycle entry points: signup, login,
// logout, password recovery, and in-session password change.
type Handler struct {
	authService   *Service
	tokens        TokenIssuer
	secureCookies bool
}

// NewHandler constructs a new [Handler].
//
// secureCookies should be true in production so the credential cookie is
// only ever sent over HTTPS.
func NewHandler(service *Service, tokens TokenIssuer, secureCookies bool) *Handler {
	return &Handler{
		authService:   service,
		tokens:        tokens,
		secureCookies: secureCookies,
	}
}

// RegisterRoutes mounts the authentication routes.
//
// # Parameters
//   - router: The /api/v1/users subrouter.
//   - loginGuard: Per-IP token bucket applied to credential-submitting routes.
//   - protect: The strict authentication gate for in-session operations.
func (handler *Handler) RegisterRoutes(router chi.Router, loginGuard, protect func(http.Handler) http.Handler) {
	// Public endpoints
	router.With(loginGuard).Post("/signup", handler.signup)
	router.With(loginGuard).Post("/login", handler.login)
	router.Get("/logout", handler.logout)
	router.Post("/forgotPassword", handler.forgotPassword)
	router.With(loginGuard).Patch("/resetPassword/{token}", handler.resetPassword)

	// Protected endpoints
	router.With(protect).Patch("/updateMyPassword", handler.updateMyPassword)
}

// # Request Payloads

type signupRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
	Photo           string `json:"photo"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

type updatePasswordRequest struct {
	PasswordCurrent string `json:"passwordCurrent"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

/*
Signup creates a new user account and logs it in.

POST /api/v1/users/signup

Description: Validates input, persists the new account with the default
'user' role, and immediately issues a credential so the member lands in a
logged-in state.

Request:
  - Body: signupRequest (Name, Email, Password, PasswordConfirm)

Response:
  - 201: {token, user}: Created account plus its credential
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: DuplicateKey: Email already registered
*/
func (handler *Handler) signup(writer http.ResponseWriter, request *http.Request) {
	var input signupRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, MinPasswordLength).
		Custom(FieldPasswordConfirm, input.PasswordConfirm != input.Password, "Passwords are not the same!")

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Signup(request.Context(), SignupInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Photo:    input.Photo,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	token, err := handler.issueSession(writer, user.ID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, map[string]any{
		FieldToken: token,
		"user":     user,
	})
}

/*
Login authenticates an existing user.

POST /api/v1/users/login

Description: Verifies the email/password pair and issues a fresh credential
cookie. Failures are deliberately indistinguishable between unknown email
and wrong password.

Request:
  - Body: loginRequest (Email, Password)

Response:
  - 200: {token, user}: Credential and profile
  - 401: Unauthenticated: Incorrect email or password
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Login(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	token, err := handler.issueSession(writer, user.ID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldToken: token,
		"user":     user,
	})
}

/*
Logout ends the browser session.

GET /api/v1/users/logout

Description: JWTs cannot be revoked server-side, so logout overwrites the
http-only credential cookie with a short-lived placeholder the client cannot
script away.

Response:
  - 200: Success: Session cookie invalidated
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.AccessTokenCookieName,
		Value:    "loggedout",
		Path:     constants.AccessTokenCookiePath,
		Expires:  time.Now().Add(logoutCookieTTL),
		Secure:   handler.secureCookies,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	respond.OK(writer, nil)
}

/*
ForgotPassword initiates the password recovery flow.

POST /api/v1/users/forgotPassword

Description: Generates a single-use reset token with a 10-minute TTL and
hands it to the out-of-band delivery channel.

Request:
  - Body: forgotPasswordRequest (Email)

Response:
  - 200: Success: Reset token issued
  - 404: NotFound: No account with that email
*/
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	var input forgotPasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).Email(FieldEmail, input.Email)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// TODO: deliver the raw token by email once the mailer integration lands;
	// until then the response carries it so the flow is end-to-end testable.
	token, err := handler.authService.RequestPasswordReset(request.Context(), input.Email)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Token sent to email!",
		FieldToken:   token,
	})
}

/*
ResetPassword completes the password recovery flow.

PATCH /api/v1/users/resetPassword/{token}

Description: Validates the reset token, updates the password, and logs the
user straight in with a fresh credential.

Request:
  - Path: token (raw reset token from the recovery link)
  - Body: resetPasswordRequest (Password, PasswordConfirm)

Response:
  - 200: {token, user}: Fresh credential after the reset
  - 400: ValidationError: Token invalid/expired or weak password
*/
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	resetToken := requestutil.Param(request, "token")
	if resetToken == "" {
		respond.Error(writer, request, validate.RequiredError(FieldToken, "This field is required"))
		return
	}

	var input resetPasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, MinPasswordLength).
		Custom(FieldPasswordConfirm, input.PasswordConfirm != input.Password, "Passwords are not the same!")

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.ResetPassword(request.Context(), resetToken, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	token, err := handler.issueSession(writer, user.ID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldToken: token,
		"user":     user,
	})
}

/*
UpdateMyPassword changes the authenticated user's password.

PATCH /api/v1/users/updateMyPassword

Description: Re-verifies the current password before applying the new one,
then re-issues the credential since the old one just went stale.

Request:
  - Body: updatePasswordRequest (PasswordCurrent, Password, PasswordConfirm)

Response:
  - 200: {token, user}: Fresh credential after the change
  - 401: Unauthenticated: Current password is wrong
*/
func (handler *Handler) updateMyPassword(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updatePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldPasswordCurrent, input.PasswordCurrent).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, MinPasswordLength).
		Custom(FieldPasswordConfirm, input.PasswordConfirm != input.Password, "Passwords are not the same!")

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.UpdatePassword(request.Context(), userID, input.PasswordCurrent, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	token, err := handler.issueSession(writer, user.ID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldToken: token,
		"user":     user,
	})
}

// issueSession mints a JWT for the user and mirrors it into the http-only
// credential cookie consumed by the rendered pages.
func (handler *Handler) issueSession(writer http.ResponseWriter, userID string) (string, error) {
	token, err := handler.tokens.Issue(userID)
	if err != nil {
		return "", err
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.AccessTokenCookieName,
		Value:    token,
		Path:     constants.AccessTokenCookiePath,
		Expires:  time.Now().Add(handler.tokens.TTL()),
		Secure:   handler.secureCookies,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return token, nil
}
