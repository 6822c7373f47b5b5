// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"descripto_backend/internal/api"
	"descripto_backend/internal/feature/auth/domain/entity"
	"descripto_backend/internal/feature/auth/usecase"
	jwtmw "descripto_backend/internal/platform/jwt"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	Register(ctx context.Context, email, password string, profile entity.Profile) (*usecase.AuthResult, error)
	Login(ctx context.Context, email, password string) (*usecase.AuthResult, error)
	LoginWithOAuth(ctx context.Context, assertion string) (*usecase.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*usecase.RefreshResult, error)
	ChangePassword(ctx context.Context, userID uint, currentPassword, newPassword string) error
	UpdateProfile(ctx context.Context, userID uint, update entity.ProfileUpdate) (*entity.User, error)
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register はユーザー登録APIエンドポイントを処理します。
// - バリデーションエラー、弱いパスワードは400
// - メール重複は409
// - 成功時はトークン付きで201
func (h *AuthHandler) Register(c *gin.Context) {
	var req api.RegisterRequest
	if !bindJSON(c, "register", &req) {
		return
	}
	profile := entity.Profile{
		FirstName: deref(req.FirstName),
		LastName:  deref(req.LastName),
	}
	res, err := h.auth.Register(c.Request.Context(), string(req.Email), req.Password, profile)
	if err != nil {
		slog.Warn("register failed", "kind", usecase.KindOf(err), "email", entity.NormalizeEmail(string(req.Email)), "remote_addr", c.ClientIP())
		writeError(c, err)
		return
	}
	slog.Info("user registered", "user_id", res.User.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, authResponse("User registered successfully", res))
}

// Login はメールアドレスとパスワードによるログインを処理します。
func (h *AuthHandler) Login(c *gin.Context) {
	var req api.LoginRequest
	if !bindJSON(c, "login", &req) {
		return
	}
	res, err := h.auth.Login(c.Request.Context(), string(req.Email), req.Password)
	if err != nil {
		// ユーザー列挙攻撃を防止するため、未登録とパスワード不一致は同じ応答にする
		slog.Warn("login failed", "kind", usecase.KindOf(err), "email", entity.NormalizeEmail(string(req.Email)), "remote_addr", c.ClientIP())
		writeError(c, err)
		return
	}
	slog.Info("user login successful", "user_id", res.User.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, authResponse("Login successful", res))
}

// GoogleLogin はGoogle IDトークンによるログインを処理します。
// 未登録のユーザーはこの時点で作成され、同じメールのローカルアカウントには連携されます。
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req api.GoogleLoginRequest
	if !bindJSON(c, "google login", &req) {
		return
	}
	res, err := h.auth.LoginWithOAuth(c.Request.Context(), req.IdToken)
	if err != nil {
		slog.Warn("google login failed", "kind", usecase.KindOf(err), "error", err, "remote_addr", c.ClientIP())
		writeError(c, err)
		return
	}
	slog.Info("google login successful", "user_id", res.User.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, authResponse("Google OAuth login successful", res))
}

// Refresh はリフレッシュトークンから新しいアクセストークンを発行します。
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req api.RefreshRequest
	if !bindJSON(c, "refresh", &req) {
		return
	}
	res, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		slog.Warn("token refresh failed", "kind", usecase.KindOf(err), "remote_addr", c.ClientIP())
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.AuthResponse{
		Message:     "Token refreshed successfully",
		User:        toAPIUser(res.User),
		AccessToken: res.AccessToken,
		ExpiresIn:   int(res.ExpiresIn.Seconds()),
	})
}

// Me は認証済みユーザーを返します。
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, api.UserResponse{User: toAPIUser(user)})
}

// Verify はアクセストークンが有効であることを確認します。
func (h *AuthHandler) Verify(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, api.VerifyResponse{Valid: true, User: toAPIUser(user)})
}

// UpdateProfile は氏名を更新します。指定されなかった項目は変更しません。
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req api.UpdateProfileRequest
	if !bindJSON(c, "update profile", &req) {
		return
	}
	updated, err := h.auth.UpdateProfile(c.Request.Context(), user.ID, entity.ProfileUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		slog.Warn("profile update failed", "kind", usecase.KindOf(err), "user_id", user.ID, "remote_addr", c.ClientIP())
		writeError(c, err)
		return
	}
	msg := "Profile updated successfully"
	c.JSON(http.StatusOK, api.UserResponse{Message: &msg, User: toAPIUser(updated)})
}

// ChangePassword は現在のパスワードを確認した上で新しいパスワードに変更します。
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req api.ChangePasswordRequest
	if !bindJSON(c, "change password", &req) {
		return
	}
	if err := h.auth.ChangePassword(c.Request.Context(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		slog.Warn("password change failed", "kind", usecase.KindOf(err), "user_id", user.ID, "remote_addr", c.ClientIP())
		writeError(c, err)
		return
	}
	slog.Info("password changed", "user_id", user.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Password changed successfully"})
}

// Logout はログアウトを受け付けます。
// トークンはステートレスなのでサーバー側では無効化されず、クライアントが破棄します。
func (h *AuthHandler) Logout(c *gin.Context) {
	if user, ok := jwtmw.CurrentUser(c); ok {
		slog.Info("user logged out", "user_id", user.ID, "remote_addr", c.ClientIP())
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "Logged out successfully"})
}

func currentUser(c *gin.Context) (*entity.User, bool) {
	user, ok := jwtmw.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Kind: string(usecase.KindInvalidToken), Error: "unauthorized"})
		return nil, false
	}
	return user, true
}

// bindJSON はリクエストボディをバインドし、失敗時は400を書き込んでfalseを返します。
func bindJSON(c *gin.Context, op string, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		slog.Warn(op+" validation failed", "error", err, "remote_addr", c.ClientIP())
		details := validationDetails(err)
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Kind: string(usecase.KindValidation), Error: "invalid request", Details: &details})
		return false
	}
	return true
}

func validationDetails(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := toSnake(fe.Field())
		switch fe.Tag() {
		case "required":
			out = append(out, field+" is required")
		case "email":
			out = append(out, field+" must be a valid email address")
		case "max":
			out = append(out, field+" must be at most "+fe.Param()+" characters")
		default:
			out = append(out, field+" is invalid")
		}
	}
	return out
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// errorReplies はエラー種別ごとのHTTPステータスとメッセージです。
var errorReplies = map[usecase.ErrorKind]struct {
	status  int
	message string
}{
	usecase.KindDuplicateIdentity:  {http.StatusConflict, "email already registered"},
	usecase.KindWeakPassword:       {http.StatusBadRequest, "password does not meet requirements"},
	usecase.KindInvalidCredentials: {http.StatusUnauthorized, "invalid email or password"},
	usecase.KindAccountDisabled:    {http.StatusForbidden, "account disabled"},
	usecase.KindInvalidToken:       {http.StatusUnauthorized, "invalid token"},
	usecase.KindExpiredToken:       {http.StatusUnauthorized, "token expired"},
	usecase.KindInvalidAssertion:   {http.StatusUnauthorized, "invalid Google token"},
	usecase.KindNoPasswordSet:      {http.StatusBadRequest, "no password set for this account"},
	usecase.KindUserNotFound:       {http.StatusNotFound, "user not found"},
}

// writeError はユースケースのエラー種別をHTTPステータスに変換し、種別とメッセージを書き込みます。
func writeError(c *gin.Context, err error) {
	kind := usecase.KindOf(err)
	reply, ok := errorReplies[kind]
	if !ok {
		slog.Error("auth request failed", "error", err, "path", c.FullPath(), "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Kind: string(usecase.KindInternal), Error: "internal server error"})
		return
	}

	resp := api.ErrorResponse{Kind: string(kind), Error: reply.message}
	var weak *usecase.WeakPasswordError
	if errors.As(err, &weak) {
		details := append([]string(nil), weak.Violations...)
		resp.Details = &details
	}
	c.JSON(reply.status, resp)
}

func authResponse(message string, res *usecase.AuthResult) api.AuthResponse {
	out := api.AuthResponse{
		Message:     message,
		User:        toAPIUser(res.User),
		AccessToken: res.Tokens.AccessToken,
		ExpiresIn:   int(res.Tokens.ExpiresIn.Seconds()),
	}
	if res.Tokens.RefreshToken != "" {
		rt := res.Tokens.RefreshToken
		out.RefreshToken = &rt
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
