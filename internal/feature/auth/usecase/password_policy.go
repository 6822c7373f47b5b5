package usecase

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// specialChars は特殊文字として扱う記号の集合です。
const specialChars = `!@#$%^&*(),.?":{}|<>`

// PasswordPolicy はパスワード強度の要件を定義します。
type PasswordPolicy struct {
	MinLength          int
	RequireUppercase   bool
	RequireDigit       bool
	RequireSpecialChar bool
}

// DefaultPasswordPolicy は全ての要件を有効にした既定のポリシーを返します。
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:          8,
		RequireUppercase:   true,
		RequireDigit:       true,
		RequireSpecialChar: true,
	}
}

// PasswordValidation はパスワード検証の結果です。
type PasswordValidation struct {
	Valid      bool
	Violations []string
}

// Validate はパスワードを全てのルールで評価し、満たされない要件ごとに違反を1件追加します。
// 途中で打ち切らないため、呼び出し側は全ての違反をまとめて提示できます。
func (p PasswordPolicy) Validate(password string) PasswordValidation {
	var violations []string

	if utf8.RuneCountInString(password) < p.MinLength {
		violations = append(violations, fmt.Sprintf("Password must be at least %d characters long", p.MinLength))
	}
	if p.RequireUppercase && !strings.ContainsFunc(password, unicode.IsUpper) {
		violations = append(violations, "Password must contain at least one uppercase letter")
	}
	if p.RequireDigit && !strings.ContainsFunc(password, unicode.IsDigit) {
		violations = append(violations, "Password must contain at least one number")
	}
	if p.RequireSpecialChar && !strings.ContainsAny(password, specialChars) {
		violations = append(violations, "Password must contain at least one special character")
	}

	return PasswordValidation{Valid: len(violations) == 0, Violations: violations}
}

// Check はValidateの結果をエラーとして返します。違反がなければnilです。
func (p PasswordPolicy) Check(password string) error {
	if v := p.Validate(password); !v.Valid {
		return &WeakPasswordError{Violations: v.Violations}
	}
	return nil
}
