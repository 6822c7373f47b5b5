// Package usecase はdescriptionフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"descripto_backend/internal/feature/description/domain/entity"
)

const (
	// MaxTitleLength はタイトルの最大文字数（rune数）です。
	MaxTitleLength = 200
	// MaxFeaturesLength は特徴の最大文字数（rune数）です。
	MaxFeaturesLength = 1000
	// MaxDescriptions はレスポンスに含める説明文の最大件数です。
	MaxDescriptions = 3

	promptTemplate = `Write one persuasive E-commerce product descriptions for:
Title: %s
Features: %s
Tone: %s
Keep under 300 characters and SEO-friendly.
Return only the description, no other text.`
)

var (
	// ErrInvalidInput is returned when the product fails validation.
	// The concrete error is a *ValidationError with a client-facing message.
	ErrInvalidInput = errors.New("invalid description request")

	// ErrGeneratorUnavailable is returned when no text generator is configured.
	ErrGeneratorUnavailable = errors.New("description generator not configured")

	// ErrGenerationFailed wraps any failure of the text generator.
	ErrGenerationFailed = errors.New("failed to generate descriptions")
)

// ValidationError describes why a product was rejected.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Is makes errors.Is(err, ErrInvalidInput) hold for a *ValidationError.
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// TextGenerator はプロンプトからテキストを生成するインターフェースです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// descriptionUsecase は商品説明文生成のビジネスロジックを提供します。
type descriptionUsecase struct {
	generator TextGenerator
	now       func() time.Time
}

// NewDescriptionUsecase はdescriptionUsecaseの新しいインスタンスを生成します。
// generatorがnilの場合、Generateは常にErrGeneratorUnavailableを返します。
func NewDescriptionUsecase(generator TextGenerator) *descriptionUsecase {
	return &descriptionUsecase{generator: generator, now: time.Now}
}

// Generate は入力を検証し、説明文を最大MaxDescriptions件生成します。
func (u *descriptionUsecase) Generate(ctx context.Context, p entity.Product) (*entity.Descriptions, error) {
	p, err := Normalize(p)
	if err != nil {
		return nil, err
	}
	if u.generator == nil {
		return nil, ErrGeneratorUnavailable
	}

	start := u.now()
	text, err := u.generator.Generate(ctx, BuildPrompt(p))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	elapsed := u.now().Sub(start)

	items := SplitDescriptions(text)
	if len(items) > MaxDescriptions {
		items = items[:MaxDescriptions]
	}
	return &entity.Descriptions{Items: items, Elapsed: elapsed}, nil
}

// Normalize validates p and fills in the default tone.
func Normalize(p entity.Product) (entity.Product, error) {
	if p.Title == "" || p.Features == "" {
		return p, &ValidationError{Message: "'title' and 'features' fields are required."}
	}
	if utf8.RuneCountInString(p.Title) > MaxTitleLength {
		return p, &ValidationError{Message: fmt.Sprintf("Title must be less than %d characters.", MaxTitleLength)}
	}
	if utf8.RuneCountInString(p.Features) > MaxFeaturesLength {
		return p, &ValidationError{Message: fmt.Sprintf("Features must be less than %d characters.", MaxFeaturesLength)}
	}
	if p.Tone == "" {
		p.Tone = entity.ToneProfessional
	}
	if !p.Tone.Valid() {
		names := make([]string, len(entity.Tones))
		for i, t := range entity.Tones {
			names[i] = string(t)
		}
		return p, &ValidationError{Message: "Tone must be one of: " + strings.Join(names, ", ")}
	}
	return p, nil
}

// BuildPrompt renders the generation prompt for p.
func BuildPrompt(p entity.Product) string {
	return fmt.Sprintf(promptTemplate, p.Title, p.Features, p.Tone)
}

// SplitDescriptions splits generator output into trimmed, non-empty lines.
func SplitDescriptions(text string) []string {
	out := make([]string, 0, MaxDescriptions)
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
