package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/aharui/backend/internal/mealplan"
)

// RequestState tracks a single AI call
type RequestState int

const (
	StateIdle RequestState = iota
	StateSending
	StateSuccess
	StateError
)

func (s RequestState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSending:
		return "sending"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	}
	return "unknown"
}

// AIRequest runs one AI call in the background. It moves from idle to sending
// when started and ends in success or error. Callers that stop waiting simply
// leave the result unread.
type AIRequest[T any] struct {
	mu     sync.Mutex
	state  RequestState
	done   chan struct{}
	result T
	err    error
}

func NewAIRequest[T any]() *AIRequest[T] {
	return &AIRequest[T]{done: make(chan struct{})}
}

// Start launches fn. It returns false if the request was already started.
func (r *AIRequest[T]) Start(ctx context.Context, fn func(context.Context) (T, error)) bool {
	r.mu.Lock()
	if r.state != StateIdle {
		r.mu.Unlock()
		return false
	}
	r.state = StateSending
	r.mu.Unlock()

	go func() {
		result, err := fn(ctx)

		r.mu.Lock()
		r.result, r.err = result, err
		if err != nil {
			r.state = StateError
		} else {
			r.state = StateSuccess
		}
		r.mu.Unlock()
		close(r.done)
	}()
	return true
}

func (r *AIRequest[T]) State() RequestState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Wait blocks until the request finishes or ctx is done
func (r *AIRequest[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-r.done:
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.result, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// AIErrorKind groups failures by what the user can do about them
type AIErrorKind string

const (
	AIErrTokenLimit  AIErrorKind = "token_limit"
	AIErrQuota       AIErrorKind = "quota_exceeded"
	AIErrUnavailable AIErrorKind = "unavailable"
	AIErrEmpty       AIErrorKind = "empty_response"
	AIErrMalformed   AIErrorKind = "malformed_response"
	AIErrOther       AIErrorKind = "other"
)

// AIError is a classified AI failure. Message is safe to show to users.
type AIError struct {
	Kind    AIErrorKind
	Message string
	Err     error
}

func (e *AIError) Error() string { return e.Message }

func (e *AIError) Unwrap() error { return e.Err }

// ClassifyError turns a raw generation or parsing failure into an AIError.
// Provider errors are matched on their text, ignoring case.
func ClassifyError(operation string, err error) *AIError {
	if err == nil {
		return nil
	}
	var aiErr *AIError
	if errors.As(err, &aiErr) {
		return aiErr
	}

	msg := strings.ToUpper(err.Error())
	switch {
	case strings.Contains(msg, "MAX_TOKENS"):
		return &AIError{Kind: AIErrTokenLimit, Message: "Response too long. Retrying with shorter format...", Err: err}
	case strings.Contains(msg, "RESOURCE_EXHAUSTED"):
		return &AIError{Kind: AIErrQuota, Message: "API quota exceeded. Please try again in a few minutes.", Err: err}
	case strings.Contains(msg, "UNAVAILABLE"):
		return &AIError{Kind: AIErrUnavailable, Message: "Service temporarily unavailable. Please try again.", Err: err}
	case errors.Is(err, ErrEmptyResponse):
		return &AIError{Kind: AIErrEmpty, Message: "Empty response from API. Please try again.", Err: err}
	case errors.Is(err, mealplan.ErrMalformedResponse), errors.Is(err, mealplan.ErrSchemaMismatch):
		return &AIError{Kind: AIErrMalformed, Message: "The AI response could not be read. Please try again.", Err: err}
	}
	return &AIError{Kind: AIErrOther, Message: fmt.Sprintf("Failed to %s: %s", operation, err.Error()), Err: err}
}

// AIService builds prompts, calls the generator and parses what comes back
type AIService struct {
	generator TextGenerator
	config    GenerationConfig
}

func NewAIService(generator TextGenerator) *AIService {
	return &AIService{
		generator: generator,
		config:    DefaultGenerationConfig(),
	}
}

func (s *AIService) generate(ctx context.Context, operation, prompt string) (string, error) {
	text, err := s.generator.Generate(ctx, prompt, s.config)
	if err == nil && strings.TrimSpace(text) == "" {
		err = ErrEmptyResponse
	}
	if err != nil {
		log.Printf("[AIService] Failed to %s: %v", operation, err)
		return "", ClassifyError(operation, err)
	}

	payload, err := mealplan.ExtractJSONPayload(text)
	if err != nil {
		log.Printf("[AIService] No JSON object in response to %s: %q", operation, payload)
		return "", ClassifyError(operation, err)
	}
	return payload, nil
}

// StartWeeklyMealPlan begins generating a 7 day plan
func (s *AIService) StartWeeklyMealPlan(ctx context.Context, profile mealplan.PromptProfile, targetCalories int) *AIRequest[*mealplan.WeeklyMealPlan] {
	req := NewAIRequest[*mealplan.WeeklyMealPlan]()
	req.Start(ctx, func(ctx context.Context) (*mealplan.WeeklyMealPlan, error) {
		const op = "generate meal plan"
		log.Printf("[AIService] Requesting weekly meal plan at %d kcal", targetCalories)

		payload, err := s.generate(ctx, op, mealplan.BuildMealPlanPrompt(profile, targetCalories))
		if err != nil {
			return nil, err
		}
		plan, err := mealplan.ParseWeeklyMealPlan(payload)
		if err != nil {
			log.Printf("[AIService] Meal plan did not match the expected schema: %v", err)
			return nil, ClassifyError(op, err)
		}

		log.Printf("[AIService] Parsed meal plan with %d days", len(plan.Days))
		return plan, nil
	})
	return req
}

// GenerateWeeklyMealPlan generates a plan and waits for it
func (s *AIService) GenerateWeeklyMealPlan(ctx context.Context, profile mealplan.PromptProfile, targetCalories int) (*mealplan.WeeklyMealPlan, error) {
	return s.StartWeeklyMealPlan(ctx, profile, targetCalories).Wait(ctx)
}

// StartShoppingList begins consolidating ingredients into a shopping list
func (s *AIService) StartShoppingList(ctx context.Context, ingredients []string) *AIRequest[[]mealplan.ShoppingItem] {
	req := NewAIRequest[[]mealplan.ShoppingItem]()
	req.Start(ctx, func(ctx context.Context) ([]mealplan.ShoppingItem, error) {
		const op = "generate shopping list"
		log.Printf("[AIService] Requesting shopping list for %d ingredients", len(ingredients))

		payload, err := s.generate(ctx, op, mealplan.BuildShoppingListPrompt(ingredients))
		if err != nil {
			return nil, err
		}
		items, err := mealplan.ParseShoppingList(payload)
		if err != nil {
			return nil, ClassifyError(op, err)
		}
		return items, nil
	})
	return req
}

func (s *AIService) GenerateShoppingList(ctx context.Context, ingredients []string) ([]mealplan.ShoppingItem, error) {
	return s.StartShoppingList(ctx, ingredients).Wait(ctx)
}

// StartNutritionExtraction begins reading nutrition facts out of label text
func (s *AIService) StartNutritionExtraction(ctx context.Context, labelText string) *AIRequest[mealplan.NutritionInfo] {
	req := NewAIRequest[mealplan.NutritionInfo]()
	req.Start(ctx, func(ctx context.Context) (mealplan.NutritionInfo, error) {
		payload, err := s.generate(ctx, "extract nutrition info", mealplan.BuildNutritionExtractionPrompt(labelText))
		if err != nil {
			return mealplan.NutritionInfo{}, err
		}
		return mealplan.ParseNutritionExtraction(payload), nil
	})
	return req
}

// ExtractNutrition reads a nutrition label. Nothing is stored.
func (s *AIService) ExtractNutrition(ctx context.Context, labelText string) (mealplan.NutritionInfo, error) {
	if strings.TrimSpace(labelText) == "" {
		return mealplan.NutritionInfo{}, invalidInput("label text is required")
	}
	return s.StartNutritionExtraction(ctx, labelText).Wait(ctx)
}
