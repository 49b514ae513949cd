// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package bio writes adoption bios and pet-matching advice with Gemini.

Generation never fails from the caller's point of view: any error, an empty
answer or a missing API key falls back to the animal's own description or a
fixed friendly message. Model output is stripped of markup before use.
*/
package bio

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"google.golang.org/genai"

	"github.com/taibuivan/shelter/internal/platform/metrics"
	"github.com/taibuivan/shelter/internal/shelter/animal"
)

const (
	generationTimeout = 15 * time.Second

	bioInstruction    = "You are a professional copywriter for animal adoptions. Your tone is heartwarming and engaging."
	adviceInstruction = "You are a warm, expert animal shelter counselor."

	// AdviceUnavailable is returned when the model is unreachable or disabled.
	AdviceUnavailable = "Our AI matches are sleeping. Please try again later!"

	// AdviceEmpty is returned when the model answers with nothing usable.
	AdviceEmpty = "I couldn't generate advice right now, but please contact our team!"
)

// Model is the part of the Gemini client the generator calls.
type Model interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Generator produces bios and advice, falling back silently on failure.
type Generator struct {
	models   Model
	model    string
	policy   *bluemonday.Policy
	recorder metrics.Recorder
	logger   *slog.Logger
}

/*
New connects to the Gemini API. An empty apiKey yields a disabled generator
that always returns the fallbacks.
*/
func New(ctx context.Context, apiKey, model string, recorder metrics.Recorder, logger *slog.Logger) (*Generator, error) {
	if apiKey == "" {
		return NewWithModel(nil, model, recorder, logger), nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("bio: failed to create genai client: %w", err)
	}
	return NewWithModel(client.Models, model, recorder, logger), nil
}

// NewWithModel builds a generator around any [Model]; nil disables generation.
func NewWithModel(models Model, model string, recorder metrics.Recorder, logger *slog.Logger) *Generator {
	return &Generator{
		models:   models,
		model:    model,
		policy:   bluemonday.StrictPolicy(),
		recorder: recorder,
		logger:   logger,
	}
}

// Enabled reports whether a model is configured.
func (generator *Generator) Enabled() bool {
	return generator.models != nil
}

var (
	errDisabled    = errors.New("bio: generation disabled")
	errEmptyAnswer = errors.New("bio: empty answer")
)

// Bio returns a three-sentence adoption bio, or the animal's description.
func (generator *Generator) Bio(ctx context.Context, subject *animal.Animal) string {
	prompt := fmt.Sprintf(
		"Write a charming, creative, and persuasive 3-sentence adoption bio for %s, a %s old %s %s. Key traits: %s.",
		subject.Name, subject.Age, subject.Breed, subject.Type, strings.Join(subject.Tags, ", "),
	)

	text, err := generator.generate(ctx, "bio", prompt, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(bioInstruction, genai.RoleUser),
	})
	if err != nil {
		return subject.Description
	}
	return text
}

// Advice suggests a suitable pet for a lifestyle.
func (generator *Generator) Advice(ctx context.Context, petType, lifestyle string) string {
	prompt := fmt.Sprintf(
		"Suggest a suitable pet for someone who lives in a %s environment and is looking for a %s. Provide brief, friendly advice on why this is a good match.",
		lifestyle, petType,
	)

	text, err := generator.generate(ctx, "advice", prompt, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(adviceInstruction, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.7),
	})
	switch {
	case err == nil:
		return text
	case errors.Is(err, errEmptyAnswer):
		return AdviceEmpty
	default:
		return AdviceUnavailable
	}
}

// generate calls the model and returns sanitised text, recording the outcome.
func (generator *Generator) generate(ctx context.Context, kind, prompt string, config *genai.GenerateContentConfig) (string, error) {
	if !generator.Enabled() {
		generator.recorder.RecordBioGeneration(metrics.OutcomeFallback)
		return "", errDisabled
	}

	callCtx, cancel := context.WithTimeout(ctx, generationTimeout)
	defer cancel()

	response, err := generator.models.GenerateContent(callCtx, generator.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}, config)
	if err != nil {
		generator.logger.WarnContext(ctx, "bio_generation_failed",
			slog.String("kind", kind), slog.Any("error", err))
		generator.recorder.RecordBioGeneration(metrics.OutcomeError)
		return "", err
	}

	// Tags are stripped; the entities the policy escapes are decoded since the
	// bio is plain text in JSON.
	text := strings.TrimSpace(html.UnescapeString(generator.policy.Sanitize(response.Text())))
	if text == "" {
		generator.recorder.RecordBioGeneration(metrics.OutcomeFallback)
		return "", errEmptyAnswer
	}

	generator.recorder.RecordBioGeneration(metrics.OutcomeOK)
	return text, nil
}
