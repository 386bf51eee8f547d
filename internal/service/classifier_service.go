package service

import (
	"bytes"
	"chosung_quiz_backend/internal/config"
	"chosung_quiz_backend/internal/model"
	"chosung_quiz_backend/internal/repository"
	"chosung_quiz_backend/pkg/logger"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Lines shorter than this make unfair questions and stay unclassified.
const classifierMinChars = 5

const classifierSystemPrompt = `너는 MC THE MAX(엠씨더맥스) 전문가야. 가사 한 줄을 보고 퀴즈 난이도를 분류해야 해.

분류 기준:
- easy: 히트곡의 가장 유명한 후렴구/핵심 가사
- normal: 타이틀곡의 인식 가능한 가사 (후렴구는 아니지만 곡을 들으면 떠오르는 구절)
- hard: 비타이틀곡 가사 또는 타이틀곡이라도 특색 없는 구절
- very_hard: 수록곡의 일반적인 표현으로 된 가사, 곡 특정이 매우 어려운 구절

각 가사에 대해 JSON 배열로 응답해. 형식: [{"id": 숫자, "difficulty": "easy|normal|hard|very_hard"}]
다른 설명 없이 JSON만 응답해.`

// ClassifierService tags unclassified lyric lines with a quiz difficulty
// via a chat-completions call, one batch per request. A failed batch is
// logged and skipped; the next run picks its lines up again.
type ClassifierService struct {
	quiz   *repository.QuizRepository
	cfg    config.AIConfig
	client *http.Client
	// pause between batches, shortened in tests
	batchPause time.Duration
}

func NewClassifierService(quiz *repository.QuizRepository, cfg config.AIConfig) *ClassifierService {
	return &ClassifierService{
		quiz:       quiz,
		cfg:        cfg,
		client:     &http.Client{Timeout: 60 * time.Second},
		batchPause: time.Second,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type classification struct {
	ID         uint             `json:"id"`
	Difficulty model.Difficulty `json:"difficulty"`
}

// ClassifyReport summarizes one classification run.
type ClassifyReport struct {
	Total      int `json:"total"`
	Classified int `json:"classified"`
}

// ClassifyAll pulls every unclassified line once and works through it in
// fixed-size batches.
func (s *ClassifierService) ClassifyAll(ctx context.Context) (*ClassifyReport, error) {
	unclassified, err := s.quiz.UnclassifiedLines(classifierMinChars, 0)
	if err != nil {
		return nil, err
	}

	report := &ClassifyReport{Total: len(unclassified)}
	if report.Total == 0 {
		logger.Log.Info("All lines already classified")
		return report, nil
	}

	batchSize := s.cfg.BatchSize
	now := time.Now().UTC()

	for start := 0; start < len(unclassified); start += batchSize {
		end := start + batchSize
		if end > len(unclassified) {
			end = len(unclassified)
		}
		batch := unclassified[start:end]

		results, err := s.classifyBatch(ctx, batch)
		if err != nil {
			logger.Log.Error("Classification batch failed",
				zap.Int("batch", start/batchSize+1),
				zap.Error(err))
			continue
		}

		for _, r := range results {
			if !r.Difficulty.Valid() {
				continue
			}
			if err := s.quiz.UpsertClassification(r.ID, r.Difficulty, now); err != nil {
				logger.Log.Error("Failed to store classification", zap.Uint("lineId", r.ID), zap.Error(err))
				continue
			}
			report.Classified++
		}

		if end < len(unclassified) {
			select {
			case <-ctx.Done():
				return report, ctx.Err()
			case <-time.After(s.batchPause):
			}
		}
	}

	logger.Log.Info("Classification run finished",
		zap.Int("classified", report.Classified),
		zap.Int("total", report.Total))
	return report, nil
}

func (s *ClassifierService) classifyBatch(ctx context.Context, batch []repository.UnclassifiedLine) ([]classification, error) {
	if s.cfg.APIKey == "" {
		return nil, fmt.Errorf("AI api key not configured")
	}

	var sb strings.Builder
	for _, line := range batch {
		fmt.Fprintf(&sb, "[%d] (%s) %s\n", line.ID, line.Title, line.LineText)
	}

	reqBody := chatCompletionRequest{
		Model: s.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: classifierSystemPrompt},
			{Role: "user", Content: sb.String()},
		},
		Temperature: 0.2,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result chatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}
	if result.Error != nil {
		return nil, fmt.Errorf("AI API error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("AI returned no choices")
	}

	return parseClassifications(result.Choices[0].Message.Content)
}

// parseClassifications decodes the model's JSON array, tolerating a
// markdown code fence around it.
func parseClassifications(content string) ([]classification, error) {
	text := strings.TrimSpace(content)
	if strings.HasPrefix(text, "```") {
		if idx := strings.Index(text, "\n"); idx >= 0 {
			text = text[idx+1:]
		} else {
			text = text[3:]
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	var results []classification
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &results); err != nil {
		return nil, err
	}
	return results, nil
}
