package captcha

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// taskSolver — клиент task-API (createTask / getTaskResult).
//
// Протокол общий для Anti-Captcha и CapMonster Cloud,
// различается только тип задачи.
type taskSolver struct {
	cfg      Config
	taskType string
}

type createTaskRequest struct {
	ClientKey string        `json:"clientKey"`
	Task      turnstileTask `json:"task"`
}

type turnstileTask struct {
	Type       string `json:"type"`
	WebsiteURL string `json:"websiteURL"`
	WebsiteKey string `json:"websiteKey"`
}

type createTaskResponse struct {
	ErrorID          int    `json:"errorId"`
	ErrorCode        string `json:"errorCode,omitempty"`
	ErrorDescription string `json:"errorDescription,omitempty"`
	TaskID           int64  `json:"taskId"`
}

type taskResultRequest struct {
	ClientKey string `json:"clientKey"`
	TaskID    int64  `json:"taskId"`
}

type taskResultResponse struct {
	ErrorID          int    `json:"errorId"`
	ErrorCode        string `json:"errorCode,omitempty"`
	ErrorDescription string `json:"errorDescription,omitempty"`
	Status           string `json:"status"` // processing | ready
	Solution         struct {
		Token string `json:"token"`
	} `json:"solution"`
}

// Solve создаёт задачу и опрашивает её результат.
func (s *taskSolver) Solve(ctx context.Context) (token string, err error) {
	start := time.Now()
	defer func() { observe(s.cfg.Provider, start, err) }()

	var created createTaskResponse
	err = s.post(ctx, "/createTask", createTaskRequest{
		ClientKey: s.cfg.APIKey,
		Task: turnstileTask{
			Type:       s.taskType,
			WebsiteURL: s.cfg.PageURL,
			WebsiteKey: s.cfg.SiteKey,
		},
	}, &created)
	if err != nil {
		return "", err
	}
	if created.ErrorID != 0 {
		return "", fmt.Errorf("%w: create task: %s %s", ErrSolveFailed, created.ErrorCode, created.ErrorDescription)
	}

	s.cfg.Logger.Info("captcha task created", "task_id", created.TaskID)

	for poll := 1; poll <= s.cfg.MaxPolls; poll++ {
		if err := wait(ctx, s.cfg.PollInterval); err != nil {
			return "", err
		}

		var result taskResultResponse
		if err := s.post(ctx, "/getTaskResult", taskResultRequest{
			ClientKey: s.cfg.APIKey,
			TaskID:    created.TaskID,
		}, &result); err != nil {
			return "", err
		}

		if result.ErrorID != 0 {
			return "", fmt.Errorf("%w: %s %s", ErrSolveFailed, result.ErrorCode, result.ErrorDescription)
		}

		if result.Status == "ready" {
			s.cfg.Logger.Info("captcha solved", "task_id", created.TaskID, "polls", poll)
			return result.Solution.Token, nil
		}

		s.cfg.Logger.Debug("captcha not ready", "task_id", created.TaskID, "poll", poll)
	}

	return "", fmt.Errorf("%w: %d polls", ErrSolveTimeout, s.cfg.MaxPolls)
}

// post отправляет JSON-запрос и декодирует JSON-ответ в out.
func (s *taskSolver) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.cfg.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSolveFailed, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrSolveFailed, path, err)
	}
	return nil
}
