package canvas

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// APIError is returned for any non-2xx platform response.
type APIError struct {
	Op     string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: platform returned %d: %s", e.Op, e.Status, e.Body)
}

type Client struct {
	HTTP *http.Client

	// BaseURL is the REST root, e.g. https://school.instructure.com/api/v1.
	BaseURL string
	Token   string
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		HTTP:    &http.Client{Timeout: 30 * time.Second},
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Token:   token,
	}
}

// QuizURL is the browser URL of a quiz.
func (c *Client) QuizURL(courseID string, quizID int64) string {
	root := strings.TrimSuffix(c.BaseURL, "/api/v1")
	return fmt.Sprintf("%s/courses/%s/quizzes/%d", root, url.PathEscape(courseID), quizID)
}

func (c *Client) CreateQuiz(ctx context.Context, courseID string, s QuizSettings) (Quiz, error) {
	var out Quiz
	err := c.post(ctx, "create quiz", c.coursePath(courseID, "quizzes"), map[string]any{"quiz": s}, &out)
	return out, err
}

func (c *Client) CreateGroup(ctx context.Context, courseID string, quizID int64, g QuestionGroup) (QuestionGroup, error) {
	var out struct {
		Groups []QuestionGroup `json:"quiz_groups"`
	}
	path := c.coursePath(courseID, fmt.Sprintf("quizzes/%d/groups", quizID))
	if err := c.post(ctx, "create question group", path, map[string]any{"quiz_groups": []QuestionGroup{g}}, &out); err != nil {
		return QuestionGroup{}, err
	}
	if len(out.Groups) == 0 {
		return QuestionGroup{}, errors.New("create question group: empty response")
	}
	return out.Groups[0], nil
}

func (c *Client) CreateQuestion(ctx context.Context, courseID string, quizID int64, q QuestionPayload) error {
	path := c.coursePath(courseID, fmt.Sprintf("quizzes/%d/questions", quizID))
	return c.post(ctx, "create question", path, map[string]any{"question": q}, nil)
}

func (c *Client) coursePath(courseID, rest string) string {
	return fmt.Sprintf("%s/courses/%s/%s", c.BaseURL, url.PathEscape(courseID), rest)
}

func (c *Client) post(ctx context.Context, op, u string, body any, out any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(buf))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return httpErr(op, resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode: %w", op, err)
	}
	return nil
}

func httpErr(op string, resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &APIError{Op: op, Status: resp.StatusCode, Body: strings.TrimSpace(string(b))}
}
