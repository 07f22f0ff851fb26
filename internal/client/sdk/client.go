// Package sdk is the dashboard's only way to reach the backend: password
// auth with a session change stream, plus the patients and profiles tables.
package sdk

import (
	"bytes"
	"context"
	"errors"
	"io"
	"medrec-service/internal/client/sessionstore"
	"medrec-service/internal/pkg/constvars"
	"medrec-service/internal/pkg/dto/responses"
	"medrec-service/internal/pkg/utils"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	// Tokens persists the access token between runs.
	Tokens sessionstore.KeyValue
	Log    *zap.Logger
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  sessionstore.KeyValue
	log     *zap.Logger

	// mu guards the fields below and is held while listeners run.
	mu          sync.Mutex
	session     *responses.AuthSession
	loaded      bool
	listeners   map[int]Listener
	nextID      int
	generation  uint64
	closed      bool
	ctx         context.Context
	cancel      context.CancelFunc
	initialWait sync.WaitGroup
}

func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	logger := opts.Log
	if logger == nil {
		logger = zap.NewNop()
	}
	tokens := opts.Tokens
	if tokens == nil {
		tokens = sessionstore.NewMemory()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		http:      httpClient,
		tokens:    tokens,
		log:       logger,
		listeners: make(map[int]Listener),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Close stops pending initial-session deliveries and waits for them.
func (c *Client) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.initialWait.Wait()
}

func (c *Client) accessToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return ""
	}
	return c.session.AccessToken
}

// do sends body as JSON with the current bearer token and decodes the
// envelope's data into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	return c.doWithToken(ctx, method, path, c.accessToken(), body, out)
}

func (c *Client) doWithToken(ctx context.Context, method, path, token string, body interface{}, out interface{}) error {
	requestID := utils.GenerateRequestID()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &Error{Message: "failed to encode request: " + err.Error()}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &Error{Message: "failed to build request: " + err.Error()}
	}
	req.Header.Set(constvars.HeaderAccept, constvars.MIMEApplicationJSON)
	req.Header.Set(constvars.HeaderXRequestID, requestID)
	if body != nil {
		req.Header.Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(constvars.HeaderAuthorization, constvars.AuthorizationBearerPrefix+token)
	}

	c.log.Debug("sdk request",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingMethodKey, method),
		zap.String(constvars.LoggingEndpointKey, path),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return &Error{Message: "cannot reach the server: " + err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{StatusCode: resp.StatusCode, Message: "failed to read response: " + err.Error()}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}
	var envelope responses.Envelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return &Error{StatusCode: resp.StatusCode, Message: "unexpected response: " + err.Error()}
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return &Error{StatusCode: resp.StatusCode, Message: "unexpected response: " + err.Error()}
	}
	return nil
}

func decodeError(status int, raw []byte) error {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		return &Error{StatusCode: status, Message: body.Message}
	}
	message := strings.TrimSpace(string(raw))
	if message == "" {
		message = http.StatusText(status)
	}
	return &Error{StatusCode: status, Message: message}
}
