// Package integrations holds HTTP clients for remote services.
package integrations

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/bytedance/sonic"

	"github.com/chxlky/boardflow/internal/models"
)

// AccountHeader scopes every request to one account.
const AccountHeader = "X-Account-ID"

// BoardStoreClient talks to the remote board store. Each call is a single
// attempt with no timeout and no retry; callers reconcile failures by
// refreshing the board.
type BoardStoreClient struct {
	Client    *http.Client
	BaseURL   string
	AccountID string
}

func NewBoardStoreClient(baseURL, accountID string) *BoardStoreClient {
	return &BoardStoreClient{
		Client:    &http.Client{},
		BaseURL:   baseURL,
		AccountID: accountID,
	}
}

// envelope is the store's uniform response shape. Error carries a
// human-readable message on failures; State and BoardID are filled only by
// the operations that return them.
type envelope struct {
	Ok      bool          `json:"ok"`
	Error   string        `json:"error,omitempty"`
	State   *models.Board `json:"state,omitempty"`
	BoardID string        `json:"boardId,omitempty"`
}

func (bc *BoardStoreClient) do(ctx context.Context, method, path string, payload any) (*envelope, error) {
	var body io.Reader
	if payload != nil {
		raw, err := sonic.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, bc.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %v", method, err)
	}
	req.Header.Set(AccountHeader, bc.AccountID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := bc.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send %s request: %v", method, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %v", err)
	}

	var env envelope
	if len(raw) > 0 {
		// A non-JSON error body is fine; the status line covers it below.
		_ = sonic.Unmarshal(raw, &env)
	}

	if resp.StatusCode != http.StatusOK || !env.Ok {
		msg := env.Error
		if msg == "" {
			msg = resp.Status
		}
		return nil, fmt.Errorf("board store returned an error: %s", msg)
	}

	return &env, nil
}

// FetchBoard returns the authoritative state of one board.
func (bc *BoardStoreClient) FetchBoard(ctx context.Context, boardID string) (*models.Board, error) {
	env, err := bc.do(ctx, http.MethodGet, "/boards/"+boardID, nil)
	if err != nil {
		return nil, err
	}
	if env.State == nil {
		return nil, fmt.Errorf("board store response is missing board state")
	}
	return env.State, nil
}

// CreateBoard provisions a new board with the given column titles and returns
// its server-assigned id.
func (bc *BoardStoreClient) CreateBoard(ctx context.Context, name string, columns []string) (string, error) {
	env, err := bc.do(ctx, http.MethodPost, "/boards", models.CreateBoardRequest{Name: name, Columns: columns})
	if err != nil {
		return "", err
	}
	if env.BoardID == "" {
		return "", fmt.Errorf("board store response is missing the new board id")
	}
	return env.BoardID, nil
}

func (bc *BoardStoreClient) AddColumn(ctx context.Context, boardID, title string) error {
	_, err := bc.do(ctx, http.MethodPost, fmt.Sprintf("/boards/%s/columns", boardID), models.ColumnRequest{Title: title})
	return err
}

func (bc *BoardStoreClient) RenameColumn(ctx context.Context, boardID, columnID, title string) error {
	_, err := bc.do(ctx, http.MethodPatch, fmt.Sprintf("/boards/%s/columns/%s", boardID, columnID), models.ColumnRequest{Title: title})
	return err
}

func (bc *BoardStoreClient) DeleteColumn(ctx context.Context, boardID, columnID string, mode models.DeleteMode) error {
	path := fmt.Sprintf("/boards/%s/columns/%s?mode=%s", boardID, columnID, url.QueryEscape(string(mode)))
	_, err := bc.do(ctx, http.MethodDelete, path, nil)
	return err
}

func (bc *BoardStoreClient) CreateCard(ctx context.Context, boardID string, req models.CreateCardRequest) error {
	_, err := bc.do(ctx, http.MethodPost, fmt.Sprintf("/boards/%s/cards", boardID), req)
	return err
}

func (bc *BoardStoreClient) UpdateCard(ctx context.Context, boardID, cardID string, patch models.CardPatch) error {
	_, err := bc.do(ctx, http.MethodPatch, fmt.Sprintf("/boards/%s/cards/%s", boardID, cardID), patch)
	return err
}

func (bc *BoardStoreClient) DeleteCard(ctx context.Context, boardID, cardID string) error {
	_, err := bc.do(ctx, http.MethodDelete, fmt.Sprintf("/boards/%s/cards/%s", boardID, cardID), nil)
	return err
}

func (bc *BoardStoreClient) MoveCard(ctx context.Context, boardID, cardID string, req models.MoveRequest) error {
	_, err := bc.do(ctx, http.MethodPost, fmt.Sprintf("/boards/%s/cards/%s/move", boardID, cardID), req)
	return err
}
