package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/go-telegram/bot"
	"github.com/google/uuid"
	"github.com/set-night/influnest/internal/chain"
)

const (
	ApprovePrefix = "sign_ok_"
	RejectPrefix  = "sign_no_"
)

// Wallet-style refusals. The wording is matched when classifying submit
// failures, so keep the leading "User ..." phrase.
var (
	ErrUserRejected     = errors.New("User rejected the request.")
	ErrSignatureExpired = errors.New("User cancelled the request: signature prompt expired")
)

var (
	ErrPromptInactive = errors.New("signature prompt is no longer active")
	ErrNotRequester   = errors.New("signature prompt belongs to another user")
)

// ApprovalBroker turns a chat into a signature prompt: every transaction is
// shown with Sign and Reject buttons and waits for the user's answer.
type ApprovalBroker struct {
	sender  Sender
	timeout time.Duration

	mu      sync.Mutex
	pending map[string]pendingPrompt
}

type pendingPrompt struct {
	requester int64
	answer    chan bool
}

func NewApprovalBroker(sender Sender, timeout time.Duration) *ApprovalBroker {
	return &ApprovalBroker{
		sender:  sender,
		timeout: timeout,
		pending: make(map[string]pendingPrompt),
	}
}

// Approver returns an approval prompt sent to chatID that only requesterID
// may answer. describe renders the transaction for the prompt text.
func (a *ApprovalBroker) Approver(chatID, requesterID int64, describe func(*types.Transaction) string) chain.ApproveFunc {
	return func(ctx context.Context, tx *types.Transaction) error {
		id := uuid.NewString()
		answer := make(chan bool, 1)

		a.mu.Lock()
		a.pending[id] = pendingPrompt{requester: requesterID, answer: answer}
		a.mu.Unlock()
		defer a.drop(id)

		msg, err := a.sender.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      chatID,
			Text:        describe(tx),
			ParseMode:   "Markdown",
			ReplyMarkup: ApprovalKeyboard(id),
		})
		if err != nil {
			return fmt.Errorf("send signature prompt: %w", err)
		}

		timer := time.NewTimer(a.timeout)
		defer timer.Stop()

		select {
		case approved := <-answer:
			if !approved {
				return ErrUserRejected
			}
			return nil
		case <-timer.C:
			if msg != nil {
				if err := EditMessage(context.Background(), a.sender, chatID, msg.ID, "⌛ Signature request expired.", nil); err != nil {
					slog.Warn("edit expired signature prompt", "error", err)
				}
			}
			return ErrSignatureExpired
		case <-ctx.Done():
			return fmt.Errorf("wait for signature: %w", ctx.Err())
		}
	}
}

// Resolve delivers fromID's answer for prompt id. A prompt can only be
// answered by the user who requested it; other users get ErrNotRequester
// and the prompt stays pending.
func (a *ApprovalBroker) Resolve(id string, fromID int64, approved bool) error {
	a.mu.Lock()
	p, ok := a.pending[id]
	switch {
	case !ok:
		a.mu.Unlock()
		return ErrPromptInactive
	case p.requester != fromID:
		a.mu.Unlock()
		return ErrNotRequester
	}
	delete(a.pending, id)
	a.mu.Unlock()

	p.answer <- approved
	return nil
}

// Pending returns the number of prompts awaiting an answer.
func (a *ApprovalBroker) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.pending)
}

func (a *ApprovalBroker) drop(id string) {
	a.mu.Lock()
	delete(a.pending, id)
	a.mu.Unlock()
}

// ParseApprovalData splits sign_ok_<id> / sign_no_<id> callback data.
func ParseApprovalData(data string) (id string, approved bool, ok bool) {
	switch {
	case strings.HasPrefix(data, ApprovePrefix):
		return strings.TrimPrefix(data, ApprovePrefix), true, true
	case strings.HasPrefix(data, RejectPrefix):
		return strings.TrimPrefix(data, RejectPrefix), false, true
	default:
		return "", false, false
	}
}
