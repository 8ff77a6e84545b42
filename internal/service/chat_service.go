package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"digiassistant-client-V1.0/internal/api"
	"digiassistant-client-V1.0/internal/model"
	"digiassistant-client-V1.0/utilities"
)

// ChatState is the client-visible snapshot of the running assessment.
type ChatState struct {
	ConversationID string
	History        []model.Message
	IsLoading      bool
	IsInitializing bool
	IsFinished     bool
	Error          string
}

// ChatService maintains the assessment transcript and keeps it consistent
// with the backend across resumption, retries and identity changes. All
// mutations go through ResumeOrStart, SendAnswer and Clear; no other writer
// is permitted.
type ChatService interface {
	ResumeOrStart(ctx context.Context) error
	SendAnswer(ctx context.Context, conversationID, answerText string, isStart bool) error
	Clear()
	State() ChatState
}

type chatService struct {
	api   *api.Client
	mu    sync.Mutex
	state ChatState
}

func NewChatService(apiClient *api.Client) ChatService {
	return &chatService{api: apiClient}
}

// InitChatEventListeners clears the transcript whenever the signed-in
// identity changes, so each user only ever sees their own conversation.
func InitChatEventListeners(bus *utilities.EventBus, chat ChatService) {
	for _, event := range []string{"user_logged_in", "user_registered", "user_logged_out"} {
		bus.Subscribe(event, func(interface{}) {
			chat.Clear()
		})
	}
}

// ResumeOrStart fetches the active conversation and projects it into the
// transcript, or starts a fresh conversation when the backend has nothing to
// resume. A second call while initialization is running, or while a
// conversation is already active, is a no-op.
func (s *chatService) ResumeOrStart(ctx context.Context) error {
	s.mu.Lock()
	if s.state.IsInitializing || s.state.ConversationID != "" {
		s.mu.Unlock()
		return nil
	}
	s.state.IsInitializing = true
	s.state.IsLoading = true
	s.state.Error = ""
	s.mu.Unlock()

	active, err := s.api.ActiveConversation(ctx)
	switch {
	case err == nil:
		s.applyResume(active)
		return nil
	case errors.Is(err, api.ErrNoActiveConversation):
		return s.startNew(ctx)
	default:
		s.mu.Lock()
		s.state.IsLoading = false
		s.state.IsInitializing = false
		s.state.Error = userFacingMessage(err, "Failed to initialize chat.")
		s.mu.Unlock()
		return err
	}
}

func (s *chatService) applyResume(active *model.ActiveConversation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Cleared while the request was in flight; the state stays empty.
	if !s.state.IsInitializing {
		return
	}

	s.state.ConversationID = active.ConversationID
	s.state.History = projectHistory(active.History)
	s.state.IsLoading = false
	s.state.IsInitializing = false
}

// projectHistory flattens the backend's per-criterion records into the chat
// transcript: the AI question if one was issued, then the answer unless it is
// still pending, carrying over the evaluation.
func projectHistory(records []model.ConversationRecord) []model.Message {
	var history []model.Message
	for _, entry := range records {
		if entry.AIQuestion != "" {
			history = append(history, model.Message{Role: model.RoleAI, Content: entry.AIQuestion})
		}
		if entry.UserAnswer != "" && entry.UserAnswer != model.PendingAnswer {
			msg := model.Message{Role: model.RoleUser, Content: entry.UserAnswer}
			if entry.Evaluation != nil {
				score := entry.Evaluation.Score
				msg.Score = &score
				msg.Evaluation = entry.Evaluation
			}
			history = append(history, msg)
		}
	}
	return history
}

func (s *chatService) startNew(ctx context.Context) error {
	utilities.Info("no active chat, starting new one")
	newID := uuid.New().String()

	err := s.SendAnswer(ctx, newID, "", true)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state.IsLoading = false
		s.state.IsInitializing = false
		s.state.Error = userFacingMessage(err, "Failed to start new chat.")
		return err
	}
	if !s.state.IsInitializing {
		return nil
	}
	s.state.IsLoading = false
	s.state.IsInitializing = false
	// The opening exchange can race with an immediately-following fetch and
	// leave a repeated entry behind.
	s.state.History = dedupeHistory(s.state.History)
	return nil
}

// SendAnswer submits the respondent's answer (or, with isStart, requests the
// opening question of a new conversation) and folds the backend's reply into
// the transcript. The answer is appended optimistically before the request
// goes out and is deliberately left in place on failure so the respondent's
// input is never lost.
func (s *chatService) SendAnswer(ctx context.Context, conversationID, answerText string, isStart bool) error {
	s.mu.Lock()
	s.state.IsLoading = true
	s.state.Error = ""
	if !isStart && answerText != "" {
		// Guard against double-submit of the same text.
		last := lastMessage(s.state.History)
		if last == nil || last.Role != model.RoleUser || last.Content != answerText {
			s.state.History = append(s.state.History, model.Message{Role: model.RoleUser, Content: answerText})
		}
	}
	s.mu.Unlock()

	req := model.ChatRequest{ConversationID: conversationID}
	if !isStart {
		answer := answerText
		req.UserAnswer = &answer
	}

	resp, err := s.api.Chat(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.state.IsLoading = false
		s.state.Error = userFacingMessage(err, "Failed to send message.")
		return err
	}

	if resp.ConversationID == "" {
		utilities.Warn("chat response missing conversation_id")
		s.state.IsLoading = false
		return nil
	}

	// Responses keyed to a conversation that is no longer current are stale:
	// Clear() ran, or another conversation took over, while this request was
	// in flight. They are dropped without touching the state.
	if isStart {
		if !s.state.IsInitializing && s.state.ConversationID == "" {
			s.state.IsLoading = false
			return nil
		}
		if s.state.ConversationID != "" && s.state.ConversationID != conversationID {
			s.state.IsLoading = false
			return nil
		}
	} else if s.state.ConversationID != conversationID {
		s.state.IsLoading = false
		return nil
	}

	// A reply for some other conversation id than the one we asked about is
	// never applied.
	if resp.ConversationID != conversationID {
		s.state.IsLoading = false
		return nil
	}

	// Replayed response: the question is already the tail of the transcript.
	if last := lastMessage(s.state.History); last != nil &&
		last.Role == model.RoleAI && last.Content == resp.AIQuestion {
		utilities.Warn("duplicate chat response detected, skipping")
		s.state.IsLoading = false
		return nil
	}

	s.state.ConversationID = resp.ConversationID

	// Backfill the optimistic user message with its evaluation.
	if !isStart && answerText != "" && (resp.Score != nil || resp.Evaluation != nil) {
		for i := len(s.state.History) - 1; i >= 0; i-- {
			msg := &s.state.History[i]
			if msg.Role == model.RoleUser && msg.Content == answerText {
				if resp.Score != nil {
					msg.Score = resp.Score
				} else {
					score := resp.Evaluation.Score
					msg.Score = &score
				}
				msg.Evaluation = resp.Evaluation
				break
			}
		}
	}

	if resp.AIQuestion != "" {
		if containsMessage(s.state.History, model.RoleAI, resp.AIQuestion) {
			utilities.Warn("question already present in history, skipping duplicate")
			s.state.IsLoading = false
			return nil
		}
		s.state.History = append(s.state.History, model.Message{Role: model.RoleAI, Content: resp.AIQuestion})
	} else {
		utilities.Warn("chat response carried no question")
	}

	if resp.CurrentCriterionID == model.FinishedCriterion {
		s.state.IsFinished = true
	}

	s.state.IsLoading = false
	return nil
}

// Clear resets the transcript to its empty initial value.
func (s *chatService) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = ChatState{}
}

// State returns a copy of the current chat state.
func (s *chatService) State() ChatState {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.state
	snapshot.History = append([]model.Message(nil), s.state.History...)
	return snapshot
}

func lastMessage(history []model.Message) *model.Message {
	if len(history) == 0 {
		return nil
	}
	return &history[len(history)-1]
}

func containsMessage(history []model.Message, role, content string) bool {
	for _, msg := range history {
		if msg.Role == role && msg.Content == content {
			return true
		}
	}
	return false
}

func dedupeHistory(history []model.Message) []model.Message {
	seen := make(map[string]bool)
	deduped := history[:0]
	for _, msg := range history {
		key := msg.Role + "-" + msg.Content
		if seen[key] {
			utilities.Info("removing duplicate message: %.50s", msg.Content)
			continue
		}
		seen[key] = true
		deduped = append(deduped, msg)
	}
	return deduped
}

// userFacingMessage prefers the backend's detail message, falling back to a
// generic one for transport-level failures.
func userFacingMessage(err error, fallback string) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}
