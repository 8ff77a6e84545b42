package service

import (
	"errors"

	"gorm.io/gorm"

	"digiassistant-client-V1.0/internal/model"
	"digiassistant-client-V1.0/internal/repository"
	"digiassistant-client-V1.0/internal/scoring"
)

var (
	// ErrConversationNotFound covers both unknown ids and ids belonging to
	// another user.
	ErrConversationNotFound = errors.New("conversation not found")
	// ErrNoActiveConversation is the expected "nothing to resume" signal.
	ErrNoActiveConversation = errors.New("no active conversation")
	// ErrNoPendingQuestion means an answer arrived without an open question.
	ErrNoPendingQuestion = errors.New("no pending question to answer")
	// ErrResultsNotReady means the assessment has not been completed yet.
	ErrResultsNotReady = errors.New("results not available")
)

// ConversationService is the backend-side diagnostic flow: it hands out one
// question per criterion, scores answers and produces the structured report.
type ConversationService interface {
	ActiveConversation(userID uint) (*model.ActiveConversation, error)
	Advance(userID uint, conversationID string, userAnswer *string) (*model.ChatResponse, error)
	Results(userID uint, conversationID string) (*model.StructuredResult, error)
}

type conversationService struct {
	conversationRepo repository.ConversationRepository
}

func NewConversationService(conversationRepo repository.ConversationRepository) ConversationService {
	return &conversationService{conversationRepo: conversationRepo}
}

// ActiveConversation returns the resumable conversation of the user, with
// its full record history in ask order.
func (s *conversationService) ActiveConversation(userID uint) (*model.ActiveConversation, error) {
	conversation, err := s.conversationRepo.GetActiveByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveConversation
		}
		return nil, err
	}

	active := &model.ActiveConversation{
		ConversationID: conversation.ConversationID,
		CurrentIndex:   conversation.CurrentIndex,
	}
	for _, entry := range conversation.Entries {
		record := model.ConversationRecord{
			CriterionID: entry.CriterionID,
			AIQuestion:  entry.AIQuestion,
			UserAnswer:  entry.UserAnswer,
		}
		if entry.Score != nil {
			record.Evaluation = &model.Evaluation{
				Score:         *entry.Score,
				Justification: entry.Justification,
			}
		}
		active.History = append(active.History, record)
	}
	return active, nil
}

// Advance is one chat round-trip. With an answer it scores the pending
// criterion first; in both cases it then issues the next question, or the
// completion sentinel once the question set is exhausted.
func (s *conversationService) Advance(userID uint, conversationID string, userAnswer *string) (*model.ChatResponse, error) {
	conversation, err := s.conversationRepo.GetByConversationID(conversationID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if userAnswer != nil {
			return nil, ErrConversationNotFound
		}
		// Opening request: the client generated a fresh conversation id.
		conversation = &model.Conversation{
			UserID:         userID,
			ConversationID: conversationID,
			Status:         "active",
		}
		if err := s.conversationRepo.CreateConversation(conversation); err != nil {
			return nil, err
		}
	}
	if conversation.UserID != userID {
		return nil, ErrConversationNotFound
	}

	resp := &model.ChatResponse{ConversationID: conversation.ConversationID}

	if conversation.Status == "finished" {
		resp.CurrentCriterionID = model.FinishedCriterion
		return resp, nil
	}

	if userAnswer != nil {
		var pending *model.ConversationEntry
		for i := len(conversation.Entries) - 1; i >= 0; i-- {
			if conversation.Entries[i].UserAnswer == model.PendingAnswer {
				pending = &conversation.Entries[i]
				break
			}
		}
		if pending == nil {
			return nil, ErrNoPendingQuestion
		}

		criterion, _ := scoring.CriterionByID(pending.CriterionID)
		evaluation := scoring.ScoreAnswer(criterion, *userAnswer)
		score := evaluation.Score

		pending.UserAnswer = *userAnswer
		pending.Score = &score
		pending.Justification = evaluation.Justification
		if err := s.conversationRepo.UpdateEntry(pending); err != nil {
			return nil, err
		}

		resp.Evaluation = &evaluation
		resp.Score = &score
	}

	catalog := scoring.Catalog()
	if conversation.CurrentIndex >= len(catalog) {
		conversation.Status = "finished"
		if err := s.conversationRepo.SaveConversation(conversation); err != nil {
			return nil, err
		}
		resp.CurrentCriterionID = model.FinishedCriterion
		resp.AIQuestion = "Merci ! Votre diagnostic est terminé, vos résultats sont prêts."
		return resp, nil
	}

	next := catalog[conversation.CurrentIndex]
	entry := &model.ConversationEntry{
		ConversationRef: conversation.ID,
		Position:        conversation.CurrentIndex,
		CriterionID:     next.ID,
		AIQuestion:      next.Question,
		UserAnswer:      model.PendingAnswer,
	}
	if err := s.conversationRepo.CreateEntry(entry); err != nil {
		return nil, err
	}

	conversation.CurrentIndex++
	conversation.Entries = append(conversation.Entries, *entry)
	if err := s.conversationRepo.SaveConversation(conversation); err != nil {
		return nil, err
	}

	resp.AIQuestion = next.Question
	resp.CurrentCriterionID = next.ID
	return resp, nil
}

// Results computes the structured report of a finished conversation.
func (s *conversationService) Results(userID uint, conversationID string) (*model.StructuredResult, error) {
	conversation, err := s.conversationRepo.GetByConversationID(conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	if conversation.UserID != userID {
		return nil, ErrConversationNotFound
	}
	if conversation.Status != "finished" {
		return nil, ErrResultsNotReady
	}

	return scoring.ComputeResults(conversation.ConversationID, conversation.Entries), nil
}
