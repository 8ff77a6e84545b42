package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"digiassistant-client-V1.0/internal/model"
	"digiassistant-client-V1.0/internal/scoring"
)

// memoryConversationRepo keeps conversations in memory, mirroring the gorm
// repository's not-found behavior.
type memoryConversationRepo struct {
	nextID        uint
	conversations map[string]*model.Conversation
}

func newMemoryConversationRepo() *memoryConversationRepo {
	return &memoryConversationRepo{conversations: make(map[string]*model.Conversation)}
}

func (r *memoryConversationRepo) CreateConversation(c *model.Conversation) error {
	r.nextID++
	c.ID = r.nextID
	r.conversations[c.ConversationID] = c
	return nil
}

func (r *memoryConversationRepo) GetActiveByUser(userID uint) (*model.Conversation, error) {
	return r.findByUser(userID, "active")
}

func (r *memoryConversationRepo) GetLatestFinishedByUser(userID uint) (*model.Conversation, error) {
	return r.findByUser(userID, "finished")
}

func (r *memoryConversationRepo) findByUser(userID uint, status string) (*model.Conversation, error) {
	for _, c := range r.conversations {
		if c.UserID == userID && c.Status == status {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryConversationRepo) GetByConversationID(conversationID string) (*model.Conversation, error) {
	c, ok := r.conversations[conversationID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *memoryConversationRepo) SaveConversation(c *model.Conversation) error {
	r.conversations[c.ConversationID] = c
	return nil
}

func (r *memoryConversationRepo) CreateEntry(entry *model.ConversationEntry) error {
	return nil
}

func (r *memoryConversationRepo) UpdateEntry(entry *model.ConversationEntry) error {
	return nil
}

func answerPtr(s string) *string { return &s }

func TestAdvance(t *testing.T) {
	t.Run("opening request creates conversation and asks first question", func(t *testing.T) {
		repo := newMemoryConversationRepo()
		svc := NewConversationService(repo)

		resp, err := svc.Advance(1, "conv-1", nil)
		require.NoError(t, err)

		first := scoring.Catalog()[0]
		assert.Equal(t, "conv-1", resp.ConversationID)
		assert.Equal(t, first.Question, resp.AIQuestion)
		assert.Equal(t, first.ID, resp.CurrentCriterionID)
		assert.Nil(t, resp.Evaluation)

		stored := repo.conversations["conv-1"]
		require.NotNil(t, stored)
		assert.Equal(t, 1, stored.CurrentIndex)
		require.Len(t, stored.Entries, 1)
		assert.Equal(t, model.PendingAnswer, stored.Entries[0].UserAnswer)
	})

	t.Run("answer to unknown conversation is rejected", func(t *testing.T) {
		svc := NewConversationService(newMemoryConversationRepo())
		_, err := svc.Advance(1, "ghost", answerPtr("une réponse"))
		assert.ErrorIs(t, err, ErrConversationNotFound)
	})

	t.Run("foreign conversation is invisible", func(t *testing.T) {
		repo := newMemoryConversationRepo()
		svc := NewConversationService(repo)
		_, err := svc.Advance(1, "conv-1", nil)
		require.NoError(t, err)

		_, err = svc.Advance(2, "conv-1", answerPtr("une réponse"))
		assert.ErrorIs(t, err, ErrConversationNotFound)
	})

	t.Run("answer scores the pending criterion and asks the next", func(t *testing.T) {
		repo := newMemoryConversationRepo()
		svc := NewConversationService(repo)
		_, err := svc.Advance(1, "conv-1", nil)
		require.NoError(t, err)

		resp, err := svc.Advance(1, "conv-1", answerPtr("nous avons une feuille de route pilotée avec des indicateurs mesurés chaque trimestre par la direction générale"))
		require.NoError(t, err)

		require.NotNil(t, resp.Score)
		assert.Equal(t, 3, *resp.Score)
		require.NotNil(t, resp.Evaluation)
		assert.Equal(t, scoring.Catalog()[1].Question, resp.AIQuestion)

		stored := repo.conversations["conv-1"]
		assert.Contains(t, stored.Entries[0].UserAnswer, "feuille de route")
		require.NotNil(t, stored.Entries[0].Score)
	})

	t.Run("answer without pending question is rejected", func(t *testing.T) {
		repo := newMemoryConversationRepo()
		svc := NewConversationService(repo)
		_, err := svc.Advance(1, "conv-1", nil)
		require.NoError(t, err)

		// Wipe the pending sentinel to simulate a double-scored entry.
		repo.conversations["conv-1"].Entries[0].UserAnswer = "déjà répondu"
		_, err = svc.Advance(1, "conv-1", answerPtr("encore une réponse"))
		assert.ErrorIs(t, err, ErrNoPendingQuestion)
	})

	t.Run("exhausting the catalog finishes the conversation", func(t *testing.T) {
		repo := newMemoryConversationRepo()
		svc := NewConversationService(repo)

		_, err := svc.Advance(1, "conv-1", nil)
		require.NoError(t, err)
		for range scoring.Catalog() {
			_, err = svc.Advance(1, "conv-1", answerPtr("nous utilisons un CRM intégré avec des indicateurs"))
			require.NoError(t, err)
		}

		last, err := svc.Advance(1, "conv-1", nil)
		require.NoError(t, err)
		assert.Equal(t, model.FinishedCriterion, last.CurrentCriterionID)
		assert.Equal(t, "finished", repo.conversations["conv-1"].Status)

		// Further requests keep replying with the sentinel.
		again, err := svc.Advance(1, "conv-1", answerPtr("encore"))
		require.NoError(t, err)
		assert.Equal(t, model.FinishedCriterion, again.CurrentCriterionID)
		assert.Nil(t, again.Evaluation)
	})
}

func TestActiveConversation(t *testing.T) {
	repo := newMemoryConversationRepo()
	svc := NewConversationService(repo)

	_, err := svc.ActiveConversation(1)
	assert.ErrorIs(t, err, ErrNoActiveConversation)

	_, err = svc.Advance(1, "conv-1", nil)
	require.NoError(t, err)
	_, err = svc.Advance(1, "conv-1", answerPtr("nous utilisons un CRM au quotidien"))
	require.NoError(t, err)

	active, err := svc.ActiveConversation(1)
	require.NoError(t, err)
	assert.Equal(t, "conv-1", active.ConversationID)
	assert.Equal(t, 2, active.CurrentIndex)
	require.Len(t, active.History, 2)

	assert.NotEqual(t, model.PendingAnswer, active.History[0].UserAnswer)
	require.NotNil(t, active.History[0].Evaluation)
	assert.Equal(t, model.PendingAnswer, active.History[1].UserAnswer)
	assert.Nil(t, active.History[1].Evaluation)
}

func TestResults(t *testing.T) {
	repo := newMemoryConversationRepo()
	svc := NewConversationService(repo)

	_, err := svc.Results(1, "conv-1")
	assert.ErrorIs(t, err, ErrConversationNotFound)

	_, err = svc.Advance(1, "conv-1", nil)
	require.NoError(t, err)

	_, err = svc.Results(1, "conv-1")
	assert.ErrorIs(t, err, ErrResultsNotReady)

	for range scoring.Catalog() {
		_, err = svc.Advance(1, "conv-1", answerPtr("nous avons un process systématique avec un tableau de bord mesuré et intégré au CRM de toute l'équipe"))
		require.NoError(t, err)
	}
	_, err = svc.Advance(1, "conv-1", nil)
	require.NoError(t, err)

	res, err := svc.Results(1, "conv-1")
	require.NoError(t, err)
	assert.Equal(t, 100, res.GlobalScore)
	assert.Equal(t, 4, res.ProfileLevel)
	assert.Empty(t, res.DigitalGaps)

	_, err = svc.Results(2, "conv-1")
	assert.ErrorIs(t, err, ErrConversationNotFound)
}
