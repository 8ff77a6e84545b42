package repository

import (
	"gorm.io/gorm"

	"digiassistant-client-V1.0/internal/db"
	"digiassistant-client-V1.0/internal/model"
)

type ConversationRepository interface {
	CreateConversation(conversation *model.Conversation) error
	GetActiveByUser(userID uint) (*model.Conversation, error)
	GetLatestFinishedByUser(userID uint) (*model.Conversation, error)
	GetByConversationID(conversationID string) (*model.Conversation, error)
	SaveConversation(conversation *model.Conversation) error
	CreateEntry(entry *model.ConversationEntry) error
	UpdateEntry(entry *model.ConversationEntry) error
}

type conversationRepository struct{}

func NewConversationRepository() ConversationRepository {
	return &conversationRepository{}
}

func (r *conversationRepository) CreateConversation(conversation *model.Conversation) error {
	return db.GetDB().Create(conversation).Error
}

func (r *conversationRepository) GetActiveByUser(userID uint) (*model.Conversation, error) {
	var conversation model.Conversation
	err := db.GetDB().
		Preload("Entries", orderedEntries).
		Where("user_id = ? AND status = ?", userID, "active").
		Order("created_at desc").
		First(&conversation).Error
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

func (r *conversationRepository) GetLatestFinishedByUser(userID uint) (*model.Conversation, error) {
	var conversation model.Conversation
	err := db.GetDB().
		Preload("Entries", orderedEntries).
		Where("user_id = ? AND status = ?", userID, "finished").
		Order("updated_at desc").
		First(&conversation).Error
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

func (r *conversationRepository) GetByConversationID(conversationID string) (*model.Conversation, error) {
	var conversation model.Conversation
	err := db.GetDB().
		Preload("Entries", orderedEntries).
		Where("conversation_id = ?", conversationID).
		First(&conversation).Error
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

func orderedEntries(tx *gorm.DB) *gorm.DB {
	return tx.Order("position asc")
}

func (r *conversationRepository) SaveConversation(conversation *model.Conversation) error {
	return db.GetDB().Save(conversation).Error
}

func (r *conversationRepository) CreateEntry(entry *model.ConversationEntry) error {
	return db.GetDB().Create(entry).Error
}

func (r *conversationRepository) UpdateEntry(entry *model.ConversationEntry) error {
	return db.GetDB().Save(entry).Error
}
