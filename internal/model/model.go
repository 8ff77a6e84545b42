package model

import "time"

// Wire sentinels used by the DigiAssistant backend.
const (
	PendingAnswer     = "__PENDING__"
	FinishedCriterion = "FINISHED"
)

// Message roles as they appear in the chat history.
const (
	RoleAI   = "ai"
	RoleUser = "user"
)

type User struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Email       string    `json:"email" gorm:"not null;unique"`
	Password    string    `json:"password,omitempty"` // Exclude from JSON responses
	CompanyName string    `json:"company_name"`
	Sector      string    `json:"sector"`
	CompanySize string    `json:"company_size"`
	GlobalScore *int      `json:"global_score,omitempty" gorm:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Conversation struct {
	ID             uint                `json:"id" gorm:"primaryKey"`
	UserID         uint                `json:"user_id" gorm:"not null"`
	ConversationID string              `json:"conversation_id" gorm:"not null;unique"`
	Status         string              `json:"status" gorm:"default:'active'"` // active, finished
	CurrentIndex   int                 `json:"current_index" gorm:"default:0"`
	Entries        []ConversationEntry `json:"entries" gorm:"foreignKey:ConversationRef"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

type ConversationEntry struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	ConversationRef uint      `json:"conversation_ref"`
	Position        int       `json:"position"`
	CriterionID     string    `json:"criterion_id" gorm:"not null"`
	AIQuestion      string    `json:"ai_question"`
	UserAnswer      string    `json:"user_answer"` // __PENDING__ until the respondent answers
	Score           *int      `json:"score,omitempty"`
	Justification   string    `json:"justification"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Evaluation is the structured score attached to an answered criterion.
type Evaluation struct {
	Score         int    `json:"score"` // 0..3
	Justification string `json:"justification,omitempty"`
}

// ConversationRecord is one question/answer pair as served by the backend.
type ConversationRecord struct {
	CriterionID string      `json:"criterion_id"`
	AIQuestion  string      `json:"ai_question,omitempty"`
	UserAnswer  string      `json:"user_answer,omitempty"`
	Evaluation  *Evaluation `json:"evaluation,omitempty"`
}

// ActiveConversation is the resume payload of GET /api/v1/active-conversation.
type ActiveConversation struct {
	ConversationID string               `json:"conversation_id"`
	History        []ConversationRecord `json:"history"`
	CurrentIndex   int                  `json:"current_index"`
}

// ChatRequest is the body of POST /api/v1/chat. UserAnswer is omitted on the
// opening request of a new conversation.
type ChatRequest struct {
	ConversationID string  `json:"conversation_id"`
	UserAnswer     *string `json:"user_answer,omitempty"`
}

type ChatResponse struct {
	ConversationID     string      `json:"conversation_id"`
	AIQuestion         string      `json:"ai_question"`
	CurrentCriterionID string      `json:"current_criterion_id"`
	Evaluation         *Evaluation `json:"evaluation,omitempty"`
	Score              *int        `json:"score,omitempty"`
}

// Message is one entry of the client-visible transcript.
type Message struct {
	Role       string      `json:"role"`
	Content    string      `json:"content"`
	Score      *int        `json:"score,omitempty"`
	Evaluation *Evaluation `json:"evaluation,omitempty"`
}

type RegisterRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	CompanyName string `json:"company_name"`
	Sector      string `json:"sector"`
	CompanySize string `json:"company_size"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// DimensionResult is the per-dimension part of the structured report.
type DimensionResult struct {
	ScorePercent  float64 `json:"score_percent"`
	PalierAtteint int     `json:"palier_atteint"`
}

// DigitalGap flags a dimension lagging behind the overall profile level.
type DigitalGap struct {
	Dimension     string `json:"dimension"`
	PalierAtteint int    `json:"palier_atteint"`
}

// StructuredResult is the payload of GET /api/v1/results/:id/structured.
type StructuredResult struct {
	ConversationID   string                     `json:"conversation_id"`
	GlobalScore      int                        `json:"global_score"` // 0..100
	ProfileLevel     int                        `json:"profile_level"`
	DimensionResults map[string]DimensionResult `json:"dimension_results"`
	DigitalGaps      []DigitalGap               `json:"digital_gaps"`
}
