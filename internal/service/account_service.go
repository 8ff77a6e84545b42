package service

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"digiassistant-client-V1.0/internal/model"
	"digiassistant-client-V1.0/internal/repository"
	"digiassistant-client-V1.0/internal/scoring"
	"digiassistant-client-V1.0/utilities"
)

// AccountService is the backend-side account logic: registration, credential
// checks and the enriched "me" record.
type AccountService interface {
	Register(req model.RegisterRequest) (*model.User, string, error)
	Login(email, password string) (*model.User, string, error)
	GetUser(userID uint) (*model.User, error)
}

type accountService struct {
	userRepo         repository.UserRepository
	conversationRepo repository.ConversationRepository
}

func NewAccountService(userRepo repository.UserRepository, conversationRepo repository.ConversationRepository) AccountService {
	return &accountService{
		userRepo:         userRepo,
		conversationRepo: conversationRepo,
	}
}

func (s *accountService) Register(req model.RegisterRequest) (*model.User, string, error) {
	if req.Password == "" {
		return nil, "", errors.New("password cannot be empty")
	}

	existing, err := s.userRepo.GetUserByEmail(req.Email)
	if err == nil && existing != nil {
		return nil, "", errors.New("email already in use")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &model.User{
		Email:       req.Email,
		Password:    string(hashed),
		CompanyName: req.CompanyName,
		Sector:      req.Sector,
		CompanySize: req.CompanySize,
	}
	if err := s.userRepo.CreateUser(user); err != nil {
		return nil, "", errors.New("failed to store user in database")
	}

	token, err := utilities.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}

	user.Password = ""
	return user, token, nil
}

func (s *accountService) Login(email, password string) (*model.User, string, error) {
	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, "", errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", errors.New("invalid credentials")
	}

	token, err := utilities.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}

	user.Password = ""
	return user, token, nil
}

// GetUser returns the account record, annotated with the global score of the
// latest finished assessment when there is one.
func (s *accountService) GetUser(userID uint) (*model.User, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	user.Password = ""

	finished, err := s.conversationRepo.GetLatestFinishedByUser(userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			utilities.Warn("failed to load finished assessment for user %d: %v", userID, err)
		}
		return user, nil
	}

	result := scoring.ComputeResults(finished.ConversationID, finished.Entries)
	user.GlobalScore = &result.GlobalScore
	return user, nil
}
