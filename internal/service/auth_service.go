package service

import (
	"context"

	"digiassistant-client-V1.0/internal/api"
	"digiassistant-client-V1.0/internal/model"
	"digiassistant-client-V1.0/internal/session"
	"digiassistant-client-V1.0/utilities"
)

// AuthService signs the respondent in and out and keeps the session store in
// sync with the backend.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*model.User, error)
	Register(ctx context.Context, req model.RegisterRequest) (*model.User, error)
	CurrentUser(ctx context.Context) (*model.User, error)
	Logout()
}

type authService struct {
	api     *api.Client
	session *session.Store
	bus     *utilities.EventBus
}

func NewAuthService(apiClient *api.Client, sessionStore *session.Store, bus *utilities.EventBus) AuthService {
	return &authService{
		api:     apiClient,
		session: sessionStore,
		bus:     bus,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*model.User, error) {
	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	s.session.SetCredentials(&resp.User, resp.Token)
	s.bus.PublishSync("user_logged_in", resp.User.ID)
	return &resp.User, nil
}

func (s *authService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	resp, err := s.api.Register(ctx, req)
	if err != nil {
		return nil, err
	}

	s.session.SetCredentials(&resp.User, resp.Token)
	s.bus.PublishSync("user_registered", resp.User.ID)
	return &resp.User, nil
}

// CurrentUser re-fetches the signed-in user record, including the score of a
// previously completed assessment if there is one.
func (s *authService) CurrentUser(ctx context.Context) (*model.User, error) {
	user, err := s.api.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	s.session.SetUser(user)
	return user, nil
}

func (s *authService) Logout() {
	s.session.Invalidate()
}
