package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/taogaetz/ghost-posters/config"
	"github.com/taogaetz/ghost-posters/internal/adapters/directus"
	"github.com/taogaetz/ghost-posters/internal/domain"
	"github.com/taogaetz/ghost-posters/internal/tokenverify"
	pkglog "github.com/taogaetz/ghost-posters/pkg/log"
)

// ErrConfiguration is returned when a member must be provisioned but the role
// id or default password is not configured. It is the only bridge error that
// escalates past the handshake.
var ErrConfiguration = errors.New("directus provisioning is not configured")

// Session is the handshake outcome for an authenticated member. Minted is
// non-nil when a new token pair was obtained this request and must be written
// back as cookies; a nil Session means no Directus session could be
// established and the token cookies must be cleared.
type Session struct {
	AccessToken string
	Minted      *domain.Tokens
}

// Service establishes a Directus session for an already-authenticated Ghost
// member: trust an existing access token, refresh, or look up / provision the
// account and log in with the configured default password.
type Service interface {
	EnsureSession(ctx context.Context, traceID string, member *domain.Member, access, refresh string) (*Session, error)
}

type bridgeService struct {
	cfg     *config.Config
	logger  pkglog.Logger
	auth    directus.Client // tokenless, for login and refresh
	admin   directus.Client // admin static token, for account lookup/creation only
	clients directus.ClientFactory
	now     func() time.Time
}

func NewBridgeService(cfg *config.Config, logger pkglog.Logger, factory directus.ClientFactory) Service {
	return &bridgeService{
		cfg:     cfg,
		logger:  logger,
		auth:    factory.Client(""),
		admin:   factory.Client(cfg.DirectusAdminToken),
		clients: factory,
		now:     time.Now,
	}
}

func (s *bridgeService) EnsureSession(ctx context.Context, traceID string, member *domain.Member, access, refresh string) (*Session, error) {
	if member == nil {
		return nil, nil
	}

	if access != "" && !tokenverify.Expired(access, s.now) && s.probe(ctx, access) {
		return &Session{AccessToken: access}, nil
	}

	if refresh != "" {
		tokens, err := s.auth.Refresh(ctx, refresh)
		if err == nil && tokens != nil && tokens.AccessToken != "" && tokens.RefreshToken != "" {
			s.logger.Info().Str("trace_id", traceID).Str("email", member.Email).Msg("directus token refreshed")
			return &Session{AccessToken: tokens.AccessToken, Minted: tokens}, nil
		}
		s.logger.Warn().Str("trace_id", traceID).Str("email", member.Email).Err(err).Msg("directus token refresh failed")
	}

	return s.loginOrCreate(ctx, traceID, member)
}

func (s *bridgeService) loginOrCreate(ctx context.Context, traceID string, member *domain.Member) (*Session, error) {
	account, err := s.admin.UserByEmail(ctx, member.Email)
	if err != nil {
		s.logger.Error().Str("trace_id", traceID).Str("email", member.Email).Err(err).Msg("directus user lookup failed")
		return nil, nil
	}

	if account == nil {
		if s.cfg.DirectusRoleID == "" || s.cfg.DirectusDefaultPassword == "" {
			s.logger.Error().Str("trace_id", traceID).Msg("missing DIRECTUS_USER_ROLE_ID or DIRECTUS_DEFAULT_USER_PASSWORD")
			return nil, ErrConfiguration
		}
		account, err = s.createAccount(ctx, traceID, member)
		if err != nil {
			return nil, nil
		}
	}

	tokens, err := s.auth.Login(ctx, member.Email, s.cfg.DirectusDefaultPassword)
	if err != nil || tokens == nil || tokens.AccessToken == "" || tokens.RefreshToken == "" {
		s.logger.Error().Str("trace_id", traceID).Str("email", member.Email).Err(err).Msg("directus login failed")
		return nil, nil
	}

	s.logger.Info().Str("trace_id", traceID).Str("email", member.Email).Str("account_id", account.ID).Msg("directus login")
	return &Session{AccessToken: tokens.AccessToken, Minted: tokens}, nil
}

// createAccount provisions a Directus account for the member. A concurrent
// request can win the creation race; the email uniqueness constraint is the
// arbiter, so a creation failure is followed by exactly one re-lookup.
func (s *bridgeService) createAccount(ctx context.Context, traceID string, member *domain.Member) (*domain.Account, error) {
	first, last := splitName(member)

	account, err := s.admin.CreateUser(ctx, domain.AccountCreation{
		FirstName: first,
		LastName:  last,
		Email:     member.Email,
		Password:  s.cfg.DirectusDefaultPassword,
		Role:      s.cfg.DirectusRoleID,
		Status:    "active",
	})
	if err == nil {
		s.logger.Info().Str("trace_id", traceID).Str("email", member.Email).Str("account_id", account.ID).Msg("directus account created")
		return account, nil
	}

	s.logger.Warn().Str("trace_id", traceID).Str("email", member.Email).Err(err).Msg("directus account creation failed, re-checking")
	account, lookupErr := s.admin.UserByEmail(ctx, member.Email)
	if lookupErr != nil || account == nil {
		s.logger.Error().Str("trace_id", traceID).Str("email", member.Email).Err(err).Msg("directus account creation failed")
		return nil, err
	}
	return account, nil
}

// probe optionally validates the access token with a users/me call. When the
// probe is disabled the cookie is trusted until a downstream call rejects it.
func (s *bridgeService) probe(ctx context.Context, access string) bool {
	if !s.cfg.ProbeSession {
		return true
	}
	_, err := s.clients.Client(access).Me(ctx)
	return err == nil
}

func splitName(member *domain.Member) (string, string) {
	name := strings.TrimSpace(member.Name)
	if name == "" {
		name = "New User"
	}
	parts := strings.Fields(name)
	first := parts[0]
	last := strings.Join(parts[1:], " ")
	if last == "" {
		last = first
	}
	return first, last
}
