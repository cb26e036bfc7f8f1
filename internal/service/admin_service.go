package service

import (
	"context"
	"crypto/subtle"

	"go.uber.org/zap"

	"geo-region-api/internal/domain"
	"geo-region-api/pkg/utils"
)

type TokenIssuer interface {
	Issue(uid, role string) (string, error)
}

type AdminCredentials struct {
	Username     string
	PasswordHash string
}

type Token struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

const RoleAdmin = "admin"

var ErrBadCredentials = domain.NewError(domain.CodeUnauthorized, "invalid username or password")

// AdminService backs the admin API: login, user search and orphaned regions.
type AdminService struct {
	users   UserStore
	regions RegionStore
	creds   AdminCredentials
	tokens  TokenIssuer
	log     *zap.Logger
}

func NewAdminService(users UserStore, regions RegionStore, creds AdminCredentials, tokens TokenIssuer, l *zap.Logger) *AdminService {
	if l == nil {
		l = zap.NewNop()
	}
	return &AdminService{users: users, regions: regions, creds: creds, tokens: tokens, log: l}
}

func (s *AdminService) Login(_ context.Context, username, password string) domain.Result[Token] {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.creds.Username)) == 1
	pwOK := utils.CheckPassword(password, s.creds.PasswordHash)
	if !userOK || !pwOK || s.creds.Username == "" {
		s.log.Warn("admin login rejected", zap.String("username", username))
		return domain.FailFrom[Token](ErrBadCredentials, domain.CodeUnauthorized)
	}
	tok, err := s.tokens.Issue(username, RoleAdmin)
	if err != nil {
		return domain.FailFrom[Token](err, domain.CodeInternal)
	}
	return domain.OK(Token{Token: tok, Role: RoleAdmin})
}

func (s *AdminService) SearchUsers(ctx context.Context, q string, p domain.Pagination) domain.Result[domain.Page[domain.User]] {
	p = p.Normalize()
	items, total, err := s.users.Search(ctx, nil, q, p.Offset(), p.Limit)
	if err != nil {
		return domain.FailFrom[domain.Page[domain.User]](err, domain.CodeGetUsers)
	}
	return domain.OK(domain.NewPage(items, total, p))
}

// OrphanRegions lists regions whose owner was deleted. User deletes do not
// cascade, so these accumulate until cleaned up.
func (s *AdminService) OrphanRegions(ctx context.Context, p domain.Pagination) domain.Result[domain.Page[domain.Region]] {
	p = p.Normalize()
	items, total, err := s.regions.FindOrphans(ctx, nil, p.Offset(), p.Limit)
	if err != nil {
		return domain.FailFrom[domain.Page[domain.Region]](err, domain.CodeGetRegions)
	}
	return domain.OK(domain.NewPage(items, total, p))
}
