package admin

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/wichananm65/catalog-admin-backend/internal/apperr"
	"github.com/wichananm65/catalog-admin-backend/internal/validation"
)

const (
	claimAdminID = "admin_id"
	claimBranch  = "branch"
)

type Service struct {
	repo   Repository
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewService(repo Repository, secret string, ttl time.Duration) *Service {
	return &Service{repo: repo, secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *Service) List(ctx context.Context) ([]Admin, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (Admin, error) {
	return s.repo.GetByID(ctx, id)
}

// Create stores a new active admin with a bcrypt-hashed password.
func (s *Service) Create(ctx context.Context, in NewAdmin) (Admin, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	in.Branch = strings.TrimSpace(in.Branch)
	if err := validation.Struct(in); err != nil {
		return Admin{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return Admin{}, err
	}

	now := s.now().UTC()
	return s.repo.Create(ctx, Admin{
		ID:        uuid.New(),
		Name:      in.Name,
		Email:     in.Email,
		Password:  string(hashed),
		Branch:    in.Branch,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// Authenticate checks the password first so a disabled account is only
// revealed to someone who knows its password.
func (s *Service) Authenticate(ctx context.Context, email, password string) (Admin, error) {
	a, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if apperr.IsNotFound(err) {
			return Admin{}, ErrInvalidCredentials
		}
		return Admin{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(a.Password), []byte(password)) != nil {
		return Admin{}, ErrInvalidCredentials
	}
	if !a.IsActive {
		return Admin{}, ErrDisabled
	}
	return a, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	a, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return LoginResult{}, err
	}
	token, err := s.IssueToken(a)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{ID: a.ID, Name: a.Name, Email: a.Email, Branch: a.Branch, Token: token}, nil
}

// IssueToken signs an HS256 token carrying the admin id and branch.
func (s *Service) IssueToken(a Admin) (string, error) {
	claims := jwt.MapClaims{
		claimAdminID: a.ID.String(),
		claimBranch:  a.Branch,
		"exp":        s.now().Add(s.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// FromToken resolves the admin named by a verified token.
func (s *Service) FromToken(ctx context.Context, token *jwt.Token) (Admin, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Admin{}, ErrInvalidClaims
	}
	raw, _ := claims[claimAdminID].(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return Admin{}, ErrInvalidClaims
	}
	return s.repo.GetByID(ctx, id)
}
