// Package auth implementa login y registro inicial (empresa + primer usuario).
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/stocklane-api/internal/application/dto"
	"github.com/jhoicas/stocklane-api/internal/domain"
	"github.com/jhoicas/stocklane-api/internal/domain/entity"
	"github.com/jhoicas/stocklane-api/internal/domain/policy"
	"github.com/jhoicas/stocklane-api/internal/domain/repository"
	"github.com/jhoicas/stocklane-api/pkg/jwt"
	"github.com/jhoicas/stocklane-api/pkg/logger"
)

// Cupo inicial de usuarios de una empresa del plan free.
const defaultMaxUsers = 5

// UseCase casos de uso de autenticación.
type UseCase struct {
	profiles   repository.ProfileRepository
	companies  repository.CompanyRepository
	log        *logger.Logger
	jwtSecret  string
	jwtIssuer  string
	expMinutes int
}

// NewUseCase construye el caso de uso.
func NewUseCase(profiles repository.ProfileRepository, companies repository.CompanyRepository, log *logger.Logger, jwtSecret, jwtIssuer string, expMinutes int) *UseCase {
	return &UseCase{
		profiles: profiles, companies: companies, log: log,
		jwtSecret: jwtSecret, jwtIssuer: jwtIssuer, expMinutes: expMinutes,
	}
}

// Login valida credenciales y emite un JWT con los claims del principal.
// Credenciales inválidas y usuario inexistente responden el mismo error para
// no revelar qué emails están registrados.
func (uc *UseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	profile, err := uc.profiles.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if profile == nil || !profile.IsActive {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	token, err := uc.issueToken(profile)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", profile.ID).Str("role", profile.Role).Msg("login exitoso")
	return &dto.LoginResponse{Token: token, Profile: toProfileResponse(profile)}, nil
}

// Register crea una empresa nueva con su primer usuario como company_owner y
// lo deja autenticado. Es el único camino de alta que no pasa por invitación.
func (uc *UseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.LoginResponse, error) {
	if existing, err := uc.profiles.GetByEmail(ctx, in.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	company := &entity.Company{
		ID:               uuid.New().String(),
		Name:             in.CompanyName,
		Industry:         in.Industry,
		Email:            in.Email,
		SubscriptionPlan: entity.PlanFree,
		MaxUsers:         defaultMaxUsers,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.companies.Create(ctx, company); err != nil {
		return nil, err
	}

	profile := &entity.Profile{
		ID:           uuid.New().String(),
		Email:        in.Email,
		FullName:     in.FullName,
		PasswordHash: string(hash),
		Role:         string(policy.RoleCompanyOwner),
		CompanyID:    &company.ID,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.profiles.Create(ctx, profile); err != nil {
		return nil, err
	}

	token, err := uc.issueToken(profile)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("company_id", company.ID).Str("user_id", profile.ID).Msg("empresa registrada")
	return &dto.LoginResponse{Token: token, Profile: toProfileResponse(profile)}, nil
}

func (uc *UseCase) issueToken(p *entity.Profile) (string, error) {
	in := jwt.TokenInput{UserID: p.ID, Role: p.Role}
	if p.CompanyID != nil {
		in.CompanyID = *p.CompanyID
	}
	if p.DepartmentID != nil {
		in.DepartmentID = *p.DepartmentID
	}
	return jwt.Generate(uc.jwtSecret, in, uc.jwtIssuer, uc.expMinutes)
}

func toProfileResponse(p *entity.Profile) dto.ProfileResponse {
	return dto.ProfileResponse{
		ID:           p.ID,
		Email:        p.Email,
		FullName:     p.FullName,
		Role:         p.Role,
		CompanyID:    p.CompanyID,
		DepartmentID: p.DepartmentID,
		IsActive:     p.IsActive,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
