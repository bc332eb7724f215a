// Package invite implementa el ciclo de vida de las invitaciones:
// emisión (con gate de política y correo) y aceptación exactly-once atómica
// con la creación del perfil.
package invite

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/stocklane-api/internal/application/dto"
	"github.com/jhoicas/stocklane-api/internal/domain"
	"github.com/jhoicas/stocklane-api/internal/domain/entity"
	"github.com/jhoicas/stocklane-api/internal/domain/policy"
	"github.com/jhoicas/stocklane-api/internal/domain/repository"
	"github.com/jhoicas/stocklane-api/internal/infrastructure/email"
	"github.com/jhoicas/stocklane-api/internal/infrastructure/metrics"
	"github.com/jhoicas/stocklane-api/pkg/logger"
)

// TTL de una invitación desde su emisión.
const inviteTTL = 7 * 24 * time.Hour

// TxRunner ejecuta un callback con repos de invitaciones y perfiles atados a
// una única transacción (aceptar + crear perfil, todo-o-nada).
type TxRunner interface {
	RunInvites(ctx context.Context, fn func(
		inviteRepo repository.InviteRepository,
		profileRepo repository.ProfileRepository,
	) error) error
}

// UseCase casos de uso de invitaciones.
type UseCase struct {
	tx          TxRunner
	invites     repository.InviteRepository
	profiles    repository.ProfileRepository
	companies   repository.CompanyRepository
	departments repository.DepartmentRepository
	sender      email.Sender
	log         *logger.Logger
	inviteURL   string // base del enlace de aceptación en el correo
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	tx TxRunner,
	invites repository.InviteRepository,
	profiles repository.ProfileRepository,
	companies repository.CompanyRepository,
	departments repository.DepartmentRepository,
	sender email.Sender,
	log *logger.Logger,
	inviteURL string,
) *UseCase {
	return &UseCase{
		tx: tx, invites: invites, profiles: profiles, companies: companies,
		departments: departments, sender: sender, log: log, inviteURL: inviteURL,
	}
}

// Create emite una invitación. El rol invitable lo restringe policy.CanInvite;
// la empresa destino es la del emisor salvo para super_admin, que puede
// indicarla, y un department_manager solo invita hacia su propio departamento.
// Valida cupo de usuarios (max_users) y que el departamento pertenezca a la
// misma empresa.
func (uc *UseCase) Create(ctx context.Context, p policy.Principal, in dto.CreateInviteRequest) (*dto.InviteResponse, error) {
	role, err := policy.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}
	if !policy.CanInvite(p, role) {
		metrics.PolicyDenials.WithLabelValues(string(policy.EntityInvite), string(policy.ActionCreate)).Inc()
		return nil, domain.ErrForbidden
	}
	// Un department_manager solo invita hacia su propio departamento; un
	// departamento hermano de la misma empresa también se niega.
	if p.Role == policy.RoleDepartmentManager {
		if in.DepartmentID == nil || *in.DepartmentID != p.DepartmentID {
			metrics.PolicyDenials.WithLabelValues(string(policy.EntityInvite), string(policy.ActionCreate)).Inc()
			return nil, domain.ErrForbidden
		}
	}

	companyID := p.CompanyID
	if p.Role == policy.RoleSuperAdmin && in.CompanyID != nil {
		companyID = *in.CompanyID
	}
	if companyID == "" && role != policy.RoleSuperAdmin {
		return nil, domain.ErrInvalidInput
	}

	if err := policy.Authorize(p, policy.ActionCreate, policy.Ref{
		Entity:    policy.EntityInvite,
		CompanyID: companyID,
	}); err != nil {
		metrics.PolicyDenials.WithLabelValues(string(policy.EntityInvite), string(policy.ActionCreate)).Inc()
		return nil, err
	}

	if existing, err := uc.profiles.GetByEmail(ctx, in.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	if companyID != "" {
		company, err := uc.companies.GetByID(ctx, companyID)
		if err != nil {
			return nil, err
		}
		if company == nil {
			return nil, domain.ErrNotFound
		}
		count, err := uc.profiles.CountByCompany(ctx, companyID)
		if err != nil {
			return nil, err
		}
		if count >= company.MaxUsers {
			return nil, domain.ErrConflict
		}
	}

	// Un departamento de otra empresa se rechaza en la escritura, no después.
	if in.DepartmentID != nil {
		dept, err := uc.departments.GetByID(ctx, *in.DepartmentID)
		if err != nil {
			return nil, err
		}
		if dept == nil || dept.CompanyID != companyID {
			return nil, domain.ErrInvalidInput
		}
	}

	token, err := newToken()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	inv := &entity.Invite{
		ID:           uuid.New().String(),
		Email:        in.Email,
		Role:         string(role),
		DepartmentID: in.DepartmentID,
		Token:        token,
		Status:       entity.InviteStatusPending,
		InvitedBy:    p.UserID,
		ExpiresAt:    now.Add(inviteTTL),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if companyID != "" {
		inv.CompanyID = &companyID
	}
	if err := uc.invites.Create(ctx, inv); err != nil {
		return nil, err
	}

	// El correo no participa en la transacción: si falla, la invitación sigue
	// siendo válida y reenviable desde el listado.
	if err := uc.sender.Send(ctx, inv.Email, "Invitación a StockLane", uc.inviteBody(inv)); err != nil {
		uc.log.Warn().Err(err).Str("invite_id", inv.ID).Msg("no se pudo enviar el correo de invitación")
	}

	resp := toInviteResponse(inv)
	resp.Token = inv.Token
	return &resp, nil
}

// Accept consume una invitación y crea el perfil en la misma transacción.
// La transición pending→accepted es un UPDATE condicional: bajo aceptaciones
// concurrentes exactamente una gana; la otra recibe ErrInviteUsed.
func (uc *UseCase) Accept(ctx context.Context, in dto.AcceptInviteRequest) (*dto.ProfileResponse, error) {
	inv, err := uc.invites.GetByToken(ctx, in.Token)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.Status != entity.InviteStatusPending {
		return nil, domain.ErrInviteUsed
	}
	if inv.Expired(time.Now()) {
		return nil, domain.ErrInviteExpired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	profile := &entity.Profile{
		ID:           uuid.New().String(),
		Email:        inv.Email,
		FullName:     in.FullName,
		PasswordHash: string(hash),
		Role:         inv.Role,
		CompanyID:    inv.CompanyID,
		DepartmentID: inv.DepartmentID,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = uc.tx.RunInvites(ctx, func(inviteRepo repository.InviteRepository, profileRepo repository.ProfileRepository) error {
		won, err := inviteRepo.Accept(ctx, in.Token)
		if err != nil {
			return err
		}
		if !won {
			return domain.ErrInviteUsed
		}
		return profileRepo.Create(ctx, profile)
	})
	if err != nil {
		return nil, err
	}

	metrics.InvitesAccepted.Inc()
	uc.log.Info().Str("profile_id", profile.ID).Str("role", profile.Role).Msg("invitación aceptada")

	resp := toProfileResponse(profile)
	return &resp, nil
}

// List lista las invitaciones de la empresa del principal.
func (uc *UseCase) List(ctx context.Context, p policy.Principal, page dto.PageRequest) (*dto.InviteListResponse, error) {
	page.DefaultPage()
	scope := policy.Scope(p)
	if scope.All {
		return nil, domain.ErrInvalidInput
	}
	if err := policy.Authorize(p, policy.ActionRead, policy.Ref{
		Entity:    policy.EntityInvite,
		CompanyID: scope.CompanyID,
	}); err != nil {
		return nil, err
	}
	list, err := uc.invites.ListByCompany(ctx, scope.CompanyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InviteResponse, 0, len(list))
	for _, inv := range list {
		items = append(items, toInviteResponse(inv))
	}
	return &dto.InviteListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func (uc *UseCase) inviteBody(inv *entity.Invite) string {
	link := fmt.Sprintf("%s?token=%s", uc.inviteURL, inv.Token)
	return fmt.Sprintf(
		`<p>Te invitaron a unirte a StockLane con el rol <b>%s</b>.</p>
<p><a href="%s">Aceptar invitación</a></p>
<p>El enlace vence el %s.</p>`,
		inv.Role, link, inv.ExpiresAt.Format("02/01/2006"),
	)
}

// newToken genera un token opaco de 32 bytes de entropía (hex).
func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generar token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func toInviteResponse(inv *entity.Invite) dto.InviteResponse {
	return dto.InviteResponse{
		ID:           inv.ID,
		Email:        inv.Email,
		Role:         inv.Role,
		CompanyID:    inv.CompanyID,
		DepartmentID: inv.DepartmentID,
		Status:       inv.Status,
		InvitedBy:    inv.InvitedBy,
		ExpiresAt:    inv.ExpiresAt,
		CreatedAt:    inv.CreatedAt,
	}
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
