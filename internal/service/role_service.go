package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eduside/lms-api/internal/authz"
	"github.com/eduside/lms-api/internal/models"
	appErrors "github.com/eduside/lms-api/pkg/errors"
)

type roleRepository interface {
	ListForDomain(ctx context.Context, domain models.RoleDomain) ([]models.Role, error)
	Insert(ctx context.Context, userID uuid.UUID, role models.UserRole, domain models.RoleDomain) error
	Delete(ctx context.Context, userID uuid.UUID, role models.UserRole, domain models.RoleDomain) error
}

type roleUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// RoleService manages role assignments within a domain. Granting or
// revoking a role requires edit-role rights for that specific role on
// the domain, so an assistant can manage assistants and reviewers but
// never mint a teacher.
type RoleService struct {
	roles     roleRepository
	users     roleUserRepository
	authz     authorizer
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRoleService constructs a RoleService.
func NewRoleService(roles roleRepository, users roleUserRepository, authorizer authorizer, validate *validator.Validate, logger *zap.Logger) *RoleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoleService{roles: roles, users: users, authz: authorizer, validator: validate, logger: logger}
}

// List returns the assignments scoped to a domain. Listing is gated on
// being able to edit at least assistant roles there.
func (s *RoleService) List(ctx context.Context, userID *uuid.UUID, domain models.RoleDomain) (authz.Token, []models.Role, error) {
	resource, err := domainResource(domain)
	if err != nil {
		return authz.Token{}, nil, err
	}
	token, err := s.authz.Authorize(ctx, authz.ActionEditRole(models.RoleAssistant), userID, resource)
	if err != nil {
		return authz.Token{}, nil, err
	}
	roles, err := s.roles.ListForDomain(ctx, domain)
	if err != nil {
		return authz.Token{}, nil, err
	}
	return token, roles, nil
}

// Set grants a role to the user with the given email within the domain.
func (s *RoleService) Set(ctx context.Context, userID *uuid.UUID, req models.ModifyRoleRequest) (authz.Token, error) {
	token, target, err := s.authorizeModify(ctx, userID, req)
	if err != nil {
		return authz.Token{}, err
	}
	if err := s.roles.Insert(ctx, target.ID, req.Role, req.Domain); err != nil {
		return authz.Token{}, err
	}
	s.logger.Info("role granted",
		zap.String("user_id", target.ID.String()),
		zap.String("role", string(req.Role)),
		zap.String("domain", string(req.Domain.Kind)),
	)
	return token, nil
}

// Unset revokes a role from the user with the given email within the domain.
func (s *RoleService) Unset(ctx context.Context, userID *uuid.UUID, req models.ModifyRoleRequest) (authz.Token, error) {
	token, target, err := s.authorizeModify(ctx, userID, req)
	if err != nil {
		return authz.Token{}, err
	}
	if err := s.roles.Delete(ctx, target.ID, req.Role, req.Domain); err != nil {
		return authz.Token{}, err
	}
	s.logger.Info("role revoked",
		zap.String("user_id", target.ID.String()),
		zap.String("role", string(req.Role)),
		zap.String("domain", string(req.Domain.Kind)),
	)
	return token, nil
}

func (s *RoleService) authorizeModify(ctx context.Context, userID *uuid.UUID, req models.ModifyRoleRequest) (authz.Token, *models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return authz.Token{}, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid role payload")
	}
	if !req.Role.Valid() {
		return authz.Token{}, nil, appErrors.Clone(appErrors.ErrValidation, "unknown role")
	}
	resource, err := domainResource(req.Domain)
	if err != nil {
		return authz.Token{}, nil, err
	}
	token, err := s.authz.Authorize(ctx, authz.ActionEditRole(req.Role), userID, resource)
	if err != nil {
		return authz.Token{}, nil, err
	}
	target, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return authz.Token{}, nil, err
	}
	return token, target, nil
}

// domainResource maps a role domain to the resource its edit checks run
// against. Global assignments are checked against global permissions,
// which only admins pass.
func domainResource(domain models.RoleDomain) (authz.Resource, error) {
	if domain.Kind != models.DomainGlobal && domain.ID == nil {
		return authz.Resource{}, appErrors.Clone(appErrors.ErrValidation, "role domain requires an id")
	}
	switch domain.Kind {
	case models.DomainGlobal:
		return authz.ResourceGlobalPermissions(), nil
	case models.DomainOrganization:
		return authz.ResourceOrganization(*domain.ID), nil
	case models.DomainCourse:
		return authz.ResourceCourse(*domain.ID), nil
	case models.DomainCourseInstance:
		return authz.ResourceCourseInstance(*domain.ID), nil
	case models.DomainExam:
		return authz.ResourceExam(*domain.ID), nil
	default:
		return authz.Resource{}, appErrors.Clone(appErrors.ErrValidation, "unknown role domain")
	}
}
