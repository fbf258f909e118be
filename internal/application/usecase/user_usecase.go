package usecase

import (
	"fmt"
	"time"

	"github.com/LaibaHameed12/ecom-backend/internal/application/dto"
	"github.com/LaibaHameed12/ecom-backend/internal/domain"
	"github.com/LaibaHameed12/ecom-backend/internal/domain/entity"
	"github.com/LaibaHameed12/ecom-backend/internal/domain/repository"
	"github.com/LaibaHameed12/ecom-backend/pkg/logger"
)

// UserUseCase administración de cuentas: perfil, listado y operaciones
// reservadas al superadmin (roles, activación, borrado).
type UserUseCase struct {
	repo repository.UserRepository
	log  *logger.Logger
}

// NewUserUseCase crea el caso de uso de usuarios.
func NewUserUseCase(repo repository.UserRepository, log *logger.Logger) *UserUseCase {
	return &UserUseCase{repo: repo, log: log}
}

// GetByID devuelve el perfil de un usuario. El dueño siempre puede ver el
// suyo; cualquier otro perfil requiere privilegios administrativos.
func (uc *UserUseCase) GetByID(requesterID string, isAdmin bool, id string) (*dto.UserResponse, error) {
	if id != requesterID && !isAdmin {
		return nil, domain.ErrForbidden
	}
	user, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("obtener usuario: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return dto.ToUserResponse(user), nil
}

// List pagina todos los usuarios. Solo administración.
func (uc *UserUseCase) List(page dto.PageRequest) ([]*dto.UserResponse, error) {
	page.DefaultPage()
	users, err := uc.repo.List(page.Limit, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("listar usuarios: %w", err)
	}
	out := make([]*dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.ToUserResponse(u))
	}
	return out, nil
}

// UpdateRoles reemplaza el conjunto de roles de un usuario. Solo el
// superadmin llega aquí (lo asegura el middleware) y no puede modificar
// sus propios roles para no quedarse sin acceso.
func (uc *UserUseCase) UpdateRoles(requesterID, id string, req dto.UpdateRolesRequest) (*dto.UserResponse, error) {
	if len(req.Roles) == 0 {
		return nil, fmt.Errorf("%w: se requiere al menos un rol", domain.ErrInvalidInput)
	}
	for _, r := range req.Roles {
		if !entity.ValidRole(r) {
			return nil, fmt.Errorf("%w: rol desconocido %q", domain.ErrInvalidInput, r)
		}
	}
	if id == requesterID {
		return nil, fmt.Errorf("%w: no puedes modificar tus propios roles", domain.ErrForbidden)
	}

	user, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("obtener usuario: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	user.Roles = req.Roles
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(user); err != nil {
		return nil, fmt.Errorf("actualizar roles: %w", err)
	}

	uc.log.Info().
		Str("user_id", id).
		Strs("roles", req.Roles).
		Msg("Roles de usuario actualizados")

	return dto.ToUserResponse(user), nil
}

// UpdateStatus activa o desactiva una cuenta. Una cuenta superadmin no se
// puede desactivar; uno mismo tampoco puede desactivarse.
func (uc *UserUseCase) UpdateStatus(requesterID, id string, req dto.UpdateStatusRequest) (*dto.UserResponse, error) {
	if req.IsActive == nil {
		return nil, fmt.Errorf("%w: isActive es requerido", domain.ErrInvalidInput)
	}
	if id == requesterID {
		return nil, fmt.Errorf("%w: no puedes desactivar tu propia cuenta", domain.ErrForbidden)
	}

	user, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("obtener usuario: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if user.HasRole(entity.RoleSuperadmin) && !*req.IsActive {
		return nil, fmt.Errorf("%w: una cuenta superadmin no puede desactivarse", domain.ErrForbidden)
	}

	user.IsActive = *req.IsActive
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(user); err != nil {
		return nil, fmt.Errorf("actualizar estado: %w", err)
	}

	uc.log.Info().
		Str("user_id", id).
		Bool("is_active", user.IsActive).
		Msg("Estado de cuenta actualizado")

	return dto.ToUserResponse(user), nil
}

// Delete borra una cuenta. Las cuentas superadmin no se pueden borrar.
func (uc *UserUseCase) Delete(requesterID, id string) error {
	if id == requesterID {
		return fmt.Errorf("%w: no puedes borrar tu propia cuenta", domain.ErrForbidden)
	}
	user, err := uc.repo.GetByID(id)
	if err != nil {
		return fmt.Errorf("obtener usuario: %w", err)
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if user.HasRole(entity.RoleSuperadmin) {
		return fmt.Errorf("%w: una cuenta superadmin no puede borrarse", domain.ErrForbidden)
	}
	if err := uc.repo.Delete(id); err != nil {
		return fmt.Errorf("borrar usuario: %w", err)
	}
	uc.log.Info().Str("user_id", id).Msg("Usuario eliminado")
	return nil
}
