package services

import (
	"context"
	"errors"
	"strings"

	"github.com/fgodoybr/frotacontrol/internal/common"
	"github.com/fgodoybr/frotacontrol/internal/cryptox"
	"github.com/fgodoybr/frotacontrol/internal/identity"
)

// User-facing messages, pt-BR as shipped to operators. Login failures share
// the single MsgInvalidLogin regardless of cause; password changes serve an
// authenticated actor and are specific.
const (
	MsgInvalidLogin = "Login ou senha inválidos."

	msgEmptyNewPassword = "A nova senha não pode ser vazia."
	msgUserNotFound     = "Usuário não encontrado."
	msgLegacyAccount    = "Conta de usuário antiga. Contate um administrador para resetar sua senha."
	msgWrongOldPassword = "Senha atual incorreta."
	msgAdminsOnly       = "Apenas administradores podem resetar senhas."
	msgPasswordChanged  = "Senha alterada com sucesso!"
	msgChangeFailed     = "Ocorreu um erro ao alterar a senha."
)

// ChangeResult is the outcome of a password change: a success flag and a
// human-readable message for the caller's UI.
type ChangeResult struct {
	Success bool
	Message string
}

// ChangePassword rotates the credentials of the identity (userID, role).
//
// With oldPassword set it is the self-service flow: the identity must hold
// salt+hash (legacy accounts are refused) and oldPassword must verify. With
// oldPassword empty it is the administrative reset: the acting session must
// be admin-role; any admin may reset any identity.
//
// Unexpected store errors surface as a generic failure message; detail is
// logged only.
func (s *SessionService) ChangePassword(ctx context.Context, userID string, role identity.Role, newPassword, oldPassword string) ChangeResult {
	if strings.TrimSpace(newPassword) == "" {
		return ChangeResult{Success: false, Message: msgEmptyNewPassword}
	}
	newPwd := strings.TrimSpace(newPassword)

	collection := role.Collection()

	rec, err := s.gw.GetByID(ctx, collection, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return ChangeResult{Success: false, Message: msgUserNotFound}
		}
		s.logger.Error(ctx, "credential store error during password change", "error", err)
		return ChangeResult{Success: false, Message: msgChangeFailed}
	}

	if oldPassword != "" {
		if !rec.HasCredentials() {
			return ChangeResult{Success: false, Message: msgLegacyAccount}
		}
		ok, err := cryptox.Verify(oldPassword, rec.Salt, rec.PasswordHash)
		if err != nil {
			s.logger.Error(ctx, "password verification unavailable", "error", err)
			return ChangeResult{Success: false, Message: msgChangeFailed}
		}
		if !ok {
			return ChangeResult{Success: false, Message: msgWrongOldPassword}
		}
	} else if s.Role() != identity.RoleAdmin {
		return ChangeResult{Success: false, Message: msgAdminsOnly}
	}

	salt, err := cryptox.GenerateSalt()
	if err != nil {
		s.logger.Error(ctx, "salt generation failed", "error", err)
		return ChangeResult{Success: false, Message: msgChangeFailed}
	}
	hash, err := cryptox.Hash(newPwd, salt)
	if err != nil {
		s.logger.Error(ctx, "hash derivation failed", "error", err)
		return ChangeResult{Success: false, Message: msgChangeFailed}
	}

	if err := s.gw.UpdateCredentials(ctx, collection, userID, salt, hash); err != nil {
		s.logger.Error(ctx, "failed to persist new credentials", "error", err)
		return ChangeResult{Success: false, Message: msgChangeFailed}
	}

	s.logger.Info(ctx, "password changed", "userId", userID, "role", role)
	return ChangeResult{Success: true, Message: msgPasswordChanged}
}
