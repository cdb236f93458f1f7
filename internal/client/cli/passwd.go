package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fgodoybr/frotacontrol/internal/common"
	"github.com/fgodoybr/frotacontrol/internal/identity"
)

// Passwd is the self-service flow: the logged-in user proves the current
// password and picks a new one.
func (a *App) Passwd(ctx context.Context) error {
	sess := a.session.Session()
	if sess.User == nil {
		printlnFn("Faça login primeiro.")
		return nil
	}

	oldPassword, err := getPassword(os.Stdout, "Senha atual")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(oldPassword)

	newPassword, err := getPassword(os.Stdout, "Nova senha")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(newPassword)

	res := a.session.ChangePassword(ctx, sess.User.UserID, sess.User.Role,
		string(newPassword), string(oldPassword))
	printlnFn(res.Message)
	return nil
}

// Reset is the administrative flow: an admin sets a new password for any
// identity without knowing the old one. Works for legacy accounts too.
func (a *App) Reset(ctx context.Context, args []string) error {
	if len(args) != 2 {
		printlnFn("Uso: reset <admin|driver> <id>")
		return nil
	}
	role, ok := parseRole(args[0])
	if !ok {
		printlnFn("Uso: reset <admin|driver> <id>")
		return nil
	}

	newPassword, err := getPassword(os.Stdout, "Nova senha")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(newPassword)

	res := a.session.ChangePassword(ctx, args[1], role, string(newPassword), "")
	printlnFn(res.Message)
	return nil
}

// AddUser provisions a new identity in the given collection. Admin only.
func (a *App) AddUser(ctx context.Context, args []string) error {
	if len(args) != 1 {
		printlnFn("Uso: adduser <admin|driver>")
		return nil
	}
	role, ok := parseRole(args[0])
	if !ok {
		printlnFn("Uso: adduser <admin|driver>")
		return nil
	}
	if a.session.Role() != identity.RoleAdmin {
		printlnFn("Apenas administradores podem criar usuários.")
		return nil
	}

	name, err := getSimpleText(a.reader, "Nome", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout, "Senha")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	rec, err := identity.Provision(ctx, a.gw, role.Collection(), name, string(password))
	if err != nil {
		a.logger.Error(ctx, "failed to provision identity", "error", err)
		printlnFn("Não foi possível criar o usuário.")
		return nil
	}

	printlnFn(fmt.Sprintf("Usuário %s criado (id %s).", rec.Name, rec.ID))
	return nil
}

func parseRole(s string) (identity.Role, bool) {
	switch s {
	case string(identity.RoleAdmin):
		return identity.RoleAdmin, true
	case string(identity.RoleDriver):
		return identity.RoleDriver, true
	}
	return "", false
}
