package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fgodoybr/frotacontrol/internal/client/services"
	"github.com/fgodoybr/frotacontrol/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for a username and password and tries to authenticate. The
// last successfully used name is offered as a default, so drivers on a
// shared terminal only retype their password.
//
// The password is wiped before returning. A failed login prints the single
// generic message; cause detail never reaches the terminal.
func (a *App) Login(ctx context.Context) error {
	remembered := a.rememberedUser(ctx)

	prompt := "Usuário"
	if remembered != "" {
		prompt = fmt.Sprintf("Usuário [%s]", remembered)
	}

	userName, err := getSimpleText(a.reader, prompt, os.Stdout)
	if err != nil {
		return err
	}
	if userName == "" {
		userName = remembered
	}

	password, err := getPassword(os.Stdout, "Senha")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if !a.session.Login(ctx, userName, string(password)) {
		printlnFn(services.MsgInvalidLogin)
		return nil
	}

	sess := a.session.Session()
	printlnFn(fmt.Sprintf("Bem-vindo, %s!", sess.User.Name))

	a.rememberUser(ctx, userName)
	return nil
}

// Logout drops the current session. Safe to call when not logged in.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	printlnFn("Sessão encerrada.")
	return nil
}

// Whoami prints the authenticated user, role and session expiry.
func (a *App) Whoami(ctx context.Context) error {
	sess := a.session.Session()
	if sess.User == nil {
		printlnFn("Não autenticado.")
		return nil
	}
	printlnFn(fmt.Sprintf("%s (%s), sessão válida até %s",
		sess.User.Name, sess.User.Role, sess.ExpiresAt.Local().Format("15:04")))
	return nil
}

// Forget discards the remembered username.
func (a *App) Forget(ctx context.Context) error {
	if err := a.state.Delete(ctx, common.RememberedUserStateKey); err != nil {
		a.logger.Error(ctx, "failed to clear remembered user", "error", err)
		return err
	}
	printlnFn("Usuário lembrado removido.")
	return nil
}

func (a *App) rememberedUser(ctx context.Context) string {
	raw, err := a.state.Get(ctx, common.RememberedUserStateKey)
	if err != nil {
		a.logger.Warn(ctx, "failed to read remembered user", "error", err)
		return ""
	}
	return string(raw)
}

func (a *App) rememberUser(ctx context.Context, name string) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return
	}
	if err := a.state.Set(ctx, common.RememberedUserStateKey, []byte(name)); err != nil {
		a.logger.Warn(ctx, "failed to remember user", "error", err)
	}
}
