package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/fgodoybr/frotacontrol/internal/cryptox"
)

// Provision creates a new identity with a fresh salt and derived hash and
// stores it through the gateway. The display name is trimmed and
// upper-cased, matching the normalized form login uses for lookup.
func Provision(ctx context.Context, gw Gateway, collection Collection, displayName, password string) (*Record, error) {
	name := strings.ToUpper(strings.TrimSpace(displayName))
	if name == "" {
		return nil, fmt.Errorf("display name must not be empty")
	}
	if strings.TrimSpace(password) == "" {
		return nil, fmt.Errorf("password must not be empty")
	}

	salt, err := cryptox.GenerateSalt()
	if err != nil {
		return nil, err
	}
	hash, err := cryptox.Hash(strings.TrimSpace(password), salt)
	if err != nil {
		return nil, err
	}

	rec := &Record{
		ID:           uuid.NewString(),
		Name:         name,
		Role:         collection.Role(),
		Salt:         salt,
		PasswordHash: hash,
	}
	return gw.Create(ctx, collection, rec)
}
