package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/catalystcloud/separate-billing-go/internal/adapter/driven/httpclient"
	"github.com/catalystcloud/separate-billing-go/internal/domain/entity"
	"github.com/catalystcloud/separate-billing-go/internal/domain/repository"
	"github.com/catalystcloud/separate-billing-go/internal/shared/types"
)

const defaultDomain = "Default"

// KeystoneRepositoryImpl implementa o IdentityRepository sobre a API v3 do Keystone.
type KeystoneRepositoryImpl struct {
	client *resty.Client
}

// NewKeystoneRepository cria uma nova implementação do IdentityRepository.
func NewKeystoneRepository(client *resty.Client) repository.IdentityRepository {
	return &KeystoneRepositoryImpl{client: client}
}

type authRequest struct {
	Auth authBody `json:"auth"`
}

type authBody struct {
	Identity identity `json:"identity"`
	Scope    *scope   `json:"scope,omitempty"`
}

type identity struct {
	Methods  []string         `json:"methods"`
	Password passwordIdentity `json:"password"`
}

type passwordIdentity struct {
	User user `json:"user"`
}

type user struct {
	Name     string `json:"name"`
	Password string `json:"password"`
	Domain   domain `json:"domain"`
}

type domain struct {
	Name string `json:"name"`
}

type scope struct {
	Project project `json:"project"`
}

type project struct {
	Name   string `json:"name"`
	Domain domain `json:"domain"`
}

type tokenResponse struct {
	Token struct {
		ExpiresAt string `json:"expires_at"`
		Project   struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"project"`
		User struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"user"`
	} `json:"token"`
}

// Authenticate obtains a project scoped token with the password method.
func (r *KeystoneRepositoryImpl) Authenticate(ctx context.Context, args types.AuthArgs) (entity.Session, error) {
	if args.AuthURL == "" {
		return entity.Session{}, types.ErrMissingAuthURL
	}
	if args.Username == "" || args.Password == "" {
		return entity.Session{}, errors.New("username and password are required for authentication")
	}

	body := authRequest{Auth: authBody{
		Identity: identity{
			Methods: []string{"password"},
			Password: passwordIdentity{User: user{
				Name:     args.Username,
				Password: args.Password,
				Domain:   domain{Name: orDefault(args.UserDomainName)},
			}},
		},
	}}
	if args.TenantName != "" {
		body.Auth.Scope = &scope{Project: project{
			Name:   args.TenantName,
			Domain: domain{Name: orDefault(args.ProjectDomainName)},
		}}
	}

	url := TokensURL(args.AuthURL)
	zerolog.Ctx(ctx).Debug().Str("url", url).Str("user", args.Username).Msg("requesting token")

	var out tokenResponse
	resp, err := r.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&out).
		Post(url)
	if err != nil {
		return entity.Session{}, fmt.Errorf("error contacting identity service: %w", err)
	}
	if resp.IsError() {
		return entity.Session{}, httpclient.NewAPIError("identity", resp)
	}

	token := resp.Header().Get("X-Subject-Token")
	if token == "" {
		return entity.Session{}, errors.New("identity service returned no X-Subject-Token header")
	}

	session := entity.Session{
		Token:     token,
		ProjectID: out.Token.Project.ID,
		UserID:    out.Token.User.ID,
	}
	if out.Token.ExpiresAt != "" {
		if expires, err := time.Parse(time.RFC3339Nano, out.Token.ExpiresAt); err == nil {
			session.ExpiresAt = expires
		}
	}

	return session, nil
}

// TokensURL normalises an OS_AUTH_URL to the v3 token endpoint. rc files
// still carry v2.0 URLs or the bare service root.
func TokensURL(authURL string) string {
	base := strings.TrimRight(authURL, "/")
	switch {
	case strings.HasSuffix(base, "/v3/auth/tokens"):
		return base
	case strings.HasSuffix(base, "/v3"):
		return base + "/auth/tokens"
	case strings.HasSuffix(base, "/v2.0"):
		return strings.TrimSuffix(base, "/v2.0") + "/v3/auth/tokens"
	default:
		return base + "/v3/auth/tokens"
	}
}

func orDefault(name string) string {
	if name == "" {
		return defaultDomain
	}
	return name
}
