package localpool

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

var filterable = map[string]bool{
	"email":    true,
	"sub":      true,
	"username": true,
}

// ListUsers supports exact-match filters (`attr = "value"`) on email, sub and
// username. An empty filter lists everyone.
func (p *Pool) ListUsers(ctx context.Context, in *cip.ListUsersInput, _ ...func(*cip.Options)) (*cip.ListUsersOutput, error) {
	if aws.ToString(in.UserPoolId) != p.cfg.UserPoolID {
		return nil, &types.ResourceNotFoundException{
			Message: aws.String(fmt.Sprintf("User pool %s does not exist.", aws.ToString(in.UserPoolId))),
		}
	}

	attr, value, err := parseFilter(aws.ToString(in.Filter))
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	matches := make([]*user, 0, 1)
	for _, u := range p.users {
		if attr == "" || matchAttr(u, attr, value) {
			matches = append(matches, u)
		}
	}
	slices.SortFunc(matches, func(a, b *user) int { return a.createdAt.Compare(b.createdAt) })

	if limit := int(aws.ToInt32(in.Limit)); limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	out := &cip.ListUsersOutput{Users: make([]types.UserType, 0, len(matches))}
	for _, u := range matches {
		out.Users = append(out.Users, types.UserType{
			Username:             aws.String(u.username),
			Attributes:           u.attributes(),
			Enabled:              u.enabled,
			UserStatus:           u.status,
			UserCreateDate:       aws.Time(u.createdAt),
			UserLastModifiedDate: aws.Time(u.updatedAt),
		})
	}
	return out, nil
}

func matchAttr(u *user, attr, value string) bool {
	switch attr {
	case "username":
		return u.username == value
	case "email":
		return strings.EqualFold(u.email, value)
	default:
		return u.attrs[attr] == value
	}
}

// parseFilter reads `name = "value"` with backslash escapes in value.
func parseFilter(f string) (string, string, error) {
	f = strings.TrimSpace(f)
	if f == "" {
		return "", "", nil
	}

	invalid := &types.InvalidParameterException{Message: aws.String("Invalid search filter: " + f)}

	name, rest, ok := strings.Cut(f, "=")
	if !ok {
		return "", "", invalid
	}
	name = strings.TrimSpace(name)
	rest = strings.TrimSpace(rest)
	if !filterable[name] || len(rest) < 2 || rest[0] != '"' || rest[len(rest)-1] != '"' {
		return "", "", invalid
	}

	var b strings.Builder
	quoted := rest[1 : len(rest)-1]
	for i := 0; i < len(quoted); i++ {
		c := quoted[i]
		if c == '\\' && i+1 < len(quoted) {
			i++
			c = quoted[i]
		} else if c == '"' {
			return "", "", invalid
		}
		b.WriteByte(c)
	}
	return name, b.String(), nil
}
