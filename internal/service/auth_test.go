package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"cafe_ordering/internal/domain"
	"cafe_ordering/internal/testutil"
	"cafe_ordering/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuth(t *testing.T) *Auth {
	t.Helper()
	return NewAuth(testutil.DB(t), "test-secret", 7*24*time.Hour, 10)
}

func TestAuth_RegisterThenLogin(t *testing.T) {
	ctx := context.Background()
	svc := newAuth(t)

	reg, err := svc.Register(ctx, RegisterInput{
		Email: "a@x.com", FirstName: "A", LastName: "B", Phone: "+1", Password: "pw123",
	})
	require.NoError(t, err)
	assert.NotZero(t, reg.User.ID)
	assert.Equal(t, "a@x.com", reg.User.Email)
	assert.Equal(t, domain.RoleCustomer, reg.User.Role)
	assert.Equal(t, domain.AuthProviderPassword, reg.User.AuthProvider)

	cost, err := bcrypt.Cost([]byte(reg.User.Password))
	require.NoError(t, err)
	assert.Equal(t, 10, cost)

	body, err := json.Marshal(reg.User)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "\"password\":")
	assert.NotContains(t, string(body), reg.User.Password)

	claims, err := svc.VerifyToken(reg.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, domain.RoleCustomer, claims.Role)

	login, err := svc.Login(ctx, "a@x.com", "pw123")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)
	claims, err = svc.VerifyToken(login.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, claims.UserID)

	_, err = svc.Login(ctx, "a@x.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuth_RegisterDuplicate(t *testing.T) {
	ctx := context.Background()
	svc := newAuth(t)
	in := RegisterInput{Email: "dup@x.com", FirstName: "A", LastName: "B", Password: "pw"}

	_, err := svc.Register(ctx, in)
	require.NoError(t, err)

	in.Email = "  DUP@x.com "
	_, err = svc.Register(ctx, in)
	require.ErrorIs(t, err, ErrDuplicateUser)

	var svcErr *Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, KindConflict, svcErr.Kind)
}

func TestAuth_RegisterValidation(t *testing.T) {
	svc := newAuth(t)
	valid := RegisterInput{Email: "v@x.com", FirstName: "A", LastName: "B", Password: "pw"}

	tests := []struct {
		name  string
		edit  func(in *RegisterInput)
		field string
	}{
		{"missing email", func(in *RegisterInput) { in.Email = "" }, "email"},
		{"malformed email", func(in *RegisterInput) { in.Email = "not-an-email" }, "email"},
		{"missing first name", func(in *RegisterInput) { in.FirstName = " " }, "firstName"},
		{"missing last name", func(in *RegisterInput) { in.LastName = "" }, "lastName"},
		{"missing password", func(in *RegisterInput) { in.Password = "" }, "password"},
		{"password too long for bcrypt", func(in *RegisterInput) { in.Password = strings.Repeat("p", 73) }, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.edit(&in)
			_, err := svc.Register(context.Background(), in)

			var svcErr *Error
			require.ErrorAs(t, err, &svcErr)
			assert.Equal(t, KindValidation, svcErr.Kind)
			assert.Equal(t, tt.field, svcErr.Field)
		})
	}
}

func TestAuth_RegisterAcceptsLongestPassword(t *testing.T) {
	ctx := context.Background()
	svc := newAuth(t)
	password := strings.Repeat("p", utils.MaxPasswordBytes)

	_, err := svc.Register(ctx, RegisterInput{Email: "long@x.com", FirstName: "A", LastName: "B", Password: password})
	require.NoError(t, err)
	_, err = svc.Login(ctx, "long@x.com", password)
	assert.NoError(t, err)
}

func TestAuth_LoginFailuresLookAlike(t *testing.T) {
	ctx := context.Background()
	svc := newAuth(t)
	_, err := svc.Register(ctx, RegisterInput{Email: "known@x.com", FirstName: "A", LastName: "B", Password: "right"})
	require.NoError(t, err)

	_, unknownErr := svc.Login(ctx, "unknown@x.com", "right")
	_, wrongErr := svc.Login(ctx, "known@x.com", "wrong")

	require.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	require.ErrorIs(t, wrongErr, ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestAuth_OAuthUpsert(t *testing.T) {
	ctx := context.Background()
	svc := newAuth(t)

	first, err := svc.OAuthUpsert(ctx, "G@x.com", "Grace Brewster Hopper", "g-123")
	require.NoError(t, err)
	assert.Equal(t, "g@x.com", first.User.Email)
	assert.Equal(t, "Grace", first.User.FirstName)
	assert.Equal(t, "Brewster Hopper", first.User.LastName)
	assert.Equal(t, domain.AuthProviderGoogle, first.User.AuthProvider)
	require.NotNil(t, first.User.GoogleID)
	assert.Equal(t, "g-123", *first.User.GoogleID)

	claims, err := svc.VerifyToken(first.Token)
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, claims.UserID)

	again, err := svc.OAuthUpsert(ctx, "g@x.com", "Grace Hopper", "g-123")
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, again.User.ID)

	// Google accounts have no password to check
	_, err = svc.Login(ctx, "g@x.com", "anything")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuth_OAuthUpsertLinksExistingAccount(t *testing.T) {
	ctx := context.Background()
	svc := newAuth(t)
	reg, err := svc.Register(ctx, RegisterInput{Email: "both@x.com", FirstName: "A", LastName: "B", Password: "pw"})
	require.NoError(t, err)

	res, err := svc.OAuthUpsert(ctx, "both@x.com", "A B", "g-9")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, res.User.ID)
	assert.Equal(t, domain.AuthProviderPassword, res.User.AuthProvider)

	// The password keeps working
	_, err = svc.Login(ctx, "both@x.com", "pw")
	assert.NoError(t, err)
}

func TestAuth_OAuthUpsertValidation(t *testing.T) {
	svc := newAuth(t)

	_, err := svc.OAuthUpsert(context.Background(), "", "Name", "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.OAuthUpsert(context.Background(), "n@x.com", "  ", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAuth_VerifyTokenRejectsForeignSecret(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.DB(t)
	issuer := NewAuth(gdb, "secret-one", time.Hour, 10)
	verifier := NewAuth(gdb, "secret-two", time.Hour, 10)

	res, err := issuer.Register(ctx, RegisterInput{Email: "t@x.com", FirstName: "A", LastName: "B", Password: "pw"})
	require.NoError(t, err)

	_, err = verifier.VerifyToken(res.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuth_Me(t *testing.T) {
	ctx := context.Background()
	svc := newAuth(t)
	res, err := svc.Register(ctx, RegisterInput{Email: "me@x.com", FirstName: "A", LastName: "B", Password: "pw"})
	require.NoError(t, err)

	user, err := svc.Me(ctx, res.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "me@x.com", user.Email)

	_, err = svc.Me(ctx, 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		in, first, last string
	}{
		{"Ada", "Ada", ""},
		{"Ada Lovelace", "Ada", "Lovelace"},
		{"  Ada   King  Lovelace ", "Ada", "King Lovelace"},
		{"", "", ""},
	}
	for _, tt := range tests {
		first, last := splitName(tt.in)
		assert.Equal(t, tt.first, first)
		assert.Equal(t, tt.last, last)
	}
}
