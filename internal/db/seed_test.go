package db_test

import (
	"strings"
	"testing"

	"cafe_ordering/internal/db"
	"cafe_ordering/internal/domain"
	"cafe_ordering/internal/testutil"
	"cafe_ordering/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedIsIdempotent(t *testing.T) {
	gdb := testutil.DB(t)
	opts := db.SeedOptions{AdminEmail: " Admin@Cafe.test ", AdminPassword: "secret", BcryptCost: 10}

	require.NoError(t, db.Seed(gdb, opts))
	require.NoError(t, db.Seed(gdb, opts))

	assert.EqualValues(t, 4, testutil.CountRows(t, gdb, &domain.Category{}))
	assert.EqualValues(t, 12, testutil.CountRows(t, gdb, &domain.Product{}))
	assert.EqualValues(t, 1, testutil.CountRows(t, gdb, &domain.User{}))

	var espresso domain.Product
	require.NoError(t, gdb.Where("name = ?", "Espresso").First(&espresso).Error)
	assert.Equal(t, "2.50", espresso.Price.StringFixed(2))
	assert.True(t, espresso.IsAvailable)

	var admin domain.User
	require.NoError(t, gdb.Where("email = ?", "admin@cafe.test").First(&admin).Error)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
	assert.NoError(t, utils.CheckPassword(admin.Password, "secret"))
}

func TestSeedPromotesExistingUser(t *testing.T) {
	gdb := testutil.DB(t)
	existing := testutil.CreateUser(t, gdb, "owner@cafe.test", "mine", domain.RoleCustomer)

	require.NoError(t, db.Seed(gdb, db.SeedOptions{AdminEmail: "owner@cafe.test", AdminPassword: "other", BcryptCost: 10}))

	var user domain.User
	require.NoError(t, gdb.First(&user, existing.ID).Error)
	assert.Equal(t, domain.RoleAdmin, user.Role)
	// The password is left alone
	assert.NoError(t, utils.CheckPassword(user.Password, "mine"))
}

func TestSeedWithoutAdmin(t *testing.T) {
	gdb := testutil.DB(t)
	require.NoError(t, db.Seed(gdb, db.SeedOptions{}))
	assert.Zero(t, testutil.CountRows(t, gdb, &domain.User{}))
	assert.EqualValues(t, 4, testutil.CountRows(t, gdb, &domain.Category{}))
}

func TestSeedRejectsOverlongAdminPassword(t *testing.T) {
	gdb := testutil.DB(t)
	err := db.Seed(gdb, db.SeedOptions{AdminEmail: "admin@cafe.test", AdminPassword: strings.Repeat("p", 73), BcryptCost: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADMIN_PASSWORD")
	assert.Zero(t, testutil.CountRows(t, gdb, &domain.User{}))
}
