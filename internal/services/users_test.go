package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetstack/internal/models"
	"sheetstack/internal/sheetdb"
	"sheetstack/internal/sheets"
)

type appendCounter struct {
	*sheets.Memory
	appends int
}

func (a *appendCounter) Append(ctx context.Context, sheet string, row []string) error {
	a.appends++
	return a.Memory.Append(ctx, sheet, row)
}

func newTestUserStore() (*UserStore, *appendCounter) {
	table := &appendCounter{Memory: sheets.NewMemory()}
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &UserStore{
		DB:     sheetdb.New(table, zerolog.Nop()),
		Sheet:  "Users",
		Tokens: testTokens(),
		Log:    zerolog.Nop(),
		Now:    func() time.Time { return fixed },
	}, table
}

func requireStatus(t *testing.T, err error, status int) {
	t.Helper()
	se, ok := AsServiceError(err)
	require.True(t, ok, "expected ServiceError, got %v", err)
	assert.Equal(t, status, se.Status)
}

func TestRegisterCreatesFreeUser(t *testing.T) {
	ctx := context.Background()
	store, table := newTestUserStore()

	user, err := store.Register(ctx, "  u@t.com ", "pw1")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "u@t.com", user.Email)
	assert.Equal(t, models.MembershipFree, user.Membership)
	assert.Equal(t, "2024-05-01T12:00:00Z", user.CreatedAt)

	grid, err := table.Memory.BulkRead(ctx, "Users")
	require.NoError(t, err)
	require.Len(t, grid, 2)
	assert.Equal(t, []string(models.UsersSchema), grid[0])
	row := grid[1]
	assert.Equal(t, user.ID, row[0])
	assert.Equal(t, "u@t.com", row[1])
	assert.NotEqual(t, "pw1", row[2])
	assert.Equal(t, "free", row[3])
	assert.Equal(t, "2024-05-01T12:00:00Z", row[4])
	assert.Equal(t, "2024-05-01T12:00:00Z", row[5])
}

func TestRegisterRejectsDuplicateEmailBeforeAppend(t *testing.T) {
	ctx := context.Background()
	store, table := newTestUserStore()
	table.Seed("Users", [][]string{models.UsersSchema, {"u1", "a@x.com", "h", "free", "t", "t"}})

	_, err := store.Register(ctx, "a@x.com", "pw")
	requireStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, "User already registered", err.Error())
	assert.Equal(t, 0, table.appends)
}

func TestRegisterRepairsHeaderFirst(t *testing.T) {
	ctx := context.Background()
	store, table := newTestUserStore()
	table.Seed("Users", [][]string{{"email", "userId"}})

	_, err := store.Register(ctx, "b@x.com", "pw")
	require.NoError(t, err)

	m, found, err := store.DB.Find(ctx, "Users", models.ColEmail, "b@x.com")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "free", m.Record[models.ColMembership])
}

func TestRegisterRequiresFields(t *testing.T) {
	store, table := newTestUserStore()
	_, err := store.Register(context.Background(), " ", "pw")
	requireStatus(t, err, http.StatusBadRequest)
	_, err = store.Register(context.Background(), "a@x.com", "")
	requireStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, 0, table.appends)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestUserStore()
	registered, err := store.Register(ctx, "u@t.com", "pw1")
	require.NoError(t, err)

	user, err := store.Authenticate(ctx, "u@t.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, wrongPassword := store.Authenticate(ctx, "u@t.com", "pw2")
	_, unknownEmail := store.Authenticate(ctx, "nobody@t.com", "pw1")
	requireStatus(t, wrongPassword, http.StatusBadRequest)
	requireStatus(t, unknownEmail, http.StatusBadRequest)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())

	// email match is case-sensitive
	_, err = store.Authenticate(ctx, "U@T.com", "pw1")
	requireStatus(t, err, http.StatusBadRequest)
}

func TestByID(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestUserStore()
	registered, err := store.Register(ctx, "u@t.com", "pw1")
	require.NoError(t, err)

	user, err := store.ByID(ctx, registered.ID)
	require.NoError(t, err)
	assert.Equal(t, "u@t.com", user.Email)

	_, err = store.ByID(ctx, "missing")
	requireStatus(t, err, http.StatusNotFound)
}

func TestUpdateMembership(t *testing.T) {
	ctx := context.Background()
	store, table := newTestUserStore()
	table.Seed("Users", [][]string{
		models.UsersSchema,
		{"u1", "a@x.com", "h1", "free", "c1", "c1"},
		{"u2", "b@x.com", "h2", "free", "c2", "c2"},
	})

	user, err := store.UpdateMembership(ctx, "u2", models.MembershipPremium)
	require.NoError(t, err)
	assert.Equal(t, models.MembershipPremium, user.Membership)

	grid, err := table.Memory.BulkRead(ctx, "Users")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "a@x.com", "h1", "free", "c1", "c1"}, grid[1])
	assert.Equal(t, []string{"u2", "b@x.com", "h2", "premium", "c2", "2024-05-01T12:00:00Z"}, grid[2])
}

func TestUpdateMembershipValidation(t *testing.T) {
	ctx := context.Background()
	store, table := newTestUserStore()
	table.Seed("Users", [][]string{models.UsersSchema, {"u1", "a@x.com", "h1", "free", "c1", "c1"}})

	_, err := store.UpdateMembership(ctx, "", models.MembershipPremium)
	requireStatus(t, err, http.StatusBadRequest)
	_, err = store.UpdateMembership(ctx, "u1", "")
	requireStatus(t, err, http.StatusBadRequest)
	_, err = store.UpdateMembership(ctx, "u1", models.Membership("gold"))
	requireStatus(t, err, http.StatusBadRequest)
	_, err = store.UpdateMembership(ctx, "u9", models.MembershipPremium)
	requireStatus(t, err, http.StatusNotFound)
}
