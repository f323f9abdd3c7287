package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/commands"
	"fintrack/internal/exitcode"
	"fintrack/internal/logging"
	"fintrack/internal/service"
	"fintrack/internal/session"
	"fintrack/internal/storage"
	"fintrack/internal/testutil"
)

func TestLoginCommand_Success(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("ann@example.com", "secret")
	store := storage.NewMemory()
	sess := session.New(store, logging.Discard())

	stdout, stderr, code := runWith(t, &commands.LoginCmd{}, newConfig(t, false), sess, svc,
		[]string{"--email", "ann@example.com", "--password", "secret"})

	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, stderr)
	assert.Equal(t, "ok\n", stdout)

	token, ok := sess.Token()
	assert.True(t, ok)
	assert.Equal(t, "token-ann@example.com", token)

	stored, ok, err := store.Get(session.TokenKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, token, stored)
}

func TestLoginCommand_EnvironmentCredentials(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("ann@example.com", "secret")
	cfg := newConfig(t, true)
	cfg.Email = "ann@example.com"
	cfg.Password = "secret"
	sess := newSession()

	stdout, _, code := runWith(t, &commands.LoginCmd{}, cfg, sess, svc, nil)

	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, stdout)
	assert.True(t, sess.IsAuthenticated())
}

func TestLoginCommand_FlagsOverrideEnvironment(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("bob@example.com", "hunter2")
	cfg := newConfig(t, false)
	cfg.Email = "ann@example.com"
	cfg.Password = "secret"
	sess := newSession()

	_, _, code := runWith(t, &commands.LoginCmd{}, cfg, sess, svc, []string{"--email", "bob@example.com", "--password", "hunter2"})

	assert.Equal(t, exitcode.Success, code)
	token, _ := sess.Token()
	assert.Equal(t, "token-bob@example.com", token)
}

func TestLoginCommand_MissingCredentials(t *testing.T) {
	sess := newSession()

	_, stderr, code := runWith(t, &commands.LoginCmd{}, newConfig(t, false), sess, testutil.NewFakeService(), []string{"--email", "ann@example.com"})

	assert.Equal(t, exitcode.AuthError, code)
	assert.Equal(t, "error: not logged in (run: fintrack login --email <email> --password <password>)\n", stderr)
	assert.False(t, sess.IsAuthenticated())
}

func TestLoginCommand_InvalidCredentials(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("ann@example.com", "secret")
	sess := newSession()

	_, stderr, code := runWith(t, &commands.LoginCmd{}, newConfig(t, false), sess, svc, []string{"--email", "ann@example.com", "--password", "wrong"})

	assert.Equal(t, exitcode.AuthError, code)
	assert.Equal(t, "error: invalid email or password\n", stderr)
	assert.False(t, sess.IsAuthenticated())
}

func TestLoginCommand_BackendError(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.LoginErr = errors.New("connection refused")

	_, stderr, code := runCommand(t, &commands.LoginCmd{}, svc, []string{"--email", "a@b.c", "--password", "x"}, false)

	assert.Equal(t, exitcode.BackendError, code)
	assert.Equal(t, "error: backend error: connection refused\n", stderr)
}

func TestLoginCommand_StorageFailureKeepsSession(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("ann@example.com", "secret")
	store := storage.NewMemory()
	store.SetErr = errors.New("disk full")
	sess := session.New(store, logging.Discard())

	stdout, _, code := runWith(t, &commands.LoginCmd{}, newConfig(t, false), sess, svc, []string{"--email", "ann@example.com", "--password", "secret"})

	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "ok\n", stdout)
	assert.True(t, sess.IsAuthenticated())
}

func TestRegisterCommand_Success(t *testing.T) {
	svc := testutil.NewFakeService()
	sess := newSession()

	stdout, stderr, code := runWith(t, &commands.RegisterCmd{}, newConfig(t, false), sess, svc, []string{"--email", "ann@example.com", "--password", "secret"})

	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, stderr)
	assert.Equal(t, "ok (run: fintrack login)\n", stdout)
	assert.False(t, sess.IsAuthenticated())

	_, err := svc.Login(testContext(t), service.Credentials{Email: "ann@example.com", Password: "secret"})
	assert.NoError(t, err)
}

func TestRegisterCommand_Errors(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("ann@example.com", "secret")

	_, stderr, code := runCommand(t, &commands.RegisterCmd{}, svc, []string{"--email", "ann@example.com", "--password", "x"}, false)
	assert.Equal(t, exitcode.UserError, code)
	assert.Equal(t, "error: user already exists: ann@example.com\n", stderr)

	_, stderr, code = runCommand(t, &commands.RegisterCmd{}, svc, []string{"--email", "bob@example.com"}, false)
	assert.Equal(t, exitcode.UserError, code)
	assert.Equal(t, "error: email and password required\n", stderr)

	svc.RegisterErr = &service.APIError{Status: 400, Message: "invalid email"}
	_, stderr, code = runCommand(t, &commands.RegisterCmd{}, svc, []string{"--email", "bob", "--password", "x"}, false)
	assert.Equal(t, exitcode.UserError, code)
	assert.Equal(t, "error: invalid email\n", stderr)

	svc.RegisterErr = &service.APIError{Status: 500, Message: "db down"}
	_, stderr, code = runCommand(t, &commands.RegisterCmd{}, svc, []string{"--email", "bob@example.com", "--password", "x"}, false)
	assert.Equal(t, exitcode.BackendError, code)
	assert.Equal(t, "error: backend error: server returned status 500: db down\n", stderr)
}

func TestLogoutCommand_RemovesToken(t *testing.T) {
	store := storage.NewMemory()
	require.NoError(t, store.Set(session.TokenKey, "tok"))
	sess := session.New(store, logging.Discard())

	stdout, stderr, code := runWith(t, &commands.LogoutCmd{}, newConfig(t, false), sess, nil, nil)

	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, stderr)
	assert.Equal(t, "ok\n", stdout)
	assert.False(t, sess.IsAuthenticated())

	_, ok, err := store.Get(session.TokenKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLogoutCommand_NotLoggedIn(t *testing.T) {
	stdout, stderr, code := runWith(t, &commands.LogoutCmd{}, newConfig(t, false), newSession(), nil, nil)

	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, stderr)
	assert.Equal(t, "not logged in\n", stdout)
}

func TestLogoutCommand_NotLoggedInQuiet(t *testing.T) {
	stdout, stderr, code := runWith(t, &commands.LogoutCmd{}, newConfig(t, true), newSession(), nil, nil)

	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, stderr)
	assert.Empty(t, stdout)
}

// testContext returns a context canceled when the test finishes
// (equivalent of testing.T.Context, which requires Go 1.24).
func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
