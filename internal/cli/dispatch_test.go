package cli_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/backend/financeapi"
	"fintrack/internal/cli"
	"fintrack/internal/commands"
	"fintrack/internal/config"
	"fintrack/internal/exitcode"
	"fintrack/internal/router"
	"fintrack/internal/service"
	"fintrack/internal/session"
	"fintrack/internal/storage"
	"fintrack/internal/testutil"
)

const loginHint = "error: not logged in (run: fintrack login --email <email> --password <password>)\n"

// testFactory creates a service factory that returns the given FakeService.
func testFactory(svc *testutil.FakeService) cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config, sess *session.Session, nav router.Navigator, logger *slog.Logger) (service.Service, error) {
		return svc, nil
	}
}

// apiFactory builds the real HTTP client, as main does.
func apiFactory() cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config, sess *session.Session, nav router.Navigator, logger *slog.Logger) (service.Service, error) {
		return financeapi.New(cfg, sess, nav, logger), nil
	}
}

// isolate points the config directory at a temp dir and clears credentials.
// It returns the token storage directory.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("FINTRACK_API_URL", "http://127.0.0.1:1")
	t.Setenv("FINTRACK_EMAIL", "")
	t.Setenv("FINTRACK_PASSWORD", "")
	t.Setenv("FINTRACK_LOCALE", "en")
	t.Setenv("FINTRACK_LOG_LEVEL", "warn")
	return filepath.Join(dir, config.AppName, config.StorageDir)
}

func storeToken(t *testing.T, storageDir, token string) {
	t.Helper()
	require.NoError(t, storage.NewLocal(storageDir).Set(session.TokenKey, token))
}

func storedToken(t *testing.T, storageDir string) (string, bool) {
	t.Helper()
	token, ok, err := storage.NewLocal(storageDir).Get(session.TokenKey)
	require.NoError(t, err)
	return token, ok
}

func run(d *cli.Dispatcher, args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := d.Run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	isolate(t)
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	code, _, stderr := run(d, "unknowncmd")

	assert.Equal(t, exitcode.UserError, code)
	assert.Equal(t, "error: unknown command: unknowncmd\n", stderr)
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	isolate(t)
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	code, _, stderr := run(d, "--quiet")

	assert.Equal(t, exitcode.UserError, code)
	assert.Equal(t, "error: unknown command: --quiet\n", stderr)
}

func TestDispatcher_HelpCommand(t *testing.T) {
	isolate(t)
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	code, stdout, stderr := run(d, "help")

	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, stderr)
	assert.Contains(t, stdout, "Usage:")
}

func TestDispatcher_VersionCommand(t *testing.T) {
	isolate(t)
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	code, stdout, stderr := run(d, "version")

	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, stderr)
	assert.Equal(t, "fintrack 0.1.0\n", stdout)
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	isolate(t)
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	code, _, stderr := run(d, "help", "--unknown")

	assert.Equal(t, exitcode.UserError, code)
	assert.Equal(t, "error: unknown flag: -unknown\n", stderr)
}

func TestDispatcher_FlagNeedsArgument(t *testing.T) {
	isolate(t)
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	code, _, stderr := run(d, "addtx", "--account")

	assert.Equal(t, exitcode.UserError, code)
	assert.Equal(t, "error: flag needs an argument: -account\n", stderr)
}

func TestDispatcher_ProtectedViewRedirectsToLogin(t *testing.T) {
	isolate(t)
	svc := testutil.NewFakeService()
	svc.AddAccount(service.Account{ID: 1, Currency: "USD", Comment: "Main"})
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	code, stdout, stderr := run(d, "accounts")

	assert.Equal(t, exitcode.AuthError, code)
	assert.Empty(t, stdout)
	assert.Equal(t, loginHint+"error: not logged in, accounts not run\n", stderr)
}

func TestDispatcher_RedirectedLoginUsesEnvironmentCredentials(t *testing.T) {
	storageDir := isolate(t)
	t.Setenv("FINTRACK_EMAIL", "ann@example.com")
	t.Setenv("FINTRACK_PASSWORD", "secret")
	svc := testutil.NewFakeService()
	svc.AddUser("ann@example.com", "secret")
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	code, stdout, stderr := run(d, "categories")

	assert.Equal(t, exitcode.AuthError, code)
	assert.Equal(t, "error: not logged in, categories not run\n", stderr)
	assert.Equal(t, "ok\n", stdout)

	token, ok := storedToken(t, storageDir)
	assert.True(t, ok)
	assert.Equal(t, "token-ann@example.com", token)
}

func TestDispatcher_RedirectedWriteIsNotRun(t *testing.T) {
	storageDir := isolate(t)
	t.Setenv("FINTRACK_EMAIL", "ann@example.com")
	t.Setenv("FINTRACK_PASSWORD", "secret")
	svc := testutil.NewFakeService()
	svc.AddUser("ann@example.com", "secret")
	svc.AddAccount(service.Account{ID: 1, Currency: "USD"})
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	code, stdout, stderr := run(d, "addtx", "--account", "1", "--expense", "12.50")

	assert.Equal(t, exitcode.AuthError, code)
	assert.Equal(t, "ok\n", stdout)
	assert.Equal(t, "error: not logged in, addtx not run\n", stderr)
	assert.Empty(t, svc.Transactions(1))

	_, ok := storedToken(t, storageDir)
	assert.True(t, ok)

	// Logged in now, the same command goes through.
	code, stdout, stderr = run(d, "addtx", "--account", "1", "--expense", "12.50")

	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, stderr)
	assert.Equal(t, "ok\n", stdout)
	require.Len(t, svc.Transactions(1), 1)
	assert.Equal(t, -12.5, svc.Transactions(1)[0].Amount)
}

func TestDispatcher_LoginWhenAuthenticatedShowsAccounts(t *testing.T) {
	storageDir := isolate(t)
	storeToken(t, storageDir, "tok")
	svc := testutil.NewFakeService()
	svc.AddAccount(service.Account{ID: 7, Currency: "USD", Comment: "Main", Balance: 1234.5})
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	code, stdout, stderr := run(d, "login", "--email", "someone@example.com", "--password", "x")

	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, stderr)
	assert.Equal(t, "   7  USD         1,234.50  Main\n", stdout)
}

func TestDispatcher_NoArgsOpensAccounts(t *testing.T) {
	storageDir := isolate(t)
	storeToken(t, storageDir, "tok")
	svc := testutil.NewFakeService()
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	code, stdout, stderr := run(d)

	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, stderr)
	assert.Equal(t, "no accounts found\n", stdout)
}

func TestDispatcher_PathWithParameter(t *testing.T) {
	storageDir := isolate(t)
	storeToken(t, storageDir, "tok")
	svc := testutil.NewFakeService()
	svc.AddAccount(service.Account{ID: 7, Currency: "EUR", Comment: "Cash"})
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	code, stdout, stderr := run(d, "/accounts/7")

	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, stderr)
	assert.Equal(t, "------------\n#7 Cash [EUR]\nbalance: 0.00\n------------\nno transactions\n", stdout)
}

func TestDispatcher_UnknownPath(t *testing.T) {
	isolate(t)
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	code, _, stderr := run(d, "/nowhere")

	assert.Equal(t, exitcode.UserError, code)
	assert.Equal(t, "error: unknown view: /nowhere\n", stderr)
}

func TestDispatcher_PublicCommandSkipsGuard(t *testing.T) {
	isolate(t)
	svc := testutil.NewFakeService()
	svc.SetRates([]service.Rate{{Currency: "EUR", RateToUSD: 0.92}})
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	code, stdout, stderr := run(d, "rates")

	assert.Equal(t, exitcode.Success, code)
	assert.Empty(t, stderr)
	assert.Equal(t, "EUR         0.9200\n", stdout)
}

func TestDispatcher_RejectedTokenLogsOut(t *testing.T) {
	storageDir := isolate(t)
	storeToken(t, storageDir, "stale")

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":"invalid token"}`)
	}))
	defer srv.Close()
	t.Setenv("FINTRACK_API_URL", srv.URL)

	d := cli.NewDispatcher(commands.DefaultRegistry, apiFactory())
	code, stdout, stderr := run(d, "accounts")

	assert.Equal(t, exitcode.AuthError, code)
	assert.Empty(t, stdout)
	assert.Equal(t, "Bearer stale", gotAuth)
	assert.Equal(t, "error: session expired (run: fintrack login)\n"+loginHint, stderr)

	_, ok := storedToken(t, storageDir)
	assert.False(t, ok)
	_, err := os.Stat(filepath.Join(storageDir, session.TokenKey))
	assert.True(t, os.IsNotExist(err))
}

func TestDispatcher_RejectedTokenReauthenticates(t *testing.T) {
	storageDir := isolate(t)
	storeToken(t, storageDir, "stale")
	t.Setenv("FINTRACK_EMAIL", "ann@example.com")
	t.Setenv("FINTRACK_PASSWORD", "secret")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPost && r.URL.Path == "/api/login" {
			_, _ = io.WriteString(w, `{"token":"fresh"}`)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":"invalid token"}`)
	}))
	defer srv.Close()
	t.Setenv("FINTRACK_API_URL", srv.URL)

	d := cli.NewDispatcher(commands.DefaultRegistry, apiFactory())
	code, stdout, stderr := run(d, "stats")

	assert.Equal(t, exitcode.AuthError, code)
	assert.Equal(t, "ok\n", stdout)
	assert.Equal(t, "error: session expired (run: fintrack login)\n", stderr)

	token, ok := storedToken(t, storageDir)
	assert.True(t, ok)
	assert.Equal(t, "fresh", token)
}
