package client

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/go-family-tree/internal/adapter"
	"github.com/MKhiriev/go-family-tree/internal/config"
	"github.com/MKhiriev/go-family-tree/internal/logger"
	"github.com/MKhiriev/go-family-tree/internal/mock"
	"github.com/MKhiriev/go-family-tree/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type testApp struct {
	app    *App
	server *mock.MockServerAdapter
	tokens *mock.MockTokenStore
	cfg    *config.ClientConfig
	copied []string
}

// newTestApp wires an App to mocks. savedToken is what the token store
// returns on start.
func newTestApp(t *testing.T, savedToken string) *testApp {
	t.Helper()

	ctrl := gomock.NewController(t)
	server := mock.NewMockServerAdapter(ctrl)
	tokens := mock.NewMockTokenStore(ctrl)

	tokens.EXPECT().Load().Return(savedToken, nil).AnyTimes()
	if savedToken != "" {
		server.EXPECT().SetToken(savedToken).AnyTimes()
	}
	server.EXPECT().Token().Return(savedToken).AnyTimes()

	cfg := &config.ClientConfig{Adapter: config.ClientAdapter{
		HTTPAddress:    "http://localhost:8080",
		RequestTimeout: time.Second,
	}}

	ta := &testApp{server: server, tokens: tokens, cfg: cfg}
	ta.app = NewApp(cfg, func(config.ClientAdapter, *logger.Logger) (adapter.ServerAdapter, error) {
		return server, nil
	}, tokens, models.NewAppBuildInfo("1.0.0", "", "abc123"), logger.Nop())
	ta.app.copyToken = func(s string) error {
		ta.copied = append(ta.copied, s)
		return nil
	}
	return ta
}

func (ta *testApp) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := ta.app.Run(context.Background(), args, strings.NewReader(stdin), &out)
	return out.String(), err
}

var rootIdentity = models.Identity{ID: "a1", Username: "root", Role: models.RoleAdmin}

// ─── login / logout ──────────────────────────────────────────────────────────

// TestLogin_Flags saves the token and prints the identity.
func TestLogin_Flags(t *testing.T) {
	ta := newTestApp(t, "")
	ta.server.EXPECT().
		Login(gomock.Any(), models.LoginRequest{Username: "root", Password: "pw"}).
		Return(models.LoginResponse{User: rootIdentity, Token: "tok"}, nil)
	ta.tokens.EXPECT().Save("tok").Return(nil)

	out, err := ta.run(t, "", "login", "-u", "root", "-p", "pw")

	require.NoError(t, err)
	assert.Contains(t, out, "logged in as root")
	assert.Contains(t, out, "admin")
	assert.Empty(t, ta.copied)
}

// TestLogin_PromptAndCopy reads missing credentials from stdin and copies the token.
func TestLogin_PromptAndCopy(t *testing.T) {
	ta := newTestApp(t, "")
	ta.server.EXPECT().
		Login(gomock.Any(), models.LoginRequest{Username: "root", Password: "pw"}).
		Return(models.LoginResponse{User: rootIdentity, Token: "tok"}, nil)
	ta.tokens.EXPECT().Save("tok").Return(nil)

	out, err := ta.run(t, "root\npw\n", "login", "--copy")

	require.NoError(t, err)
	assert.Contains(t, out, "Username: ")
	assert.Contains(t, out, "Password: ")
	assert.Contains(t, out, "token copied to clipboard")
	assert.Equal(t, []string{"tok"}, ta.copied)
}

// TestLogin_Rejected leaves the token store untouched.
func TestLogin_Rejected(t *testing.T) {
	ta := newTestApp(t, "")
	ta.server.EXPECT().Login(gomock.Any(), gomock.Any()).
		Return(models.LoginResponse{}, fmt.Errorf("%w: invalid username or password", adapter.ErrUnauthorized))

	_, err := ta.run(t, "", "login", "-u", "root", "-p", "bad")

	assert.ErrorIs(t, err, adapter.ErrUnauthorized)
}

// TestLogin_EmptyPrompt fails without calling the server.
func TestLogin_EmptyPrompt(t *testing.T) {
	ta := newTestApp(t, "")

	_, err := ta.run(t, "\n", "login")

	assert.ErrorContains(t, err, "username is required")
}

func TestLogout(t *testing.T) {
	ta := newTestApp(t, "tok")
	ta.server.EXPECT().Logout(gomock.Any()).Return(nil)
	ta.tokens.EXPECT().Clear().Return(nil)

	out, err := ta.run(t, "", "logout")

	require.NoError(t, err)
	assert.Equal(t, "logged out\n", out)
}

func TestStatus(t *testing.T) {
	ta := newTestApp(t, "tok")
	ta.server.EXPECT().Status(gomock.Any()).
		Return(models.StatusResponse{IsAuthenticated: true, User: &rootIdentity}, nil)

	out, err := ta.run(t, "", "status")

	require.NoError(t, err)
	assert.Contains(t, out, "logged in as root")

	ta = newTestApp(t, "")
	ta.server.EXPECT().Status(gomock.Any()).Return(models.StatusResponse{}, nil)

	out, err = ta.run(t, "", "status")
	require.NoError(t, err)
	assert.Equal(t, "not logged in\n", out)
}

// ─── list ────────────────────────────────────────────────────────────────────

func TestList(t *testing.T) {
	ta := newTestApp(t, "tok")
	ta.server.EXPECT().ListPersons(gomock.Any()).Return([]models.PersonView{
		{ID: "p1", FirstName: "Rosa", LastName: "Diaz", Age: models.IntPtr(71), Role: models.RoleAdmin, Username: models.StringPtr("grandma")},
		{ID: "p2", FirstName: "Luis", LastName: "Diaz", Role: models.RoleNone},
	}, nil)

	out, err := ta.run(t, "", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "Family tree (2 persons)")
	assert.Contains(t, out, "Rosa Diaz")
	assert.Contains(t, out, "grandma")
	assert.Contains(t, out, "71")
	assert.Contains(t, out, "Luis Diaz")
}

// TestList_ExpiredSession clears the saved token after a 401.
func TestList_ExpiredSession(t *testing.T) {
	ta := newTestApp(t, "stale")
	ta.server.EXPECT().ListPersons(gomock.Any()).Return(nil, adapter.ErrUnauthorized)
	ta.tokens.EXPECT().Clear().Return(nil)

	_, err := ta.run(t, "", "list")

	require.ErrorIs(t, err, adapter.ErrUnauthorized)
	assert.Contains(t, err.Error(), "session cleared")
}

// ─── export / import ─────────────────────────────────────────────────────────

func TestExport_ToFile(t *testing.T) {
	ta := newTestApp(t, "tok")
	doc := []byte(`{"users":[],"persons":[]}`)
	ta.server.EXPECT().Export(gomock.Any()).Return(doc, nil)
	path := filepath.Join(t.TempDir(), "backup.json")

	out, err := ta.run(t, "", "export", "-o", path)

	require.NoError(t, err)
	assert.Contains(t, out, "exported 25 bytes")
	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, doc, written)
}

func TestExport_Stdout(t *testing.T) {
	ta := newTestApp(t, "tok")
	ta.server.EXPECT().Export(gomock.Any()).Return([]byte("{}\n"), nil)

	out, err := ta.run(t, "", "export", "-o", "-")

	require.NoError(t, err)
	assert.Equal(t, "{}\n", out)
}

// TestAdminCommands_RequireSession never reach the server without a token.
func TestAdminCommands_RequireSession(t *testing.T) {
	for _, args := range [][]string{
		{"export"},
		{"import", "-f", "doc.json"},
		{"passwd", "p1", "-p", "x"},
	} {
		t.Run(args[0], func(t *testing.T) {
			ta := newTestApp(t, "")
			_, err := ta.run(t, "", args...)
			assert.ErrorIs(t, err, ErrNotLoggedIn)
		})
	}
}

func TestImport(t *testing.T) {
	ta := newTestApp(t, "tok")
	path := filepath.Join(t.TempDir(), "doc.json")
	doc := []byte(`{"users":[],"persons":[]}`)
	require.NoError(t, os.WriteFile(path, doc, 0o600))

	ta.server.EXPECT().Import(gomock.Any(), doc).
		Return(models.ImportResponse{Message: "import completed", Persons: 12, Accounts: 3}, nil)

	out, err := ta.run(t, "", "import", "-f", path)

	require.NoError(t, err)
	assert.Equal(t, "import completed: 12 persons, 3 accounts\n", out)
}

func TestImport_MissingFile(t *testing.T) {
	ta := newTestApp(t, "tok")

	_, err := ta.run(t, "", "import", "-f", filepath.Join(t.TempDir(), "nope.json"))

	assert.ErrorContains(t, err, "error reading import file")
}

// ─── passwd ──────────────────────────────────────────────────────────────────

func TestPasswd(t *testing.T) {
	ta := newTestApp(t, "tok")
	ta.server.EXPECT().ChangePassword(gomock.Any(), "p1", "n3w").Return(nil)

	out, err := ta.run(t, "n3w\n", "passwd", "p1")

	require.NoError(t, err)
	assert.Contains(t, out, "password changed")
}

func TestPasswd_NotFound(t *testing.T) {
	ta := newTestApp(t, "tok")
	ta.server.EXPECT().ChangePassword(gomock.Any(), "ghost", "x").Return(adapter.ErrNotFound)

	_, err := ta.run(t, "", "passwd", "ghost", "-p", "x")

	assert.ErrorIs(t, err, adapter.ErrNotFound)
}

// ─── version / config ────────────────────────────────────────────────────────

func TestVersion(t *testing.T) {
	ta := newTestApp(t, "")
	ta.server.EXPECT().Version(gomock.Any()).Return("2.0.0", nil)

	out, err := ta.run(t, "", "version")

	require.NoError(t, err)
	assert.Contains(t, out, "Build version: 1.0.0")
	assert.Contains(t, out, "Build date: N/A")
	assert.Contains(t, out, "Server version: 2.0.0")
}

// TestServerFlag overrides the configured address and validates it.
func TestServerFlag(t *testing.T) {
	ta := newTestApp(t, "")
	ta.server.EXPECT().Version(gomock.Any()).Return("2.0.0", nil)

	_, err := ta.run(t, "", "--server", "http://tree.local:9000", "version")
	require.NoError(t, err)
	assert.Equal(t, "http://tree.local:9000", ta.cfg.Adapter.HTTPAddress)

	_, err = ta.run(t, "", "--server", "not a url", "version")
	assert.ErrorIs(t, err, config.ErrInvalidAdapterConfigs)
}

// ─── view ────────────────────────────────────────────────────────────────────

func TestFitText(t *testing.T) {
	assert.Equal(t, "abc", fitText("abc", 5))
	assert.Equal(t, "ab...", fitText("abcdefgh", 5))
	assert.Equal(t, "Жо...", fitText("Жозефина", 5))
	assert.Equal(t, "ab", fitText("abcdef", 2))
}

func TestRenderPersons_Empty(t *testing.T) {
	out := renderPersons(nil)

	assert.Contains(t, out, "Family tree (0 persons)")
	assert.Contains(t, out, "  -\n")
}
