package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openavatar/openavatar/internal/account"
	"github.com/openavatar/openavatar/internal/account/accounttest"
)

type fixture struct {
	srv      *Server
	svc      *account.Service
	adaUID   string
	graceUID string
}

// setupTestServer seeds two users and signs in as ada.
func setupTestServer(t *testing.T, signIn bool) *fixture {
	t.Helper()
	b := accounttest.New()
	f := &fixture{
		adaUID: b.Seed(account.Profile{
			Email: "ada@example.com", Nickname: "ada", FirstName: "Ada", LastName: "Lovelace",
		}, "secret1"),
		graceUID: b.Seed(account.Profile{
			Email: "grace@example.com", Nickname: "grace", Bio: "Compilers.",
		}, "secret2"),
	}
	f.svc = account.NewService(b.Deps())
	if signIn {
		_, err := f.svc.Login(context.Background(), "ada@example.com", "secret1")
		require.NoError(t, err)
	}
	f.srv = New(f.svc, "test")
	return f
}

func call(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	}
}

// extractText extracts text from CallToolResult.Content[0]
func extractText(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return ""
	}
	if textContent, ok := result.Content[0].(mcp.TextContent); ok {
		return textContent.Text
	}
	return ""
}

func decodeProfile(t *testing.T, result *mcp.CallToolResult) account.Profile {
	t.Helper()
	require.False(t, result.IsError, extractText(result))
	var p account.Profile
	require.NoError(t, json.Unmarshal([]byte(extractText(result)), &p))
	return p
}

func TestGetProfile(t *testing.T) {
	f := setupTestServer(t, true)
	ctx := context.Background()

	t.Run("own profile", func(t *testing.T) {
		result, err := f.srv.handleGetProfile(ctx, call("get-profile", nil))
		require.NoError(t, err)
		p := decodeProfile(t, result)
		assert.Equal(t, f.adaUID, p.UID)
		assert.Equal(t, "ada@example.com", p.Email)
	})

	t.Run("by uid", func(t *testing.T) {
		result, err := f.srv.handleGetProfile(ctx, call("get-profile", map[string]any{"uid": f.graceUID}))
		require.NoError(t, err)
		p := decodeProfile(t, result)
		assert.Equal(t, "grace", p.Nickname)
		assert.Empty(t, p.Email)
	})

	t.Run("by link", func(t *testing.T) {
		link := account.ShareLink("https://openavatar.web.app", f.graceUID)
		result, err := f.srv.handleGetProfile(ctx, call("get-profile", map[string]any{"link": link}))
		require.NoError(t, err)
		p := decodeProfile(t, result)
		assert.Equal(t, "Compilers.", p.Bio)
		assert.Empty(t, p.Email)
	})

	t.Run("unknown uid", func(t *testing.T) {
		result, err := f.srv.handleGetProfile(ctx, call("get-profile", map[string]any{"uid": "nobody"}))
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Equal(t, "profile not found", extractText(result))
	})

	t.Run("both arguments", func(t *testing.T) {
		result, err := f.srv.handleGetProfile(ctx, call("get-profile", map[string]any{"uid": "a", "link": "b"}))
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})

	t.Run("bad link", func(t *testing.T) {
		result, err := f.srv.handleGetProfile(ctx, call("get-profile", map[string]any{"link": "https://openavatar.web.app/profile/"}))
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Contains(t, extractText(result), "invalid profile link")
	})
}

func TestGetProfile_SignedOut(t *testing.T) {
	f := setupTestServer(t, false)

	result, err := f.srv.handleGetProfile(context.Background(), call("get-profile", nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, extractText(result), "not signed in")

	// uid lookups are public
	result, err = f.srv.handleGetProfile(context.Background(), call("get-profile", map[string]any{"uid": f.graceUID}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
}

func TestShareLink(t *testing.T) {
	f := setupTestServer(t, true)

	result, err := f.srv.handleShareLink(context.Background(), call("share-link", nil))
	require.NoError(t, err)
	assert.Equal(t, "https://openavatar.web.app/profile/"+f.adaUID, extractText(result))

	signedOut := setupTestServer(t, false)
	result, err = signedOut.srv.handleShareLink(context.Background(), call("share-link", nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestRecentActivity(t *testing.T) {
	f := setupTestServer(t, true)
	ctx := context.Background()
	_, err := f.svc.ShareLink(ctx)
	require.NoError(t, err)

	result, err := f.srv.handleRecentActivity(ctx, call("recent-activity", nil))
	require.NoError(t, err)
	lines := strings.Split(extractText(result), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "share/link-created", "newest first")
	assert.Contains(t, lines[1], "account/signed-in")

	result, err = f.srv.handleRecentActivity(ctx, call("recent-activity", map[string]any{"limit": float64(1)}))
	require.NoError(t, err)
	assert.Equal(t, 1, len(strings.Split(extractText(result), "\n")))
}

func TestStartStop(t *testing.T) {
	f := setupTestServer(t, true)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	port, err := f.srv.Start(ctx)
	require.NoError(t, err)
	assert.Greater(t, port, 0)
	assert.Contains(t, f.srv.URL(), "/mcp")

	_, err = f.srv.Start(ctx)
	assert.Error(t, err, "double start")

	require.NoError(t, f.srv.Stop())
	require.NoError(t, f.srv.Stop(), "stop is idempotent")
}
