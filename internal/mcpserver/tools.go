package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/openavatar/openavatar/internal/account"
)

// maxActivity caps the events returned by recent-activity.
const maxActivity = 50

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("get-profile",
			mcp.WithDescription("Look up an Openavatar profile by uid or share link. With neither, returns the signed-in user's own profile."),
			mcp.WithString("uid", mcp.Description("Profile uid")),
			mcp.WithString("link", mcp.Description("Share link, e.g. https://openavatar.web.app/profile/{uid}")),
		),
		s.handleGetProfile,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("share-link",
			mcp.WithDescription("Return the share link of the signed-in user's profile"),
		),
		s.handleShareLink,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("recent-activity",
			mcp.WithDescription("List the signed-in user's recent account activity, newest first"),
			mcp.WithNumber("limit", mcp.Description(fmt.Sprintf("Maximum events to return (default and max %d)", maxActivity))),
		),
		s.handleRecentActivity,
	)
}

func (s *Server) handleGetProfile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := strings.TrimSpace(request.GetString("uid", ""))
	link := strings.TrimSpace(request.GetString("link", ""))

	var (
		p   *account.Profile
		err error
	)
	switch {
	case uid != "" && link != "":
		return mcp.NewToolResultError("pass either 'uid' or 'link', not both"), nil
	case link != "":
		p, err = s.accounts.OpenLink(ctx, link)
	case uid != "":
		p, err = s.accounts.Profile(ctx, uid)
		if err == nil {
			p = p.Public()
		}
	default:
		p, err = s.accounts.MyProfile(ctx)
	}
	if err != nil {
		return mcp.NewToolResultError(toolError(err)), nil
	}
	return jsonResult(p)
}

func (s *Server) handleShareLink(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	link, err := s.accounts.ShareLink(ctx)
	if err != nil {
		return mcp.NewToolResultError(toolError(err)), nil
	}
	return mcp.NewToolResultText(link), nil
}

func (s *Server) handleRecentActivity(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", maxActivity)
	if limit <= 0 || limit > maxActivity {
		limit = maxActivity
	}
	events, err := s.accounts.Activity(ctx)
	if err != nil {
		return mcp.NewToolResultError(toolError(err)), nil
	}
	if len(events) == 0 {
		return mcp.NewToolResultText("No activity yet"), nil
	}

	var b strings.Builder
	for i := len(events) - 1; i >= 0 && len(events)-1-i < limit; i-- {
		e := events[i]
		fmt.Fprintf(&b, "%s %s/%s", e.Timestamp.UTC().Format("2006-01-02 15:04:05"), e.Kind, e.Action)
		if e.Data != "" {
			fmt.Fprintf(&b, " %s", e.Data)
		}
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(strings.TrimSuffix(b.String(), "\n")), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func toolError(err error) string {
	switch {
	case errors.Is(err, account.ErrNotSignedIn):
		return "not signed in: run `openavatar login` first"
	case errors.Is(err, account.ErrProfileNotFound):
		return "profile not found"
	case errors.Is(err, account.ErrInvalidLink):
		return err.Error()
	}
	return "error: " + err.Error()
}
