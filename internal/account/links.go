package account

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// ShareLink builds the public link for uid under base.
func ShareLink(base, uid string) string {
	return strings.TrimRight(base, "/") + "/profile/" + url.PathEscape(uid)
}

// ParseShareLink extracts the uid from a share link. The uid is the last path
// component, so both full links and bare "profile/{uid}" paths work.
func ParseShareLink(link string) (string, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return "", fmt.Errorf("%w: empty link", ErrInvalidLink)
	}
	u, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidLink, err)
	}
	p := strings.TrimRight(u.Path, "/")
	if p == "" {
		return "", fmt.Errorf("%w: %s has no profile id", ErrInvalidLink, link)
	}
	uid := path.Base(p)
	if uid == "profile" || uid == "." || uid == "/" {
		return "", fmt.Errorf("%w: %s has no profile id", ErrInvalidLink, link)
	}
	return uid, nil
}

// Platform is a recognised social network.
type Platform struct {
	Name   string
	Domain string
}

var platforms = []Platform{
	{Name: "GitHub", Domain: "github.com"},
	{Name: "Stack Overflow", Domain: "stackoverflow.com"},
	{Name: "Twitter", Domain: "twitter.com"},
	{Name: "Facebook", Domain: "facebook.com"},
	{Name: "LinkedIn", Domain: "linkedin.com"},
	{Name: "Instagram", Domain: "instagram.com"},
	{Name: "YouTube", Domain: "youtube.com"},
	{Name: "Reddit", Domain: "reddit.com"},
}

// SocialPlatform returns the platform name for a social link, or the link
// itself when the host is not recognised. Links may omit the scheme.
func SocialPlatform(link string) (name string, known bool) {
	raw := link
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return link, false
	}
	host := strings.ToLower(u.Hostname())
	for _, p := range platforms {
		if host == p.Domain || strings.HasSuffix(host, "."+p.Domain) {
			return p.Name, true
		}
	}
	return link, false
}
