// Package detector maps canonical URLs to their source platform and derives
// platform specific identifiers (YouTube video ids, fallback thumbnails, app links).
package detector

import (
	"net/url"
	"strings"

	"nestly/models"
)

type platformRule struct {
	platform models.Platform
	domains  []string
}

// rules 는 순서대로 검사하며 처음 일치한 플랫폼을 사용한다.
var rules = []platformRule{
	{platform: models.PlatformInstagram, domains: []string{"instagram.com"}},
	{platform: models.PlatformTikTok, domains: []string{"tiktok.com"}},
	{platform: models.PlatformYouTube, domains: []string{"youtu.be", "youtube.com"}},
	{platform: models.PlatformTwitter, domains: []string{"twitter.com", "x.com"}},
	{platform: models.PlatformReddit, domains: []string{"reddit.com"}},
	{platform: models.PlatformLinkedIn, domains: []string{"linkedin.com"}},
	{platform: models.PlatformFacebook, domains: []string{"facebook.com", "fb.com"}},
	{platform: models.PlatformPinterest, domains: []string{"pinterest.com"}},
}

// Detect never fails: unparseable or unknown hosts map to models.PlatformWeb.
func Detect(canonicalURL string) models.Platform {
	host := hostOf(canonicalURL)
	if host == "" {
		return models.PlatformWeb
	}
	for _, rule := range rules {
		for _, domain := range rule.domains {
			if matchesDomain(host, domain) {
				return rule.platform
			}
		}
	}
	return models.PlatformWeb
}

// matchesDomain matches the domain itself or any of its subdomains (m.youtube.com, vm.tiktok.com).
func matchesDomain(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

// YouTubeID extracts the video id from youtu.be/<id>, ?v=<id>, /shorts/<id> or /embed/<id>,
// tried in that order. Returns "" when none applies.
func YouTubeID(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	parts := pathSegments(u.Path)

	if strings.Contains(host, "youtu.be") {
		if len(parts) > 0 {
			return parts[0]
		}
		return ""
	}
	if v := u.Query().Get("v"); v != "" {
		return v
	}
	for _, marker := range []string{"shorts", "embed"} {
		for i, p := range parts {
			if p == marker && i+1 < len(parts) {
				return parts[i+1]
			}
		}
	}
	return ""
}

// FallbackThumbnail returns a best-effort preview image for items without one:
// the YouTube hqdefault frame, otherwise the site's favicon.
func FallbackThumbnail(raw string) string {
	if id := YouTubeID(raw); id != "" {
		return "https://i.ytimg.com/vi/" + id + "/hqdefault.jpg"
	}
	host := hostOf(raw)
	if host == "" {
		return ""
	}
	return "https://www.google.com/s2/favicons?sz=128&domain=" + url.QueryEscape(host)
}

// AppLink returns the native app deep link for raw when one exists, otherwise raw.
func AppLink(raw string) string {
	if Detect(raw) != models.PlatformYouTube {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if v := u.Query().Get("v"); v != "" {
		return "vnd.youtube://" + v
	}
	if parts := pathSegments(u.Path); len(parts) > 0 {
		return "vnd.youtube://" + parts[len(parts)-1]
	}
	return raw
}

func pathSegments(p string) []string {
	var out []string
	for _, seg := range strings.Split(p, "/") {
		if seg != "" {
			out = append(out, seg)
		}
	}
	return out
}
