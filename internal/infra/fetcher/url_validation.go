// Package fetcher provides the article extractor: it downloads an article page and
// turns it into title, authors and body with the Readability algorithm.
package fetcher

import (
	"context"
	"fmt"
	"net"
	"net/url"

	"newswire/internal/domain/entity"
)

// validateURL validates a URL before making an HTTP request.
// Syntax is checked with entity.ValidateURL. When denyPrivateIPs is set, the host is
// resolved and loopback, private and link-local addresses are rejected.
//
// Blocked IP ranges (when denyPrivateIPs is true):
//   - 127.0.0.0/8, ::1 (loopback)
//   - 10.0.0.0/8, 172.16.0.0/12, 192.168.0.0/16, fc00::/7 (private)
//   - 169.254.0.0/16, fe80::/10 (link-local)
func validateURL(ctx context.Context, resolver *net.Resolver, urlStr string, denyPrivateIPs bool) error {
	if err := entity.ValidateURL(urlStr); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if !denyPrivateIPs {
		return nil
	}

	u, _ := url.Parse(urlStr)
	hostname := u.Hostname()

	if ip := net.ParseIP(hostname); ip != nil {
		if isPrivateIP(ip) {
			return fmt.Errorf("%w: %s", ErrPrivateIP, ip)
		}
		return nil
	}

	addrs, err := resolver.LookupIPAddr(ctx, hostname)
	if err != nil {
		return fmt.Errorf("%w: DNS lookup failed for %s: %v", ErrInvalidURL, hostname, err)
	}
	for _, addr := range addrs {
		if isPrivateIP(addr.IP) {
			return fmt.Errorf("%w: hostname '%s' resolves to private IP %s", ErrPrivateIP, hostname, addr.IP)
		}
	}
	return nil
}

// isPrivateIP checks if an IP address is loopback, private or link-local.
//
// Reference:
//   - https://tools.ietf.org/html/rfc1918 (Private IPv4)
//   - https://tools.ietf.org/html/rfc4193 (Private IPv6)
func isPrivateIP(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsUnspecified()
}
