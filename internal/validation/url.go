// Package validation checks user input before it reaches the ThingsBoard API.
//
// ValidateBaseURL guards the configured server address against SSRF
// targets. ThingsBoard is commonly self-hosted on a LAN or on localhost, so
// private and loopback addresses are accepted unless TB_ALLOW_PRIVATE is set
// to a false value (0, f, false, FALSE, ...) or SetAllowPrivate(false) is
// called. Cloud metadata, link-local and unspecified addresses are always
// rejected.
package validation

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

var allowPrivate atomic.Bool

// privateNetworks holds the RFC1918, CGNAT, documentation and reserved
// ranges rejected when private addresses are disallowed.
var privateNetworks = mustParseCIDRs(
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"100.64.0.0/10",
	"192.0.0.0/24",
	"192.0.2.0/24",
	"198.18.0.0/15",
	"198.51.100.0/24",
	"203.0.113.0/24",
	"240.0.0.0/4",
	"fc00::/7",
	"100::/64",
	"2001:db8::/32",
)

var metadataHosts = map[string]bool{
	"169.254.169.254":          true,
	"169.254.170.2":            true, // ECS task metadata
	"100.100.100.200":          true, // Alibaba
	"fd00:ec2::254":            true,
	"metadata":                 true,
	"metadata.google.internal": true,
	"instance-data":            true,
}

func init() {
	allowPrivate.Store(parseAllowPrivate(os.Getenv("TB_ALLOW_PRIVATE")))
}

func parseAllowPrivate(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return true
	}
	return v
}

func mustParseCIDRs(cidrs ...string) []*net.IPNet {
	out := make([]*net.IPNet, 0, len(cidrs))
	for _, cidr := range cidrs {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			panic(err)
		}
		out = append(out, network)
	}
	return out
}

// SetAllowPrivate toggles acceptance of private and loopback addresses.
func SetAllowPrivate(enabled bool) {
	allowPrivate.Store(enabled)
}

// AllowPrivateEnabled reports the current private address policy.
func AllowPrivateEnabled() bool {
	return allowPrivate.Load()
}

// ValidateBaseURL checks a ThingsBoard server address. It must be an http
// or https URL with a host, carry no query or fragment, and must not point
// at a cloud metadata service. Host names are resolved and every address
// is checked; names that do not resolve are accepted.
func ValidateBaseURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return fmt.Errorf("URL cannot be empty")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: only http and https are allowed, got %q", u.Scheme)
	}
	host := u.Hostname()
	if host == "" {
		return fmt.Errorf("URL must contain a hostname")
	}
	if u.User != nil {
		return fmt.Errorf("URL must not embed credentials")
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("URL must not contain a query or fragment")
	}
	if isCloudMetadata(host) {
		return fmt.Errorf("cloud metadata endpoints are not allowed")
	}

	if ip := net.ParseIP(host); ip != nil {
		return checkIP(ip)
	}
	if isLocalhost(host) {
		if !allowPrivate.Load() {
			return fmt.Errorf("localhost URLs are not allowed (set TB_ALLOW_PRIVATE=1)")
		}
		return nil
	}
	return checkResolved(host)
}

func isLocalhost(host string) bool {
	host = strings.ToLower(host)
	return host == "localhost" || strings.HasSuffix(host, ".localhost")
}

func isCloudMetadata(host string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	return metadataHosts[host] || strings.HasSuffix(host, ".metadata.google.internal")
}

func checkIP(ip net.IP) error {
	if metadataHosts[ip.String()] {
		return fmt.Errorf("cloud metadata IP address is not allowed")
	}
	if ip.IsUnspecified() {
		return fmt.Errorf("unspecified IP addresses are not allowed")
	}
	if ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsMulticast() {
		return fmt.Errorf("link-local and multicast IP addresses are not allowed")
	}
	if allowPrivate.Load() {
		return nil
	}
	if ip.IsLoopback() {
		return fmt.Errorf("loopback IP addresses are not allowed (set TB_ALLOW_PRIVATE=1)")
	}
	if isPrivateIP(ip) {
		return fmt.Errorf("private IP addresses are not allowed (set TB_ALLOW_PRIVATE=1)")
	}
	return nil
}

func isPrivateIP(ip net.IP) bool {
	for _, network := range privateNetworks {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

var lookupIP = func(ctx context.Context, host string) ([]net.IP, error) {
	return net.DefaultResolver.LookupIP(ctx, "ip", host)
}

func checkResolved(host string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ips, err := lookupIP(ctx, host)
	if err != nil {
		return nil
	}
	for _, ip := range ips {
		if err := checkIP(ip); err != nil {
			return fmt.Errorf("domain %q resolves to forbidden IP %s: %w", host, ip, err)
		}
	}
	return nil
}
