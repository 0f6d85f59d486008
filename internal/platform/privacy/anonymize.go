// Package privacy masks personally identifiable information before it
// reaches logs or audit events.
package privacy

import (
	"net"
	"net/netip"
)

// AnonymizeAddr anonymizes a remote address as found on an incoming request.
// A trailing port, if present, is stripped before masking.
func AnonymizeAddr(remoteAddr string) string {
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return AnonymizeIP(host)
	}
	return AnonymizeIP(remoteAddr)
}

// AnonymizeIP truncates an IP so the logged value no longer identifies a
// single host. IPv4 keeps the /24 prefix (last octet zeroed); IPv6 keeps the
// /48 prefix. Empty input maps to "unknown" and unparseable input to
// "invalid", so log fields stay greppable.
func AnonymizeIP(ip string) string {
	if ip == "" || ip == "unknown" {
		return "unknown"
	}

	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return "invalid"
	}

	if addr.Is4() || addr.Is4In6() {
		p, _ := addr.Unmap().Prefix(24)
		return p.Addr().String()
	}

	p, _ := addr.Prefix(48)
	return p.Addr().String()
}
