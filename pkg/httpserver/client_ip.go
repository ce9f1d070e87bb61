package httpserver

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
)

// clientIP resolves the originating client address. The immediate peer
// address is authoritative unless it belongs to a trusted proxy, in which
// case the Forwarded (then X-Forwarded-For) chain is walked right to left
// until the first untrusted hop.
func (s *Server) clientIP(r *http.Request) string {
	peer := parseAddr(r.RemoteAddr)
	if peer == nil {
		return ""
	}
	if !s.trustedProxies.IsTrusted(peer) {
		return peer.String()
	}

	chain := forwardedChain(r.Header.Get("Forwarded"))
	if len(chain) == 0 {
		chain = xForwardedChain(r.Header.Get("X-Forwarded-For"))
	}
	if len(chain) == 0 {
		return peer.String()
	}

	for i := len(chain) - 1; i >= 0; i-- {
		if !s.trustedProxies.IsTrusted(chain[i]) {
			return chain[i].String()
		}
	}
	return chain[0].String()
}

// forwardedChain extracts the for= addresses of an RFC 7239 Forwarded
// header, in order.
func forwardedChain(header string) []net.IP {
	if header == "" {
		return nil
	}
	var out []net.IP
	for _, elem := range strings.Split(header, ",") {
		for _, param := range strings.Split(elem, ";") {
			kv := strings.SplitN(strings.TrimSpace(param), "=", 2)
			if len(kv) != 2 || !strings.EqualFold(strings.TrimSpace(kv[0]), "for") {
				continue
			}
			if ip := parseAddr(strings.Trim(strings.TrimSpace(kv[1]), "\"")); ip != nil {
				out = append(out, ip)
			}
		}
	}
	return out
}

func xForwardedChain(header string) []net.IP {
	if header == "" {
		return nil
	}
	var out []net.IP
	for _, part := range strings.Split(header, ",") {
		if ip := parseAddr(strings.TrimSpace(part)); ip != nil {
			out = append(out, ip)
		}
	}
	return out
}

// parseAddr parses an IP out of the forms forwarded headers and RemoteAddr
// use: bare IP, host:port, bracketed IPv6, with optional zone.
func parseAddr(value string) net.IP {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "unknown") {
		return nil
	}
	if h, _, err := net.SplitHostPort(value); err == nil {
		value = h
	}
	value = strings.Trim(value, "[]")
	if zone := strings.Index(value, "%"); zone != -1 {
		value = value[:zone]
	}
	return net.ParseIP(value)
}

// proxyMatcher answers whether an address belongs to the trusted proxy
// set. A nil matcher trusts nothing.
type proxyMatcher struct {
	ips  map[string]struct{}
	nets []*net.IPNet
}

func newProxyMatcher(entries []string, logger *slog.Logger) *proxyMatcher {
	if len(entries) == 0 {
		return nil
	}

	ips := make(map[string]struct{})
	var nets []*net.IPNet

	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			_, network, err := net.ParseCIDR(entry)
			if err != nil {
				logger.Warn("invalid trusted proxy CIDR", "entry", entry, "error", err)
				continue
			}
			nets = append(nets, network)
			continue
		}
		ip := net.ParseIP(entry)
		if ip == nil {
			logger.Warn("invalid trusted proxy IP", "entry", entry)
			continue
		}
		ips[ip.String()] = struct{}{}
	}

	if len(ips) == 0 && len(nets) == 0 {
		return nil
	}
	return &proxyMatcher{ips: ips, nets: nets}
}

func (m *proxyMatcher) IsTrusted(ip net.IP) bool {
	if m == nil || ip == nil {
		return false
	}
	if _, ok := m.ips[ip.String()]; ok {
		return true
	}
	for _, network := range m.nets {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}
