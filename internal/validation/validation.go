// Package validation holds the shared field checks used by services whose
// input does not always arrive through gin binding.
package validation

import (
	"errors"
	"net"
	"net/netip"
	"net/url"
	"strings"
	"syscall"

	"github.com/go-playground/validator/v10"
)

// ErrPrivateAddress is returned when an outbound connection would reach a
// loopback, private or link-local address.
var ErrPrivateAddress = errors.New("private_address")

var validate = validator.New()

func Email(v string) bool {
	return validate.Var(v, "required,email,max=255") == nil
}

func URL(v string) bool {
	return validate.Var(v, "required,url,max=2048") == nil
}

// PublicHTTPURL accepts http(s) URLs whose host is not a literal internal
// address. Names are resolved and checked again at dial time by DialControl.
func PublicHTTPURL(v string) bool {
	if validate.Var(v, "required,http_url,max=2048") != nil {
		return false
	}
	u, err := url.Parse(v)
	if err != nil {
		return false
	}
	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return false
	}
	if addr, err := netip.ParseAddr(host); err == nil {
		return PublicAddr(addr)
	}
	return true
}

// PublicAddr reports whether addr is routable on the public internet.
func PublicAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	switch {
	case !addr.IsValid(),
		addr.IsUnspecified(),
		addr.IsLoopback(),
		addr.IsPrivate(),
		addr.IsLinkLocalUnicast(),
		addr.IsLinkLocalMulticast(),
		addr.IsInterfaceLocalMulticast(),
		addr.IsMulticast(),
		sharedAddressSpace.Contains(addr):
		return false
	}
	return true
}

// 100.64.0.0/10 carrier grade NAT, used for internal addressing by some clouds.
var sharedAddressSpace = netip.MustParsePrefix("100.64.0.0/10")

// DialControl is a net.Dialer Control hook that refuses internal addresses
// after DNS resolution.
func DialControl(network, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return err
	}
	if !PublicAddr(addr) {
		return ErrPrivateAddress
	}
	return nil
}
