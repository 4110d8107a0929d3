package validation

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmail(t *testing.T) {
	assert.True(t, Email("jane@example.com"))
	for _, v := range []string{"", "not-an-email", "Jane Driver <jane@example.com>", "jane@localhost"} {
		assert.False(t, Email(v), v)
	}
}

func TestURL(t *testing.T) {
	assert.True(t, URL("https://files.example.com/a.pdf"))
	assert.False(t, URL("a.pdf"))
	assert.False(t, URL(""))
}

func TestPublicHTTPURL(t *testing.T) {
	assert.True(t, PublicHTTPURL("https://cdn.example.com/logo.png"))
	for _, v := range []string{
		"ftp://cdn.example.com/logo.png",
		"http://169.254.169.254/latest/meta-data/",
		"http://127.0.0.1:6379/",
		"http://localhost:5432/x.png",
		"http://api.localhost/x.png",
		"http://10.0.0.8/logo.png",
		"http://[::1]/logo.png",
		"http://[::ffff:127.0.0.1]/logo.png",
		"http://0.0.0.0/logo.png",
	} {
		assert.False(t, PublicHTTPURL(v), v)
	}
}

func TestDialControl(t *testing.T) {
	assert.NoError(t, DialControl("tcp4", "93.184.216.34:443", nil))
	assert.ErrorIs(t, DialControl("tcp4", "127.0.0.1:80", nil), ErrPrivateAddress)
	assert.ErrorIs(t, DialControl("tcp4", "100.100.1.1:80", nil), ErrPrivateAddress)
	assert.ErrorIs(t, DialControl("tcp6", "[fe80::1]:80", nil), ErrPrivateAddress)
	assert.Error(t, DialControl("tcp4", "nonsense", nil))
}

func TestPublicAddr(t *testing.T) {
	assert.True(t, PublicAddr(netip.MustParseAddr("1.1.1.1")))
	assert.False(t, PublicAddr(netip.MustParseAddr("192.168.1.10")))
}
