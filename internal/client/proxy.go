// ABOUTME: SSH+SOCKS5 tunnel support for reaching a backend behind a jump host
// ABOUTME: Parses ssh+socks5://user@host:port?private-key=/path URLs

package client

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	proxy "github.com/cloudfoundry/socks5-proxy"
)

// proxyConfig is the parsed form of an ssh+socks5:// URL
type proxyConfig struct {
	username string
	host     string
	keyPath  string
}

func parseAllProxy(allProxy string) (*proxyConfig, error) {
	allProxy = strings.TrimPrefix(allProxy, "ssh+")

	proxyURL, err := url.Parse(allProxy)
	if err != nil {
		return nil, fmt.Errorf("parsing proxy url: %w", err)
	}
	if proxyURL.Scheme != "socks5" {
		return nil, fmt.Errorf("unsupported proxy scheme %q", proxyURL.Scheme)
	}
	if proxyURL.Host == "" {
		return nil, fmt.Errorf("proxy url has no host")
	}

	queryMap, err := url.ParseQuery(proxyURL.RawQuery)
	if err != nil {
		return nil, fmt.Errorf("parsing proxy query params: %w", err)
	}

	cfg := &proxyConfig{host: proxyURL.Host, keyPath: queryMap.Get("private-key")}
	if proxyURL.User != nil {
		cfg.username = proxyURL.User.Username()
	}
	if cfg.keyPath == "" {
		return nil, fmt.Errorf("proxy url missing required 'private-key' query param")
	}
	return cfg, nil
}

// createSOCKS5DialContextFunc returns nil (direct connections) when the proxy
// URL is unusable. The SSH tunnel is opened lazily on first dial.
func createSOCKS5DialContextFunc(allProxy string) func(ctx context.Context, network, address string) (net.Conn, error) {
	cfg, err := parseAllProxy(allProxy)
	if err != nil {
		slog.Error("Ignoring VENUE_ALL_PROXY", "error", err)
		return nil
	}

	key, err := os.ReadFile(cfg.keyPath)
	if err != nil {
		slog.Error("Failed to read SSH private key", "path", cfg.keyPath, "error", err)
		return nil
	}

	socks5Proxy := proxy.NewSocks5Proxy(proxy.NewHostKey(), log.Default(), 1*time.Minute)

	var (
		dialer proxy.DialFunc
		mut    sync.Mutex
	)
	return func(ctx context.Context, network, address string) (net.Conn, error) {
		mut.Lock()
		if dialer == nil {
			d, err := socks5Proxy.Dialer(cfg.username, string(key), cfg.host)
			if err != nil {
				mut.Unlock()
				return nil, fmt.Errorf("error creating SOCKS5 dialer: %w", err)
			}
			dialer = d
		}
		d := dialer
		mut.Unlock()
		return d(network, address)
	}
}
