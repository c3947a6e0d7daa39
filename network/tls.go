package network

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/http2"
)

const browserTimeout = 30 * time.Second

// BrowserUserAgent is sent by Fetch unless overridden.
const BrowserUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Response is a fully read HTTP response.
type Response struct {
	Status  int
	Body    string
	Headers http.Header
}

var (
	h2Transport     *http2.Transport
	h2TransportOnce sync.Once
)

func browserH2() *http2.Transport {
	h2TransportOnce.Do(func() {
		h2Transport = &http2.Transport{
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				return dialBrowser(ctx, network, addr, nil)
			},
		}
	})
	return h2Transport
}

var browserH1 = &http.Transport{
	DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
		return dialBrowser(ctx, network, addr, []string{"http/1.1"})
	},
}

// Fetch performs a request with a Chrome TLS fingerprint, used by playlist scripts
// whose media hosts reject stock Go clients. HTTP/2 is tried first and HTTP/1.1 is
// the fallback. Plain http URLs go through Client.
func Fetch(ctx context.Context, method, rawURL string, headers map[string]string, body string) (Response, error) {
	newRequest := func() (*http.Request, error) {
		var reader io.Reader
		if body != "" {
			reader = strings.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}

		req.Header.Set("User-Agent", BrowserUserAgent)
		req.Header.Set("Accept", "*/*")
		req.Header.Set("Accept-Language", "en-US,en;q=0.5")
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		return req, nil
	}

	req, err := newRequest()
	if err != nil {
		return Response{}, err
	}

	if req.URL.Scheme != "https" {
		return do(Client, req)
	}

	resp, err := do(&http.Client{Timeout: browserTimeout, Transport: browserH2()}, req)
	if err == nil {
		return resp, nil
	}

	if req, err = newRequest(); err != nil {
		return Response{}, err
	}
	return do(&http.Client{Timeout: browserTimeout, Transport: browserH1}, req)
}

func do(client *http.Client, req *http.Request) (Response, error) {
	resp, err := client.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{Status: resp.StatusCode}, fmt.Errorf("read body: %w", err)
	}

	return Response{Status: resp.StatusCode, Body: string(data), Headers: resp.Header}, nil
}

// dialBrowser opens a uTLS connection mimicking Chrome. Nil protos keep Chrome's own ALPN list.
func dialBrowser(ctx context.Context, network, addr string, protos []string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	dialer := &net.Dialer{Timeout: browserTimeout}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	tlsConn := utls.UClient(conn, &utls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
		NextProtos: protos,
	}, utls.HelloChrome_120)

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("tls handshake: %w", err)
	}

	return tlsConn, nil
}
