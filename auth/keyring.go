// Package auth keeps per-host HTTP headers, such as bearer tokens for private media
// servers, in the system keyring and attaches them to remote references.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/vlog-app/vlog/constant"
	"github.com/vlog-app/vlog/log"
	"github.com/vlog-app/vlog/media"
	"github.com/zalando/go-keyring"
)

const (
	service  = constant.Vlog
	hostsKey = "hosts"
)

var ErrInvalidHost = errors.New("invalid host")

func normalizeHost(host string) (string, error) {
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "" || strings.ContainsAny(host, "/ \t") {
		return "", fmt.Errorf("%w: %q", ErrInvalidHost, host)
	}
	return host, nil
}

func userFor(host string) string {
	return "headers:" + host
}

func getJSON(user string, v any) error {
	raw, err := keyring.Get(service, user)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(raw), v)
}

func setJSON(user string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return keyring.Set(service, user, string(raw))
}

// Hosts lists the hosts that have stored headers.
func Hosts() ([]string, error) {
	var hosts []string
	if err := getJSON(hostsKey, &hosts); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	sort.Strings(hosts)
	return hosts, nil
}

// Headers returns the headers stored for host. A host without headers yields an empty map.
func Headers(host string) (map[string]string, error) {
	host, err := normalizeHost(host)
	if err != nil {
		return nil, err
	}

	headers := make(map[string]string)
	if err := getJSON(userFor(host), &headers); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return nil, err
	}
	return headers, nil
}

// SetHeader stores one header for host, replacing a previous value.
func SetHeader(host, name, value string) error {
	host, err := normalizeHost(host)
	if err != nil {
		return err
	}

	headers, err := Headers(host)
	if err != nil {
		return err
	}
	headers[name] = value

	if err := setJSON(userFor(host), headers); err != nil {
		return err
	}

	hosts, err := Hosts()
	if err != nil {
		return err
	}
	return setJSON(hostsKey, lo.Uniq(append(hosts, host)))
}

// DeleteHeaders forgets every header stored for host.
func DeleteHeaders(host string) error {
	host, err := normalizeHost(host)
	if err != nil {
		return err
	}

	if err := keyring.Delete(service, userFor(host)); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}

	hosts, err := Hosts()
	if err != nil {
		return err
	}
	return setJSON(hostsKey, lo.Without(hosts, host))
}

// Apply attaches stored headers to a remote reference. Headers already on the
// reference take precedence. Keyring failures leave the reference as it is.
func Apply(ref media.Reference) media.Reference {
	if !ref.IsRemote() {
		return ref
	}

	stored, err := Headers(ref.Host())
	if err != nil {
		log.Warn("reading stored headers: ", err)
		return ref
	}
	if len(stored) == 0 {
		return ref
	}

	return ref.WithHeaders(lo.Assign(stored, ref.Headers))
}
