package supervisor

import (
	"fmt"
	"net"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Endpoint resolves the port a spawned server must listen on and the base
// URL it is reached at. The port comes from rawURL when it names one, else
// defaultPort is used and written into the returned URL.
func Endpoint(rawURL string, defaultPort int) (port int, baseURL string, err error) {
	if rawURL == "" {
		return defaultPort, fmt.Sprintf("http://127.0.0.1:%d", defaultPort), nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return 0, "", fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return 0, "", fmt.Errorf("invalid url %q: must be absolute", rawURL)
	}

	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil {
			return 0, "", fmt.Errorf("invalid port in url %q: %w", rawURL, err)
		}
		return port, strings.TrimSuffix(rawURL, "/"), nil
	}

	u.Host = net.JoinHostPort(u.Hostname(), strconv.Itoa(defaultPort))
	return defaultPort, strings.TrimSuffix(u.String(), "/"), nil
}

// MergeEnv returns base with every entry of overrides applied and PORT set
// to port. Later entries of base win over earlier ones, as they do for
// exec.Cmd.
func MergeEnv(base []string, overrides map[string]string, port int) []string {
	values := make(map[string]string, len(base)+len(overrides)+1)
	order := make([]string, 0, len(base)+len(overrides)+1)

	set := func(key, value string) {
		if _, ok := values[key]; !ok {
			order = append(order, key)
		}
		values[key] = value
	}

	for _, kv := range base {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		set(key, value)
	}

	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		set(key, overrides[key])
	}

	set("PORT", strconv.Itoa(port))

	env := make([]string, 0, len(order))
	for _, key := range order {
		env = append(env, key+"="+values[key])
	}
	return env
}
