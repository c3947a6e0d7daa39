package playlist

import (
	"context"
	"net/http"

	"github.com/vlog-app/vlog/internal/cache"
	"github.com/vlog-app/vlog/network"
	lua "github.com/yuin/gopher-lua"
)

// registerHTTP installs the http_tls module:
//
//	http_tls.get(url [, headers])                              -> body
//	http_tls.request({method, url, headers, body, cache})      -> {status, body}
func registerHTTP(L *lua.LState) {
	mod := L.NewTable()
	L.SetField(mod, "get", L.NewFunction(httpGet))
	L.SetField(mod, "request", L.NewFunction(httpRequest))
	L.SetGlobal("http_tls", mod)
}

func stateContext(L *lua.LState) context.Context {
	if ctx := L.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func tableToHeaders(tbl *lua.LTable) map[string]string {
	headers := make(map[string]string)
	if tbl != nil {
		tbl.ForEach(func(k, v lua.LValue) {
			headers[k.String()] = v.String()
		})
	}
	return headers
}

func httpGet(L *lua.LState) int {
	url := L.CheckString(1)
	headers := tableToHeaders(L.OptTable(2, nil))

	resp, err := network.Fetch(stateContext(L), http.MethodGet, url, headers, "")
	if err != nil {
		L.RaiseError("http_tls.get failed: %s", err.Error())
		return 0
	}

	L.Push(lua.LString(resp.Body))
	return 1
}

type cachedResponse struct {
	Status int    `json:"status"`
	Body   string `json:"body"`
}

func httpRequest(L *lua.LState) int {
	opts := L.CheckTable(1)

	field := func(key, def string) string {
		if val := opts.RawGetString(key); val != lua.LNil {
			return val.String()
		}
		return def
	}

	method := field("method", http.MethodGet)
	url := field("url", "")
	body := field("body", "")
	if url == "" {
		L.RaiseError("http_tls.request: url is required")
		return 0
	}

	headersTbl, _ := opts.RawGetString("headers").(*lua.LTable)
	headers := tableToHeaders(headersTbl)
	useCache := lua.LVAsBool(opts.RawGetString("cache"))

	push := func(status int, body string) int {
		result := L.NewTable()
		L.SetField(result, "status", lua.LNumber(status))
		L.SetField(result, "body", lua.LString(body))
		L.Push(result)
		return 1
	}

	key := cache.Key(method, url, body)
	if useCache {
		var entry cachedResponse
		if cache.Read(key, &entry) {
			return push(entry.Status, entry.Body)
		}
	}

	resp, err := network.Fetch(stateContext(L), method, url, headers, body)
	if err != nil {
		L.RaiseError("http_tls.request failed: %s", err.Error())
		return 0
	}

	if useCache && resp.Status == http.StatusOK {
		_ = cache.Write(key, cachedResponse{Status: resp.Status, Body: resp.Body})
	}
	return push(resp.Status, resp.Body)
}
