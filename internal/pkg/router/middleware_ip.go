package router

import (
	"net"
	"net/http"
	"strings"
)

func middlewareIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rip := realIP(r); rip != "" {
			r.RemoteAddr = rip
		}
		next.ServeHTTP(w, r)
	})
}

func realIP(r *http.Request) string {
	var ip string
	switch {
	case r.Header.Get("True-Client-IP") != "":
		ip = r.Header.Get("True-Client-IP")
	case r.Header.Get("X-Real-IP") != "":
		ip = r.Header.Get("X-Real-IP")
	case r.Header.Get("X-Forwarded-For") != "":
		ip, _, _ = strings.Cut(r.Header.Get("X-Forwarded-For"), ",")
	}

	ip = strings.TrimSpace(ip)
	if ip != "" && net.ParseIP(ip) != nil {
		return ip
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && net.ParseIP(host) != nil {
		return host
	}
	return ""
}
