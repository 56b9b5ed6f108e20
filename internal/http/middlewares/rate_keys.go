package middlewares

import (
	"net"
	"net/http"
	"strings"
)

// IPPathRateKey genera una key IP + Path (sin leer el body).
func IPPathRateKey(r *http.Request) string {
	return clientIP(r) + "|" + r.URL.Path
}

// IPPathClientRateKey agrega el identifier de Basic auth, así un client
// ruidoso no agota el bucket de otros detrás del mismo NAT. El secret no se usa.
func IPPathClientRateKey(r *http.Request) string {
	key := IPPathRateKey(r)
	if user, _, ok := r.BasicAuth(); ok && user != "" {
		key += "|" + user
	}
	return key
}

// clientIP toma el primer hop de X-Forwarded-For, luego X-Real-IP y por
// último RemoteAddr.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xr := strings.TrimSpace(r.Header.Get("X-Real-IP")); xr != "" {
		return xr
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
