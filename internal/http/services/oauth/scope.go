package oauth

import "strings"

// NegotiateScope valida que requested sea un subconjunto (por tokens separados
// por whitespace) de previous. Devuelve requested tal cual; no se normaliza
// orden ni duplicados.
//
// Un requested vacío solo es válido si previous también lo es.
func NegotiateScope(requested, previous string) (string, error) {
	req := strings.Fields(requested)
	prev := strings.Fields(previous)

	if len(req) == 0 {
		if len(prev) == 0 {
			return requested, nil
		}
		return "", ErrInvalidScope
	}

	granted := make(map[string]struct{}, len(prev))
	for _, s := range prev {
		granted[s] = struct{}{}
	}
	for _, s := range req {
		if _, ok := granted[s]; !ok {
			return "", ErrInvalidScope
		}
	}
	return requested, nil
}
